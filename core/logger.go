package core

// Logger logs a message along with optional args.
// expected args: error, map[string]interface{}, user.User (sets the person being served)
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	// Sync flushes buffered entries; call it before exiting.
	Sync() error
}
