package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/portal"
)

// stageMiddleware lets requests through only when the session is at one of stages.
func stageMiddleware(store *portal.Store, stages ...portal.Stage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			current := store.Session().Stage()
			for _, stage := range stages {
				if current == stage {
					return next(ctx)
				}
			}
			switch current {
			case portal.StageLoggedOut:
				return errNotLoggedIn
			case portal.StageSelectClass:
				return errClassNotChosen
			default:
				return errHttpForbidden
			}
		}
	}
}

func loggedInMiddleware(store *portal.Store) echo.MiddlewareFunc {
	return stageMiddleware(store, portal.StageSelectClass, portal.StageStudent, portal.StageAdmin)
}

func adminMiddleware(store *portal.Store) echo.MiddlewareFunc {
	return stageMiddleware(store, portal.StageAdmin)
}

// studentMiddleware requires a student who has selected a class.
func studentMiddleware(store *portal.Store) echo.MiddlewareFunc {
	return stageMiddleware(store, portal.StageStudent)
}

// sessionLogger attaches the logged in user to every log entry.
type sessionLogger struct {
	core.Logger
	store *portal.Store
}

func (l sessionLogger) withUser(args []interface{}) []interface{} {
	if usr, ok := l.store.CurrentUser(); ok {
		return append(args, usr)
	}
	return args
}

func (l sessionLogger) Error(msg string, args ...interface{}) {
	l.Logger.Error(msg, l.withUser(args)...)
}

func (l sessionLogger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(msg, l.withUser(args)...)
}
