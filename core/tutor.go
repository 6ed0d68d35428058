package core

import "context"

// TutorFallback is what a Tutor answers whenever the remote service cannot.
const TutorFallback = "Oops! My thinking cap fell off. Please ask me again in a moment! 🎩"

// Tutor answers a student's free-text question, optionally scoped by a context label
// (e.g. the chapter being studied). It never fails: errors are turned into TutorFallback.
type Tutor interface {
	Ask(ctx context.Context, question, contextLabel string) string
}
