package consoletutor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/trezcool/visualminds/core"
	tutorsvc "github.com/trezcool/visualminds/services/tutor"
)

// Service answers every question with a canned reply and prints the prompt.
// Used when no API key is configured in debug, and in tests.
type Service struct {
	out io.Writer
}

var _ core.Tutor = (*Service)(nil)

func New(out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	return &Service{out: out}
}

func (svc *Service) Ask(ctx context.Context, question, contextLabel string) string {
	if ctx.Err() != nil || strings.TrimSpace(question) == "" {
		return core.TutorFallback
	}
	_, _ = fmt.Fprintf(svc.out, "----- tutor prompt -----\n%s\n", tutorsvc.Prompt(question, contextLabel))
	return Answer(question)
}

// Answer is the canned reply to question.
func Answer(question string) string {
	return fmt.Sprintf("Great question! Let's think about %q together: look at your lesson again and try to explain it in your own words.", strings.TrimSpace(question))
}
