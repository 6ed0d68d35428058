package geminitutor

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/visualminds/core"
	tutorsvc "github.com/trezcool/visualminds/services/tutor"
)

// generator is the part of the genai client used by Service.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service asks Google Gemini. It never fails: any problem gives core.TutorFallback.
type Service struct {
	models  generator
	model   string
	timeout time.Duration
	logger  core.Logger
}

var _ core.Tutor = (*Service)(nil)

// New returns a Service. Without an API key every question gets the fallback.
func New(ctx context.Context, conf core.TutorConfig, logger core.Logger) (*Service, error) {
	svc := &Service{model: conf.Model, timeout: conf.Timeout, logger: logger}
	if conf.APIKey == "" {
		logger.Warn("no tutor API key configured, the tutor will answer with its fallback")
		return svc, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  conf.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}
	svc.models = client.Models
	return svc, nil
}

func (svc *Service) Ask(ctx context.Context, question, contextLabel string) string {
	if svc.models == nil {
		return tutorsvc.Fallback(svc.logger, "no_api_key", nil)
	}
	if strings.TrimSpace(question) == "" {
		return tutorsvc.Fallback(svc.logger, "empty_question", nil)
	}

	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}

	resp, err := svc.models.GenerateContent(
		ctx,
		svc.model,
		genai.Text(tutorsvc.Prompt(question, contextLabel)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(tutorsvc.SystemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return tutorsvc.Fallback(svc.logger, "request_failed", errors.Wrap(err, "generating tutor answer"))
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return tutorsvc.Fallback(svc.logger, "empty_answer", nil)
	}
	return answer
}
