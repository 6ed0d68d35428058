package tutorsvc

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/visualminds/core"
)

// SystemInstruction sets the tone of every answer.
const SystemInstruction = `You are a friendly and patient tutor for primary school students (classes 3 to 5).
Explain things simply, in a few short sentences, with everyday examples.
Be encouraging. If a question is not suitable for a child, gently steer back to learning.`

var fallbacks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "visualminds_tutor_fallbacks_total",
		Help: "Total number of tutor questions answered with the fallback, by reason",
	},
	[]string{"reason"},
)

// Prompt builds the question sent to the model, prefixed by the context label when set.
func Prompt(question, contextLabel string) string {
	question = strings.TrimSpace(question)
	if label := strings.TrimSpace(contextLabel); label != "" {
		return "We are studying: " + label + ".\n\nQuestion: " + question
	}
	return question
}

// Fallback logs why the tutor could not answer, and returns core.TutorFallback.
func Fallback(logger core.Logger, reason string, err error) string {
	fallbacks.WithLabelValues(reason).Inc()
	if err != nil {
		logger.Warn("tutor fallback: "+reason, err)
	} else {
		logger.Warn("tutor fallback: " + reason)
	}
	return core.TutorFallback
}
