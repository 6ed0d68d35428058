package content

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/visualminds/core"
)

var (
	correctAnswerTag  = "correctanswer"
	correctAnswerText = "correct answer must point to one of the options"
)

// InitValidators registers the content validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(questionStructValidation, Question{})
	core.RegisterCustomTranslation(validate, translator, correctAnswerTag, correctAnswerText)
}

// Validate checks the item against its validation tags.
func Validate(validate *validator.Validate, item Item) error {
	switch it := item.(type) {
	case Video, MindMap, Quiz:
		return validate.Struct(it)
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "unknown content kind"})
	}
}

// questionStructValidation checks that the correct answer indexes one of the options.
func questionStructValidation(sl validator.StructLevel) {
	if qn, ok := sl.Current().Interface().(Question); ok {
		if qn.CorrectAnswer < 0 || qn.CorrectAnswer >= len(qn.Options) {
			sl.ReportError(qn.CorrectAnswer, "correctAnswer", "CorrectAnswer", correctAnswerTag, "")
		}
	}
}
