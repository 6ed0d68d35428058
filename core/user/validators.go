package user

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/visualminds/core"
)

var (
	classLevelTag  = "classlevel"
	classLevelText = "class level must be one of 3, 4 or 5"

	avatarTag  = "avatar"
	avatarText = "avatar must be an emoji or an image link"

	// data URLs of a few large photos are what used to blow the storage quota
	avatarMaxLen = 512 * 1024
)

// InitValidators registers the user validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(classLevelTag, classLevelValidation)
	core.RegisterCustomTranslation(validate, translator, classLevelTag, classLevelText)

	_ = validate.RegisterValidation(avatarTag, avatarValidation)
	core.RegisterCustomTranslation(validate, translator, avatarTag, avatarText)
}

// Custom Validators

// classLevelValidation checks that the class level is one of AllClassLevels.
func classLevelValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case ClassLevel:
		return v.IsValid()
	case string:
		return ClassLevel(v).IsValid()
	}
	return false
}

// avatarValidation accepts a short glyph, an http(s) link or an image data URL.
func avatarValidation(fl validator.FieldLevel) bool {
	avatar := fl.Field().String()
	switch {
	case strings.HasPrefix(avatar, "data:image/"):
		return len(avatar) <= avatarMaxLen
	case strings.HasPrefix(avatar, "http://"), strings.HasPrefix(avatar, "https://"):
		return true
	default:
		return len([]rune(avatar)) <= 8
	}
}
