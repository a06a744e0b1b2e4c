package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	clockTag  = "hhmm"
	clockText = "{0} must be a time formatted as HH:MM"

	dateTag  = "ymd"
	dateText = "{0} must be a date formatted as YYYY-MM-DD"

	endAfterStartTag  = "endafterstart"
	endAfterStartText = "{0} must be after startTime"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	_ = validate.RegisterValidation(clockTag, clockValidation)
	RegisterCustomTranslation(validate, translator, clockTag, clockText)

	_ = validate.RegisterValidation(dateTag, dateValidation)
	RegisterCustomTranslation(validate, translator, dateTag, dateText)

	RegisterCustomTranslation(validate, translator, endAfterStartTag, endAfterStartText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// "{0}" in text is replaced by the field name.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// notBlankValidation rejects strings made only of whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func clockValidation(fl validator.FieldLevel) bool {
	_, ok := ClockMinutes(fl.Field().String())
	return ok
}

func dateValidation(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

// ValidateTimeRange reports an "endTime" error when both clock times are valid and end is not after start.
// Meant to be called from struct level validations.
func ValidateTimeRange(sl validator.StructLevel, start, end string) {
	s, okStart := ClockMinutes(start)
	e, okEnd := ClockMinutes(end)
	if okStart && okEnd && e <= s {
		sl.ReportError(end, "endTime", "EndTime", endAfterStartTag, "")
	}
}
