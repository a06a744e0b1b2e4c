package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

var (
	weekdaysTag  = "weekdays"
	weekdaysText = "{0} keys must be weekday names (Monday to Sunday)"

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// InitValidators registers the user validations. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(weekdaysTag, weekdaysValidation)
	core.RegisterCustomTranslation(validate, translator, weekdaysTag, weekdaysText)

	validate.RegisterStructValidation(userStructValidation, NewUser{}, ResetPassword{}, ChangePassword{}, UpdateProfile{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

// Custom Validators

// weekdaysValidation checks that every key of a map is a weekday name.
func weekdaysValidation(fl validator.FieldLevel) bool {
	days, ok := fl.Field().Interface().(map[string]float64)
	if !ok {
		return false
	}
	for day := range days {
		if !isWeekday(day) {
			return false
		}
	}
	return true
}

func isWeekday(day string) bool {
	for _, wd := range Weekdays {
		if day == wd {
			return true
		}
	}
	return false
}

// userStructValidation applies the password policy to the structs carrying a new password.
func userStructValidation(sl validator.StructLevel) {
	switch v := sl.Current().Interface().(type) {
	case NewUser:
		validatePassword(v.Password, v.Username, v.Email, sl)
	case ResetPassword:
		validatePassword(v.Password, "", v.Email, sl)
	case ChangePassword:
		validatePassword(v.Password, v.Username, v.Email, sl)
	case UpdateProfile:
		if v.Password == "" {
			return
		}
		var uname, email string
		if v.current != nil {
			uname, email = v.current.Username, v.current.Email
		}
		if v.Username != nil {
			uname = *v.Username
		}
		validatePassword(v.Password, uname, email, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 6
// - no whitespace
// - no user attrs similarity
func validatePassword(pwd, uname, email string, sl validator.StructLevel) {
	if pwd == "" { // reported by `required` when mandatory
		return
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	if len([]rune(pwd)) < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pass), ""), strings.Split(strings.ToLower(usrAttr), "")).QuickRatio()
	}
	if getRatio(pwd, uname) >= pwdMaxSim || getRatio(pwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
	}
}
