package core

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "this field is required"

	departmentTag  = "department"
	departmentText = "unknown department"

	meetDateTag    = "meetdate"
	meetDateText   = "date must be formatted as YYYY-MM-DD"
	meetDateLayout = "2006-01-02"

	meetTimeTag   = "meettime"
	meetTimeText  = "time must be formatted as HH:MM"
	meetTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	suggestionMinRatio = .6
)

// NewTranslator returns the english translator used for validation messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
// `departments` are the known department names accepted by the "department" tag.
func InitValidators(validate *validator.Validate, translator ut.Translator, departments []string) {
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

	_ = validate.RegisterValidation(meetDateTag, meetDateValidation)
	RegisterCustomTranslation(validate, translator, meetDateTag, meetDateText)

	_ = validate.RegisterValidation(meetTimeTag, meetTimeValidation)
	RegisterCustomTranslation(validate, translator, meetTimeTag, meetTimeText)

	_ = validate.RegisterValidation(departmentTag, departmentValidation(departments))
	_ = validate.RegisterTranslation(
		departmentTag, translator,
		func(t ut.Translator) error { return t.Add(departmentTag, departmentText+"{0}", false) },
		func(t ut.Translator, fe validator.FieldError) string {
			var hint string
			if s := SuggestDepartment(fmt.Sprint(fe.Value()), departments); s != "" {
				hint = fmt.Sprintf(", did you mean %q?", s)
			}
			s, _ := t.T(departmentTag, hint)
			return s
		},
	)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
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

// TranslateValidationErrors turns validator errors into a *ValidationError with translated field messages.
// Other errors are returned as is.
func TranslateValidationErrors(err error, translator ut.Translator) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return NewValidationError(nil, flds...)
}

// SuggestDepartment returns the known department closest to `name`, or "" when nothing is similar enough.
func SuggestDepartment(name string, departments []string) string {
	name = strings.ToLower(CleanString(name))
	if name == "" {
		return ""
	}
	var best string
	var bestRatio float64
	for _, d := range departments {
		ratio := difflib.NewMatcher(strings.Split(name, ""), strings.Split(strings.ToLower(d), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = d, ratio
		}
	}
	if bestRatio < suggestionMinRatio {
		return ""
	}
	return best
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	return NonBlank(fl.Field().String())
}

func meetDateValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(meetDateLayout, fl.Field().String())
	return err == nil
}

func meetTimeValidation(fl validator.FieldLevel) bool {
	return meetTimeRegex.MatchString(fl.Field().String())
}

func departmentValidation(departments []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, d := range departments {
			if d == val {
				return true
			}
		}
		return false
	}
}
