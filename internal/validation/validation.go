// Package validation wraps go-playground/validator with the client's
// rules and turns failures into readable apperrors.ValidationError values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/content"
	"blogdesk/internal/models"
)

// Messages that read better than the generated ones, keyed by
// "<Struct>.<Field>.<tag>".
var overrides = map[string]string{
	"RejectRequest.Reason.required":                 "Please provide a rejection reason",
	"ChangePasswordRequest.ConfirmPassword.eqfield": "New passwords do not match",
	"SignupRequest.ConfirmPassword.eqfield":         "Passwords do not match",
	"ChangePasswordRequest.NewPassword.min":         "Password must be at least 6 characters",
	"CommentRequest.Content.required":               "Comment cannot be empty",
	"BlogRequest.Status.oneof":                      "Edits can only send a blog back to pending",
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// htmlmin measures the plain text of an HTML field.
	_ = v.RegisterValidation("htmlmin", func(fl validator.FieldLevel) bool {
		var min int
		if _, err := fmt.Sscan(fl.Param(), &min); err != nil {
			return false
		}
		return content.CharCount(fl.Field().String()) >= min
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, c := range models.Categories {
			if string(c) == value {
				return true
			}
		}
		return false
	})

	return &Validator{v: v}
}

// Struct validates s and returns the first failure as a ValidationError.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation failed: %w", err)
	}

	fe := fieldErrs[0]
	return &apperrors.ValidationError{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	key := fe.StructNamespace() + "." + fe.Tag()
	if msg, ok := overrides[key]; ok {
		return msg
	}

	label := Label(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min", "htmlmin":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s can have at most %s items", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters long", label, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and numbers", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "category":
		names := make([]string, len(models.Categories))
		for i, c := range models.Categories {
			names[i] = string(c)
		}
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(names, ", "))
	case "eqfield":
		return fmt.Sprintf("%s does not match", label)
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", label, fe.Param())
	}

	return fmt.Sprintf("%s is invalid", label)
}

// Label turns a json field name such as "coverImage" or "tags[2]" into
// "Cover image" / "Tags".
func Label(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if field == "" {
		return "Value"
	}

	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
