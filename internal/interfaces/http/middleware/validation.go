package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator: errors name the JSON (or form)
// field and the notblank rule rejects whitespace-only strings. Safe to call
// more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("notblank", notBlank)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// notBlank passes non-string fields and strings with a non-space rune.
// Nil pointers pass so it can follow omitempty on partial updates.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// FormatValidationErrors turns binding errors into the validation envelope.
// Errors that are not validator errors (malformed JSON) yield no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details = make([]dto.ValidationDetail, 0, len(validationErrors))
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Kind:    e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError aborts with 400 and the validation envelope, or
// with 413 when binding stopped at the body limit.
func HandleValidationError(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		rejectTooLarge(c)
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, getRequestID(c)))
}

// fixedMessages covers rules whose message does not depend on the parameter.
var fixedMessages = map[string]string{
	"required": "This field is required",
	"notblank": "Must not be blank",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"hexcolor": "Must be a hex color such as #1a2b3c",
	"numeric":  "Must be numeric",
	"dive":     "Invalid list entry",
}

// boundPrefixes covers rules that compare against the parameter.
var boundPrefixes = map[string]string{
	"oneof": "Must be one of: ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"lt":    "Must be less than ",
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	tag := e.Tag()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if prefix, ok := boundPrefixes[tag]; ok {
		return prefix + e.Param()
	}

	isText := e.Kind() == reflect.String
	switch tag {
	case "min":
		if isText {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " entries"
		}
		return "Must be at least " + e.Param()
	case "max":
		if isText {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " entries"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	}
	return "Invalid value"
}
