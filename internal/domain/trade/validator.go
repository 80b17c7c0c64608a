package trade

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
)

// ValidationKind categorizes a rejected order form.
type ValidationKind string

const (
	InvalidQuantity  ValidationKind = "INVALID_QUANTITY"
	MissingField     ValidationKind = "MISSING_FIELD"
	InvalidEmail     ValidationKind = "INVALID_EMAIL"
	UnavailableSize  ValidationKind = "UNAVAILABLE_SIZE"
	UnavailableColor ValidationKind = "UNAVAILABLE_COLOR"
)

// ValidationError is a rejected order form. Message is safe to show to shoppers.
type ValidationError struct {
	Kind    ValidationKind `json:"kind"`
	Field   string         `json:"field"`
	Message string         `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(kind ValidationKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

// OrderForm is the raw order submission, one string per form field.
type OrderForm struct {
	CustomerName  string `form:"customer_name" json:"customer_name"`
	CustomerEmail string `form:"customer_email" json:"customer_email"`
	CustomerPhone string `form:"customer_phone" json:"customer_phone"`
	Number        string `form:"number" json:"number"`
	Size          string `form:"size" json:"size"`
	Color         string `form:"color" json:"color"`
}

// OrderIntent is an order form that passed validation.
type OrderIntent struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Number        int
	Size          string
	Color         string
}

// OrderValidator checks an order form against the article it targets.
type OrderValidator struct{}

func NewOrderValidator() *OrderValidator {
	return &OrderValidator{}
}

// Validate runs the checks in a fixed order and stops at the first failure:
// quantity, required fields, email shape, size, color.
func (v *OrderValidator) Validate(form OrderForm, article *catalog.Article) (*OrderIntent, error) {
	number, err := strconv.Atoi(strings.TrimSpace(form.Number))
	if err != nil || number <= 0 {
		return nil, newValidationError(InvalidQuantity, "number", "Quantity must be a positive whole number.")
	}

	name := strings.TrimSpace(form.CustomerName)
	phone := strings.TrimSpace(form.CustomerPhone)
	size := shared.NormalizeText(form.Size)
	color := shared.NormalizeText(form.Color)

	required := []struct {
		field, label, value string
	}{
		{"customer_name", "name", name},
		{"customer_phone", "phone number", phone},
		{"size", "size", size},
		{"color", "color", color},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, newValidationError(MissingField, r.field, fmt.Sprintf("Please provide your %s.", r.label))
		}
	}

	email := strings.TrimSpace(form.CustomerEmail)
	if !plausibleEmail(email) {
		return nil, newValidationError(InvalidEmail, "customer_email", "Please enter a valid email address.")
	}

	if !article.HasSize(size) {
		return nil, newValidationError(UnavailableSize, "size",
			fmt.Sprintf("Size %q is not available for %s.", size, article.Name))
	}
	if !article.HasColor(color) {
		return nil, newValidationError(UnavailableColor, "color",
			fmt.Sprintf("Color %q is not available for %s.", color, article.Name))
	}

	return &OrderIntent{
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Number:        number,
		Size:          size,
		Color:         color,
	}, nil
}

// plausibleEmail accepts anything with an "@" whose domain part has a dot.
func plausibleEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
