//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultLocale is used when a request does not name a locale.
const DefaultLocale = "nl"

// ResolutionRequest is the inbound request for resolving free text to a skill concept.
type ResolutionRequest struct {
	Text   string `json:"text" validate:"required"`
	Locale string `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// Normalize trims the text and fills in the default locale.
func (r *ResolutionRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
	r.Locale = strings.TrimSpace(r.Locale)
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
}

// Validate validates the ResolutionRequest using the validator.
// Whitespace-only text fails the required rule once Normalize has run.
func (r *ResolutionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
