package handlers

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// slugPattern matches URL-safe slugs: lowercase alphanumerics and hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// contentPayload is the request body for listing create/update.
type contentPayload struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	City        string `json:"city"`
	AgeMin      *int   `json:"age_min"`
	AgeMax      *int   `json:"age_max"`
	CategoryID  string `json:"category_id"`
	Status      string `json:"status"`
}

// Validate checks the payload with ozzo-validation rules.
func (p contentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required, validation.In("course", "event", "service")),
		validation.Field(&p.Title, validation.Required, validation.RuneLength(1, 300)),
		validation.Field(&p.Slug, validation.RuneLength(0, 300), validation.Match(slugPattern).Error("must be a lowercase slug")),
		validation.Field(&p.Description, validation.RuneLength(0, 100_000)),
		validation.Field(&p.City, validation.RuneLength(0, 120)),
		validation.Field(&p.AgeMin, validation.Min(0), validation.Max(18)),
		validation.Field(&p.AgeMax, validation.Min(0), validation.Max(18)),
		validation.Field(&p.CategoryID, is.UUID),
		validation.Field(&p.Status, validation.Required, validation.In("draft", "published")),
	)
}

// categoryPayload is the request body for category create/update.
type categoryPayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
	SortOrder   int    `json:"sort_order"`
}

// Validate checks the payload with ozzo-validation rules.
func (p categoryPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&p.Slug, validation.RuneLength(0, 120), validation.Match(slugPattern).Error("must be a lowercase slug")),
		validation.Field(&p.Description, validation.RuneLength(0, 1_000)),
		validation.Field(&p.SortOrder, validation.Min(0)),
	)
}

// loginPayload is the request body for admin login.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the payload with ozzo-validation rules.
func (p loginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.Password, validation.Required),
	)
}
