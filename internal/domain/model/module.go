package model

import (
	"net/url"
	"strings"
	"time"

	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// Module is an independently hosted business application registered in the
// module directory. The hub only reads module metadata; CRUD and health
// polling live with the directory's owner.
type Module struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateModuleRequest carries inputs for registering a module.
type CreateModuleRequest struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Normalize trims fields and lower-cases the module name.
func (r *CreateModuleRequest) Normalize() {
	r.Name = strings.TrimSpace(strings.ToLower(r.Name))
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	if r.Title == "" {
		r.Title = r.Name
	}
}

// Validate checks the request for required fields and a well-formed URL.
func (r CreateModuleRequest) Validate() error {
	if r.Name == "" {
		return apperrors.ValidationField("name", "module name is required")
	}
	u, err := url.Parse(r.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.ValidationField("url", "an absolute module URL is required")
	}
	return nil
}
