package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Session binds a bearer credential to the principal it authenticates and,
// for tenant-scoped roles, the factory the principal belongs to.
//
// An absent token means no principal is trusted, whatever user data may still
// be cached alongside it. A session that fails structural validation must be
// discarded as a whole: the triple is never partially valid.
type Session struct {
	Token   string   `json:"token" validate:"required"`
	User    User     `json:"user" validate:"required"`
	Factory *Factory `json:"factory,omitempty"`
}

var sessionValidate = validator.New()

// Validate checks the session structurally: non-empty token, a well-formed
// user with one of the four known roles, and a well-formed factory when one
// is attached.
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil session", ErrSessionCorrupt)
	}
	if err := sessionValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	return nil
}
