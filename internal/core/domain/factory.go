package domain

import (
	"strings"
	"time"
)

// FactoryStatus represents the lifecycle state of a factory.
type FactoryStatus string

const (
	FactoryActive   FactoryStatus = "active"
	FactoryInactive FactoryStatus = "inactive"
)

// Factory models a tenant: an isolated organisational unit owning its own
// users and data. Code is the short unique identifier used as a URL segment
// (e.g. SFL, IBM); comparisons are case-insensitive.
type Factory struct {
	ID        string        `json:"id" validate:"required"`
	Name      string        `json:"name" validate:"required"`
	Code      string        `json:"code" validate:"required"`
	CreatedAt time.Time     `json:"created_at"`
	AdminID   string        `json:"admin_id,omitempty"`
	Status    FactoryStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// NormalizeCode canonicalises a factory code for comparison and URL use.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CodeMatches reports whether code refers to this factory, ignoring case.
func (f *Factory) CodeMatches(code string) bool {
	return f != nil && NormalizeCode(f.Code) == NormalizeCode(code)
}
