package domain

import (
	"errors"
	"testing"
)

func validSession() *Session {
	return &Session{
		Token: "t1",
		User: User{
			ID:    "u1",
			Email: "admin@acme.test",
			Name:  "A",
			Role:  RoleAdmin,
		},
		Factory: &Factory{ID: "f1", Name: "Acme", Code: "ACM"},
	}
}

func TestSessionValidate_WellFormed(t *testing.T) {
	if err := validSession().Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
}

func TestSessionValidate_NoFactory(t *testing.T) {
	sess := validSession()
	sess.Factory = nil
	sess.User.Role = RoleSuperadmin
	if err := sess.Validate(); err != nil {
		t.Fatalf("factory-less session rejected: %v", err)
	}
}

func TestSessionValidate_Corrupt(t *testing.T) {
	cases := map[string]func(*Session){
		"missing token":  func(s *Session) { s.Token = "" },
		"missing email":  func(s *Session) { s.User.Email = "" },
		"bogus email":    func(s *Session) { s.User.Email = "not-an-email" },
		"unknown role":   func(s *Session) { s.User.Role = "manager" },
		"missing name":   func(s *Session) { s.User.Name = "" },
		"factory no id":  func(s *Session) { s.Factory.ID = "" },
		"factory status": func(s *Session) { s.Factory.Status = "paused" },
	}
	for name, mutate := range cases {
		sess := validSession()
		mutate(sess)
		err := sess.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation failure", name)
		}
		if !errors.Is(err, ErrSessionCorrupt) {
			t.Fatalf("%s: expected ErrSessionCorrupt, got %v", name, err)
		}
	}

	var nilSess *Session
	if err := nilSess.Validate(); !errors.Is(err, ErrSessionCorrupt) {
		t.Fatalf("nil session: expected ErrSessionCorrupt, got %v", err)
	}
}
