// Package models defines the client-side user and session data types.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Role classifies what a user may see and do.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Roles lists the known roles in display order.
var Roles = []Role{RolePatient, RoleDoctor}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RolePatient, RoleDoctor:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is both the current-session record and a profile directory entry.
// Session fields (LoginTime, SessionID, LastActivity) are zero on directory
// entries that were never logged in.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Role                Role       `json:"role"`
	Phone               string     `json:"phone,omitempty"`
	Specialization      string     `json:"specialization,omitempty"`
	RegistrationDate    time.Time  `json:"registrationDate,omitzero"`
	LoginTime           time.Time  `json:"loginTime,omitzero"`
	LastActivity        time.Time  `json:"lastActivity,omitzero"`
	PasswordLastChanged *time.Time `json:"passwordLastChanged,omitempty"`
	SessionID           string     `json:"sessionId,omitempty"`
	IsActive            bool       `json:"isActive"`
	IsDemo              bool       `json:"isDemo,omitempty"`
}

// Clone returns a deep copy; PasswordLastChanged is not shared.
func (u User) Clone() User {
	if u.PasswordLastChanged != nil {
		t := *u.PasswordLastChanged
		u.PasswordLastChanged = &t
	}
	return u
}

// ActivityReference is the instant session age is measured from:
// LastActivity once the session was extended, LoginTime otherwise.
func (u User) ActivityReference() time.Time {
	if !u.LastActivity.IsZero() {
		return u.LastActivity
	}
	return u.LoginTime
}

// RegisterInput is what a new user submits. Password never reaches User.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Specialization string
}

// ProfileUpdate overwrites the non-nil fields of a User.
type ProfileUpdate struct {
	Name           *string
	Email          *string
	Phone          *string
	Specialization *string
}

// IsEmpty reports whether the update would change nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Specialization == nil
}

// ApplyTo performs a shallow field overwrite on u.
func (p ProfileUpdate) ApplyTo(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Specialization != nil {
		u.Specialization = *p.Specialization
	}
}
