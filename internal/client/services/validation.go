package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/common"
)

const (
	MinPasswordLength = 6

	msgNameRequired  = "Name is required"
	msgEmailInvalid  = "Valid email is required"
	msgPasswordShort = "Password must be at least 6 characters"
)

// \s is ASCII-only in RE2; \p{Z} adds the Unicode separators.
var emailRe = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)

func validEmail(email string) bool {
	return emailRe.MatchString(email)
}

func validPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// validateRegistration checks every rule and reports all violations at once.
func validateRegistration(in models.RegisterInput) error {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, msgNameRequired)
	}
	if !validEmail(in.Email) {
		msgs = append(msgs, msgEmailInvalid)
	}
	if !validPassword(in.Password) {
		msgs = append(msgs, msgPasswordShort)
	}
	return common.NewValidationError(msgs)
}
