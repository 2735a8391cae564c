package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/taskmanager/taskmanager-go/internal/model"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	maxEmailLength    = 255
	minPasswordLength = 6
	maxPasswordLength = 72
	maxTitleLength    = 255
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidationError reports malformed input as per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// normalizeRegistration trims the username and lower-cases the email.
func normalizeRegistration(req model.RegisterRequest) model.RegisterRequest {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req
}

func validateRegistration(req model.RegisterRequest) error {
	errs := fieldErrors{}

	switch n := utf8.RuneCountInString(req.Username); {
	case n == 0:
		errs.add("username", "Username is required")
	case n < minUsernameLength || n > maxUsernameLength:
		errs.add("username", fmt.Sprintf("Username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	case !usernamePattern.MatchString(req.Username):
		errs.add("username", "Username may only contain letters, digits, '_', '.' and '-'")
	}

	switch {
	case req.Email == "":
		errs.add("email", "Email is required")
	case len(req.Email) > maxEmailLength || !isEmail(req.Email):
		errs.add("email", "Email should be valid")
	}

	switch n := len(req.Password); {
	case n == 0:
		errs.add("password", "Password is required")
	case n < minPasswordLength || n > maxPasswordLength:
		errs.add("password", fmt.Sprintf("Password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
	}

	return errs.err()
}

func validateLogin(req model.LoginRequest) error {
	errs := fieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs.add("username", "Username is required")
	}
	if req.Password == "" {
		errs.add("password", "Password is required")
	}
	return errs.err()
}

// isEmail accepts a bare address only, rejecting display-name forms.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}
