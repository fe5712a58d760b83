package authsdk

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 8
	MaxPasswordLen = 128
	MaxFullNameLen = 100

	requiredReason = "required"
)

var reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validate checks the registration fields. It returns field name to
// message, or nil when the request is valid. The server applies the same
// rules, so clients can call this before sending.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	r.validateUsername(errs)
	r.validateEmail(errs)
	r.validatePassword(errs)

	if utf8.RuneCountInString(strings.TrimSpace(r.FullName)) > MaxFullNameLen {
		errs["full_name"] = fmt.Sprintf("too long (max %d)", MaxFullNameLen)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r RegisterRequest) validateUsername(errs map[string]string) {
	username := strings.TrimSpace(r.Username)
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		errs["username"] = requiredReason
	case n < MinUsernameLen || n > MaxUsernameLen:
		errs["username"] = fmt.Sprintf("must be %d-%d characters", MinUsernameLen, MaxUsernameLen)
	case !reUsername.MatchString(username):
		errs["username"] = "must only contain a-z, A-Z, 0-9, '.', '_' or '-'"
	}
}

func (r RegisterRequest) validateEmail(errs map[string]string) {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs["email"] = requiredReason
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs["email"] = "must be a valid email address"
	}
}

func (r RegisterRequest) validatePassword(errs map[string]string) {
	switch n := utf8.RuneCountInString(r.Password); {
	case n == 0:
		errs["password"] = requiredReason
	case n < MinPasswordLen:
		errs["password"] = fmt.Sprintf("too short (min %d)", MinPasswordLen)
	case n > MaxPasswordLen:
		errs["password"] = fmt.Sprintf("too long (max %d)", MaxPasswordLen)
	}
}
