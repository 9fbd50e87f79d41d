// Package validation holds the field-level rules shared by registration and
// the admin provisioning paths. All checks run before any database access.
package validation

import (
	"strings"
	"unicode"

	"github.com/ratewise-dev/ratewise/internal/models"
)

const (
	NameMinLength    = 20
	NameMaxLength    = 60
	AddressMaxLength = 400
	PasswordMin      = 8
	PasswordMax      = 16

	passwordSpecials = "!@#$%^&*"
)

// Error is a field-policy violation. Handlers map it to a 400 with the
// message as the body.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(message string) error {
	return &Error{Message: message}
}

// Name is only checked when present; required-ness is decided per call site.
func Name(name string) error {
	if name != "" && (len(name) < NameMinLength || len(name) > NameMaxLength) {
		return newError("Name must be between 20 and 60 characters.")
	}
	return nil
}

func Address(address string) error {
	if len(address) > AddressMaxLength {
		return newError("Address cannot exceed 400 characters.")
	}
	return nil
}

// Password enforces the account password policy: 8-16 characters with at
// least one uppercase letter and one special character.
func Password(password string) error {
	if len(password) < PasswordMin || len(password) > PasswordMax {
		return newError("Password must be 8-16 characters long and include at least one uppercase letter and one special character.")
	}

	hasUpper := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}

	if !hasUpper || !strings.ContainsAny(password, passwordSpecials) {
		return newError("Password must be 8-16 characters long and include at least one uppercase letter and one special character.")
	}

	return nil
}

func RoleValue(role models.Role) error {
	if !role.Valid() {
		return newError("Invalid role specified.")
	}
	return nil
}

// UserFields runs the combined account checks the way registration and the
// admin add-user path share them.
func UserFields(name, email, password, address string) error {
	if err := Name(name); err != nil {
		return err
	}

	if err := Address(address); err != nil {
		return err
	}

	if email == "" {
		return newError("Email is required.")
	}

	if password != "" {
		if err := Password(password); err != nil {
			return err
		}
	}

	return nil
}

func StoreFields(name, email, address string) error {
	if name == "" || email == "" || address == "" {
		return newError("Store name, email, and address are required.")
	}

	if err := Address(address); err != nil {
		return err
	}

	return nil
}
