package validation

import (
	"strings"
	"testing"

	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.NoError(t, Name(""))
	assert.NoError(t, Name(strings.Repeat("a", 20)))
	assert.NoError(t, Name(strings.Repeat("a", 60)))
	assert.Error(t, Name(strings.Repeat("a", 19)))
	assert.Error(t, Name(strings.Repeat("a", 61)))
}

func TestAddress(t *testing.T) {
	assert.NoError(t, Address(""))
	assert.NoError(t, Address(strings.Repeat("a", 400)))
	assert.Error(t, Address(strings.Repeat("a", 401)))
}

func TestPassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Valid!Pass1", true},
		{"A!aaaaaa", true},           // exactly 8
		{"A!aaaaaaaaaaaaaa", true},   // exactly 16
		{"A!aaaaa", false},           // 7 chars
		{"A!aaaaaaaaaaaaaaa", false}, // 17 chars
		{"noupper!pass", false},      // no uppercase
		{"NoSpecialPass1", false},    // no special
		{"", false},
	}

	for _, tc := range cases {
		err := Password(tc.password)
		if tc.ok {
			assert.NoError(t, err, tc.password)
		} else {
			assert.Error(t, err, tc.password)
		}
	}
}

func TestRoleValue(t *testing.T) {
	assert.NoError(t, RoleValue(models.RoleAdministrator))
	assert.NoError(t, RoleValue(models.RoleNormalUser))
	assert.NoError(t, RoleValue(models.RoleStoreOwner))
	assert.Error(t, RoleValue(models.Role("superuser")))
	assert.Error(t, RoleValue(models.Role("")))
}

func TestUserFields(t *testing.T) {
	assert.NoError(t, UserFields("A Sufficiently Long Name", "user@example.com", "Valid!Pass1", "1 Main Street"))

	err := UserFields("A Sufficiently Long Name", "", "Valid!Pass1", "")
	assert.EqualError(t, err, "Email is required.")

	// Password only checked when present; required-ness is the caller's call.
	assert.NoError(t, UserFields("", "user@example.com", "", ""))
}

func TestStoreFields(t *testing.T) {
	assert.NoError(t, StoreFields("Corner Store", "store@example.com", "1 Main Street"))

	err := StoreFields("", "store@example.com", "1 Main Street")
	assert.EqualError(t, err, "Store name, email, and address are required.")

	assert.Error(t, StoreFields("Corner Store", "store@example.com", strings.Repeat("a", 401)))
}
