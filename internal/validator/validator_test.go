// internal/validator/validator_test.go
package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorStartsValid(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())
	assert.Empty(t, v.Errors)
}

func TestCheckRecordsFailures(t *testing.T) {
	v := New()

	v.Check(true, "ok", "should not appear")
	v.Check(false, "name", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, "must be provided", v.Errors["name"])
	assert.NotContains(t, v.Errors, "ok")
}

func TestAddErrorKeepsFirstMessage(t *testing.T) {
	v := New()

	v.AddError("email", "must be provided")
	v.AddError("email", "must be a valid email address")

	assert.Equal(t, "must be provided", v.Errors["email"])
}

func TestIn(t *testing.T) {
	assert.True(t, In("asc", "asc", "desc"))
	assert.False(t, In("sideways", "asc", "desc"))
	assert.False(t, In("asc"))
}

func TestEmailRX(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"first.last@sub.example.co.uk",
		"user+tag@example.org",
	}
	for _, email := range valid {
		assert.True(t, Matches(email, EmailRX), "expected %q to match", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@-example.com",
	}
	for _, email := range invalid {
		assert.False(t, Matches(email, EmailRX), "expected %q not to match", email)
	}
}
