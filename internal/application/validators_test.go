package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAadhaar(t *testing.T) {
	v := &Validator{}

	clean, err := v.NormalizeAadhaar("123456789012")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", clean)

	// Espacios y guiones se toleran
	clean, err = v.NormalizeAadhaar("1234 5678-9012")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", clean)

	for _, invalid := range []string{"", "12345678901", "1234567890123", "12345678901a", "abcd56789012"} {
		_, err := v.NormalizeAadhaar(invalid)
		assert.Error(t, err, "aadhaar %q debe rechazarse", invalid)
	}
}

func TestValidateEmail(t *testing.T) {
	v := &Validator{}

	assert.NoError(t, v.ValidateEmail("security@company.com"))
	assert.Error(t, v.ValidateEmail(""))
	assert.Error(t, v.ValidateEmail("no-es-un-email"))
	assert.Error(t, v.ValidateEmail("falta@dominio"))
}

func TestParseExtraEmails(t *testing.T) {
	v := &Validator{}

	assert.Nil(t, v.ParseExtraEmails(""))
	assert.Equal(t, []string{"a@x.com"}, v.ParseExtraEmails("a@x.com"))
	assert.Equal(t,
		[]string{"a@x.com", "b@y.com"},
		v.ParseExtraEmails(" a@x.com , , b@y.com ,"),
	)
}

func TestValidationErrorEsDistinguible(t *testing.T) {
	v := &Validator{}

	_, err := v.NormalizeAadhaar("123")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}
