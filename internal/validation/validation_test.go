package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	api "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// validInput returns a contact input that passes validation.
func validInput() api.ContactInput {
	return api.ContactInput{
		Name:     "Erika Mustermann",
		Email:    "erika@example.com",
		Birthday: "05/14/1988",
		Company:  "ACME",
	}
}

// TestContactValid expects that valid input is returned in normalized form.
func TestContactValid(t *testing.T) {
	input := validInput()
	input.Name = "  Erika Mustermann "
	fields, err := Contact(input)
	require.NoError(t, err)
	assert.Equal(t, "Erika Mustermann", fields.Name)
	assert.Equal(t, "erika@example.com", fields.Email)
	assert.Equal(t, time.Date(1988, time.May, 14, 0, 0, 0, 0, time.UTC), fields.Birthday)
	assert.Equal(t, "ACME", fields.Company)
}

// TestContactRequiredFields submits input with exactly one empty field at a time. It expects
// that exactly this field is reported.
func TestContactRequiredFields(t *testing.T) {
	blank := map[string]func(*api.ContactInput){
		"name":     func(in *api.ContactInput) { in.Name = "" },
		"email":    func(in *api.ContactInput) { in.Email = "" },
		"birthday": func(in *api.ContactInput) { in.Birthday = "   " },
		"company":  func(in *api.ContactInput) { in.Company = "" },
	}
	for field, clear := range blank {
		input := validInput()
		clear(&input)
		_, err := Contact(input)
		var validationErrors *Errors
		require.True(t, errors.As(err, &validationErrors), field)
		assert.Len(t, validationErrors.Fields, 1, field)
		assert.Equal(t, []string{"The " + field + " field is required."}, validationErrors.Fields[field])
	}
}

// TestContactAllFieldsReported expects that every failing field is reported, not just the first.
func TestContactAllFieldsReported(t *testing.T) {
	_, err := Contact(api.ContactInput{Email: "NOT A EMAIL", Birthday: "someday"})
	var validationErrors *Errors
	require.True(t, errors.As(err, &validationErrors))
	assert.Len(t, validationErrors.Fields, 4)
	assert.True(t, validationErrors.Has("name"))
	assert.True(t, validationErrors.Has("company"))
	assert.Equal(t, []string{"The email must be a valid email address."}, validationErrors.Fields["email"])
	assert.Equal(t, []string{"The birthday is not a valid date."}, validationErrors.Fields["birthday"])
	assert.Equal(t, "invalid fields: birthday, company, email, name", err.Error())
}

// TestContactInvalidEmails expects that addresses without a local part, an @ or a domain are
// rejected on the email field only.
func TestContactInvalidEmails(t *testing.T) {
	for _, email := range []string{"NOT A EMAIL", "erika", "erika@", "@example.com", "erika.example.com"} {
		input := validInput()
		input.Email = email
		_, err := Contact(input)
		var validationErrors *Errors
		require.True(t, errors.As(err, &validationErrors), email)
		assert.Len(t, validationErrors.Fields, 1, email)
		assert.True(t, validationErrors.Has("email"), email)
	}
}

// TestContactMaximumLengths expects that names and companies with up to 255 characters are
// accepted and longer ones are reported on their field.
func TestContactMaximumLengths(t *testing.T) {
	input := validInput()
	input.Name = strings.Repeat("ä", 255)
	input.Company = strings.Repeat("x", 255)
	_, err := Contact(input)
	require.NoError(t, err)

	input.Name = strings.Repeat("ä", 256)
	input.Company = strings.Repeat("x", 1000)
	_, err = Contact(input)
	var validationErrors *Errors
	require.True(t, errors.As(err, &validationErrors))
	assert.Len(t, validationErrors.Fields, 2)
	assert.Equal(t, []string{"The name may not be greater than 255 characters."}, validationErrors.Fields["name"])
	assert.Equal(t, []string{"The company may not be greater than 255 characters."}, validationErrors.Fields["company"])
}

// TestContactBirthdayYearRange expects that birthdays outside the years 1000 to 9999 are
// reported as invalid dates.
func TestContactBirthdayYearRange(t *testing.T) {
	for _, birthday := range []string{"01/01/0001", "12/31/0999", "0500-06-15"} {
		input := validInput()
		input.Birthday = birthday
		_, err := Contact(input)
		var validationErrors *Errors
		require.True(t, errors.As(err, &validationErrors), birthday)
		assert.Equal(t, []string{"The birthday is not a valid date."}, validationErrors.Fields["birthday"], birthday)
	}
	for _, birthday := range []string{"01/01/1000", "12/31/9999"} {
		input := validInput()
		input.Birthday = birthday
		_, err := Contact(input)
		assert.NoError(t, err, birthday)
	}
}

// TestNormalizeBirthday expects that all accepted formats result in midnight UTC of the date.
func TestNormalizeBirthday(t *testing.T) {
	expected := time.Date(1988, time.May, 14, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"05/14/1988", "5/14/1988", "1988-05-14", "1988-05-14T18:30:00Z", " 05/14/1988 "} {
		birthday, err := NormalizeBirthday(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, birthday, input)
	}
}

// TestNormalizeBirthdayInvalid expects errors for values that are not calendar dates.
func TestNormalizeBirthdayInvalid(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "02/30/1988", "13/01/1988", "14/05/1988", "1988-02-30", "01/01/0001"} {
		_, err := NormalizeBirthday(input)
		assert.Error(t, err, input)
	}
}
