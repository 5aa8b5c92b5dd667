// Package validation checks submitted contact values and normalizes them before they are stored.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	api "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// birthdayLayouts are the accepted input formats for birthdays, tried in this order.
var birthdayLayouts = []string{"1/2/2006", "2006-01-02", time.RFC3339}

// Years outside this range cannot be stored in a MySQL DATE column.
const (
	minBirthdayYear = 1000
	maxBirthdayYear = 9999
)

// validate is safe for concurrent use and caches struct metadata, so it is shared.
var validate = newValidator()

// Errors is returned when at least one field fails validation. Fields maps the JSON name of each
// failing field to its messages.
type Errors struct {
	Fields map[string][]string
}

func (e *Errors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// Has returns true if the named field failed validation.
func (e *Errors) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := NormalizeBirthday(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Contact validates the submitted values of a contact. Surrounding white space is removed from
// all values first. If every field is valid, the normalized fields are returned. Otherwise the
// error is an *Errors naming every failing field.
func Contact(input api.ContactInput) (model.ContactFields, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Birthday = strings.TrimSpace(input.Birthday)
	input.Company = strings.TrimSpace(input.Company)

	if err := validate.Struct(input); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return model.ContactFields{}, err
		}
		result := &Errors{Fields: make(map[string][]string, len(fieldErrors))}
		for _, fe := range fieldErrors {
			result.Fields[fe.Field()] = append(result.Fields[fe.Field()], message(fe))
		}
		return model.ContactFields{}, result
	}

	birthday, err := NormalizeBirthday(input.Birthday)
	if err != nil {
		return model.ContactFields{}, err
	}
	return model.ContactFields{
		Name:     input.Name,
		Email:    input.Email,
		Birthday: birthday,
		Company:  input.Company,
	}, nil
}

// NormalizeBirthday parses a birthday in one of the accepted formats and returns midnight UTC of
// that calendar date. Only the years 1000 to 9999 are accepted.
func NormalizeBirthday(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	for _, layout := range birthdayLayouts {
		t, err := time.Parse(layout, input)
		if err != nil {
			continue
		}
		if t.Year() < minBirthdayYear || t.Year() > maxBirthdayYear {
			return time.Time{}, fmt.Errorf("year of %q out of range", input)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", input)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", fe.Field(), fe.Param())
	case "calendardate":
		return fmt.Sprintf("The %s is not a valid date.", fe.Field())
	default:
		return fmt.Sprintf("The %s is invalid.", fe.Field())
	}
}
