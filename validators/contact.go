// Package validators holds the field rules applied to contacts before they are persisted.
package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	nameMinLength      = 2
	nameMaxLength      = 50
	companyMaxLength   = 100
	telephoneMaxLength = 20
	addressMaxLength   = 200
	notesMaxLength     = 500

	// absent is what some clients send instead of leaving a field out.
	absent = "NULL"
)

var (
	// \p{Z} adds the Unicode spaces, such as U+00A0, that \s leaves out.
	nameRegexp      = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s\p{Z}-]+$`)
	emailRegexp     = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)
	phoneStripper   = regexp.MustCompile(`[\s\p{Z}\-()+]`)
	phoneDigitsOnly = regexp.MustCompile(`^\d{1,16}$`)
)

// Contact carries the raw or normalized values of a contact.
// Optional fields are nil when absent.
type Contact struct {
	FirstName string
	LastName  string
	Company   *string
	Telephone *string
	Email     *string
	Address   *string
	Notes     *string
}

// ValidateContact runs every field rule and returns the normalized contact.
// On failure the returned error is a [FieldErrors] holding one entry per failing field,
// and the returned contact is the zero value.
func ValidateContact(in Contact) (Contact, error) {
	var (
		out  Contact
		errs FieldErrors
		err  error
	)

	collect := func(field string, err error) {
		if err != nil {
			errs = append(errs, &FieldError{Field: field, Message: err.Error()})
		}
	}

	out.FirstName, err = FirstName(in.FirstName)
	collect("first_name", err)
	out.LastName, err = LastName(in.LastName)
	collect("last_name", err)
	out.Company, err = Company(in.Company)
	collect("company", err)
	out.Telephone, err = Telephone(in.Telephone)
	collect("telephone", err)
	out.Email, err = Email(in.Email)
	collect("email", err)
	out.Address, err = Address(in.Address)
	collect("address", err)
	out.Notes, err = Notes(in.Notes)
	collect("notes", err)

	if len(errs) > 0 {
		return Contact{}, errs
	}
	return out, nil
}

func FirstName(v string) (string, error) { return personName("First name", v) }

func LastName(v string) (string, error) { return personName("Last name", v) }

func personName(label, v string) (string, error) {
	v = strings.TrimSpace(v)
	switch n := utf8.RuneCountInString(v); {
	case n == 0:
		return "", ruleError(label + " is required")
	case n < nameMinLength:
		return "", ruleError(label + " must be at least 2 characters")
	case n > nameMaxLength:
		return "", ruleError(label + " cannot exceed 50 characters")
	}
	if !nameRegexp.MatchString(v) {
		return "", ruleError(label + " can only contain Latin or Cyrillic characters")
	}
	return v, nil
}

// Email returns nil for a missing, empty or "NULL" address.
func Email(v *string) (*string, error) {
	if isAbsent(v) {
		return nil, nil
	}
	if !emailRegexp.MatchString(*v) {
		return nil, ruleError("Please enter a valid email address")
	}
	return v, nil
}

// Telephone returns the digits of the number, dropping spaces, hyphens,
// parentheses and plus signs. A missing, empty or "NULL" number yields nil.
func Telephone(v *string) (*string, error) {
	if isAbsent(v) {
		return nil, nil
	}
	if utf8.RuneCountInString(*v) > telephoneMaxLength {
		return nil, ruleError("Telephone cannot exceed 20 characters")
	}
	cleaned := phoneStripper.ReplaceAllString(*v, "")
	if !phoneDigitsOnly.MatchString(cleaned) {
		return nil, ruleError("Please enter a valid phone number")
	}
	return &cleaned, nil
}

func Company(v *string) (*string, error) {
	return maxLength(v, companyMaxLength, "Company cannot exceed 100 characters")
}

func Address(v *string) (*string, error) {
	return maxLength(v, addressMaxLength, "Address cannot exceed 200 characters")
}

func Notes(v *string) (*string, error) {
	return maxLength(v, notesMaxLength, "Notes cannot exceed 500 characters")
}

func maxLength(v *string, limit int, msg string) (*string, error) {
	if v != nil && utf8.RuneCountInString(*v) > limit {
		return nil, ruleError(msg)
	}
	return v, nil
}

func isAbsent(v *string) bool { return v == nil || *v == "" || *v == absent }
