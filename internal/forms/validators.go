package forms

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/usersadmin/usersadmin/internal/common"
)

// Validator checks a single raw field value.
type Validator func(value string) error

const (
	MessageRequired      = "required field"
	MessageEmailRequired = "email is required"
	MessageEmailInvalid  = "invalid email"
	MessageTelephone     = "format: +79991231231"
	MessageAgreement     = "you must accept the user agreement"
)

func Required(message string) Validator {
	return func(value string) error {
		if common.IsBlank(value) {
			return errors.New(message)
		}
		return nil
	}
}

// MaxLength counts runes, so names in any script get the same budget.
func MaxLength(limit int) Validator {
	return func(value string) error {
		if utf8.RuneCountInString(value) > limit {
			return fmt.Errorf("must be at most %d characters", limit)
		}
		return nil
	}
}

// Match accepts empty values; pair it with Required when the field is
// mandatory.
func Match(matches func(string) bool, message string) Validator {
	return func(value string) error {
		if len(value) == 0 {
			return nil
		}
		if !matches(value) {
			return errors.New(message)
		}
		return nil
	}
}

func OneOf(allowed ...string) Validator {
	return func(value string) error {
		if len(value) == 0 || slices.Contains(allowed, value) {
			return nil
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

// MustBeTrue accepts any value strconv.ParseBool reads as true.
func MustBeTrue(message string) Validator {
	return func(value string) error {
		ok, err := strconv.ParseBool(value)
		if err != nil || !ok {
			return errors.New(message)
		}
		return nil
	}
}

func Email() Validator {
	return Match(common.IsValidEmail, MessageEmailInvalid)
}

func Telephone() Validator {
	return Match(common.IsValidTelephone, MessageTelephone)
}
