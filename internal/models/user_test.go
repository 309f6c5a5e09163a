package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditableUserFields_Normalize(t *testing.T) {
	telephone := "  +79991234567 "
	employment := EmploymentStudent
	agreed := true

	tests := []struct {
		name     string
		fields   EditableUserFields
		expected UserPatch
	}{
		{
			name: "trims and fills defaults",
			fields: EditableUserFields{
				Name:     " Alice ",
				SurName:  "Smith  ",
				FullName: "  Alice Smith",
			},
			expected: UserPatch{
				Name:     "Alice",
				SurName:  "Smith",
				FullName: "Alice Smith",
			},
		},
		{
			name: "keeps optional values",
			fields: EditableUserFields{
				Name:          "Bob",
				SurName:       "Jones",
				FullName:      "Bob Jones",
				Telephone:     &telephone,
				Employment:    &employment,
				UserAgreement: &agreed,
			},
			expected: UserPatch{
				Name:          "Bob",
				SurName:       "Jones",
				FullName:      "Bob Jones",
				Telephone:     "+79991234567",
				Employment:    &employment,
				UserAgreement: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fields.Normalize())
		})
	}
}

func TestComposeFullName(t *testing.T) {
	tests := []struct {
		name     string
		surName  string
		expected string
	}{
		{"Alice", "Smith", "Alice Smith"},
		{"  Alice ", " Smith ", "Alice Smith"},
		{"Alice", "", "Alice"},
		{"", "Smith", "Smith"},
		{"", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ComposeFullName(tt.name, tt.surName))
	}
}

func TestUser_GetName(t *testing.T) {
	assert.Equal(t, "Alice Smith", (&User{FullName: "Alice Smith"}).GetName())
	assert.Equal(t, "Bob Jones", (&User{Name: "Bob", SurName: "Jones"}).GetName())
	assert.Equal(t, "c@d.io", (&User{Email: "c@d.io"}).GetName())
	assert.Equal(t, "Unknown", (&User{}).GetName())
}

func TestEditableFrom(t *testing.T) {
	agreed := true
	user := User{
		ID:            "1",
		Name:          "Alice",
		SurName:       "Smith",
		FullName:      "Alice Smith",
		Telephone:     "+79991234567",
		Employment:    EmploymentWorking,
		UserAgreement: &agreed,
	}

	fields := EditableFrom(user)
	assert.Equal(t, "Alice", fields.Name)
	assert.Equal(t, "+79991234567", *fields.Telephone)
	assert.Equal(t, EmploymentWorking, *fields.Employment)
	assert.True(t, *fields.UserAgreement)
}

func TestEmployment(t *testing.T) {
	assert.True(t, EmploymentNone.IsValid())
	assert.True(t, EmploymentStudent.IsValid())
	assert.False(t, Employment("retired").IsValid())
	assert.Equal(t, "Working", EmploymentWorking.Label())
	assert.Equal(t, "Not selected", EmploymentNone.Label())
}
