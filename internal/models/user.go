package models

import (
	"strings"
)

type Employment string

const (
	EmploymentNone       Employment = ""
	EmploymentWorking    Employment = "working"
	EmploymentStudent    Employment = "student"
	EmploymentUnemployed Employment = "unemployed"
)

// Employments lists the selectable employment categories in display order.
var Employments = []Employment{
	EmploymentWorking,
	EmploymentStudent,
	EmploymentUnemployed,
}

func (e Employment) IsValid() bool {
	switch e {
	case EmploymentNone, EmploymentWorking, EmploymentStudent, EmploymentUnemployed:
		return true
	}
	return false
}

func (e Employment) Label() string {
	switch e {
	case EmploymentWorking:
		return "Working"
	case EmploymentStudent:
		return "Student"
	case EmploymentUnemployed:
		return "Unemployed"
	default:
		return "Not selected"
	}
}

// User is a user account as returned by the users API.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	SurName       string     `json:"surName"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	Telephone     string     `json:"telephone,omitempty"`
	Employment    Employment `json:"employment,omitempty"`
	UserAgreement *bool      `json:"userAgreement,omitempty"`
}

func (u *User) GetName() string {
	if len(u.FullName) > 0 {
		return u.FullName
	}
	if name := ComposeFullName(u.Name, u.SurName); len(name) > 0 {
		return name
	}
	if len(u.Email) > 0 {
		return u.Email
	}
	return "Unknown"
}

func (u *User) HasAgreed() bool {
	return u.UserAgreement != nil && *u.UserAgreement
}

// EditableUserFields holds the fields an operator may change on an existing
// user. Optional fields are pointers so that absent and zero differ.
type EditableUserFields struct {
	Name          string      `json:"name"`
	SurName       string      `json:"surName"`
	FullName      string      `json:"fullName"`
	Telephone     *string     `json:"telephone,omitempty"`
	Employment    *Employment `json:"employment,omitempty"`
	UserAgreement *bool       `json:"userAgreement,omitempty"`
}

// UserPatch is the normalized body sent with a partial update.
type UserPatch struct {
	Name          string      `json:"name"`
	SurName       string      `json:"surName"`
	FullName      string      `json:"fullName"`
	Telephone     string      `json:"telephone"`
	Employment    *Employment `json:"employment,omitempty"`
	UserAgreement bool        `json:"userAgreement"`
}

// Normalize trims every string field and fills the optional defaults:
// a missing telephone becomes "" and a missing agreement becomes false.
// Employment is passed through untouched.
func (f EditableUserFields) Normalize() UserPatch {
	patch := UserPatch{
		Name:       strings.TrimSpace(f.Name),
		SurName:    strings.TrimSpace(f.SurName),
		FullName:   strings.TrimSpace(f.FullName),
		Employment: f.Employment,
	}
	if f.Telephone != nil {
		patch.Telephone = strings.TrimSpace(*f.Telephone)
	}
	if f.UserAgreement != nil {
		patch.UserAgreement = *f.UserAgreement
	}
	return patch
}

// EditableFrom pre-fills the edit form from a cached record.
func EditableFrom(u User) EditableUserFields {
	telephone := u.Telephone
	employment := u.Employment
	agreed := u.HasAgreed()
	return EditableUserFields{
		Name:          u.Name,
		SurName:       u.SurName,
		FullName:      u.FullName,
		Telephone:     &telephone,
		Employment:    &employment,
		UserAgreement: &agreed,
	}
}

// NewUser is the body of a create request.
type NewUser struct {
	Name          string     `json:"name"`
	SurName       string     `json:"surName"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	Telephone     string     `json:"telephone,omitempty"`
	Employment    Employment `json:"employment,omitempty"`
	UserAgreement bool       `json:"userAgreement"`
}

// ComposeFullName joins name and surname the way the create and edit forms do.
func ComposeFullName(name, surName string) string {
	return strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(surName))
}

// UpdatedUser is the acknowledgement returned by a PATCH.
type UpdatedUser struct {
	ID string `json:"id"`
}
