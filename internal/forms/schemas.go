package forms

import (
	"strconv"

	"github.com/usersadmin/usersadmin/internal/models"
)

// Field names shared by the schemas and the views.
const (
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldName          = "name"
	FieldSurName       = "surName"
	FieldFullName      = "fullName"
	FieldTelephone     = "telephone"
	FieldEmployment    = "employment"
	FieldUserAgreement = "userAgreement"
)

const MaxNameLength = 64

func employmentValues() []string {
	values := make([]string, 0, len(models.Employments))
	for _, employment := range models.Employments {
		values = append(values, string(employment))
	}
	return values
}

func LoginSchema() Schema {
	return NewSchema(
		Field{Name: FieldEmail, Label: "Email", Validators: []Validator{Required(MessageEmailRequired), Email()}},
		Field{Name: FieldPassword, Label: "Password", Validators: []Validator{Required(MessageRequired)}},
	)
}

func CreateUserSchema() Schema {
	return NewSchema(
		Field{Name: FieldName, Label: "Name", Validators: []Validator{Required(MessageRequired), MaxLength(MaxNameLength)}},
		Field{Name: FieldSurName, Label: "Surname", Validators: []Validator{Required(MessageRequired), MaxLength(MaxNameLength)}},
		Field{Name: FieldFullName, Label: "Full name", Validators: []Validator{Required(MessageRequired)}},
		Field{Name: FieldPassword, Label: "Password", Validators: []Validator{Required(MessageRequired)}},
		Field{Name: FieldEmail, Label: "Email", Validators: []Validator{Required(MessageEmailRequired), Email()}},
		Field{Name: FieldTelephone, Label: "Telephone", Validators: []Validator{Telephone()}},
		Field{Name: FieldEmployment, Label: "Employment", Validators: []Validator{OneOf(employmentValues()...)}},
		Field{Name: FieldUserAgreement, Label: "User agreement", Validators: []Validator{MustBeTrue(MessageAgreement)}},
	)
}

func EditUserSchema() Schema {
	return NewSchema(
		Field{Name: FieldName, Label: "Name", Validators: []Validator{Required(MessageRequired)}},
		Field{Name: FieldSurName, Label: "Surname", Validators: []Validator{Required(MessageRequired)}},
		Field{Name: FieldFullName, Label: "Full name", Validators: []Validator{Required(MessageRequired)}},
		Field{Name: FieldTelephone, Label: "Telephone"},
		Field{Name: FieldEmployment, Label: "Employment", Validators: []Validator{OneOf(employmentValues()...)}},
	)
}

// NewUserValues flattens a create payload for Validate.
func NewUserValues(user models.NewUser) map[string]string {
	return map[string]string{
		FieldName:          user.Name,
		FieldSurName:       user.SurName,
		FieldFullName:      user.FullName,
		FieldPassword:      user.Password,
		FieldEmail:         user.Email,
		FieldTelephone:     user.Telephone,
		FieldEmployment:    string(user.Employment),
		FieldUserAgreement: strconv.FormatBool(user.UserAgreement),
	}
}

// EditableValues flattens edit fields for Validate.
func EditableValues(fields models.EditableUserFields) map[string]string {
	values := map[string]string{
		FieldName:     fields.Name,
		FieldSurName:  fields.SurName,
		FieldFullName: fields.FullName,
	}
	if fields.Telephone != nil {
		values[FieldTelephone] = *fields.Telephone
	}
	if fields.Employment != nil {
		values[FieldEmployment] = string(*fields.Employment)
	}
	return values
}
