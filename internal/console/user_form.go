package console

import (
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/usersadmin/usersadmin/internal/forms"
	"github.com/usersadmin/usersadmin/internal/models"
	"github.com/usersadmin/usersadmin/internal/style"
)

// userDraft holds the raw form values between attempts so a failed submit
// keeps what the operator typed.
type userDraft struct {
	Name          string
	SurName       string
	Email         string
	Password      string
	Telephone     string
	Employment    string
	UserAgreement bool
}

// FullName is derived; the operator never types it.
func (d userDraft) FullName() string {
	return models.ComposeFullName(d.Name, d.SurName)
}

func (d userDraft) NewUser() models.NewUser {
	return models.NewUser{
		Name:          d.Name,
		SurName:       d.SurName,
		FullName:      d.FullName(),
		Email:         d.Email,
		Password:      d.Password,
		Telephone:     d.Telephone,
		Employment:    models.Employment(d.Employment),
		UserAgreement: d.UserAgreement,
	}
}

func (d userDraft) Editable() models.EditableUserFields {
	telephone := d.Telephone
	employment := models.Employment(d.Employment)
	agreed := d.UserAgreement
	return models.EditableUserFields{
		Name:          d.Name,
		SurName:       d.SurName,
		FullName:      d.FullName(),
		Telephone:     &telephone,
		Employment:    &employment,
		UserAgreement: &agreed,
	}
}

func draftFromUser(user models.User) userDraft {
	return userDraft{
		Name:          user.Name,
		SurName:       user.SurName,
		Email:         user.Email,
		Telephone:     user.Telephone,
		Employment:    string(user.Employment),
		UserAgreement: user.HasAgreed(),
	}
}

// DraftPrompt edits a draft in place.
type DraftPrompt func(draft *userDraft) error

func employmentOptions() []huh.Option[string] {
	options := []huh.Option[string]{
		huh.NewOption(models.EmploymentNone.Label(), string(models.EmploymentNone)),
	}
	for _, employment := range models.Employments {
		options = append(options, huh.NewOption(employment.Label(), string(employment)))
	}
	return options
}

func fullNameNote(draft *userDraft) *huh.Note {
	return huh.NewNote().
		Title("Full name").
		DescriptionFunc(func() string {
			if name := draft.FullName(); len(name) > 0 {
				return style.Bold.Render(name)
			}
			return style.Dim.Render("derived from name and surname")
		}, []any{&draft.Name, &draft.SurName})
}

func promptCreateUser(draft *userDraft) error {
	schema := forms.CreateUserSchema()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				CharLimit(forms.MaxNameLength).
				Value(&draft.Name).
				Validate(schema.Validator(forms.FieldName)),
			huh.NewInput().
				Title("Surname").
				CharLimit(forms.MaxNameLength).
				Value(&draft.SurName).
				Validate(schema.Validator(forms.FieldSurName)),
			fullNameNote(draft),
			huh.NewInput().
				Title("Email").
				Value(&draft.Email).
				Validate(schema.Validator(forms.FieldEmail)),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&draft.Password).
				Validate(schema.Validator(forms.FieldPassword)),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Telephone").
				Placeholder("+79991231231").
				Value(&draft.Telephone).
				Validate(schema.Validator(forms.FieldTelephone)),
			huh.NewSelect[string]().
				Title("Employment").
				Options(employmentOptions()...).
				Value(&draft.Employment),
			huh.NewConfirm().
				Title("User agreement").
				Description("The user accepted the terms of service").
				Affirmative("Accepted").
				Negative("Not accepted").
				Value(&draft.UserAgreement).
				Validate(func(agreed bool) error {
					return schema.Validator(forms.FieldUserAgreement)(strconv.FormatBool(agreed))
				}),
		),
	)

	return form.Run()
}

func promptEditUser(draft *userDraft) error {
	schema := forms.EditUserSchema()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&draft.Name).
				Validate(schema.Validator(forms.FieldName)),
			huh.NewInput().
				Title("Surname").
				Value(&draft.SurName).
				Validate(schema.Validator(forms.FieldSurName)),
			fullNameNote(draft),
			huh.NewInput().
				Title("Telephone").
				Value(&draft.Telephone),
			huh.NewSelect[string]().
				Title("Employment").
				Options(employmentOptions()...).
				Value(&draft.Employment),
			huh.NewConfirm().
				Title("User agreement").
				Affirmative("Accepted").
				Negative("Not accepted").
				Value(&draft.UserAgreement),
		),
	)

	return form.Run()
}
