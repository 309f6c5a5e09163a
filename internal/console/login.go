package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/usersadmin/usersadmin/internal/forms"
	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/store"
	"github.com/usersadmin/usersadmin/internal/style"
)

// CredentialsPrompt asks the operator for an email and password.
type CredentialsPrompt func(email, password *string) error

type LoginView struct {
	sessions *store.SessionStore
	out      io.Writer
	prompt   CredentialsPrompt
	email    string
}

func NewLoginView(sessions *store.SessionStore, out io.Writer) *LoginView {
	return &LoginView{
		sessions: sessions,
		out:      out,
		prompt:   PromptCredentials,
	}
}

// WithPrompt replaces the interactive credentials form.
func (v *LoginView) WithPrompt(prompt CredentialsPrompt) *LoginView {
	v.prompt = prompt
	return v
}

func (v *LoginView) Show(ctx context.Context, _ router.Resolution) (Navigation, error) {

	fmt.Fprintln(v.out, style.Title.Render(ApplicationTitle))

	var password string
	if err := v.prompt(&v.email, &password); err != nil {
		return Navigation{}, err
	}

	_, err := v.sessions.Login(ctx, strings.TrimSpace(v.email), password)
	if err != nil {
		fmt.Fprintln(v.out, style.ErrorPrefix, style.Error.Render(v.sessions.State().Error))
		return GoTo(router.LoginPath), nil
	}

	fmt.Fprintln(v.out, style.SuccessPrefix, style.Success.Render("Login successful!"))
	return GoTo(router.HomePath), nil
}

// PromptCredentials runs the login form. email is pre-filled with its
// current value.
func PromptCredentials(email, password *string) error {
	schema := forms.LoginSchema()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email).
				Validate(schema.Validator(forms.FieldEmail)),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(schema.Validator(forms.FieldPassword)),
		),
	)

	return form.Run()
}
