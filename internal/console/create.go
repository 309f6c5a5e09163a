package console

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/forms"
	"github.com/usersadmin/usersadmin/internal/models"
	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/store"
)

type CreateView struct {
	users    *store.UserStore
	notifier Notifier
	prompt   DraftPrompt
	draft    userDraft
}

func NewCreateView(users *store.UserStore, notifier Notifier) *CreateView {
	return &CreateView{
		users:    users,
		notifier: notifier,
		prompt:   promptCreateUser,
	}
}

func (v *CreateView) Show(ctx context.Context, _ router.Resolution) (Navigation, error) {

	if err := v.prompt(&v.draft); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			v.draft = userDraft{}
			return GoTo(router.HomePath), nil
		}
		return Navigation{}, err
	}

	user := v.draft.NewUser()
	if err := forms.CreateUserSchema().Validate(forms.NewUserValues(user)).Err(); err != nil {
		v.notifier.Notify(models.MessageCreateFailed, err.Error())
		return GoTo(router.CreateUserPath), nil
	}

	if err := v.users.Create(ctx, user); err != nil {

		logrus.WithError(err).Debugln("Create failed")

		var createErr *models.CreateError
		message := err.Error()
		if errors.As(err, &createErr) {
			message = createErr.Message
		}
		v.notifier.Notify(models.MessageCreateFailed, message)

		return GoTo(router.CreateUserPath), nil
	}

	v.draft = userDraft{}
	return GoTo(router.HomePath), nil
}
