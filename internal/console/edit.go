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

type EditView struct {
	users    *store.UserStore
	notifier Notifier
	prompt   DraftPrompt

	// pending keeps a rejected draft so the retry starts from it.
	pending   *userDraft
	pendingID string
}

func NewEditView(users *store.UserStore, notifier Notifier) *EditView {
	return &EditView{
		users:    users,
		notifier: notifier,
		prompt:   promptEditUser,
	}
}

func (v *EditView) Show(ctx context.Context, route router.Resolution) (Navigation, error) {

	id := route.Param("id")

	draft, err := v.load(ctx, id)
	if err != nil {
		v.notifier.Notify(models.MessageFetchUser, err.Error())
		return GoTo(router.HomePath), nil
	}

	if err := v.prompt(&draft); err != nil {
		v.pending = nil
		if errors.Is(err, huh.ErrUserAborted) {
			return GoTo(router.HomePath), nil
		}
		return Navigation{}, err
	}

	fields := draft.Editable()
	if err := forms.EditUserSchema().Validate(forms.EditableValues(fields)).Err(); err != nil {
		v.keep(id, draft)
		v.notifier.Notify(models.MessageUpdateAborted, err.Error())
		return GoTo(route.Path), nil
	}

	if _, err := v.users.Update(ctx, id, fields); err != nil {

		logrus.WithError(err).WithField("id", id).Debugln("Update failed")

		v.keep(id, draft)
		v.notifier.Notify(models.MessageUpdateAborted, err.Error())
		return GoTo(route.Path), nil
	}

	v.pending = nil
	return GoTo(router.HomePath), nil
}

// load fetches id into the cache and pre-fills from the cached record. A
// draft kept from a rejected submit of the same id takes precedence.
func (v *EditView) load(ctx context.Context, id string) (userDraft, error) {

	if _, err := v.users.FetchOne(ctx, id); err != nil {
		return userDraft{}, err
	}

	if v.pending != nil && v.pendingID == id {
		return *v.pending, nil
	}

	user, ok := v.users.Find(id)
	if !ok {
		return userDraft{}, &models.FetchError{ID: id, Message: models.MessageFetchUser}
	}

	return draftFromUser(*user), nil
}

func (v *EditView) keep(id string, draft userDraft) {
	v.pending = &draft
	v.pendingID = id
}
