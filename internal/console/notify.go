package console

import (
	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/usersadmin/usersadmin/internal/style"
)

// Notifier shows a message the operator has to acknowledge.
type Notifier interface {
	Notify(title, message string)
}

type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) {
	f(title, message)
}

type huhNotifier struct{}

func NewNotifier() Notifier {
	return huhNotifier{}
}

func (huhNotifier) Notify(title, message string) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(style.Error.Render(title)).
				Description(message).
				Next(true).
				NextLabel("OK"),
		),
	)

	if err := form.Run(); err != nil {
		logrus.WithError(err).Debugln("Notification dismissed")
	}
}
