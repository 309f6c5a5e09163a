package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/store"
	"github.com/usersadmin/usersadmin/internal/style"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ApplicationTitle = "Users Admin"

// Layout is the frame shared by every protected view.
type Layout struct {
	sessions *store.SessionStore
	out      io.Writer
}

func NewLayout(sessions *store.SessionStore, out io.Writer) *Layout {
	return &Layout{sessions: sessions, out: out}
}

func (l *Layout) Render(route router.Resolution) {
	fmt.Fprintln(l.out, l.Header(route))
}

func (l *Layout) Header(route router.Resolution) string {
	var header strings.Builder

	header.WriteString(style.Bar.Render(ApplicationTitle))
	header.WriteString(" ")
	header.WriteString(style.Header.Render(viewTitle(route.View)))

	if identity := l.sessions.Identity(); identity != nil {
		header.WriteString("  ")
		header.WriteString(style.Dim.Render("signed in as "))
		header.WriteString(style.Active.Render(identity.Email))
	}

	return header.String()
}

func viewTitle(view router.View) string {
	words := strings.ReplaceAll(string(view), "-", " ")
	return cases.Title(language.Und).String(words)
}
