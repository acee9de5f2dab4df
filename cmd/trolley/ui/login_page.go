package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/api"
)

// loginField indexes the focused input.
type loginField int

const (
	fieldUsername loginField = iota
	fieldEmail
	fieldPassword
)

// LoginPage handles sign-in, registration and the signed-in account view.
type LoginPage struct {
	username textinput.Model
	email    textinput.Model
	password textinput.Model

	registerMode bool
	focus        loginField
	busy         bool
}

// NewLoginPage creates the account page.
func NewLoginPage() LoginPage {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 40
	username.Width = 28
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 80
	email.Width = 28

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 80
	password.Width = 28
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginPage{username: username, email: email, password: password}
}

// SetRegisterMode switches between sign-in and registration.
func (p *LoginPage) SetRegisterMode(register bool) {
	p.registerMode = register
	p.focus = fieldUsername
	p.syncFocus()
}

// NextField advances focus, skipping email outside register mode.
func (p *LoginPage) NextField() {
	p.focus++
	if p.focus == fieldEmail && !p.registerMode {
		p.focus++
	}
	if p.focus > fieldPassword {
		p.focus = fieldUsername
	}
	p.syncFocus()
}

func (p *LoginPage) syncFocus() {
	p.username.Blur()
	p.email.Blur()
	p.password.Blur()
	switch p.focus {
	case fieldUsername:
		p.username.Focus()
	case fieldEmail:
		p.email.Focus()
	case fieldPassword:
		p.password.Focus()
	}
}

// UpdateInputs forwards a message to the focused input.
func (p *LoginPage) UpdateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case fieldUsername:
		p.username, cmd = p.username.Update(msg)
	case fieldEmail:
		p.email, cmd = p.email.Update(msg)
	case fieldPassword:
		p.password, cmd = p.password.Update(msg)
	}
	return cmd
}

// Values returns the trimmed form values.
func (p *LoginPage) Values() (username, email, password string) {
	return strings.TrimSpace(p.username.Value()),
		strings.TrimSpace(p.email.Value()),
		p.password.Value()
}

// ClearPassword wipes the password field after an attempt.
func (p *LoginPage) ClearPassword() {
	p.password.SetValue("")
}

// View renders either the account summary or the auth form.
func (p LoginPage) View(styles Styles, identity *api.Identity, spinnerView string) string {
	var sb strings.Builder

	if identity != nil {
		sb.WriteString(styles.Title.Render("Account") + "\n")
		sb.WriteString("Signed in as " + styles.Bold.Render(identity.Username) + "\n")
		if identity.IsAdmin() {
			sb.WriteString(styles.Warning.Render("administrator") + "\n")
		}
		sb.WriteString("\n" + styles.Muted.Render("L logs out"))
		return sb.String()
	}

	if p.registerMode {
		sb.WriteString(styles.Title.Render("Create account") + "\n")
	} else {
		sb.WriteString(styles.Title.Render("Sign in") + "\n")
	}

	sb.WriteString(p.username.View() + "\n")
	if p.registerMode {
		sb.WriteString(p.email.View() + "\n")
	}
	sb.WriteString(p.password.View() + "\n")

	if p.busy {
		sb.WriteString("\n" + spinnerView + " contacting the shop...\n")
	}

	hint := "tab next field · enter submits · ctrl+r to register instead"
	if p.registerMode {
		hint = "tab next field · enter submits · ctrl+r to sign in instead"
	}
	sb.WriteString("\n" + styles.Muted.Render(hint))
	return sb.String()
}
