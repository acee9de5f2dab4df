package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
	ToastWarning
)

// Toast is a transient one-line notification.
type Toast struct {
	Kind    ToastKind
	Message string
	seq     int
}

// toastExpiredMsg clears a toast after its display window.
type toastExpiredMsg struct{ seq int }

// Show replaces the current toast and schedules its expiry.
func (t *Toast) Show(kind ToastKind, message string) tea.Cmd {
	t.Kind = kind
	t.Message = message
	t.seq++
	seq := t.seq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Update clears the toast when its own expiry fires. A newer toast's
// sequence keeps an older expiry from wiping it.
func (t *Toast) Update(msg tea.Msg) {
	if expired, ok := msg.(toastExpiredMsg); ok && expired.seq == t.seq {
		t.Message = ""
	}
}

// View renders the toast, or an empty string when idle.
func (t Toast) View(styles Styles) string {
	if t.Message == "" {
		return ""
	}
	switch t.Kind {
	case ToastSuccess:
		return styles.Success.Render(t.Message)
	case ToastError:
		return styles.Error.Render(t.Message)
	case ToastWarning:
		return styles.Warning.Render(t.Message)
	default:
		return styles.Info.Render(t.Message)
	}
}
