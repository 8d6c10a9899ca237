package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/wedsite/internal/gesture"
)

// field is a labelled text input.
type field struct {
	label  string // message id
	input  textinput.Model
	format func(string) string
}

func newField(label string, limit int) *field {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = limit
	return &field{label: label, input: in}
}

func newSecretField(label string) *field {
	f := newField(label, 128)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func (f *field) value() string {
	return f.input.Value()
}

func (f *field) set(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
}

// focusRing moves focus over a list of fields that may change between
// calls. index is -1 when nothing has focus.
type focusRing struct {
	index int
}

func newFocusRing() focusRing {
	return focusRing{index: -1}
}

func (r *focusRing) active() bool {
	return r.index >= 0
}

func (r *focusRing) focus(fields []*field, i int) tea.Cmd {
	for _, f := range fields {
		f.input.Blur()
	}
	if i < 0 || i >= len(fields) {
		r.index = -1
		return nil
	}
	r.index = i
	return fields[i].input.Focus()
}

func (r *focusRing) blur(fields []*field) {
	r.focus(fields, -1)
}

func (r *focusRing) move(fields []*field, delta int) tea.Cmd {
	if len(fields) == 0 {
		return nil
	}
	i := r.index + delta
	if r.index < 0 {
		i = 0
	}
	i = (i + len(fields)) % len(fields)
	return r.focus(fields, i)
}

// forward sends a key to the focused field and applies its mask.
func (r *focusRing) forward(fields []*field, msg tea.Msg) tea.Cmd {
	if r.index < 0 || r.index >= len(fields) {
		return nil
	}
	f := fields[r.index]
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.format != nil {
		if masked := f.format(f.input.Value()); masked != f.input.Value() {
			f.set(masked)
		}
	}
	return cmd
}

// renderField draws label and input and makes the box focus the field when
// touched.
func renderField(a *App, s *screen, fields []*field, ring *focusRing, i, width int) {
	f := fields[i]
	st := a.styles
	s.add(st.Label.Render(a.tr.T(f.label)))

	box := st.Input
	if ring.index == i {
		box = st.InputFocused
	}
	f.input.Width = max(width-4, 8)
	rendered := box.Width(max(width-2, 10)).Render(f.input.View())
	s.area(rendered, gesture.TargetInput, func() tea.Cmd {
		return ring.focus(fields, i)
	})
}

// errorLine renders a validation or service error.
func errorLine(a *App, err error) string {
	if err == nil {
		return ""
	}
	return a.styles.Error.Render(a.tr.T("error") + ": " + userMessage(err))
}

func labelled(a *App, labelID, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, a.styles.Label.Render(a.tr.T(labelID)+": "), a.styles.Body.Render(value))
}
