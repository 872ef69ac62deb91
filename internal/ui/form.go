package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a stack of text inputs with a single focused field.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "  "
	in.CharLimit = 128
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

func newLoginForm() form {
	f := form{inputs: []textinput.Model{
		newInput("Email", false),
		newInput("Password", true),
	}}
	f.setFocus(0)
	return f
}

func newRegisterForm() form {
	f := form{inputs: []textinput.Model{
		newInput("Full name", false),
		newInput("Email", false),
		newInput("Password", true),
		newInput("Confirm password", true),
	}}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((i % n) + n) % n

	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			f.inputs[j].PromptStyle = styles.focused
			f.inputs[j].TextStyle = styles.focused
			continue
		}
		f.inputs[j].Blur()
		f.inputs[j].PromptStyle = styles.blurred
		f.inputs[j].TextStyle = plainStyle
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// last reports whether the final field is focused.
func (f form) last() bool { return f.focus == len(f.inputs)-1 }

func (f form) value(i int) string { return f.inputs[i].Value() }

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = styles.focused.Render("> ")
		}
		b.WriteString(marker + in.View() + "\n")
	}
	return b.String()
}
