package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/surf/internal/controllers"
	"github.com/desertthunder/surf/internal/shared"
)

type signinView struct {
	ctl    *controllers.SigninController
	inputs []textinput.Model
	focus  int
}

func newSigninView(ctl *controllers.SigninController) *signinView {
	username := newInput("Username", false)
	password := newInput("Password", true)
	return &signinView{ctl: ctl, inputs: []textinput.Model{username, password}}
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40
	ti.Prompt = "  "
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func (v *signinView) reset() tea.Cmd {
	v.ctl.Reset()
	for i := range v.inputs {
		v.inputs[i].Reset()
	}
	return v.setFocus(0)
}

func (v *signinView) setFocus(i int) tea.Cmd {
	v.focus = (i + len(v.inputs)) % len(v.inputs)
	return focusInputs(v.inputs, v.focus)
}

// focusInputs focuses inputs[focus] and blurs the rest.
func focusInputs(inputs []textinput.Model, focus int) tea.Cmd {
	var cmd tea.Cmd
	for i := range inputs {
		if i == focus {
			cmd = inputs[i].Focus()
			inputs[i].PromptStyle = styles.focus
			inputs[i].Prompt = "> "
			continue
		}
		inputs[i].Blur()
		inputs[i].Prompt = "  "
	}
	return cmd
}

func (v *signinView) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *signinView) submit(ctx context.Context) tea.Cmd {
	if v.ctl.State().Submitting() {
		return nil
	}
	username := v.inputs[0].Value()
	password := v.inputs[1].Value()
	return func() tea.Msg {
		return signinDoneMsg(v.ctl.Submit(ctx, username, password))
	}
}

func (m *Model) updateSignin(msg tea.KeyMsg) tea.Cmd {
	v := m.signin
	switch {
	case key.Matches(msg, m.keys.signup):
		return m.navigate(shared.RouteSignup)
	case key.Matches(msg, m.keys.next, m.keys.down):
		return v.setFocus(v.focus + 1)
	case key.Matches(msg, m.keys.prev, m.keys.up):
		return v.setFocus(v.focus - 1)
	case key.Matches(msg, m.keys.submit):
		if v.focus < len(v.inputs)-1 {
			return v.setFocus(v.focus + 1)
		}
		return v.submit(m.ctx)
	}
	return v.updateInputs(msg)
}

func (m *Model) renderSignin() string {
	v := m.signin
	state := v.ctl.State()

	var b strings.Builder
	b.WriteString("Sign in to your account\n\n")
	for _, in := range v.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString(errorLine(state.Error))
	if state.Submitting() {
		b.WriteString("\n" + m.spinner.View() + " Signing in...\n")
	}

	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in"))
	b.WriteString("\n" + m.helpView(m.keys.next, submit, m.keys.signup))
	return b.String()
}
