package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/surf/internal/controllers"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// Focus positions on the academic and preference steps.
const (
	focusAge = iota
	focusLevel
	focusMajor
)

const (
	focusDyslexia = iota
	focusLanguage
	focusStyles
)

var stepTitles = map[int]string{
	controllers.StepBasicInfo:    "Basic Information",
	controllers.StepAcademicInfo: "Academic Information",
	controllers.StepPreferences:  "Learning Preferences",
}

type signupView struct {
	ctl *controllers.SignupController

	basic    []textinput.Model // name, username, password, confirm
	academic []textinput.Model // age, major
	level    int
	language int
	dyslexia bool
	styles   list.Model
	focus    int
}

func newSignupView(ctl *controllers.SignupController) *signupView {
	v := &signupView{ctl: ctl}
	v.build()
	return v
}

func (v *signupView) build() {
	v.basic = []textinput.Model{
		newInput("Full name", false),
		newInput("Username", false),
		newInput("Password", true),
		newInput("Confirm password", true),
	}
	age := newInput("Age", false)
	age.CharLimit = 3
	age.SetValue(strconv.Itoa(controllers.DefaultAge))
	v.academic = []textinput.Model{age, newInput("Major (optional)", false)}
	v.level = -1
	v.language = -1
	v.dyslexia = false
	v.styles = newLearningStyleList(nil)
	v.focus = 0
}

func (v *signupView) reset() tea.Cmd {
	v.ctl.Reset()
	v.build()
	return focusInputs(v.basic, 0)
}

func (v *signupView) step() int { return v.ctl.State().Step }

// fieldCount is the number of focusable fields on the current step.
func (v *signupView) fieldCount() int {
	if v.step() == controllers.StepBasicInfo {
		return len(v.basic)
	}
	return 3
}

func (v *signupView) setFocus(i int) tea.Cmd {
	n := v.fieldCount()
	v.focus = (i + n) % n
	switch v.step() {
	case controllers.StepBasicInfo:
		return focusInputs(v.basic, v.focus)
	case controllers.StepAcademicInfo:
		switch v.focus {
		case focusAge:
			return focusInputs(v.academic, 0)
		case focusMajor:
			return focusInputs(v.academic, 1)
		default:
			return focusInputs(v.academic, -1)
		}
	}
	return nil
}

// sync copies the widget values into the controller form.
func (v *signupView) sync() {
	v.ctl.Edit(func(f *controllers.SignupForm) {
		f.Name = v.basic[0].Value()
		f.Username = v.basic[1].Value()
		f.Password = v.basic[2].Value()
		f.ConfirmPassword = v.basic[3].Value()

		age, err := strconv.Atoi(strings.TrimSpace(v.academic[0].Value()))
		if err != nil {
			age = -1
		}
		f.Age = age
		f.Major = v.academic[1].Value()
		f.AcademicLevel = choice(models.AcademicLevels, v.level)

		f.DyslexiaSupport = v.dyslexia
		f.LanguagePreference = choice(models.Languages, v.language)
	})
}

func choice(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return ""
	}
	return options[i]
}

func cycle(i, delta, n int) int {
	if i < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return (i + delta + n) % n
}

func (v *signupView) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.step() {
	case controllers.StepBasicInfo:
		v.basic[v.focus], cmd = v.basic[v.focus].Update(msg)
	case controllers.StepAcademicInfo:
		switch v.focus {
		case focusAge:
			v.academic[0], cmd = v.academic[0].Update(msg)
		case focusMajor:
			v.academic[1], cmd = v.academic[1].Update(msg)
		}
	case controllers.StepPreferences:
		if v.focus == focusStyles {
			v.styles, cmd = v.styles.Update(msg)
		}
	}
	return cmd
}

func (v *signupView) toggleStyle() {
	item, ok := v.styles.SelectedItem().(learningStyleItem)
	if !ok {
		return
	}
	selected := v.ctl.ToggleLearningStyle(item.style.ID)
	v.styles.SetItems(learningStyleItems(selected))
}

func (v *signupView) submit(ctx context.Context) tea.Cmd {
	v.sync()
	if v.ctl.State().Status == controllers.StatusSubmitting {
		return nil
	}
	return func() tea.Msg {
		return signupDoneMsg(v.ctl.Submit(ctx))
	}
}

func (m *Model) updateSignup(msg tea.KeyMsg) tea.Cmd {
	v := m.signup
	step := v.step()

	switch {
	case key.Matches(msg, m.keys.back):
		if step == controllers.StepBasicInfo {
			return m.navigate(shared.RouteSignin)
		}
		v.sync()
		v.ctl.Back()
		return v.setFocus(0)
	case key.Matches(msg, m.keys.next):
		return v.setFocus(v.focus + 1)
	case key.Matches(msg, m.keys.prev):
		return v.setFocus(v.focus - 1)
	case key.Matches(msg, m.keys.submit):
		return m.advanceSignup()
	}

	switch step {
	case controllers.StepBasicInfo:
		switch {
		case key.Matches(msg, m.keys.down):
			return v.setFocus(v.focus + 1)
		case key.Matches(msg, m.keys.up):
			return v.setFocus(v.focus - 1)
		}
	case controllers.StepAcademicInfo:
		switch {
		case key.Matches(msg, m.keys.down):
			return v.setFocus(v.focus + 1)
		case key.Matches(msg, m.keys.up):
			return v.setFocus(v.focus - 1)
		case v.focus == focusLevel && key.Matches(msg, m.keys.left):
			v.level = cycle(v.level, -1, len(models.AcademicLevels))
			return nil
		case v.focus == focusLevel && key.Matches(msg, m.keys.right):
			v.level = cycle(v.level, 1, len(models.AcademicLevels))
			return nil
		}
	case controllers.StepPreferences:
		switch {
		case v.focus == focusDyslexia && key.Matches(msg, m.keys.toggle):
			v.dyslexia = !v.dyslexia
			return nil
		case v.focus == focusLanguage && key.Matches(msg, m.keys.left):
			v.language = cycle(v.language, -1, len(models.Languages))
			return nil
		case v.focus == focusLanguage && key.Matches(msg, m.keys.right):
			v.language = cycle(v.language, 1, len(models.Languages))
			return nil
		case v.focus == focusStyles && key.Matches(msg, m.keys.toggle):
			v.toggleStyle()
			return nil
		case v.focus != focusStyles && key.Matches(msg, m.keys.down):
			return v.setFocus(v.focus + 1)
		case v.focus != focusStyles && key.Matches(msg, m.keys.up):
			return v.setFocus(v.focus - 1)
		}
	}
	return v.updateInputs(msg)
}

// advanceSignup moves to the next field, the next step or submits on the last step.
func (m *Model) advanceSignup() tea.Cmd {
	v := m.signup
	switch v.step() {
	case controllers.StepBasicInfo:
		if v.focus < len(v.basic)-1 {
			return v.setFocus(v.focus + 1)
		}
		v.sync()
		if !v.ctl.ValidatePasswords() {
			return nil
		}
	case controllers.StepAcademicInfo:
		v.sync()
	case controllers.StepPreferences:
		return v.submit(m.ctx)
	}
	v.ctl.Next()
	return v.setFocus(0)
}

func (m *Model) renderSignup() string {
	v := m.signup
	state := v.ctl.State()

	var b strings.Builder
	fmt.Fprintf(&b, "Create your account · Step %d of 3: %s\n\n", state.Step, stepTitles[state.Step])

	switch state.Step {
	case controllers.StepBasicInfo:
		for _, in := range v.basic {
			b.WriteString(in.View() + "\n")
		}
		b.WriteString(errorLine(state.PasswordError))
	case controllers.StepAcademicInfo:
		b.WriteString(v.academic[0].View() + "\n")
		b.WriteString(selector(v.focus == focusLevel, "Academic level", choice(models.AcademicLevels, v.level)) + "\n")
		b.WriteString(v.academic[1].View() + "\n")
	case controllers.StepPreferences:
		check := "[ ]"
		if v.dyslexia {
			check = "[x]"
		}
		b.WriteString(field(v.focus == focusDyslexia, check+" Dyslexia support") + "\n")
		b.WriteString(selector(v.focus == focusLanguage, "Language", choice(models.Languages, v.language)) + "\n\n")
		b.WriteString(v.styles.View() + "\n")
		b.WriteString(errorLine(state.PasswordError))
	}

	b.WriteString(errorLine(state.Error))
	if state.Status == controllers.StatusSubmitting {
		b.WriteString("\n" + m.spinner.View() + " Creating account...\n")
	}

	keys := []key.Binding{m.keys.next, m.keys.submit, m.keys.back}
	if state.Step > controllers.StepBasicInfo {
		keys = append(keys, m.keys.left, m.keys.toggle)
	}
	b.WriteString("\n" + m.helpView(keys...))
	return b.String()
}

func field(focused bool, label string) string {
	if focused {
		return styles.focus.Render("> ") + label
	}
	return "  " + label
}

func selector(focused bool, label, value string) string {
	if value == "" {
		value = "Select " + strings.ToLower(label)
	}
	return field(focused, fmt.Sprintf("%s: < %s >", label, value))
}
