package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/surf/internal/content"
	"github.com/desertthunder/surf/internal/controllers"
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
)

// overviewTab is the transcript and concept tab shown before the generated sections.
const overviewTab = "Overview"

type tab struct {
	title   string
	section content.Section // empty for the overview
}

type dashboardView struct {
	ctl       *controllers.DashboardController
	registry  *content.Registry
	tabs      []tab
	active    int
	viewport  viewport.Model
	bar       progress.Model
	path      textinput.Model
	picking   bool
	progress  tasks.ProgressUpdate
	notice    string
	exportDir string
}

func newDashboardView(ctl *controllers.DashboardController, registry *content.Registry, exportDir string) *dashboardView {
	tabs := []tab{{title: overviewTab}}
	for _, t := range registry.Tabs() {
		tabs = append(tabs, tab{title: t.Title, section: t.Section})
	}

	path := newInput("Path to a video file (MP4, AVI, MOV)", false)
	path.CharLimit = 1024
	path.Width = 60

	return &dashboardView{
		ctl:       ctl,
		registry:  registry,
		tabs:      tabs,
		viewport:  viewport.New(80, 20),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		path:      path,
		exportDir: exportDir,
	}
}

func (v *dashboardView) mount(ctx context.Context) tea.Cmd {
	v.active = 0
	v.notice = ""
	v.picking = false
	v.refreshContent()
	return func() tea.Msg {
		return profileLoadedMsg(v.ctl.Mount(ctx))
	}
}

// resize fits the viewport below the profile card and tab bar.
func (v *dashboardView) resize(width, height int) {
	v.viewport.Width = max(width-4, 20)
	v.viewport.Height = max(height-18, 5)
	v.bar.Width = min(max(width-20, 10), 60)
	v.refreshContent()
}

// refreshContent re-renders the active tab into the viewport.
func (v *dashboardView) refreshContent() {
	v.viewport.SetContent(v.renderTab(v.ctl.State()))
}

func (v *dashboardView) renderTab(state controllers.DashboardState) string {
	if !state.HasContent || state.LastResult == nil {
		return string(formatter.RenderOverview(nil))
	}

	t := v.tabs[v.active]
	if t.section == "" {
		return string(formatter.RenderOverview(state.LastResult))
	}

	var buf bytes.Buffer
	if err := v.registry.Render(&buf, state.LastResult.Raw, t.section); err != nil {
		return fmt.Sprintf("Unable to render %s: %v", t.title, err)
	}
	return buf.String()
}

func (v *dashboardView) selectTab(i int) {
	n := len(v.tabs)
	v.active = (i + n) % n
	v.refreshContent()
	v.viewport.GotoTop()
}

func (v *dashboardView) updateViewport(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if v.picking {
		v.path, cmd = v.path.Update(msg)
		return cmd
	}
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// startUpload runs the upload in the background and listens for its progress updates.
func (v *dashboardView) startUpload(ctx context.Context, path string) tea.Cmd {
	ch := make(chan tasks.ProgressUpdate, 32)
	v.progress = tasks.ProgressUpdate{}
	v.notice = ""

	run := func() tea.Msg {
		result, err := v.ctl.Upload(ctx, path, ch)
		close(ch)
		return uploadDoneMsg(result, err)
	}
	return tea.Batch(run, waitForProgress(ch))
}

func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return uploadProgressMsg(update, ch)
	}
}

func (v *dashboardView) handleProgress(msg Msg) tea.Cmd {
	data := msg.data.(struct {
		update tasks.ProgressUpdate
		ch     <-chan tasks.ProgressUpdate
	})
	v.progress = data.update
	return waitForProgress(data.ch)
}

func (v *dashboardView) handleUploadDone(msg Msg) {
	data := msg.data.(struct {
		result *models.UploadResult
		err    error
	})
	switch {
	case errors.Is(data.err, controllers.ErrBusy):
		v.notice = "An upload is already in progress"
	case errors.Is(data.err, controllers.ErrStale):
		return
	case data.err == nil:
		v.notice = fmt.Sprintf("Processed %s", data.result.UserContext.Filename)
		v.selectTab(0)
		return
	}
	v.refreshContent()
}

func (v *dashboardView) savePreferences(ctx context.Context, req models.UpdatePreferencesRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := v.ctl.SavePreferences(ctx, req)
		return preferencesSavedMsg(err)
	}
}

func (v *dashboardView) export() {
	state := v.ctl.State()
	if state.LastResult == nil {
		v.notice = "Nothing to export yet"
		return
	}
	res, err := formatter.WriteMarkdownExport(state.LastResult, v.exportDir)
	if err != nil {
		v.notice = fmt.Sprintf("Export failed: %v", err)
		return
	}
	v.notice = fmt.Sprintf("Exported %d files to %s", len(res.Files), res.Directory)
}

func (m *Model) updateDashboard(msg tea.KeyMsg) tea.Cmd {
	v := m.dash

	if v.picking {
		switch {
		case key.Matches(msg, m.keys.back):
			v.picking = false
			v.path.Blur()
			return nil
		case key.Matches(msg, m.keys.submit):
			path := strings.TrimSpace(v.path.Value())
			v.picking = false
			v.path.Blur()
			if path == "" {
				return nil
			}
			return v.startUpload(m.ctx, path)
		}
		var cmd tea.Cmd
		v.path, cmd = v.path.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.left, m.keys.prev):
		v.selectTab(v.active - 1)
	case key.Matches(msg, m.keys.right, m.keys.next):
		v.selectTab(v.active + 1)
	case key.Matches(msg, m.keys.upload):
		if v.ctl.State().IsProcessing {
			v.notice = "An upload is already in progress"
			return nil
		}
		v.picking = true
		v.path.Reset()
		return v.path.Focus()
	case key.Matches(msg, m.keys.refresh):
		ctx := m.ctx
		return func() tea.Msg { return profileLoadedMsg(v.ctl.Refresh(ctx)) }
	case key.Matches(msg, m.keys.dyslexia):
		profile := v.ctl.State().Profile
		if profile == nil {
			return nil
		}
		req := profile.Preferences()
		req.DyslexiaSupport = !req.DyslexiaSupport
		return v.savePreferences(m.ctx, req)
	case key.Matches(msg, m.keys.export):
		v.export()
	case key.Matches(msg, m.keys.logout):
		if err := v.ctl.Logout(); err != nil {
			m.logger.Error("logout failed", "error", err)
		}
		return m.navigate(shared.RouteSignin)
	default:
		return v.updateViewport(msg)
	}
	return nil
}

func (m *Model) renderDashboard() string {
	v := m.dash
	state := v.ctl.State()

	var b strings.Builder
	b.WriteString(styles.card.Render(strings.TrimRight(string(formatter.RenderProfile(state.Profile)), "\n")))
	b.WriteString("\n")
	b.WriteString(errorLine(state.Error))

	switch {
	case v.picking:
		b.WriteString("\nUpload a video\n" + v.path.View() + "\n")
	case state.IsProcessing:
		b.WriteString("\n" + m.renderProgress(state) + "\n")
	case state.UploadError != "":
		b.WriteString(errorLine(state.UploadError))
	}
	if v.notice != "" {
		b.WriteString("\n" + styles.ok.Render(v.notice) + "\n")
	}
	if state.Saving {
		b.WriteString("\n" + m.spinner.View() + " Saving preferences...\n")
	}

	b.WriteString("\n" + v.renderTabs() + "\n\n")
	b.WriteString(v.viewport.View())

	keys := []key.Binding{m.keys.upload, m.keys.left, m.keys.right, m.keys.refresh, m.keys.dyslexia, m.keys.export, m.keys.logout, m.keys.quit}
	if v.picking {
		keys = []key.Binding{m.keys.submit, m.keys.back}
	}
	b.WriteString("\n\n" + m.helpView(keys...))
	return b.String()
}

func (v *dashboardView) renderTabs() string {
	rendered := make([]string, len(v.tabs))
	for i, t := range v.tabs {
		if i == v.active {
			rendered[i] = styles.activeTab.Render(t.title)
		} else {
			rendered[i] = styles.tab.Render(t.title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderProgress(state controllers.DashboardState) string {
	v := m.dash
	switch v.progress.Phase {
	case tasks.Process, tasks.Complete:
		return fmt.Sprintf("%s %s", m.spinner.View(), v.progress.Message)
	default:
		msg := v.progress.Message
		if msg == "" {
			msg = "Preparing upload..."
		}
		return fmt.Sprintf("%s\n%s", msg, v.bar.ViewAs(float64(state.Progress)/100))
	}
}
