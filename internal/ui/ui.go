package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/surf/internal/controllers"
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/session"
	"github.com/desertthunder/surf/internal/shared"
)

// RouteQueue is a [shared.Navigator] that hands route changes to the TUI event loop.
//
// Navigate never blocks; requests beyond the buffer are dropped.
type RouteQueue struct {
	ch chan shared.Route
}

// NewRouteQueue creates a [RouteQueue].
func NewRouteQueue() *RouteQueue {
	return &RouteQueue{ch: make(chan shared.Route, 8)}
}

func (q *RouteQueue) Navigate(route shared.Route) {
	select {
	case q.ch <- route:
	default:
	}
}

// wait blocks until the next route change and returns it as a [MsgRoute].
func (q *RouteQueue) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case route := <-q.ch:
			return routeMsg(route)
		case <-ctx.Done():
			return nil
		}
	}
}

// Options wires the TUI to the API client, upload workflow and session.
type Options struct {
	Auth     controllers.AuthAPI
	Profile  controllers.ProfileAPI
	Uploader controllers.Uploader
	Store    session.Store
	// Routes must also be the navigator of the upload workflow so that auth failures switch screens.
	Routes    *RouteQueue
	Logger    *log.Logger
	ExportDir string
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	routes  *RouteQueue
	route   shared.Route
	store   session.Store
	logger  *log.Logger
	width   int
	height  int
	help    help.Model
	keys    keyMap
	spinner spinner.Model

	signin *signinView
	signup *signupView
	dash   *dashboardView
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The first screen is the dashboard when the session holds a token and profile, sign in otherwise.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Routes == nil {
		opts.Routes = NewRouteQueue()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.focus

	dash := controllers.NewDashboardController(controllers.DashboardOpts{
		API:       opts.Profile,
		Uploader:  opts.Uploader,
		Store:     opts.Store,
		Navigator: opts.Routes,
		Logger:    opts.Logger,
	})

	route := shared.RouteSignin
	if opts.Store.Authenticated() {
		route = shared.RouteDashboard
	}

	return &Model{
		ctx:     ctx,
		routes:  opts.Routes,
		route:   route,
		store:   opts.Store,
		logger:  opts.Logger,
		help:    help.New(),
		keys:    newKeyMap(),
		spinner: s,
		signin:  newSigninView(controllers.NewSigninController(opts.Auth, opts.Routes, opts.Logger)),
		signup:  newSignupView(controllers.NewSignupController(opts.Auth, opts.Routes, opts.Logger)),
		dash:    newDashboardView(dash, formatter.NewRegistry(), opts.ExportDir),
	}
}

// Route returns the active screen.
func (m *Model) Route() shared.Route { return m.route }

// Init starts listening for route changes and enters the first screen.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.routes.wait(m.ctx), m.spinner.Tick, m.enter(m.route))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dash.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.exit) {
			return m, tea.Quit
		}
		switch m.route {
		case shared.RouteSignin:
			return m, m.updateSignin(msg)
		case shared.RouteSignup:
			return m, m.updateSignup(msg)
		case shared.RouteDashboard:
			return m, m.updateDashboard(msg)
		}

	case Msg:
		return m, m.handleMsg(msg)
	}

	return m, m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgRoute:
		route := msg.data.(shared.Route)
		m.logger.Debug("route change", "from", m.route, "to", route)
		return tea.Batch(m.routes.wait(m.ctx), m.navigate(route))
	case MsgSigninDone:
		if err := msg.err(); err != nil {
			m.logger.Debug("signin finished", "error", err)
		}
	case MsgSignupDone:
		if err := msg.err(); err != nil {
			m.logger.Debug("signup finished", "error", err)
		}
	case MsgProfileLoaded, MsgPreferencesSaved:
		m.dash.refreshContent()
	case MsgUploadProgress:
		return m.dash.handleProgress(msg)
	case MsgUploadDone:
		m.dash.handleUploadDone(msg)
	}
	return nil
}

// navigate switches screens, running the enter hook only when the route changes.
func (m *Model) navigate(route shared.Route) tea.Cmd {
	if route == m.route {
		return nil
	}
	m.route = route
	return m.enter(route)
}

func (m *Model) enter(route shared.Route) tea.Cmd {
	switch route {
	case shared.RouteSignin:
		m.dash.ctl.Unmount()
		return m.signin.reset()
	case shared.RouteSignup:
		return m.signup.reset()
	case shared.RouteDashboard:
		return m.dash.mount(m.ctx)
	}
	return nil
}

// updateActive forwards non-key messages (cursor blink, viewport) to the active screen.
func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	switch m.route {
	case shared.RouteSignin:
		return m.signin.updateInputs(msg)
	case shared.RouteSignup:
		return m.signup.updateInputs(msg)
	case shared.RouteDashboard:
		return m.dash.updateViewport(msg)
	}
	return nil
}

// View renders the UI based on the current route.
func (m *Model) View() string {
	var body string
	switch m.route {
	case shared.RouteSignin:
		body = m.renderSignin()
	case shared.RouteSignup:
		body = m.renderSignup()
	case shared.RouteDashboard:
		body = m.renderDashboard()
	}
	return fmt.Sprintf("%s\n%s", styles.title.Render("StudySurf"), body)
}

func (m *Model) helpView(keys ...key.Binding) string {
	return m.help.ShortHelpView(append(keys, m.keys.exit))
}

func errorLine(msg string) string {
	if msg == "" {
		return ""
	}
	return "\n" + styles.err.Render(msg) + "\n"
}
