package shared

// Route identifies a screen of the client.
type Route string

const (
	RouteSignin    Route = "signin"
	RouteSignup    Route = "signup"
	RouteDashboard Route = "dashboard"
)

// Navigator switches the active screen.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Navigate(route Route) { f(route) }

// NopNavigator ignores navigation requests. Used by non-interactive commands.
type NopNavigator struct{}

func (NopNavigator) Navigate(Route) {}

// RecordingNavigator records every route it is asked to show.
type RecordingNavigator struct {
	Routes []Route
}

func (n *RecordingNavigator) Navigate(route Route) { n.Routes = append(n.Routes, route) }

// Last returns the most recent route or "" when none was requested.
func (n *RecordingNavigator) Last() Route {
	if len(n.Routes) == 0 {
		return ""
	}
	return n.Routes[len(n.Routes)-1]
}
