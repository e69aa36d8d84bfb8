// Package guard decides, per navigation, whether the current session may
// view a route. The decision is a pure function of the route's
// authorization class and the session state, so it is re-evaluated on
// every call and never cached.
package guard

// RouteClass is the authorization class a route requires.
type RouteClass int

const (
	// Public routes are always allowed.
	Public RouteClass = iota
	// PatientOnly routes require an authenticated session with the PATIENT role.
	PatientOnly
	// DoctorOnly routes require an authenticated session with the DOCTOR role.
	DoctorOnly
	// AnyAuthenticated routes require a token but no particular role.
	AnyAuthenticated
)

// String returns the class name, mainly for logging.
func (c RouteClass) String() string {
	switch c {
	case PatientOnly:
		return "patient-only"
	case DoctorOnly:
		return "doctor-only"
	case AnyAuthenticated:
		return "any-authenticated"
	default:
		return "public"
	}
}

// Session is the read-only view of session state the guard needs.
// *session.Store satisfies it.
type Session interface {
	IsAuthenticated() bool
	IsPatient() bool
	IsDoctor() bool
}

// LoginPath is where denied navigations are redirected.
const LoginPath = "/login"

// Decision is the outcome of evaluating a route: either Allow, or a
// redirect to RedirectTo.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Evaluate returns the decision for a route class against the given session.
func Evaluate(class RouteClass, s Session) Decision {
	allow := false
	switch class {
	case Public:
		allow = true
	case PatientOnly:
		allow = s.IsAuthenticated() && s.IsPatient()
	case DoctorOnly:
		allow = s.IsAuthenticated() && s.IsDoctor()
	case AnyAuthenticated:
		allow = s.IsAuthenticated()
	}
	if !allow {
		return Decision{RedirectTo: LoginPath}
	}
	return Decision{Allow: true}
}

// routes maps every known path to its authorization class.
var routes = map[string]RouteClass{
	"/":                Public,
	"/home":            Public,
	"/register":        Public,
	"/register-doctor": Public,
	"/login":           Public,
	"/forgot-password": Public,
	"/reset-password":  Public,

	"/profile":              PatientOnly,
	"/update-profile":       PatientOnly,
	"/book-appointment":     PatientOnly,
	"/my-appointments":      PatientOnly,
	"/consultation-history": PatientOnly,

	"/update-password": AnyAuthenticated,

	"/doctor/profile":                      DoctorOnly,
	"/doctor/update-profile":               DoctorOnly,
	"/doctor/appointments":                 DoctorOnly,
	"/doctor/create-consultation":          DoctorOnly,
	"/doctor/patient-consultation-history": DoctorOnly,
}

// Resolve returns the authorization class for a path. Unknown paths fall
// back to Public: the original application renders the home view for them.
func Resolve(path string) RouteClass {
	if c, ok := routes[path]; ok {
		return c
	}
	return Public
}

// Routes returns a copy of the full route surface, for callers that want
// to iterate it (tests, diagnostics).
func Routes() map[string]RouteClass {
	out := make(map[string]RouteClass, len(routes))
	for p, c := range routes {
		out[p] = c
	}
	return out
}
