package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSession implements Session without touching the filesystem.
type fakeSession struct {
	authed  bool
	patient bool
	doctor  bool
}

func (f fakeSession) IsAuthenticated() bool { return f.authed }
func (f fakeSession) IsPatient() bool       { return f.patient }
func (f fakeSession) IsDoctor() bool        { return f.doctor }

var (
	anonymous = fakeSession{}
	patient   = fakeSession{authed: true, patient: true}
	doctor    = fakeSession{authed: true, doctor: true}
	roleless  = fakeSession{authed: true}
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		class   RouteClass
		session fakeSession
		allow   bool
	}{
		{"public anonymous", Public, anonymous, true},
		{"public patient", Public, patient, true},
		{"public doctor", Public, doctor, true},

		{"patient-only anonymous", PatientOnly, anonymous, false},
		{"patient-only patient", PatientOnly, patient, true},
		{"patient-only doctor", PatientOnly, doctor, false},
		{"patient-only roleless token", PatientOnly, roleless, false},

		{"doctor-only anonymous", DoctorOnly, anonymous, false},
		{"doctor-only patient", DoctorOnly, patient, false},
		{"doctor-only doctor", DoctorOnly, doctor, true},

		{"any-authenticated anonymous", AnyAuthenticated, anonymous, false},
		{"any-authenticated patient", AnyAuthenticated, patient, true},
		{"any-authenticated doctor", AnyAuthenticated, doctor, true},
		{"any-authenticated roleless token", AnyAuthenticated, roleless, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.class, tt.session)
			assert.Equal(t, tt.allow, d.Allow)
			if tt.allow {
				assert.Empty(t, d.RedirectTo)
			} else {
				assert.Equal(t, LoginPath, d.RedirectTo)
			}
		})
	}
}

func TestResolveKnownRoutes(t *testing.T) {
	expected := map[string]RouteClass{
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

	assert.Equal(t, expected, Routes())
	for path, class := range expected {
		assert.Equal(t, class, Resolve(path), path)
	}
}

func TestResolveUnknownFallsBackToPublic(t *testing.T) {
	assert.Equal(t, Public, Resolve("/no-such-page"))
	assert.Equal(t, Public, Resolve(""))
}

// Every route in the surface must allow exactly the sessions its class
// predicate accepts, and redirect everything else to /login.
func TestGuardOverFullRouteSurface(t *testing.T) {
	sessions := []fakeSession{anonymous, patient, doctor, roleless}

	predicate := func(c RouteClass, s fakeSession) bool {
		switch c {
		case PatientOnly:
			return s.authed && s.patient
		case DoctorOnly:
			return s.authed && s.doctor
		case AnyAuthenticated:
			return s.authed
		default:
			return true
		}
	}

	for path, class := range Routes() {
		for _, s := range sessions {
			d := Evaluate(class, s)
			want := predicate(class, s)
			assert.Equal(t, want, d.Allow, "%s with %+v", path, s)
			if !want {
				assert.Equal(t, LoginPath, d.RedirectTo, path)
			}
		}
	}
}
