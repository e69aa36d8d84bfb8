// Package stubserver is an in-memory stand-in for the telemedicine
// platform's REST backend. It implements the envelope wire contract
// closely enough for integration tests and local development; it is not
// the real backend and keeps no durable state.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server holds all in-memory state behind a single mutex; the data volume
// in tests and local runs never justifies anything finer.
type Server struct {
	log    *zap.Logger
	secret []byte

	mu            sync.Mutex
	nextID        int64
	users         map[int64]*user
	byEmail       map[string]int64
	patients      map[int64]*patientProfile
	doctors       map[int64]*doctorProfile
	appointments  map[int64]*appointment
	consultations map[int64]*consultation
	resetCodes    map[string]int64
}

type user struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Roles        []string
	PictureURL   string
	CreatedAt    time.Time
}

type patientProfile struct {
	UserID         int64  `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	DateOfBirth    string `json:"dateOfBirth"`
	KnownAllergies string `json:"knownAllergies"`
	BloodGroup     string `json:"bloodGroup"`
	Genotype       string `json:"genotype"`
}

type doctorProfile struct {
	UserID         int64  `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
}

type appointment struct {
	ID                    int64     `json:"id"`
	PatientID             int64     `json:"patientId"`
	DoctorID              int64     `json:"doctorId"`
	PurposeOfConsultation string    `json:"purposeOfConsultation"`
	InitialSymptoms       string    `json:"initialSymptoms"`
	StartTime             time.Time `json:"startTime"`
	Status                string    `json:"status"`
	MeetingLink           string    `json:"meetingLink"`
}

type consultation struct {
	ID                int64     `json:"id"`
	AppointmentID     int64     `json:"appointmentId"`
	PatientID         int64     `json:"patientId"`
	DoctorID          int64     `json:"doctorId"`
	SubjectiveNotes   string    `json:"subjectiveNotes"`
	ObjectiveFindings string    `json:"objectiveFindings"`
	Assessment        string    `json:"assessment"`
	Plan              string    `json:"plan"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Appointment lifecycle states.
const (
	statusScheduled = "SCHEDULED"
	statusCancelled = "CANCELLED"
	statusCompleted = "COMPLETED"
)

// New returns an empty stub server. secret signs the bearer tokens it
// issues.
func New(log *zap.Logger, secret []byte) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log:           log,
		secret:        secret,
		users:         make(map[int64]*user),
		byEmail:       make(map[string]int64),
		patients:      make(map[int64]*patientProfile),
		doctors:       make(map[int64]*doctorProfile),
		appointments:  make(map[int64]*appointment),
		consultations: make(map[int64]*consultation),
		resetCodes:    make(map[string]int64),
	}
}

// Handler builds the full router. Public endpoints (auth, doctor directory,
// enum lists) sit outside the bearer-auth group.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.withRequestLogging)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/forgot-password", s.handleForgotPassword)
		r.Post("/auth/reset-password", s.handleResetPassword)

		r.Get("/patients/genotypes", s.handleGenotypes)
		r.Get("/patients/bloodgroup", s.handleBloodGroups)
		r.Get("/doctors/specializations", s.handleSpecializations)
		r.Get("/doctors", s.handleListDoctors)
		r.Get("/doctors/{id}", s.handleGetDoctor)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.bearerAuth)

			r.Get("/users/me", s.handleCurrentUser)
			r.Get("/users/by-id/{id}", s.handleUserByID)
			r.Get("/users/all", s.handleListUsers)
			r.Put("/users/update-password", s.handleUpdatePassword)
			r.Put("/users/profile-picture", s.handleUploadPicture)

			r.Get("/patients/me", s.handleMyPatientProfile)
			r.Put("/patients/me", s.handleUpdatePatientProfile)
			r.Get("/patients/{id}", s.handleGetPatient)

			r.Get("/doctors/me", s.handleMyDoctorProfile)
			r.Put("/doctors/me", s.handleUpdateDoctorProfile)

			r.Post("/appointments", s.handleBookAppointment)
			r.Get("/appointments", s.handleListAppointments)
			r.Put("/appointments/cancel/{id}", s.handleCancelAppointment)
			r.Put("/appointments/complete/{id}", s.handleCompleteAppointment)

			r.Post("/consultations", s.handleCreateConsultation)
			r.Get("/consultations/appointment/{id}", s.handleConsultationByAppointment)
			r.Get("/consultations/history", s.handleConsultationHistory)
		})
	})
	return r
}

// withRequestLogging logs each request with its latency.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// envelope mirrors the platform's response wrapper.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// writeEnvelope sends an application-level result over HTTP 200; HTTP-level
// success deliberately does not imply application-level success.
func writeEnvelope(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{StatusCode: statusCode, Message: message, Data: data})
}

// writeHTTPError sends an envelope with a matching HTTP status, used for
// transport-level rejections like missing credentials.
func writeHTTPError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{StatusCode: status, Message: message})
}

// urlID parses the {id} path parameter.
func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

// userView is the JSON shape user records are served in; the password hash
// never leaves the server.
type userView struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Roles             []string  `json:"roles"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func viewOf(u *user) userView {
	return userView{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Roles:             u.Roles,
		ProfilePictureURL: u.PictureURL,
		CreatedAt:         u.CreatedAt,
	}
}
