package stubserver_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedhq/telemed/internal/api"
	"github.com/telemedhq/telemed/internal/guard"
	"github.com/telemedhq/telemed/internal/session"
	"github.com/telemedhq/telemed/internal/stubserver"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(stubserver.New(nil, []byte("test-secret")).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, backend *httptest.Server) (*api.Client, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return api.New(backend.URL, store, nil), store
}

// login registers an account if needed, logs in, and persists the session
// the way the CLI does.
func login(t *testing.T, c *api.Client, store *session.Store, email, password string) {
	t.Helper()
	env, err := c.Login(context.Background(), api.Credentials{Email: email, Password: password})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	var res api.AuthResult
	require.NoError(t, env.DecodeData(&res))
	require.NoError(t, store.Save(res.Token, res.Roles))
}

func registerPatient(t *testing.T, c *api.Client, name, email, password string) {
	t.Helper()
	env, err := c.RegisterPatient(context.Background(), api.PatientRegistration{
		Name: name, Email: email, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)
}

func registerDoctor(t *testing.T, c *api.Client, name, email, password string) int64 {
	t.Helper()
	env, err := c.RegisterDoctor(context.Background(), api.DoctorRegistration{
		Name: name, Email: email, Password: password,
		LicenseNumber: "MD-0001", Specialization: "CARDIOLOGY",
	})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, env.DecodeData(&created))
	return created.ID
}

func TestLoginPopulatesSession(t *testing.T) {
	backend := newBackend(t)
	c, store := newClient(t, backend)

	registerPatient(t, c, "Ada Lovelace", "ada@example.com", "s3cret")
	login(t, c, store, "ada@example.com", "s3cret")

	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsPatient())
	assert.False(t, store.IsDoctor())

	// The guard now admits patient routes and still blocks doctor routes.
	assert.True(t, guard.Evaluate(guard.PatientOnly, store).Allow)
	assert.False(t, guard.Evaluate(guard.DoctorOnly, store).Allow)
	assert.True(t, guard.Evaluate(guard.AnyAuthenticated, store).Allow)
}

func TestBadLoginLeavesSessionEmpty(t *testing.T) {
	backend := newBackend(t)
	c, store := newClient(t, backend)

	env, err := c.Login(context.Background(), api.Credentials{Email: "nobody@example.com", Password: "wrong"})
	require.NoError(t, err)
	assert.False(t, env.OK())
	assert.NotEmpty(t, env.Message)
	assert.False(t, store.IsAuthenticated())
}

func TestProtectedEndpointWithoutToken(t *testing.T) {
	backend := newBackend(t)
	c, _ := newClient(t, backend)

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*api.Error)
	require.True(t, ok)
	assert.Equal(t, api.KindHTTP, apiErr.Kind)
	assert.Equal(t, 401, apiErr.HTTPStatus)
	assert.NotEmpty(t, apiErr.Message)
}

func TestAppointmentLifecycle(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	docClient, docStore := newClient(t, backend)
	doctorID := registerDoctor(t, docClient, "Greg House", "house@example.com", "vicodin")
	login(t, docClient, docStore, "house@example.com", "vicodin")

	patClient, patStore := newClient(t, backend)
	registerPatient(t, patClient, "John Smith", "john@example.com", "passwd")
	login(t, patClient, patStore, "john@example.com", "passwd")

	// Patient books.
	env, err := patClient.BookAppointment(ctx, api.AppointmentRequest{
		DoctorID:              doctorID,
		PurposeOfConsultation: "chest pain",
		InitialSymptoms:       "intermittent pain",
		StartTime:             time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	var booked struct {
		ID          int64  `json:"id"`
		Status      string `json:"status"`
		MeetingLink string `json:"meetingLink"`
	}
	require.NoError(t, env.DecodeData(&booked))
	assert.Equal(t, "SCHEDULED", booked.Status)
	assert.NotEmpty(t, booked.MeetingLink)

	// Both parties see it.
	for _, c := range []*api.Client{patClient, docClient} {
		env, err := c.ListMyAppointments(ctx)
		require.NoError(t, err)
		var list []struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, env.DecodeData(&list))
		require.Len(t, list, 1)
		assert.Equal(t, booked.ID, list[0].ID)
	}

	// Only the doctor completes; the consultation note follows.
	env, err = patClient.CompleteAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.False(t, env.OK())

	env, err = docClient.CompleteAppointment(ctx, booked.ID)
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	env, err = docClient.CreateConsultation(ctx, api.ConsultationNote{
		AppointmentID:   booked.ID,
		SubjectiveNotes: "reports chest pain",
		Assessment:      "likely muscular",
		Plan:            "rest, follow up in two weeks",
	})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	// A completed appointment cannot be cancelled afterwards.
	env, err = patClient.CancelAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.False(t, env.OK())

	// Patient sees the note in their own history without a patientId.
	env, err = patClient.GetConsultationHistory(ctx, nil)
	require.NoError(t, err)
	var history []struct {
		AppointmentID int64 `json:"appointmentId"`
	}
	require.NoError(t, env.DecodeData(&history))
	require.Len(t, history, 1)
	assert.Equal(t, booked.ID, history[0].AppointmentID)
}

func TestUpdatePasswordForcesLogout(t *testing.T) {
	backend := newBackend(t)
	c, store := newClient(t, backend)
	ctx := context.Background()

	registerPatient(t, c, "Ada Lovelace", "ada@example.com", "oldpass")
	login(t, c, store, "ada@example.com", "oldpass")

	env, err := c.UpdatePassword(ctx, api.PasswordUpdate{OldPassword: "oldpass", NewPassword: "newpass"})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	// The caller clears the session on success: forced re-authentication.
	require.NoError(t, store.Clear())
	assert.False(t, store.IsAuthenticated())

	login(t, c, store, "ada@example.com", "newpass")
	assert.True(t, store.IsAuthenticated())
}

func TestForgotAndResetPassword(t *testing.T) {
	backend := newBackend(t)
	c, store := newClient(t, backend)
	ctx := context.Background()

	registerPatient(t, c, "Ada Lovelace", "ada@example.com", "oldpass")

	env, err := c.ForgotPassword(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, env.OK())

	var reset struct {
		Code string `json:"code"`
	}
	require.NoError(t, env.DecodeData(&reset))
	require.NotEmpty(t, reset.Code)

	env, err = c.ResetPassword(ctx, api.PasswordReset{
		Code: reset.Code, NewPassword: "brandnew", ConfirmPassword: "brandnew",
	})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	login(t, c, store, "ada@example.com", "brandnew")
	assert.True(t, store.IsAuthenticated())
}

func TestProfileRoundTrip(t *testing.T) {
	backend := newBackend(t)
	c, store := newClient(t, backend)
	ctx := context.Background()

	registerPatient(t, c, "Ada Lovelace", "ada@example.com", "s3cret")
	login(t, c, store, "ada@example.com", "s3cret")

	env, err := c.UpdateMyPatientProfile(ctx, api.PatientProfileUpdate{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Phone:      "555-0100",
		BloodGroup: "O_POSITIVE",
		Genotype:   "AA",
	})
	require.NoError(t, err)
	require.True(t, env.OK(), env.Message)

	env, err = c.GetMyPatientProfile(ctx)
	require.NoError(t, err)
	var profile struct {
		BloodGroup string `json:"bloodGroup"`
		Genotype   string `json:"genotype"`
	}
	require.NoError(t, env.DecodeData(&profile))
	assert.Equal(t, "O_POSITIVE", profile.BloodGroup)
	assert.Equal(t, "AA", profile.Genotype)
}

func TestEnumEndpointsArePublic(t *testing.T) {
	backend := newBackend(t)
	c, _ := newClient(t, backend)
	ctx := context.Background()

	for _, call := range []func(context.Context) (*api.Envelope, error){
		c.ListGenotypes, c.ListBloodGroups, c.ListSpecializations,
	} {
		env, err := call(ctx)
		require.NoError(t, err)
		require.True(t, env.OK())
		var values []string
		require.NoError(t, env.DecodeData(&values))
		assert.NotEmpty(t, values)
	}
}
