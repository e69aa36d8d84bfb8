package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultationHistoryQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"statusCode":200,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"), nil)
	ctx := context.Background()

	// Own history: no patientId parameter at all.
	_, err := c.GetConsultationHistory(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/consultations/history", gotPath)
	assert.Empty(t, gotQuery)

	// A doctor reviewing a specific patient.
	id := int64(15)
	_, err = c.GetConsultationHistory(ctx, &id)
	require.NoError(t, err)
	assert.Equal(t, "patientId=15", gotQuery)
}

func TestCreateConsultationValidation(t *testing.T) {
	c := New("http://unused", staticToken("tok"), nil)

	_, err := c.CreateConsultation(context.Background(), ConsultationNote{
		SubjectiveNotes: "reports fatigue",
	})
	assert.True(t, IsValidation(err))
}

func TestConsultationPaths(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"statusCode":200}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"), nil)
	_, err := c.GetConsultationByAppointmentID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "/api/consultations/appointment/9", gotPath)
}
