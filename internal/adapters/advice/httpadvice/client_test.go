package httpadvice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthcare-portal/internal/domain/advice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-123", r.Header.Get("X-Api-Key"))

		var in generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Diagnoses: Asthma", in.MedicalRecords)
		assert.Equal(t, "Can I run?", in.PatientQuery)

		_ = json.NewEncoder(w).Encode(generateResponse{
			Advice:               " Warm up first. ",
			ConsultDoctorMessage: "Talk to your doctor about an action plan.",
		})
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, APIKey: "k-123", Timeout: time.Second})
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), advice.Prompt{MedicalRecords: "Diagnoses: Asthma", PatientQuery: "Can I run?"})
	require.NoError(t, err)
	assert.Equal(t, "Warm up first.", out.Advice)
	assert.Equal(t, "Talk to your doctor about an action plan.", out.ConsultDoctorMessage)
}

func TestGenerate_UpstreamErrors(t *testing.T) {
	status := http.StatusInternalServerError
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(`{"advice":""}`))
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), advice.Prompt{PatientQuery: "x"})
	assert.ErrorIs(t, err, ErrUpstream)

	status = http.StatusOK
	_, err = c.Generate(context.Background(), advice.Prompt{PatientQuery: "x"})
	assert.ErrorIs(t, err, ErrUpstream)
}
