// Package httpadvice implementa advice.Generator contra un servicio HTTP
// que recibe la ficha resumida y la consulta del paciente.
package httpadvice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"healthcare-portal/internal/domain/advice"
	"healthcare-portal/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("advice client not configured")
	ErrUpstream      = errors.New("advice upstream error")
)

type Config struct {
	URL    string
	APIKey string

	// APIKeyHeader vacío => "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http *httpclient.Client
}

type generateRequest struct {
	MedicalRecords string `json:"medical_records"`
	PatientQuery   string `json:"patient_query"`
}

type generateResponse struct {
	Advice               string `json:"advice"`
	ConsultDoctorMessage string `json:"consult_doctor_message"`
}

// New devuelve ErrNotConfigured si no hay URL; el caller decide si sigue sin
// generador.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		hc.Headers[h] = key
	}
	return &Client{http: hc}, nil
}

func (c *Client) Generate(ctx context.Context, p advice.Prompt) (advice.Advice, error) {
	var out generateResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "", generateRequest{
		MedicalRecords: p.MedicalRecords,
		PatientQuery:   p.PatientQuery,
	}, &out)
	if err != nil {
		return advice.Advice{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.Advice = strings.TrimSpace(out.Advice)
	if out.Advice == "" {
		return advice.Advice{}, fmt.Errorf("%w: empty advice", ErrUpstream)
	}
	return advice.Advice{
		Advice:               out.Advice,
		ConsultDoctorMessage: strings.TrimSpace(out.ConsultDoctorMessage),
	}, nil
}
