package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrodrive/leadgate/internal/leads"
	"github.com/evrodrive/leadgate/pkg/logging"
)

func newTestApp(t *testing.T, origins ...string) (*app, *leads.InMemoryRepository) {
	t.Helper()

	repo := leads.NewInMemoryRepository()
	a := &app{
		service: leads.NewService(leads.ServiceConfig{
			Repository: repo,
			Logger:     logging.Default(),
		}),
		allowed: make(map[string]struct{}),
		logger:  logging.Default(),
	}
	for _, origin := range origins {
		if origin == "*" {
			a.allowAny = true
			continue
		}
		a.allowed[origin] = struct{}{}
	}
	return a, repo
}

func request(method, origin, body string) events.APIGatewayV2HTTPRequest {
	evt := events.APIGatewayV2HTTPRequest{
		Body:    body,
		Headers: map[string]string{},
	}
	evt.RequestContext.HTTP.Method = method
	if origin != "" {
		evt.Headers["Origin"] = origin
	}
	return evt
}

const validBody = `{"firstName":"Ana","lastName":"Popescu","email":"ana@example.com","modelId":"BYD-SEAL","gdprConsent":true}`

func TestHandlePreflight(t *testing.T) {
	a, _ := newTestApp(t, "https://evrodrive.eu")

	resp, err := a.handle(context.Background(), request(http.MethodOptions, "https://evrodrive.eu", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://evrodrive.eu", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "true", resp.Headers["Access-Control-Allow-Credentials"])
}

func TestHandleRejectsDisallowedOrigin(t *testing.T) {
	a, repo := newTestApp(t, "https://evrodrive.eu")

	resp, err := a.handle(context.Background(), request(http.MethodPost, "https://evil.example", validBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not allowed by CORS", resp.Body)

	stored, _ := repo.ListAll(context.Background())
	assert.Empty(t, stored)
}

func TestHandleWildcardOrigin(t *testing.T) {
	a, _ := newTestApp(t, "*")

	resp, err := a.handle(context.Background(), request(http.MethodPost, "https://anything.example", validBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleMethodNotAllowed(t *testing.T) {
	a, _ := newTestApp(t, "https://evrodrive.eu")

	resp, err := a.handle(context.Background(), request(http.MethodGet, "https://evrodrive.eu", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method Not Allowed", resp.Body)
	assert.Contains(t, resp.Headers["Content-Type"], "text/plain")
}

func TestHandleSubmitSuccess(t *testing.T) {
	a, repo := newTestApp(t, "https://evrodrive.eu")

	resp, err := a.handle(context.Background(), request(http.MethodPost, "https://evrodrive.eu", validBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "https://evrodrive.eu", resp.Headers["Access-Control-Allow-Origin"])

	var out leads.SubmitResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.True(t, out.OK)

	stored, err := repo.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email)
}

func TestHandleBase64Body(t *testing.T) {
	a, _ := newTestApp(t, "https://evrodrive.eu")

	evt := request(http.MethodPost, "https://evrodrive.eu", base64.StdEncoding.EncodeToString([]byte(validBody)))
	evt.IsBase64Encoded = true

	resp, err := a.handle(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleMissingConsent(t *testing.T) {
	a, _ := newTestApp(t, "https://evrodrive.eu")

	body := `{"firstName":"Ana","lastName":"Popescu","email":"ana@example.com","modelId":"BYD-SEAL"}`
	resp, err := a.handle(context.Background(), request(http.MethodPost, "https://evrodrive.eu", body))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out leads.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Equal(t, "GDPR consent required", out.Error)
}

func TestHandleInvalidJSON(t *testing.T) {
	a, _ := newTestApp(t, "https://evrodrive.eu")

	resp, err := a.handle(context.Background(), request(http.MethodPost, "https://evrodrive.eu", "{broken"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out leads.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Equal(t, "Invalid request body", out.Error)
}

func TestHandleNoOriginHeader(t *testing.T) {
	// Server-to-server calls carry no Origin and are accepted.
	a, _ := newTestApp(t, "https://evrodrive.eu")

	resp, err := a.handle(context.Background(), request(http.MethodPost, "", validBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Headers["Access-Control-Allow-Origin"])
}
