package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/participant-service/internal/api/http"
	"github.com/spec-kit/participant-service/internal/api/http/handlers"
	"github.com/spec-kit/participant-service/internal/events"
	"github.com/spec-kit/participant-service/internal/observability"
	"github.com/spec-kit/participant-service/internal/persistence"
	"github.com/spec-kit/participant-service/internal/repository"
	"github.com/spec-kit/participant-service/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	repo := repository.NewMemoryParticipantRepository()
	dispatcher := events.NewInMemoryDispatcher()
	participantService := service.NewParticipantService(service.ParticipantDependencies{
		ParticipantRepo: repo,
		Dispatcher:      dispatcher,
		ListFanoutLimit: 4,
	})
	auditService := service.NewAuditService(dispatcher, nil, zap.NewNop())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler("participant-service", "test", &persistence.Redis{}, nil),
		Participants: handlers.NewParticipantsHandler(participantService, auditService),
	})
	return app
}

func participantBody(email string) map[string]any {
	return map[string]any{
		"email":     email,
		"firstname": "A",
		"lastname":  "B",
		"dob":       "1990-01-01",
		"work":      map[string]any{"companyname": "Acme", "salary": 50000, "currency": "EUR"},
		"home":      map[string]any{"country": "NL", "city": "Amsterdam"},
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body map[string]any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateParticipant(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, true, data["active"])
}

func TestCreateDuplicateReturns400(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errObj["code"])
}

func TestCreateInvalidDOBReturnsFieldError(t *testing.T) {
	app := newTestApp(t)

	payload := participantBody("a@x.com")
	payload["dob"] = "not-a-date"

	resp := doJSON(t, app, http.MethodPost, "/participants", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])

	details := errObj["details"].(map[string]any)
	raw, err := json.Marshal(details["errors"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "dob")
}

func TestSoftDeleteMissingReturns404(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodDelete, "/participants/missing@x.com", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSoftDeletePartitionsListings(t *testing.T) {
	app := newTestApp(t)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		resp := doJSON(t, app, http.MethodPost, "/participants", participantBody(email))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodDelete, "/participants/a@x.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	emailsAt := func(path string) []string {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		items := body["data"].([]any)
		emails := make([]string, 0, len(items))
		for _, item := range items {
			emails = append(emails, item.(map[string]any)["email"].(string))
		}
		return emails
	}

	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, emailsAt("/participants"))
	assert.ElementsMatch(t, []string{"b@x.com"}, emailsAt("/participants/details"))
	assert.ElementsMatch(t, []string{"a@x.com"}, emailsAt("/participants/details/deleted"))
}

func TestDetailProjection(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/participants/details/a@x.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "A", "lastname": "B", "active": true}, data)
}

func TestProjectionsGateSoftDeletedParticipants(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/participants/work/a@x.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	work := body["data"].(map[string]any)
	assert.Equal(t, "Acme", work["companyname"])
	assert.Equal(t, "EUR", work["currency"])

	resp = doJSON(t, app, http.MethodGet, "/participants/home/a@x.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	home := body["data"].(map[string]any)
	assert.Equal(t, "NL", home["country"])
	assert.Equal(t, "Amsterdam", home["city"])

	resp = doJSON(t, app, http.MethodDelete, "/participants/a@x.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for _, path := range []string{
		"/participants/details/a@x.com",
		"/participants/work/a@x.com",
		"/participants/home/a@x.com",
	} {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		resp.Body.Close()
	}

	// the raw listing still carries the soft deleted record
	resp = doJSON(t, app, http.MethodGet, "/participants", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	require.Len(t, body["data"].([]any), 1)
}

func TestReplaceUpdatesRecord(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	payload := participantBody("a@x.com")
	payload["firstname"] = "Updated"
	payload["active"] = false

	resp = doJSON(t, app, http.MethodPut, "/participants", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Updated", data["firstname"])
	assert.Equal(t, false, data["active"])
}

func TestReplaceMissingReturns404(t *testing.T) {
	app := newTestApp(t)

	payload := participantBody("missing@x.com")
	payload["active"] = true

	resp := doJSON(t, app, http.MethodPut, "/participants", payload)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReplaceWithoutActiveFlagFailsValidation(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, "/participants", participantBody("a@x.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestEmptyStoreListsAreEmptyArrays(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/participants", "/participants/details", "/participants/details/deleted"} {
		resp := doJSON(t, app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		body := decodeBody(t, resp)
		items, ok := body["data"].([]any)
		require.True(t, ok, path)
		assert.Empty(t, items, path)
	}
}

func TestHistoryIsEmptyWithoutRecording(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/participants/history/a@x.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	items, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestUnmatchedRouteFallsThroughToCatchAll(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "no route handler found", body["msg"])
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "participant-service", body["service"])
}
