package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaiiae/huma-contacts/cli/api"
	"github.com/oaiiae/huma-contacts/datastores"
)

var discard = slog.New(slog.DiscardHandler)

func openDatastore(t *testing.T, driver string) *api.Datastore {
	t.Helper()
	datastore, err := api.OpenDatastore(context.Background(), &datastores.Options{
		DatabaseDriver:          driver,
		DatabaseURL:             filepath.Join(t.TempDir(), "contacts.db"),
		DatabaseConnectRetries:  1,
		DatabaseConnectInterval: time.Millisecond,
		DatabaseMigrate:         true,
	}, discard)
	require.NoError(t, err)
	t.Cleanup(func() { datastore.Close() })
	return datastore
}

func newRouter(t *testing.T, options *api.RouterOptions, datastore *api.Datastore) http.Handler {
	t.Helper()
	if options == nil {
		options = &api.RouterOptions{CorsOrigins: "http://localhost, http://localhost:3000"}
	}
	return api.NewRouter(options, "contacts", "1.2.3", "abcdef", "2024-01-01", datastore, discard)
}

func do(t *testing.T, h http.Handler, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterContactsSqlite(t *testing.T) {
	h := newRouter(t, nil, openDatastore(t, datastores.DriverSqlite))

	rec := do(t, h, http.MethodPost, "/create-contact", map[string]any{
		"first_name": "John",
		"last_name":  "Doe",
		"telephone":  "+1 (234) 567-8900",
		"email":      "NULL",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"id": 1,
		"first_name": "John",
		"last_name": "Doe",
		"company": null,
		"telephone": "12345678900",
		"email": null,
		"address": null,
		"notes": null
	}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/create-contact", map[string]any{"first_name": "John", "last_name": "Doe"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Contact with same name and email already exists"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/create-contact", map[string]any{"first_name": "J", "last_name": "Doe", "email": "foo@bar"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"detail": "Validation error",
		"errors": [
			"first_name: First name must be at least 2 characters",
			"email: Please enter a valid email address"
		]
	}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/create-contact", map[string]any{"first_name": "John"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"Validation error","errors":["last_name: Last name is required"]}`, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/update-contact/1", map[string]any{"first_name": "Jane", "last_name": "Doe", "notes": "VIP"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/all-contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"id": 1,
		"first_name": "Jane",
		"last_name": "Doe",
		"company": null,
		"telephone": null,
		"email": null,
		"address": null,
		"notes": "VIP"
	}]`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/delete-contact/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Contact deleted"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/get-contact/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Contact not found"}`, rec.Body.String())
}

func TestRouterEndpointsPrefix(t *testing.T) {
	h := newRouter(t, &api.RouterOptions{EndpointsPrefix: "/api"}, openDatastore(t, datastores.DriverMemory))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/all-contacts", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/all-contacts", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/liveness", nil).Code)
}

func TestRouterCors(t *testing.T) {
	h := newRouter(t, nil, openDatastore(t, datastores.DriverMemory))

	t.Run("preflight from allowed origin", func(t *testing.T) {
		rec := do(t, h, http.MethodOptions, "/create-contact", nil,
			"Origin", "http://localhost:3000",
			"Access-Control-Request-Method", http.MethodPost,
			"Access-Control-Request-Headers", "Content-Type",
		)
		assert.Less(t, rec.Code, 300)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("request from allowed origin", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/all-contacts", nil, "Origin", "http://localhost")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		rec := do(t, h, http.MethodOptions, "/create-contact", nil,
			"Origin", "http://example.com",
			"Access-Control-Request-Method", http.MethodPost,
		)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

		rec = do(t, h, http.MethodGet, "/all-contacts", nil, "Origin", "http://example.com")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouterRequestID(t *testing.T) {
	h := newRouter(t, nil, openDatastore(t, datastores.DriverMemory))

	rec := do(t, h, http.MethodGet, "/all-contacts", nil, "X-Request-Id", "req-42")
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))

	rec = do(t, h, http.MethodGet, "/get-contact/9", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	_, err := uuid.Parse(rec.Header().Get("X-Request-Id"))
	assert.NoError(t, err)
}

func TestRouterMetrics(t *testing.T) {
	h := newRouter(t, nil, openDatastore(t, datastores.DriverMemory))

	do(t, h, http.MethodGet, "/all-contacts", nil)
	do(t, h, http.MethodGet, "/all-contacts", nil)
	do(t, h, http.MethodGet, "/get-contact/1", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `build_info{goversion="`)
	assert.Contains(t, body, `version="1.2.3",revision="abcdef",created="2024-01-01"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/all-contacts",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/get-contact/{id}",status="404"} 1`)
	assert.Contains(t, body, `http_request_duration_seconds_bucket{method="GET",path="/all-contacts",status="200"`)
}

func TestRouterReadiness(t *testing.T) {
	datastore := openDatastore(t, datastores.DriverSqlite)
	h := newRouter(t, nil, datastore)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readiness", nil).Code)
	require.NoError(t, datastore.Close())
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/readiness", nil).Code)
}

func TestOpenDatastoreLogsComponent(t *testing.T) {
	var buf bytes.Buffer
	datastore, err := api.OpenDatastore(context.Background(),
		&datastores.Options{DatabaseDriver: datastores.DriverMemory},
		slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	require.NoError(t, datastore.Ping(context.Background()))
	assert.Contains(t, buf.String(), `msg="contacts are kept in memory" component=datastore`)
}

func TestOpenDatastoreUnknownDriver(t *testing.T) {
	_, err := api.OpenDatastore(context.Background(), &datastores.Options{DatabaseDriver: "oracle"}, discard)
	require.ErrorIs(t, err, datastores.ErrUnknownDriver)
}
