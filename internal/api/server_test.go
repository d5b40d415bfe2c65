package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/herostore/internal/sqlite"
	"github.com/mesh-intelligence/herostore/pkg/types"
)

func setupServer(t *testing.T) (*Server, *sqlite.Backend, *memory.Handler) {
	t.Helper()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })

	handler := memory.New()
	logger := &log.Logger{Handler: handler, Level: log.InfoLevel}
	return NewServer(backend, logger), backend, handler
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCRUDRoutes(t *testing.T) {
	s, _, _ := setupServer(t)

	rec := do(t, s, http.MethodGet, "/api/heroes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/heroes", types.Entity{ID: "h1", Name: "A", Description: "d1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, types.Entity{ID: "h1", Name: "A", Description: "d1"}, decode[types.Entity](t, rec))

	rec = do(t, s, http.MethodPost, "/api/heroes", types.Entity{Name: "B", Description: "d2"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[types.Entity](t, rec)
	assert.NotEmpty(t, created.ID)

	rec = do(t, s, http.MethodGet, "/api/heroes/h1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", decode[types.Entity](t, rec).Name)

	rec = do(t, s, http.MethodPut, "/api/heroes/h1", types.Entity{Name: "A2", Description: "d1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Entity{ID: "h1", Name: "A2", Description: "d1"}, decode[types.Entity](t, rec))

	rec = do(t, s, http.MethodGet, "/api/heroes", nil)
	list := decode[[]types.Entity](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "A2", list[0].Name)
	assert.Equal(t, created.ID, list[1].ID)

	rec = do(t, s, http.MethodDelete, "/api/heroes/h1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/heroes", nil)
	assert.Len(t, decode[[]types.Entity](t, rec), 1)
}

func TestErrorStatuses(t *testing.T) {
	s, backend, _ := setupServer(t)
	_, err := backend.Create(context.Background(), types.CollectionHeroes, types.Entity{ID: "h1", Name: "A"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{name: "unknown collection", method: http.MethodGet, target: "/api/sidekicks", want: http.StatusNotFound},
		{name: "unknown id", method: http.MethodGet, target: "/api/heroes/nope", want: http.StatusNotFound},
		{name: "update unknown id", method: http.MethodPut, target: "/api/heroes/nope", body: types.Entity{Name: "x"}, want: http.StatusNotFound},
		{name: "delete unknown id", method: http.MethodDelete, target: "/api/heroes/nope", want: http.StatusNotFound},
		{name: "mismatched id", method: http.MethodPut, target: "/api/heroes/h1", body: types.Entity{ID: "h2"}, want: http.StatusBadRequest},
		{name: "duplicate id", method: http.MethodPost, target: "/api/heroes", body: types.Entity{ID: "h1"}, want: http.StatusConflict},
		{name: "bad json", method: http.MethodPost, target: "/api/heroes", body: "not an entity", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), "message")
		})
	}
}

func TestEscapedIDRoutes(t *testing.T) {
	s, backend, _ := setupServer(t)
	_, err := backend.Create(context.Background(), types.CollectionHeroes, types.Entity{ID: "a/b", Name: "A"})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/heroes/a%2Fb", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a/b", decode[types.Entity](t, rec).ID)

	rec = do(t, s, http.MethodPut, "/api/heroes/a%2Fb", types.Entity{ID: "a/b", Name: "B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Entity{ID: "a/b", Name: "B"}, decode[types.Entity](t, rec))

	rec = do(t, s, http.MethodDelete, "/api/heroes/a%2Fb", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	list, err := backend.List(context.Background(), types.CollectionHeroes)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRequestLogging(t *testing.T) {
	s, _, handler := setupServer(t)

	do(t, s, http.MethodGet, "/api/heroes", nil)
	do(t, s, http.MethodGet, "/api/heroes/nope", nil)

	require.Len(t, handler.Entries, 2)
	assert.Equal(t, "request", handler.Entries[0].Message)
	assert.Equal(t, "/api/heroes", handler.Entries[0].Fields.Get("uri"))
	assert.Equal(t, "request failed", handler.Entries[1].Message)
	assert.Equal(t, log.WarnLevel, handler.Entries[1].Level)
}

func TestControllerDirect(t *testing.T) {
	_, backend, _ := setupServer(t)
	controller := NewEntityController(backend)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/villains", bytes.NewReader([]byte(`{"name":"Madelyn","description":"the cat whisperer"}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetPath("/api/:collection")
	ctx.SetParamNames("collection")
	ctx.SetParamValues("villains")

	require.NoError(t, controller.Create(ctx))
	assert.Equal(t, http.StatusCreated, rec.Code)

	list, err := backend.List(context.Background(), types.CollectionVillains)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Madelyn", list[0].Name)
}
