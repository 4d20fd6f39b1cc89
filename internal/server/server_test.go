package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthwise/advisor/internal/database"
	"github.com/wealthwise/advisor/internal/domain"
	"github.com/wealthwise/advisor/internal/modules/advisory"
	"github.com/wealthwise/advisor/internal/modules/history"
	"github.com/wealthwise/advisor/internal/modules/profiles"
	fixtures "github.com/wealthwise/advisor/internal/testing"
)

// newTestServer wires a full server against a fake advisory backend.
func newTestServer(t *testing.T, backend http.HandlerFunc) *Server {
	t.Helper()

	upstream := httptest.NewServer(backend)
	t.Cleanup(upstream.Close)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	client, err := advisory.NewClient(upstream.URL, 5*time.Second, zerolog.Nop())
	require.NoError(t, err)

	return New(Config{
		Port:     0,
		DevMode:  true,
		Log:      zerolog.Nop(),
		DB:       db,
		Gateway:  advisory.NewGateway(client, advisory.NewMapper(zerolog.Nop()), zerolog.Nop()),
		Client:   client,
		Profiles: profiles.NewRepository(db.Conn(), zerolog.Nop()),
		History:  history.NewRepository(db.Conn(), history.DefaultTTL),
	})
}

func adviceBackend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(fixtures.AdviceWireJSON))
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	rec := doJSON(t, s, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "wealthwise-advisor", resp["service"])
}

func TestGenerateAdvice_AdHoc(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	rec := doJSON(t, s, "POST", "/api/advice/generate", fixtures.NewProfileFixture())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var advice domain.FinancialAdvice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advice))
	assert.Equal(t, domain.CategorySavings, advice.Category)
	assert.Equal(t, "Build an emergency fund", advice.Title)

	// Ad-hoc generation must not leave a history row behind.
	hist := doJSON(t, s, "GET", "/api/advice/history/"+fixtures.NewProfileFixture().ID, nil)
	require.Equal(t, http.StatusOK, hist.Code)
	assert.JSONEq(t, "[]", hist.Body.String())
}

func TestGenerateAdvice_ValidationError(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	profile := fixtures.NewProfileFixture()
	profile.Age = 15

	rec := doJSON(t, s, "POST", "/api/advice/generate", profile)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(advisory.KindValidation), resp.Kind)
	assert.Contains(t, resp.Fields, "age")
}

func TestGenerateAdvice_UpstreamError(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service overloaded", http.StatusServiceUnavailable)
	})

	rec := doJSON(t, s, "POST", "/api/advice/generate", fixtures.NewProfileFixture())
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(advisory.KindUpstream), resp.Kind)
}

func TestGenerateAdvice_MalformedUpstream(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	rec := doJSON(t, s, "POST", "/api/advice/generate", fixtures.NewProfileFixture())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGenerateForProfile_RecordsHistory(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	created := doJSON(t, s, "POST", "/api/profiles/", fixtures.NewProfileFixture())
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var profile domain.FinancialProfile
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &profile))

	rec := doJSON(t, s, "POST", "/api/advice/generate/"+profile.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	hist := doJSON(t, s, "GET", "/api/advice/history/"+profile.ID, nil)
	require.Equal(t, http.StatusOK, hist.Code)

	var records []adviceRecordResponse
	require.NoError(t, json.Unmarshal(hist.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Build an emergency fund", records[0].Title)
	assert.False(t, records[0].ExpiresAt.IsZero())
}

func TestGenerateForProfile_NotFound(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	rec := doJSON(t, s, "POST", "/api/advice/generate/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileCRUD(t *testing.T) {
	s := newTestServer(t, adviceBackend)
	profile := fixtures.NewProfileFixture()

	// Create
	created := doJSON(t, s, "POST", "/api/profiles/", profile)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	// Get
	got := doJSON(t, s, "GET", "/api/profiles/"+profile.ID, nil)
	require.Equal(t, http.StatusOK, got.Code)
	var fetched domain.FinancialProfile
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &fetched))
	assert.Equal(t, profile.Email, fetched.Email)

	// List
	list := doJSON(t, s, "GET", "/api/profiles/", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var all []domain.FinancialProfile
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	// Update
	profile.Age = 31
	updated := doJSON(t, s, "PUT", "/api/profiles/"+profile.ID, profile)
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())

	got = doJSON(t, s, "GET", "/api/profiles/"+profile.ID, nil)
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &fetched))
	assert.Equal(t, 31, fetched.Age)

	// Delete
	deleted := doJSON(t, s, "DELETE", "/api/profiles/"+profile.ID, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	got = doJSON(t, s, "GET", "/api/profiles/"+profile.ID, nil)
	assert.Equal(t, http.StatusNotFound, got.Code)
}

func TestCreateProfile_Invalid(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	profile := fixtures.NewProfileFixture()
	profile.Email = "nope"

	rec := doJSON(t, s, "POST", "/api/profiles/", profile)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "email")
}

func TestUpdateProfile_NotFound(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	rec := doJSON(t, s, "PUT", "/api/profiles/missing", fixtures.NewProfileFixture())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProfile_NotFound(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	rec := doJSON(t, s, "DELETE", "/api/profiles/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateAdvice_BadJSONBody(t *testing.T) {
	s := newTestServer(t, adviceBackend)

	req := httptest.NewRequest("POST", "/api/advice/generate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
