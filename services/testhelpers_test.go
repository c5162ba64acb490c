package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avask/interview-lobby/backend/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repository.GORMRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Each pooled connection gets its own :memory: database, so pin the
	// pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewGORMRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func newTestAuthService(t *testing.T) (*AuthService, *repository.GORMRepository) {
	t.Helper()

	repo := newTestRepo(t)
	return NewAuthService(repo, "test-secret"), repo
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	repo := newTestRepo(t)
	config := &Config{
		JWT:  JWTConfig{Secret: "test-secret"},
		CORS: CORSConfig{AllowedOrigins: "http://localhost:4200"},
	}
	srv := NewServer(config)
	srv.SetDatabase(repo, repo.DB())
	require.NoError(t, srv.InitializeServices())
	return srv.SetupRoutes()
}

// doRequest runs one request through the full router, encoding body as
// JSON when present and attaching the given cookies.
func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// registerUser registers a fresh account and returns its auth cookies.
func registerUser(t *testing.T, handler http.Handler, email, fullName string) []*http.Cookie {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/auth/register", map[string]string{
		"email":     email,
		"full_name": fullName,
		"password":  "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func requireDecodeList(t *testing.T, data []byte, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, out))
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
