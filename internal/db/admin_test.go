package db

import (
	"compress/gzip"
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBackup(t *testing.T) {
	s, _ := openTestStore(t)
	id, err := s.SaveRun(context.Background(), testRun())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.handleBackup(rec, httptest.NewRequest(http.MethodGet, "/debug/backup", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".db.gz")

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "restored.db")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	restored, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer restored.Close()

	var n int
	require.NoError(t, restored.QueryRow(`SELECT COUNT(*) FROM rotated_samples WHERE run_id = ?`, id).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestAttachAdminRoutes(t *testing.T) {
	s, _ := openTestStore(t)
	mux := http.NewServeMux()
	require.NoError(t, s.AttachAdminRoutes(mux))

	_, pattern := mux.Handler(httptest.NewRequest(http.MethodGet, "/debug/tailsql/", nil))
	assert.NotEmpty(t, pattern, "tailsql console should be routed")
}
