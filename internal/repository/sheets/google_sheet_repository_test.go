package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/dinopark/internal/config"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo, err := NewGoogleSheetRepository(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return repo
}

func TestReadRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/spreadsheets/sheet-123/values/")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range":"Dinosaurs!A1:C2","majorDimension":"ROWS","values":[["species","diet","attraction"],["T Rex","carnivore","300"]]}`)
	})

	rows, err := repo.ReadRange(context.Background(), "Dinosaurs!A:C")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []interface{}{"T Rex", "carnivore", "300"}, rows[1])
}

func TestWriteRow(t *testing.T) {
	var body map[string]any
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-123"}`)
	})

	err := repo.WriteRow(context.Background(), "Dinosaurs!A:C", []interface{}{"Raptor", "carnivore", 200})
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"Raptor", "carnivore", float64(200)}}, body["values"])
}

func TestReadRange_APIError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	_, err := repo.ReadRange(context.Background(), "Dinosaurs!A:C")
	assert.ErrorContains(t, err, "read range Dinosaurs!A:C")
}

func TestEmptyRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := repo.ReadRange(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyRange)
	assert.ErrorIs(t, repo.WriteRow(context.Background(), "", nil), errEmptyRange)
}

func TestNewGoogleSheetRepository_RequiresSpreadsheet(t *testing.T) {
	_, err := NewGoogleSheetRepository(context.Background(), config.SheetsConfig{}, nil, option.WithoutAuthentication())
	assert.Error(t, err)
}
