package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/metrics"
	"github.com/aanand-mishra/student-records/internal/records"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlite.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg := prometheus.NewRegistry()
	return NewRouter(records.NewStore(db, records.Options{}), metrics.New(reg), reg)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeStudents(t *testing.T, rr *httptest.ResponseRecorder) []types.Student {
	t.Helper()
	var out []types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, response.StatusError, resp.Status)
	return resp.Error
}

func TestCreateAndGet(t *testing.T) {
	h := setupRouter(t)

	rr := do(t, h, http.MethodPost, "/api/students", `{"roll_no":"R100","name":"Ann Lee","course":"CS","semester":3}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = do(t, h, http.MethodGet, "/api/students/R100", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, types.Student{RollNo: "R100", Name: "Ann Lee", Course: "CS", Semester: 3}, got)
}

func TestCreateErrors(t *testing.T) {
	h := setupRouter(t)
	rr := do(t, h, http.MethodPost, "/api/students", `{"roll_no":"R1","name":"Ann","course":"CS","semester":1}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"empty body", "", http.StatusBadRequest, "request body is empty"},
		{"malformed json", `{"roll_no":`, http.StatusBadRequest, ""},
		{"bad semester", `{"roll_no":"R2","name":"Bob","course":"CS","semester":7}`, http.StatusBadRequest, "field semester must be between 1 and 6"},
		{"bad name", `{"roll_no":"R2","name":"B0b","course":"CS","semester":1}`, http.StatusBadRequest, "field name should contain only alphabets"},
		{"duplicate", `{"roll_no":"R1","name":"Bob","course":"CS","semester":1}`, http.StatusConflict, records.ErrDuplicateKey.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/students", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			msg := errorOf(t, rr)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, msg)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	h := setupRouter(t)

	rr := do(t, h, http.MethodGet, "/api/students/R404", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, records.ErrNotFound.Error(), errorOf(t, rr))
}

func TestListAndSearch(t *testing.T) {
	h := setupRouter(t)
	for _, body := range []string{
		`{"roll_no":"R1","name":"Smith","course":"CS","semester":1}`,
		`{"roll_no":"R2","name":"Jones","course":"EE","semester":2}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/students", body).Code)
	}

	rr := do(t, h, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rr.Code)
	all := decodeStudents(t, rr)
	require.Len(t, all, 2)
	assert.Equal(t, "R1", all[0].RollNo)

	rr = do(t, h, http.MethodGet, "/api/students?sort=name", "")
	require.Equal(t, http.StatusOK, rr.Code)
	sorted := decodeStudents(t, rr)
	require.Len(t, sorted, 2)
	assert.Equal(t, "Jones", sorted[0].Name)

	rr = do(t, h, http.MethodGet, "/api/students?sort=semester", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/students?q=smi", "")
	require.Equal(t, http.StatusOK, rr.Code)
	found := decodeStudents(t, rr)
	require.Len(t, found, 1)
	assert.Equal(t, "Smith", found[0].Name)

	rr = do(t, h, http.MethodGet, "/api/students?q=nobody", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/students?q=", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/students?q=%20%20", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRollNoNamedSearch(t *testing.T) {
	h := setupRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/api/students", `{"roll_no":"search","name":"Ann","course":"CS","semester":1}`).Code)

	rr := do(t, h, http.MethodGet, "/api/students/search", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "search", got.RollNo)
	assert.Equal(t, "Ann", got.Name)

	rr = do(t, h, http.MethodDelete, "/api/students/search", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListEmpty(t *testing.T) {
	h := setupRouter(t)

	rr := do(t, h, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestUpdate(t *testing.T) {
	h := setupRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/api/students", `{"roll_no":"R100","name":"Ann Lee","course":"CS","semester":3}`).Code)

	rr := do(t, h, http.MethodPut, "/api/students/R100", `{"semester":7}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/students/R100", `{"semester":4}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.Equal(t, types.Student{RollNo: "R100", Name: "Ann Lee", Course: "CS", Semester: 4}, updated)

	rr = do(t, h, http.MethodPut, "/api/students/R404", `{"semester":4}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/students/R100", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDelete(t *testing.T) {
	h := setupRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/api/students", `{"roll_no":"R1","name":"Ann","course":"CS","semester":1}`).Code)

	rr := do(t, h, http.MethodDelete, "/api/students/R1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"deleted"}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/students/R1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/students/R1", "").Code)
}

func TestDeleteEscapedRollNo(t *testing.T) {
	h := setupRouter(t)
	for _, body := range []string{
		`{"roll_no":"RA","name":"Ann","course":"CS","semester":1}`,
		`{"roll_no":"R%41","name":"Bob","course":"CS","semester":1}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/students", body).Code)
	}

	// R%2541 is the escaped form of the literal roll number R%41.
	rr := do(t, h, http.MethodDelete, "/api/students/R%2541", "")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/students/RA", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/students/R%2541", "").Code)
}

func TestGetRollNoWithSlash(t *testing.T) {
	h := setupRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/api/students", `{"roll_no":"R/1","name":"Ann","course":"CS","semester":1}`).Code)

	rr := do(t, h, http.MethodGet, "/api/students/R%2F1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "R/1", got.RollNo)
}

func TestHealthAndMetrics(t *testing.T) {
	h := setupRouter(t)

	rr := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `students_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
