// Package student contains the HTTP handlers for the student resource.
//
// Every handler is built by a factory that receives the record store and
// returns the http.HandlerFunc the router calls on each request:
//
//	r.Post("/api/students", student.New(store))
//
// The factory runs once at startup; the returned closure runs per request.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/student-records/internal/logging"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// Store is the part of records.Store the handlers need.
type Store interface {
	Create(ctx context.Context, student types.Student) (types.Student, error)
	List(ctx context.Context, order types.Order) ([]types.Student, error)
	Get(ctx context.Context, rollNo string) (types.Student, error)
	Search(ctx context.Context, keyword string) ([]types.Student, error)
	Update(ctx context.Context, rollNo string, fields types.StudentUpdate) (types.Student, error)
	Delete(ctx context.Context, rollNo string) error
}

const (
	// RollNoParam is the route parameter holding the roll number.
	RollNoParam = "roll_no"
	// SearchParam is the query parameter carrying a search keyword.
	SearchParam = "q"
)

// New handles POST /api/students.
//
//	{ "roll_no": "R100", "name": "Ann Lee", "course": "CS", "semester": 3 }
//
// 201 with the stored record; 400 bad body or validation; 409 duplicate.
func New(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())
		log.Info("creating a student")

		var student types.Student
		if !decode(w, r, &student) {
			return
		}

		created, err := store.Create(r.Context(), student)
		if err != nil {
			fail(log, w, err, slog.String("roll_no", student.RollNo))
			return
		}

		log.Info("student created", slog.String("roll_no", created.RollNo))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetByRollNo handles GET /api/students/{roll_no}.
func GetByRollNo(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollNo := rollNoFrom(r)
		log := logging.FromContext(r.Context())
		log.Info("getting a student", slog.String("roll_no", rollNo))

		student, err := store.Get(r.Context(), rollNo)
		if err != nil {
			fail(log, w, err, slog.String("roll_no", rollNo))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students[?sort=name] and GET /api/students?q=kw.
//
// Without q it lists every student; with q it returns the students whose
// roll number or name contains the keyword, sorted by name. Every path
// below /api/students/ is a roll number. Returns [] (not null) when
// nothing matches.
func GetList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		log := logging.FromContext(r.Context())

		order, ok := types.ParseOrder(query.Get("sort"))
		if !ok {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid sort: only \"name\" is supported")))
			return
		}

		if query.Has(SearchParam) {
			search(w, r, store, query.Get(SearchParam))
			return
		}

		log.Info("getting all students")

		students, err := store.List(r.Context(), order)
		if err != nil {
			fail(log, w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

func search(w http.ResponseWriter, r *http.Request, store Store, keyword string) {
	log := logging.FromContext(r.Context())
	log.Info("searching students", slog.String("keyword", keyword))

	students, err := store.Search(r.Context(), keyword)
	if err != nil {
		fail(log, w, err, slog.String("keyword", keyword))
		return
	}

	response.WriteJSON(w, http.StatusOK, students)
}

// Update handles PUT /api/students/{roll_no}.
// Omitted fields keep their stored value; the roll number cannot change.
func Update(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollNo := rollNoFrom(r)
		log := logging.FromContext(r.Context())
		log.Info("updating a student", slog.String("roll_no", rollNo))

		var fields types.StudentUpdate
		if !decode(w, r, &fields) {
			return
		}

		updated, err := store.Update(r.Context(), rollNo, fields)
		if err != nil {
			fail(log, w, err, slog.String("roll_no", rollNo))
			return
		}

		log.Info("student updated", slog.String("roll_no", rollNo))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{roll_no}.
func Delete(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollNo := rollNoFrom(r)
		log := logging.FromContext(r.Context())
		log.Info("deleting a student", slog.String("roll_no", rollNo))

		if err := store.Delete(r.Context(), rollNo); err != nil {
			fail(log, w, err, slog.String("roll_no", rollNo))
			return
		}

		log.Info("student deleted", slog.String("roll_no", rollNo))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// rollNoFrom returns the decoded roll number from the route. chi matches
// on r.URL.RawPath when it is set, leaving the parameter escaped;
// otherwise the parameter comes from r.URL.Path and is already decoded
// and must be used as is.
func rollNoFrom(r *http.Request) string {
	raw := chi.URLParam(r, RollNoParam)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// decode reads the JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

// fail writes err and logs it; client mistakes at info, the rest as errors.
func fail(log *slog.Logger, w http.ResponseWriter, err error, attrs ...any) {
	status := response.StoreError(w, err)
	attrs = append(attrs, slog.Int("status", status), slog.String("error", err.Error()))
	if status >= http.StatusInternalServerError {
		log.Error("student request failed", attrs...)
		return
	}
	log.Info("student request rejected", attrs...)
}
