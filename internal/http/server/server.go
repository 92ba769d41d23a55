// Package server wires the chi router: middleware, student routes, health
// and metrics endpoints.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/logging"
	"github.com/aanand-mishra/student-records/internal/metrics"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// NewRouter builds the handler for the whole API.
//
// Route table:
//
//	POST   /api/students            create a student
//	GET    /api/students            list students (?sort=name),
//	                                or search by roll no or name (?q=)
//	GET    /api/students/{roll_no}  get one student
//	PUT    /api/students/{roll_no}  update a student
//	DELETE /api/students/{roll_no}  delete a student
//	GET    /healthz                 liveness
//	GET    /metrics                 Prometheus metrics from gatherer
func NewRouter(store student.Store, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(m))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/students", func(r chi.Router) {
		r.Post("/", student.New(store))
		r.Get("/", student.GetList(store))
		r.Get("/{"+student.RollNoParam+"}", student.GetByRollNo(store))
		r.Put("/{"+student.RollNoParam+"}", student.Update(store))
		r.Delete("/{"+student.RollNoParam+"}", student.Delete(store))
	})

	return r
}

// requestLogger logs each request once it completes and records it in m.
// The route label is chi's pattern, so roll numbers never become labels.
func requestLogger(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			if m != nil {
				m.ObserveRequest(route, r.Method, strconv.Itoa(status), elapsed.Seconds())
			}

			logging.FromContext(r.Context()).Debug("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Duration("duration", elapsed),
			)
		})
	}
}
