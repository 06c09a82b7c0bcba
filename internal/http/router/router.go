// Package router wires the student handlers and the middleware stack into
// a single http.Handler.
//
// Route table:
//
//	GET    /health          → liveness probe
//	POST   /students        → insert or replace a batch of students
//	GET    /students        → list all students
//	GET    /students/{id}   → get one student by id
//	PUT    /students/{id}   → replace every field of a student
//	DELETE /students/{id}   → delete a student
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/student-records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records-api/internal/http/middleware"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Options tunes the parts of the router that come from configuration.
type Options struct {
	// AllowedOrigins feeds the CORS middleware. Empty disables CORS headers.
	AllowedOrigins []string
}

// New builds the router. storage is handed to every handler factory once.
func New(storage storage.Storage, log *slog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/students", func(r chi.Router) {
		r.Post("/", student.New(storage))
		r.Get("/", student.GetList(storage))
		r.Get("/{id}", student.GetByID(storage))
		r.Put("/{id}", student.Update(storage))
		r.Delete("/{id}", student.Delete(storage))
	})

	return r
}
