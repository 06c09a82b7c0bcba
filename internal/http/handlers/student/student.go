// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject the storage dependency, each exported function below is a
// factory: it accepts storage once at startup and returns the handler
// that runs on every request.
//
//	r.Post("/students", student.New(storage))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

const (
	msgAdded    = "Students added successfully"
	msgUpdated  = "Student updated successfully"
	msgDeleted  = "Student deleted successfully"
	msgNotFound = "Student not found"
	msgInternal = "Internal Server Error"
)

// validate is shared by all requests; *validator.Validate is safe for
// concurrent use and caches struct metadata after the first call.
var validate = newValidator()

// newValidator reports fields by their json names so validation errors
// point at the keys the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
// Inserts or fully replaces every student in the JSON array body.
//
// Request body (JSON):
//
//	[ { "id": 1, "name": "Asha", "branch": "CS", "year": "2", "attendance": 92,
//	    "subjects": { "Maths": 88, "Physics": 76, "English": 81 }, "fees_paid": true } ]
//
// Success response (200 OK):
//
//	{ "message": "Students added successfully" }
//
// Error responses:
//
//	422 Unprocessable — not an array, malformed JSON, or any element invalid
//	500 Internal      — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("adding students")

		// Decode the array shallowly first so every element can be checked
		// on its own and reported with its index.
		var body json.RawMessage
		if err := decodeBody(r.Body, &body); err != nil {
			writeUnprocessable(w, []response.FieldError{response.DecodeError([]any{"body"}, err)})
			return
		}

		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil || items == nil {
			writeUnprocessable(w, []response.FieldError{{
				Loc:  []any{"body"},
				Msg:  "Input should be a valid list",
				Type: response.TypeListType,
			}})
			return
		}

		students := make([]types.Student, 0, len(items))
		var fieldErrs []response.FieldError

		for i, raw := range items {
			student, errs := parseStudent(raw, []any{"body", i})
			if len(errs) > 0 {
				fieldErrs = append(fieldErrs, errs...)
				continue
			}
			students = append(students, student)
		}

		if len(fieldErrs) > 0 {
			writeUnprocessable(w, fieldErrs)
			return
		}

		if err := storage.UpsertStudents(r.Context(), students); err != nil {
			slog.Error("error adding students", slog.String("error", err.Error()))
			writeInternal(w)
			return
		}

		slog.Info("students added", slog.Int("count", len(students)))
		response.WriteJSON(w, http.StatusOK, response.Message(msgAdded))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students
// Returns a JSON array of all students, [] (not null) when there are none.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			writeInternal(w)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
// Error responses:
//
//	404 Not Found     — { "detail": "Student not found" }
//	422 Unprocessable — id is not an integer
//	500 Internal      — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(r.Context(), id)
		if errors.Is(err, storageErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Detail(msgNotFound))
			return
		}
		if err != nil {
			slog.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeInternal(w)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Replaces every field except id. The body must be a complete student,
// including its own "id", but the path id decides which row is written.
//
// An id that matches no row still answers 200; the miss is only logged.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var raw json.RawMessage
		if err := decodeBody(r.Body, &raw); err != nil {
			writeUnprocessable(w, []response.FieldError{response.DecodeError([]any{"body"}, err)})
			return
		}

		student, fieldErrs := parseStudent(raw, []any{"body"})
		if len(fieldErrs) > 0 {
			writeUnprocessable(w, fieldErrs)
			return
		}

		affected, err := storage.UpdateStudentByID(r.Context(), id, student)
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeInternal(w)
			return
		}

		if affected == 0 {
			slog.Warn("update matched no student", slog.Int64("id", id))
		} else {
			slog.Info("student updated", slog.Int64("id", id))
		}
		response.WriteJSON(w, http.StatusOK, response.Message(msgUpdated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
// Always answers 200 once the statement ran, whether or not a row existed.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteStudentByID(r.Context(), id); err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			writeInternal(w)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message(msgDeleted))
	}
}

// storageErrNotFound aliases the sentinel because the factory parameter
// named storage shadows the package inside the handlers.
var storageErrNotFound = storage.ErrNotFound

// pathID parses the {id} segment. On failure it has already written the
// 422 response and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeUnprocessable(w, []response.FieldError{{
			Loc:  []any{"path", "id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: response.TypeIntParsing,
		}})
		return 0, false
	}

	return id, true
}

// decodeBody decodes exactly one JSON value from body. An empty body is
// reported as such rather than as a bare io.EOF, and anything but
// whitespace after the value is rejected.
func decodeBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	if err != nil {
		return err
	}

	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}

	return nil
}

// parseStudent decodes and validates one student object. loc prefixes
// every reported error location.
func parseStudent(raw json.RawMessage, loc []any) (types.Student, []response.FieldError) {
	var in types.StudentInput

	if err := json.Unmarshal(raw, &in); err != nil {
		return types.Student{}, []response.FieldError{response.DecodeError(loc, err)}
	}

	if err := validate.Struct(in); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return types.Student{}, []response.FieldError{response.DecodeError(loc, err)}
		}
		return types.Student{}, response.ValidationError(loc, validateErrs)
	}

	return in.Student(), nil
}

func writeUnprocessable(w http.ResponseWriter, errs []response.FieldError) {
	response.WriteJSON(w, http.StatusUnprocessableEntity, response.ValidationResponse{Detail: errs})
}

func writeInternal(w http.ResponseWriter) {
	response.WriteJSON(w, http.StatusInternalServerError, response.Detail(msgInternal))
}
