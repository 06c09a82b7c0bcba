// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// The body shapes follow the conventions API consumers of this service
// already rely on:
//
//	success with no payload   { "message": "Student updated successfully" }
//	simple error              { "detail": "Student not found" }
//	validation error          { "detail": [ { "loc": [...], "msg": "...", "type": "..." } ] }
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MessageResponse acknowledges a successful write.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse carries a single human-readable error.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ValidationResponse carries one entry per rejected input location.
type ValidationResponse struct {
	Detail []FieldError `json:"detail"`
}

// FieldError describes one validation failure.
//
// Loc is the path to the offending value: "body" or "path" first, then
// object keys as strings and array indexes as integers, e.g.
// ["body", 0, "subjects", "Maths"].
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Error type constants used in FieldError.Type.
const (
	TypeMissing     = "missing"
	TypeInvalidJSON = "json_invalid"
	TypeWrongType   = "type_error"
	TypeIntParsing  = "int_parsing"
	TypeListType    = "list_type"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Message builds a success acknowledgement.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// Detail builds a single-message error body.
func Detail(msg string) DetailResponse {
	return DetailResponse{Detail: msg}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts validator.FieldError values into FieldErrors.
//
// prefix is prepended to every location, e.g. []any{"body", 2} for the
// third element of a POST array. The validator is expected to report
// json names (see RegisterTagNameFunc in the student handlers), so
// Namespace() looks like "StudentInput.subjects.Maths"; the leading type
// name is dropped.
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(prefix []any, errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))

	for _, e := range errs {
		loc := append([]any{}, prefix...)

		parts := strings.Split(e.Namespace(), ".")
		for _, p := range parts[1:] {
			loc = append(loc, p)
		}

		switch e.ActualTag() {
		case "required":
			out = append(out, FieldError{Loc: loc, Msg: "Field required", Type: TypeMissing})
		default:
			out = append(out, FieldError{Loc: loc, Msg: "Field is invalid", Type: e.ActualTag()})
		}
	}

	return out
}

// DecodeError converts a JSON decoding failure into a FieldError.
//
// A type mismatch names the field it happened on (Go reports nested
// fields as "subjects.Maths"); anything else is reported as invalid JSON
// at the prefix location.
func DecodeError(prefix []any, err error) FieldError {
	loc := append([]any{}, prefix...)

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			for _, p := range strings.Split(typeErr.Field, ".") {
				loc = append(loc, p)
			}
		}
		return FieldError{
			Loc:  loc,
			Msg:  "Input should be a valid " + kindName(typeErr.Type),
			Type: TypeWrongType,
		}
	}

	return FieldError{Loc: loc, Msg: "JSON decode error: " + err.Error(), Type: TypeInvalidJSON}
}

// kindName maps a Go type to the JSON vocabulary clients know.
func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}
