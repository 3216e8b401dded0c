package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/apperr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func composeJSONError(message any) string {
	jsonError := map[string]any{
		"error": message,
	}
	result, err := json.Marshal(jsonError)
	if err != nil {
		log.Println(err)
		return ""
	}
	return string(result)
}

// writeError sends the {"error": message} envelope. message is a string or a
// field->message map for validation failures.
func writeError(w http.ResponseWriter, message any, statusCode int) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	fmt.Fprintln(w, composeJSONError(message))
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	writeError(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
}

func (app *application) badRequest(w http.ResponseWriter, err error) {
	writeError(w, err.Error(), http.StatusBadRequest)
}

func (app *application) failedValidation(w http.ResponseWriter, fields map[string]string) {
	writeError(w, fields, http.StatusBadRequest)
}

func (app *application) invalidToken(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, message, http.StatusUnauthorized)
}

// errorResponse translates err into a status and envelope by its apperr code.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		app.serverError(w, r, err)
		return
	}
	switch e.Code {
	case apperr.CodeValidation:
		app.failedValidation(w, e.Fields)
	case apperr.CodeUnauthenticated:
		app.invalidToken(w, e.Message)
	case apperr.CodeUnavailable:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, e.Message, http.StatusInternalServerError)
	case apperr.CodeInternal:
		app.serverError(w, r, err)
	default:
		writeError(w, e.Message, e.Code.HTTPStatus())
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			if typeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", typeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}
	return nil
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func isMultipartRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
