/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

// maxBodySize bounds request bodies, the largest legitimate payload is a
// book with a long summary.
const maxBodySize = 1 << 20

// Error is an HTTP error with the body the books service returns.
type Error struct {
	status int
	detail any
	err    error
}

// NewError returns an error that renders as the given status and detail.
func NewError(status int, detail any) *Error {
	return &Error{
		status: status,
		detail: detail,
	}
}

// WithError attaches a cause for logging, it is never rendered.
func (e *Error) WithError(err error) *Error {
	e.err = err
	return e
}

// Status returns the HTTP status code.
func (e *Error) Status() int {
	return e.status
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%d %v: %v", e.status, e.detail, e.err)
	}

	return fmt.Sprintf("%d %v", e.status, e.detail)
}

func (e *Error) Unwrap() error {
	return e.err
}

func BadRequest(detail string) *Error {
	return NewError(http.StatusBadRequest, detail)
}

func Unauthorized(detail string) *Error {
	return NewError(http.StatusUnauthorized, detail)
}

func Forbidden(detail string) *Error {
	return NewError(http.StatusForbidden, detail)
}

func NotFound(detail string) *Error {
	return NewError(http.StatusNotFound, detail)
}

func Unprocessable(problems ...openapi.ValidationProblem) *Error {
	return NewError(http.StatusUnprocessableEntity, problems)
}

func InternalServerError() *Error {
	return NewError(http.StatusInternalServerError, "Internal Server Error")
}

// HandleError renders any error, those that are not an *Error become a 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *Error
	if !errors.As(err, &httpErr) {
		httpErr = InternalServerError().WithError(err)
	}

	WriteJSONResponse(w, r, httpErr.status, &openapi.ErrorResponse{Detail: httpErr.detail})
}

// WriteJSONResponse renders the result as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, _ *http.Request, status int, result any) {
	body, err := json.Marshal(result)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(body)
}

// ReadJSONBody decodes the request body.  An absent body or one with the
// wrong field types is unprocessable, a body that is not JSON at all is a bad
// request.
func ReadJSONBody(r *http.Request, result any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))

	if err := decoder.Decode(result); err != nil {
		if errors.Is(err, io.EOF) {
			return Unprocessable(openapi.ValidationProblem{
				Location: []string{"body"},
				Message:  "Field required",
				Type:     "missing",
			}).WithError(err)
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Unprocessable(openapi.ValidationProblem{
				Location: []string{"body", typeErr.Field},
				Message:  fmt.Sprintf("Input should be a valid %s", typeErr.Type),
				Type:     "type_error",
			}).WithError(err)
		}

		return BadRequest("There was an error parsing the body").WithError(err)
	}

	return nil
}
