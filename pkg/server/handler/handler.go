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

//nolint:revive
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
	"github.com/nscaledev/books-api-tests/pkg/server/auth"
	"github.com/nscaledev/books-api-tests/pkg/server/handler/book"
	"github.com/nscaledev/books-api-tests/pkg/server/handler/user"
	"github.com/nscaledev/books-api-tests/pkg/server/util"
	"github.com/nscaledev/books-api-tests/pkg/server/validation"

	"golang.org/x/crypto/bcrypt"
	"k8s.io/utils/ptr"
)

// Options allows behaviour to be defined on the CLI.
type Options struct {
	// EmulateKnownDefects makes missing, empty or oversized signup fields
	// return a 500 like the production service does.
	EmulateKnownDefects bool
}

type Handler struct {
	// users is the user registry.
	users *user.Client

	// books is the book store.
	books *book.Client

	// issuer creates and verifies access tokens.
	issuer *auth.Issuer

	// validator checks request bodies.
	validator *validation.Validator

	// options allows behaviour to be defined on the CLI.
	options *Options
}

func New(users *user.Client, books *book.Client, issuer *auth.Issuer, options *Options) (*Handler, error) {
	if options == nil {
		options = &Options{}
	}

	h := &Handler{
		users:     users,
		books:     books,
		issuer:    issuer,
		validator: validation.New(),
		options:   options,
	}

	return h, nil
}

const (
	maxEmailLength    = 254
	maxPasswordLength = 72
)

type credentialRequest struct {
	Email    *string `json:"email" validate:"required,email,max=254"`
	Password *string `json:"password" validate:"required,min=6,max=72"`
}

// incomplete is true for the requests the production service fails on with
// a 500: a missing, empty or oversized field.
func (r *credentialRequest) incomplete() bool {
	email := ptr.Deref(r.Email, "")
	password := ptr.Deref(r.Password, "")

	return email == "" || password == "" || len(email) > maxEmailLength || len(password) > maxPasswordLength
}

type bookRequest struct {
	Name          *string `json:"name" validate:"required,min=1,max=255,safetext"`
	Author        *string `json:"author" validate:"required,min=1,max=255,safetext"`
	PublishedYear *int    `json:"published_year" validate:"required,gte=0,notfuture"`
	BookSummary   *string `json:"book_summary" validate:"required,min=1,max=2000,safetext"`
}

func (r *bookRequest) record() *openapi.BookRecord {
	return &openapi.BookRecord{
		Name:          ptr.Deref(r.Name, ""),
		Author:        ptr.Deref(r.Author, ""),
		PublishedYear: ptr.Deref(r.PublishedYear, 0),
		BookSummary:   ptr.Deref(r.BookSummary, ""),
	}
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

// authenticate checks the bearer token.  A missing token is forbidden, one
// that does not verify or names an unknown user is unauthorized.
func (h *Handler) authenticate(r *http.Request) error {
	token, err := auth.BearerToken(r)
	if err != nil {
		return util.Forbidden("Not authenticated").WithError(err)
	}

	subject, err := h.issuer.Verify(token)
	if err != nil {
		return util.Unauthorized("Could not validate credentials").WithError(err)
	}

	if !h.users.Exists(r.Context(), subject) {
		return util.Unauthorized("Could not validate credentials")
	}

	return nil
}

func parseBookID(bookID string) (int, error) {
	id, err := strconv.Atoi(bookID)
	if err != nil {
		return 0, util.Unprocessable(openapi.ValidationProblem{
			Location: []string{"path", "book_id"},
			Message:  "Input should be a valid integer",
			Type:     "int_parsing",
		}).WithError(err)
	}

	return id, nil
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.HealthResponse{Status: openapi.HealthStatusUp})
}

func (h *Handler) PostSignup(w http.ResponseWriter, r *http.Request) {
	request := &credentialRequest{}

	if err := util.ReadJSONBody(r, request); err != nil {
		util.HandleError(w, r, err)
		return
	}

	if problems := h.validator.Struct(request); problems != nil {
		if h.options.EmulateKnownDefects && request.incomplete() {
			util.HandleError(w, r, util.InternalServerError())
			return
		}

		util.HandleError(w, r, util.Unprocessable(problems...))

		return
	}

	if err := h.users.Create(r.Context(), *request.Email, *request.Password); err != nil {
		if errors.Is(err, user.ErrAlreadyRegistered) {
			util.HandleError(w, r, util.BadRequest("Email already registered").WithError(err))
			return
		}

		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			util.HandleError(w, r, util.Unprocessable(openapi.ValidationProblem{
				Location: []string{"body", "password"},
				Message:  "String should have at most 72 bytes",
				Type:     "string_too_long",
			}).WithError(err))

			return
		}

		util.HandleError(w, r, err)

		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.MessageResponse{Message: "User created successfully"})
}

func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	request := &credentialRequest{}

	if err := util.ReadJSONBody(r, request); err != nil {
		util.HandleError(w, r, err)
		return
	}

	if problems := h.validator.Struct(request); problems != nil {
		util.HandleError(w, r, util.Unprocessable(problems...))
		return
	}

	if err := h.users.Authenticate(r.Context(), *request.Email, *request.Password); err != nil {
		util.HandleError(w, r, util.BadRequest("Invalid credentials").WithError(err))
		return
	}

	token, err := h.issuer.Issue(*request.Email)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	h.setUncacheable(w)

	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.TokenResponse{
		AccessToken: token,
		TokenType:   openapi.TokenTypeBearer,
	})
}

func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	if err := h.authenticate(r); err != nil {
		util.HandleError(w, r, err)
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, h.books.List(r.Context()))
}

func (h *Handler) readBook(r *http.Request) (*openapi.BookRecord, error) {
	request := &bookRequest{}

	if err := util.ReadJSONBody(r, request); err != nil {
		return nil, err
	}

	if problems := h.validator.Struct(request); problems != nil {
		return nil, util.Unprocessable(problems...)
	}

	return request.record(), nil
}

func (h *Handler) PostBooks(w http.ResponseWriter, r *http.Request) {
	if err := h.authenticate(r); err != nil {
		util.HandleError(w, r, err)
		return
	}

	record, err := h.readBook(r)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, h.books.Create(r.Context(), record))
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request, bookID string) {
	if err := h.authenticate(r); err != nil {
		util.HandleError(w, r, err)
		return
	}

	id, err := parseBookID(bookID)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	result, err := h.books.Get(r.Context(), id)
	if err != nil {
		util.HandleError(w, r, bookError(err))
		return
	}

	h.setUncacheable(w)
	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) PutBook(w http.ResponseWriter, r *http.Request, bookID string) {
	if err := h.authenticate(r); err != nil {
		util.HandleError(w, r, err)
		return
	}

	id, err := parseBookID(bookID)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	record, err := h.readBook(r)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	result, err := h.books.Update(r.Context(), id, record)
	if err != nil {
		util.HandleError(w, r, bookError(err))
		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request, bookID string) {
	if err := h.authenticate(r); err != nil {
		util.HandleError(w, r, err)
		return
	}

	id, err := parseBookID(bookID)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		util.HandleError(w, r, bookError(err))
		return
	}

	util.WriteJSONResponse(w, r, http.StatusOK, &openapi.MessageResponse{Message: "Book deleted successfully"})
}

func bookError(err error) error {
	if errors.Is(err, book.ErrNotFound) {
		return util.NotFound("Book not found").WithError(err)
	}

	return err
}

// NotFound renders unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	util.HandleError(w, r, util.NotFound("Not Found"))
}

// MethodNotAllowed renders known routes requested with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	util.HandleError(w, r, util.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"))
}
