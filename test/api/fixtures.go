/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

//go:generate mockgen -source=fixtures.go -destination=mock/cleanup.go -package=mock

// CleanupClient is the subset of the API client the global cleanup needs.
type CleanupClient interface {
	ListBooks(ctx context.Context, opts ...RequestOption) (*Response, error)
	DeleteBook(ctx context.Context, bookID openapi.BookID, opts ...RequestOption) (*Response, error)
}

// CleanupReport summarizes a cleanup run.
type CleanupReport struct {
	// Listed is how many books existed before cleanup.
	Listed int
	// Deleted is how many were removed.
	Deleted int
	// Failed is how many could not be removed.
	Failed int
	// Skipped is set when login or listing failed and nothing was attempted.
	Skipped bool
}

// Cleanup removes books left behind by earlier runs.  It is best effort, a
// failure is logged and never fails the run.
type Cleanup struct {
	client CleanupClient
	tokens TokenSource
	log    logr.Logger
}

// NewCleanup authenticates with tokens from the source, normally the run's
// TokenProvider so the credential is signed up before it is used.
func NewCleanup(client CleanupClient, tokens TokenSource, log logr.Logger) *Cleanup {
	return &Cleanup{
		client: client,
		tokens: tokens,
		log:    log,
	}
}

// Run logs in, lists every visible book and deletes each one.
func (c *Cleanup) Run(ctx context.Context) CleanupReport {
	token, ok := c.login(ctx)
	if !ok {
		return CleanupReport{Skipped: true}
	}

	auth := WithBearer(token)

	response, err := c.client.ListBooks(ctx, auth)
	if err != nil {
		c.log.Info("failed to fetch books for cleanup", "error", err.Error())
		return CleanupReport{Skipped: true}
	}

	var books openapi.Books

	if response.StatusCode != http.StatusOK {
		c.log.Info("failed to fetch books for cleanup", "status", response.StatusCode, "traceID", response.TraceID)
		return CleanupReport{Skipped: true}
	}

	if err := response.DecodeJSON(&books); err != nil {
		c.log.Info("failed to fetch books for cleanup", "error", err.Error())
		return CleanupReport{Skipped: true}
	}

	report := CleanupReport{
		Listed: len(books),
	}

	for _, book := range books {
		response, err := c.client.DeleteBook(ctx, book.ID, auth)

		switch {
		case err != nil:
			c.log.V(1).Info("failed to delete book", "id", book.ID.String(), "error", err.Error())
			report.Failed++
		case response.StatusCode != http.StatusOK:
			c.log.V(1).Info("failed to delete book", "id", book.ID.String(), "status", response.StatusCode, "traceID", response.TraceID)
			report.Failed++
		default:
			report.Deleted++
		}
	}

	c.log.Info(fmt.Sprintf("global setup cleaned %d book(s)", len(books)), "deleted", report.Deleted, "failed", report.Failed)

	return report
}

func (c *Cleanup) login(ctx context.Context) (string, bool) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		var loginErr *LoginError

		if errors.As(err, &loginErr) {
			c.log.Info("login failed during global setup", "status", loginErr.StatusCode, "traceID", loginErr.TraceID)
		} else {
			c.log.Info("login failed during global setup", "error", err.Error())
		}

		return "", false
	}

	return token.AccessToken, true
}

// CreateBookWithCleanup creates a book and schedules its deletion, whether
// the spec passes or fails.
func CreateBookWithCleanup(client *APIClient, ctx context.Context, record BookRecord) openapi.Book {
	response, err := client.CreateBook(ctx, record)
	Expect(err).NotTo(HaveOccurred())
	Expect(response).To(HaveStatus(http.StatusOK), "creating book: %s", response)

	var book openapi.Book

	Expect(response.DecodeJSON(&book)).To(Succeed())
	Expect(book.ID.String()).NotTo(BeEmpty())

	GinkgoWriter.Printf("Created book with ID: %s\n", book.ID)

	DeferCleanup(func(ctx SpecContext) {
		GinkgoWriter.Printf("Cleaning up book: %s\n", book.ID)

		response, err := client.DeleteBook(ctx, book.ID)

		switch {
		case err != nil:
			GinkgoWriter.Printf("Warning: Failed to delete book %s: %v\n", book.ID, err)
		case response.StatusCode == http.StatusNotFound:
			GinkgoWriter.Printf("Book %s already deleted\n", book.ID)
		case response.StatusCode != http.StatusOK:
			GinkgoWriter.Printf("Warning: Failed to delete book %s: %s\n", book.ID, response)
		default:
			GinkgoWriter.Printf("Successfully deleted book: %s\n", book.ID)
		}
	})

	return book
}

// VerifyBookMatches checks a returned book carries the record's fields.
func VerifyBookMatches(book openapi.Book, record BookRecord) {
	Expect(book.Name).To(Equal(record.Name))
	Expect(book.Author).To(Equal(record.Author))
	Expect(book.PublishedYear).To(Equal(record.PublishedYear))
	Expect(book.BookSummary).To(Equal(record.BookSummary))
}

// DecodeBook decodes a single book response.
func DecodeBook(response *Response) openapi.Book {
	var book openapi.Book

	Expect(response.DecodeJSON(&book)).To(Succeed(), "decoding book: %s", response)

	return book
}
