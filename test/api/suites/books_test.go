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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
	"github.com/nscaledev/books-api-tests/test/api"
)

var _ = Describe("Book Management", func() {
	Context("When managing a book through its lifecycle", func() {
		It("should create, read, update and delete the book", func() {
			record := api.GenerateValidBook()

			By("creating the book")

			response, err := authed.CreateBook(ctx, record)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), "expected book creation to succeed: %s", response)

			created := api.DecodeBook(response)
			Expect(created.ID.String()).NotTo(BeEmpty())
			api.VerifyBookMatches(created, record)

			By("reading it back")

			response, err = authed.GetBook(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())
			Expect(api.DecodeBook(response).Name).To(Equal(record.Name))

			By("updating it")

			update := api.GenerateUpdatedBook()

			response, err = authed.UpdateBook(ctx, created.ID, update)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			updated := api.DecodeBook(response)
			Expect(updated.ID).To(Equal(created.ID))
			Expect(updated.Name).To(Equal(update.Name))
			Expect(updated.Name).NotTo(Equal(record.Name))

			By("deleting it")

			response, err = authed.DeleteBook(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			message, ok := response.Field("message")
			Expect(ok).To(BeTrue())
			Expect(message).To(ContainSubstring("deleted"))

			By("checking it is gone")

			response, err = authed.GetBook(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusNotFound), response.String())
		})

		It("should round trip the reference book", func() {
			record := api.BookRecord{
				Name:          "X",
				Author:        "Y",
				PublishedYear: 2020,
				BookSummary:   "Z",
			}

			book := api.CreateBookWithCleanup(authed, ctx, record)

			response, err := authed.GetBook(ctx, book.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())
			Expect(api.DecodeBook(response).Name).To(Equal("X"))

			response, err = authed.DeleteBook(ctx, book.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			message, ok := response.Field("message")
			Expect(ok).To(BeTrue())
			Expect(message).To(ContainSubstring("deleted"))

			response, err = authed.GetBook(ctx, book.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusNotFound), response.String())
		})

		It("should list books as an array", func() {
			book := api.CreateBookWithCleanup(authed, ctx, api.GenerateValidBook())

			response, err := authed.ListBooks(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			var books openapi.Books

			Expect(response.DecodeJSON(&books)).To(Succeed())
			Expect(books).To(ContainElement(HaveField("ID", book.ID)))
		})
	})

	Context("When creating a book with invalid input", func() {
		DescribeTable("should reject the book",
			func(payload *api.BookPayloadBuilder) {
				response, err := authed.CreateBook(ctx, payload.Build())
				Expect(err).NotTo(HaveOccurred())
				Expect(response).To(api.HaveStatusIn(api.StatusesInvalidBook), response.String())
			},
			Entry("with missing required fields", api.NewBookPayload().WithName("Missing author").Without(api.FieldAuthor, api.FieldPublishedYear, api.FieldBookSummary)),
			Entry("with an excessively long name", api.NewBookPayload().WithName(strings.Repeat("A", 1000)).WithAuthor("Author").WithPublishedYear(2020).WithSummary("Long title")),
			Entry("with a SQL injection pattern", api.NewBookPayload().WithName("'; DROP TABLE books; --").WithAuthor("Attacker").WithPublishedYear(2022).WithSummary("Injection attempt")),
			Entry("with a future published year", api.NewBookPayload().WithName("Future Book").WithAuthor("Time Traveller").WithPublishedYear(9999).WithSummary("Too futuristic")),
			Entry("with empty strings", api.NewBookPayload().WithName("").WithAuthor("").WithPublishedYear(2020).WithSummary("")),
			Entry("with a non-integer published year", api.NewBookPayload().WithName("Test Book").WithAuthor("Author").WithPublishedYear("not-a-number").WithSummary("Bad year")),
		)

		It("should handle Unicode and symbols in the name", func() {
			response, err := authed.CreateBook(ctx, api.NewBookPayload().
				WithName("漢字 & Symbols").
				WithAuthor("Unicode Author").
				WithPublishedYear(2022).
				WithSummary("Valid unicode name").
				Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatusIn(api.StatusesUnicodeBook), response.String())

			if response.StatusCode == http.StatusOK {
				book := api.DecodeBook(response)

				DeferCleanup(func(ctx SpecContext) {
					_, _ = authed.DeleteBook(ctx, book.ID)
				})
			}
		})
	})

	Context("When using an unsupported method", func() {
		It("should reject PATCH on the collection", func() {
			response, err := authed.Send(ctx, http.MethodPatch, client.Endpoints().ListBooks(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatusIn(api.StatusesUnsupportedMethod), response.String())
		})
	})

	Context("When the book does not exist", func() {
		It("should return not found", func() {
			book := api.CreateBookWithCleanup(authed, ctx, api.GenerateValidBook())

			response, err := authed.DeleteBook(ctx, book.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			response, err = authed.DeleteBook(ctx, book.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusNotFound), response.String())
		})
	})
})
