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

	"github.com/nscaledev/books-api-tests/test/api"
)

var _ = Describe("Authentication", func() {
	Context("When registering and logging in a new user", Ordered, func() {
		var (
			user      api.Credential
			duplicate api.Credential
			invalid   api.Credential
		)

		BeforeAll(func() {
			user = api.GenerateCredential()
			duplicate = api.DeriveDuplicate(user)
			invalid = api.DeriveInvalid(user)
		})

		It("should sign up a new user", func() {
			response, err := client.Signup(ctx, user)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			message, ok := response.Field("message")
			Expect(ok).To(BeTrue())
			Expect(message).To(ContainSubstring("User created successfully"))
		})

		It("should reject a duplicate signup", func() {
			response, err := client.Signup(ctx, duplicate)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusBadRequest), response.String())

			detail, ok := response.Field("detail")
			Expect(ok).To(BeTrue())
			Expect(detail).To(ContainSubstring("already registered"))
		})

		It("should log in with valid credentials", func() {
			response, err := client.Login(ctx, user)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			var token api.AuthToken

			Expect(response.DecodeJSON(&token)).To(Succeed())
			Expect(token.AccessToken).NotTo(BeEmpty())
			Expect(token.TokenType).To(Equal("bearer"))
		})

		It("should reject a login with the wrong password", func() {
			response, err := client.Login(ctx, invalid)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusBadRequest), response.String())
		})
	})

	Context("When signing up with invalid input", func() {
		DescribeTable("should reject the signup, tolerating the known 500",
			func(payload map[string]string) {
				response, err := client.Signup(ctx, payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(response).To(api.HaveStatusIn(api.DeviationSignupValidation.Acceptable()), response.String())
			},
			Entry("with a missing email", map[string]string{"password": api.DefaultPassword}),
			Entry("with a missing password", map[string]string{"email": api.GenerateCredential().Email}),
			Entry("with empty fields", map[string]string{"email": "", "password": ""}),
			Entry("with an oversized email", map[string]string{"email": strings.Repeat("a", 300) + "@test.com", "password": "pass123"}),
		)

		It("should reject a malformed JSON body", func() {
			response, err := client.Signup(ctx, api.RawJSON(api.MalformedCredentialJSON()))
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatusIn(api.DeviationSignupMalformed.Acceptable()), response.String())
		})

		It("should handle Unicode in the email address", func() {
			response, err := client.Signup(ctx, map[string]string{"email": "test🚀@example.com", "password": "test1234"})
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatusIn(api.StatusesUnicodeEmail), response.String())
		})
	})

	Context("When logging in with invalid input", func() {
		It("should reject a SQL injection shaped email", func() {
			response, err := client.Login(ctx, map[string]string{"email": "' OR 1=1 --", "password": "123"})
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatusIn(api.DeviationLoginInjection.Acceptable()), response.String())
		})

		It("should reject a login with no body", func() {
			response, err := client.Login(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatusIn(api.StatusesInvalidLogin), response.String())
		})
	})

	Context("When accessing books with different authentication states", func() {
		It("should issue a token through the run's provider", func() {
			token, err := tokens.Token(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(token.AccessToken).NotTo(BeEmpty())
			Expect(token.TokenType).To(Equal("bearer"))

			response, err := authed.ListBooks(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())
		})

		It("should reject requests without a token", func() {
			response, err := client.CreateBook(ctx, api.GenerateValidBook())
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusForbidden), response.String())
		})

		It("should reject requests with an invalid token", func() {
			response, err := client.ListBooks(ctx, api.WithBearer("not-a-token"))
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusUnauthorized), response.String())
		})
	})

	Context("When running the reference scenario", Ordered, func() {
		credential := api.Credential{
			Email:    "a@b.com",
			Password: "Secure1!",
		}

		BeforeAll(func() {
			if !usingStub {
				Skip("fixed credentials are only used against the in-process service")
			}
		})

		It("should sign up, reject the duplicate and log in", func() {
			response, err := client.Signup(ctx, credential)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			message, ok := response.Field("message")
			Expect(ok).To(BeTrue())
			Expect(message).To(ContainSubstring("User created successfully"))

			response, err = client.Signup(ctx, api.DeriveDuplicate(credential))
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusBadRequest), response.String())

			detail, ok := response.Field("detail")
			Expect(ok).To(BeTrue())
			Expect(detail).To(MatchRegexp("already registered"))

			response, err = client.Login(ctx, credential)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			var token api.AuthToken

			Expect(response.DecodeJSON(&token)).To(Succeed())
			Expect(token.AccessToken).NotTo(BeEmpty())
			Expect(token.TokenType).To(Equal("bearer"))

			response, err = client.Login(ctx, api.DeriveInvalid(credential))
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusBadRequest), response.String())
		})
	})
})
