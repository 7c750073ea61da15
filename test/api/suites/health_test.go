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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/books-api-tests/test/api"
)

var _ = Describe("Health and Routing", func() {
	Context("When resolving the run target", func() {
		It("should use the in-process service only without a configured base URL", func() {
			loaded, err := api.LoadTestConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(usingStub).To(Equal(loaded.UsesStub()))
			Expect(config.BaseURL).NotTo(BeEmpty())
		})

		It("should authenticate as the run credential", func() {
			if config.UserEmail == "" || config.UserPassword == "" {
				Skip("no run credential configured")
			}

			Expect(tokens.Credential()).To(Equal(config.RunCredential()))
		})
	})

	Context("When checking service health", func() {
		It("should report the service is up", func() {
			response, err := client.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusOK), response.String())

			status, ok := response.Field("status")
			Expect(ok).To(BeTrue())
			Expect(status).To(Equal("up"))
		})
	})

	Context("When requesting an unknown path", func() {
		It("should return not found", func() {
			response, err := client.Send(ctx, http.MethodGet, "/no-such-endpoint", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(response).To(api.HaveStatus(http.StatusNotFound), response.String())
		})
	})

	Context("When validating responses against the API description", func() {
		It("should conform on the success paths", func() {
			validator, err := api.NewContractValidator()
			Expect(err).NotTo(HaveOccurred())

			response, err := client.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(validator.Validate(ctx, response)).To(Succeed())

			response, err = authed.ListBooks(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(validator.Validate(ctx, response)).To(Succeed())
		})
	})
})
