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

package api

import (
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

func statusCode(r *Response) int {
	return r.StatusCode
}

// HaveStatus succeeds when a *Response has exactly the given status.
func HaveStatus(code int) types.GomegaMatcher {
	return gomega.WithTransform(statusCode, gomega.Equal(code))
}

// HaveStatusIn succeeds when a *Response status is in the acceptable set.
func HaveStatusIn(statuses StatusSet) types.GomegaMatcher {
	codes := statuses.Codes()

	elements := make([]any, len(codes))
	for i, code := range codes {
		elements[i] = code
	}

	return gomega.WithTransform(statusCode, gomega.BeElementOf(elements...))
}
