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

package openapi

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed spec.yaml
var spec []byte

//nolint:gochecknoglobals
var (
	schemaOnce sync.Once
	schema     *openapi3.T
	schemaErr  error
)

// Spec returns the raw OpenAPI description of the books service.
func Spec() []byte {
	return spec
}

// Schema returns the parsed and validated OpenAPI description.  The result is
// shared, callers must not modify it.
func Schema() (*openapi3.T, error) {
	schemaOnce.Do(func() {
		loader := openapi3.NewLoader()

		doc, err := loader.LoadFromData(spec)
		if err != nil {
			schemaErr = fmt.Errorf("loading books schema: %w", err)
			return
		}

		if err := doc.Validate(loader.Context); err != nil {
			schemaErr = fmt.Errorf("validating books schema: %w", err)
			return
		}

		schema = doc
	})

	return schema, schemaErr
}
