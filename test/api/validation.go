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
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

var (
	// ErrResponseUnbound is returned when a response carries no request to
	// find its route from.
	ErrResponseUnbound = errors.New("response has no associated request")
)

// ContractValidator checks responses against the OpenAPI description of the
// books service.
type ContractValidator struct {
	router routers.Router
}

func NewContractValidator() (*ContractValidator, error) {
	schema, err := openapi.Schema()
	if err != nil {
		return nil, err
	}

	router, err := gorillamux.NewRouter(schema)
	if err != nil {
		return nil, fmt.Errorf("creating schema router: %w", err)
	}

	return &ContractValidator{
		router: router,
	}, nil
}

// Validate checks the response status, headers and body.  Routes the
// description does not know about, and statuses it does not document, are
// not violations.
func (v *ContractValidator) Validate(ctx context.Context, response *Response) error {
	if response.request == nil {
		return ErrResponseUnbound
	}

	route, pathParams, err := v.router.FindRoute(response.request)
	if err != nil {
		//nolint:nilerr
		return nil
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    response.request,
			PathParams: pathParams,
			Route:      route,
		},
		Status: response.StatusCode,
		Header: response.Header,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}

	if len(response.Body) > 0 {
		input.SetBodyBytes(response.Body)
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%s %s returned %d: %w", response.Method, response.Path, response.StatusCode, err)
	}

	return nil
}
