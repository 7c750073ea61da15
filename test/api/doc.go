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

// Package api provides integration test utilities for the books API.
//
// # Separate Client Implementation
//
// This package maintains its own HTTP client (APIClient) rather than a
// generated one.  Any legitimate change to the API contract must have a
// compensating change here, which makes API evolution explicit and
// reviewable.  The client returns every response as data, negative paths
// are asserted on by status set rather than surfacing as errors.
//
// The client includes features tailored for integration testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - Per request authentication overrides and a shared token provider
//   - Optional response validation against the OpenAPI description
//
// # Fixtures
//
// Credentials and books are generated per test so cases never depend on
// each other's data.  A best effort cleanup removes books left behind by
// earlier runs once per run, before any spec executes.
//
// # Known Deviations
//
// Where the deployed service answers outside its contract the accepted
// statuses are widened, and the deviation is recorded in KnownDeviations so
// it is reported rather than hidden.
package api
