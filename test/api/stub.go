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
	"net/http/httptest"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/bcrypt"

	"github.com/nscaledev/books-api-tests/pkg/server"
)

// StubServer is an in-process books service for runs with no API_BASE_URL.
type StubServer struct {
	server *httptest.Server
}

// StartStubServer starts the stub on a loopback port.
func StartStubServer(config *TestConfig, log logr.Logger) (*StubServer, error) {
	options := server.DefaultOptions()
	options.PasswordCost = bcrypt.MinCost
	options.Handler.EmulateKnownDefects = config.StubKnownDefects

	s, err := server.New(options, log)
	if err != nil {
		return nil, err
	}

	return &StubServer{
		server: httptest.NewServer(s.Handler()),
	}, nil
}

// URL is the base URL of the stub.
func (s *StubServer) URL() string {
	return s.server.URL
}

// Close shuts the stub down.
func (s *StubServer) Close() {
	s.server.Close()
}
