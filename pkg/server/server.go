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

// Package server provides an in-memory implementation of the books service
// contract, used to exercise the API test harness without a deployment.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/nscaledev/books-api-tests/pkg/server/auth"
	"github.com/nscaledev/books-api-tests/pkg/server/handler"
	"github.com/nscaledev/books-api-tests/pkg/server/handler/book"
	"github.com/nscaledev/books-api-tests/pkg/server/handler/user"
)

// Options configures the stub service.
type Options struct {
	// ListenAddress is where the HTTP server listens.
	ListenAddress string

	// TokenSecret signs access tokens, a random one is generated if empty.
	TokenSecret string

	// TokenTTL is how long access tokens are valid for.
	TokenTTL time.Duration

	// PasswordCost is the bcrypt work factor.
	PasswordCost int

	// ReadHeaderTimeout bounds slow clients.
	ReadHeaderTimeout time.Duration

	// Handler options.
	Handler handler.Options
}

// AddFlags registers the options with a flag set.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.ListenAddress, "listen-address", ":8000", "API listener address")
	f.StringVar(&o.TokenSecret, "token-secret", "", "HMAC secret for access tokens, randomly generated if empty")
	f.DurationVar(&o.TokenTTL, "token-ttl", 30*time.Minute, "Access token lifetime")
	f.IntVar(&o.PasswordCost, "password-cost", bcrypt.DefaultCost, "bcrypt cost for stored passwords")
	f.DurationVar(&o.ReadHeaderTimeout, "read-header-timeout", 10*time.Second, "HTTP read header timeout")
	f.BoolVar(&o.Handler.EmulateKnownDefects, "emulate-known-defects", true, "Return 500 on missing, empty or oversized signup fields like the production service")
}

// DefaultOptions returns the flag defaults, for use when not running from
// the command line.
func DefaultOptions() *Options {
	o := &Options{}

	o.AddFlags(pflag.NewFlagSet("default", pflag.ContinueOnError))

	return o
}

// Server is the stub books service.
type Server struct {
	options *Options
	log     logr.Logger
	handler http.Handler
}

// New wires up the stores, handlers and router.
func New(options *Options, log logr.Logger) (*Server, error) {
	if options.TokenSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}

		options.TokenSecret = hex.EncodeToString(secret)
	}

	h, err := handler.New(user.NewClient(options.PasswordCost), book.NewClient(), auth.NewIssuer(options.TokenSecret, options.TokenTTL), &options.Handler)
	if err != nil {
		return nil, err
	}

	m := newMetrics()

	router := chi.NewRouter()
	router.Use(m.instrument(log))
	router.NotFound(h.NotFound)
	router.MethodNotAllowed(h.MethodNotAllowed)

	router.Get("/health", h.GetHealth)
	router.Post("/signup", h.PostSignup)
	router.Post("/login", h.PostLogin)
	router.Get("/books/", h.GetBooks)
	router.Post("/books/", h.PostBooks)
	router.Get("/books/{bookID}", withBookID(h.GetBook))
	router.Put("/books/{bookID}", withBookID(h.PutBook))
	router.Delete("/books/{bookID}", withBookID(h.DeleteBook))
	router.Method(http.MethodGet, "/metrics", m.handler())

	s := &Server{
		options: options,
		log:     log,
		handler: router,
	}

	return s, nil
}

func withBookID(f func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f(w, r, chi.URLParam(r, "bookID"))
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.options.ListenAddress,
		Handler:           s.handler,
		ReadHeaderTimeout: s.options.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Error(err, "server shutdown failed")
		}
	}()

	s.log.Info("listening", "address", s.options.ListenAddress)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	return nil
}
