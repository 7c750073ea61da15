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

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrAlreadyRegistered is returned when signing up an existing email.
	ErrAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password, callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Client wraps up user registration and authentication.
type Client struct {
	// lock guards users.
	lock sync.RWMutex

	// users maps a normalized email to a password hash.
	users map[string][]byte

	// cost is the bcrypt work factor.
	cost int
}

// NewClient returns an empty user registry.
func NewClient(cost int) *Client {
	return &Client{
		users: map[string][]byte{},
		cost:  cost,
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new user.
func (c *Client) Create(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	key := normalize(email)

	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.users[key]; ok {
		return ErrAlreadyRegistered
	}

	c.users[key] = hash

	return nil
}

// Authenticate checks the email and password pair.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	c.lock.RLock()
	hash, ok := c.users[normalize(email)]
	c.lock.RUnlock()

	if !ok {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// Exists returns whether the email is registered.
func (c *Client) Exists(ctx context.Context, email string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	_, ok := c.users[normalize(email)]

	return ok
}
