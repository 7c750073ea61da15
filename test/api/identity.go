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
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

// Credential is an email and password pair.
type Credential = openapi.Credential

const (
	// DefaultPassword satisfies the service's password policy: long enough,
	// with upper and lower case letters, digits and a symbol.
	DefaultPassword = "SecurePass123!"

	// WrongPassword is well formed but never the right one.
	WrongPassword = "WrongPassword123!"

	emailDomain = "example.com"
)

//nolint:gochecknoglobals
var identitySequence atomic.Uint64

// GenerateCredential returns a credential whose email is unique within the
// process, and very likely across parallel runs.
func GenerateCredential() Credential {
	sequence := identitySequence.Add(1)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	return Credential{
		Email:    fmt.Sprintf("qa.user.%d.%s@%s", sequence, suffix, emailDomain),
		Password: DefaultPassword,
	}
}

// DeriveDuplicate returns the same credential, for duplicate registration.
func DeriveDuplicate(c Credential) Credential {
	return Credential{
		Email:    c.Email,
		Password: c.Password,
	}
}

// DeriveInvalid returns the same email with a different password, for failed
// login checks.
func DeriveInvalid(c Credential) Credential {
	password := WrongPassword
	if c.Password == WrongPassword {
		password = DefaultPassword + "Wrong"
	}

	return Credential{
		Email:    c.Email,
		Password: password,
	}
}
