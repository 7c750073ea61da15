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
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
)

var ErrInvalidBookID = errors.New("invalid book ID: must be a non-empty string of alphanumeric characters, '-' or '_'")

var bookIDValidationRegex = regexp.MustCompile("^[A-Za-z0-9_-]{1,64}$")

// BookID is the server assigned book identifier.  The books service issues
// integers, but the harness treats it as opaque so it accepts either JSON
// numbers or strings, and writes it back as a string.
type BookID string

func (id BookID) String() string {
	return string(id)
}

// Int returns the numeric form of the ID, if it has one.
func (id BookID) Int() (int, bool) {
	i, err := strconv.Atoi(string(id))
	if err != nil {
		return 0, false
	}

	return i, true
}

func (id *BookID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		return id.UnmarshalText([]byte(s))
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidBookID
	}

	return id.UnmarshalText([]byte(n.String()))
}

// MarshalJSON always emits a string so the value round trips unchanged.
func (id BookID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *BookID) UnmarshalText(text []byte) error {
	if !bookIDValidationRegex.Match(text) {
		return ErrInvalidBookID
	}

	*id = BookID(text)

	return nil
}
