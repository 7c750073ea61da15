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

// Credential is the signup and login request body.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BookRecord is the writable part of a book.
type BookRecord struct {
	Name          string `json:"name"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
	BookSummary   string `json:"book_summary"`
}

// Book is a book as returned by the service.
type Book struct {
	ID            BookID `json:"id"`
	Name          string `json:"name"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
	BookSummary   string `json:"book_summary"`
}

// Record strips the server assigned fields.
func (b *Book) Record() BookRecord {
	return BookRecord{
		Name:          b.Name,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		BookSummary:   b.BookSummary,
	}
}

// Books is the list response.
type Books []Book

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is returned by signup and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body, detail is either a string or a list of
// validation problems depending on the failure.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// ValidationProblem describes a single invalid field.
type ValidationProblem struct {
	Location []string `json:"loc"`
	Message  string   `json:"msg"`
	Type     string   `json:"type"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

const (
	// TokenTypeBearer is the only token type the service issues.
	TokenTypeBearer = "bearer"

	// HealthStatusUp is reported by a healthy service.
	HealthStatusUp = "up"
)
