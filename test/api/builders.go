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
	"maps"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

// BookRecord is the writable part of a book.
type BookRecord = openapi.BookRecord

// Book payload field names.
const (
	FieldName          = "name"
	FieldAuthor        = "author"
	FieldPublishedYear = "published_year"
	FieldBookSummary   = "book_summary"
)

const (
	maxGeneratedLength = 100
	updatedMarker      = "(Updated"
)

//nolint:gochecknoglobals
var updateSequence atomic.Uint64

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}

	return string(runes[:length])
}

// GenerateValidBook returns a realistic book the service should accept.
func GenerateValidBook() BookRecord {
	return GenerateValidBookWith(gofakeit.GlobalFaker)
}

// GenerateValidBookWith is GenerateValidBook drawing from the given faker,
// a seeded faker makes the result reproducible.
func GenerateValidBookWith(faker *gofakeit.Faker) BookRecord {
	year := time.Now().Year()

	return BookRecord{
		Name:          truncate(faker.BookTitle(), maxGeneratedLength),
		Author:        truncate(faker.Name(), maxGeneratedLength),
		PublishedYear: faker.Number(year-30, year),
		BookSummary:   faker.LoremIpsumSentence(12),
	}
}

// GenerateUpdatedBook returns a different valid book for update checks.  Its
// name carries a marker no generated original has, so the change is always
// observable.
func GenerateUpdatedBook() BookRecord {
	return GenerateUpdatedBookWith(gofakeit.GlobalFaker)
}

func GenerateUpdatedBookWith(faker *gofakeit.Faker) BookRecord {
	year := time.Now().Year()
	name := fmt.Sprintf("%s %s %d)", truncate(faker.BookTitle(), maxGeneratedLength-24), updatedMarker, updateSequence.Add(1))

	return BookRecord{
		Name:          name,
		Author:        truncate(faker.Name(), maxGeneratedLength),
		PublishedYear: faker.Number(year-5, year),
		BookSummary:   faker.LoremIpsumSentence(18),
	}
}

// MalformedCredentialJSON returns a credential shaped body that is not JSON,
// the password value is an unquoted token.
func MalformedCredentialJSON() string {
	return `{"email": "test@example.com", "password": bad_json}`
}

// BookPayloadBuilder builds book payloads for testing, it allows any field
// to hold any type so invalid payloads can be expressed.
type BookPayloadBuilder struct {
	payload map[string]interface{}
}

// NewBookPayload creates a new book payload builder from a generated valid book.
func NewBookPayload() *BookPayloadBuilder {
	return NewBookPayloadFrom(GenerateValidBook())
}

// NewBookPayloadFrom creates a new book payload builder from a record.
func NewBookPayloadFrom(record BookRecord) *BookPayloadBuilder {
	return &BookPayloadBuilder{
		payload: map[string]interface{}{
			FieldName:          record.Name,
			FieldAuthor:        record.Author,
			FieldPublishedYear: record.PublishedYear,
			FieldBookSummary:   record.BookSummary,
		},
	}
}

// WithName sets the book name.
func (b *BookPayloadBuilder) WithName(name string) *BookPayloadBuilder {
	return b.WithField(FieldName, name)
}

// WithAuthor sets the author.
func (b *BookPayloadBuilder) WithAuthor(author string) *BookPayloadBuilder {
	return b.WithField(FieldAuthor, author)
}

// WithPublishedYear sets the year, which need not be a number.
func (b *BookPayloadBuilder) WithPublishedYear(year interface{}) *BookPayloadBuilder {
	return b.WithField(FieldPublishedYear, year)
}

// WithSummary sets the summary.
func (b *BookPayloadBuilder) WithSummary(summary string) *BookPayloadBuilder {
	return b.WithField(FieldBookSummary, summary)
}

// WithField sets an arbitrary field.
func (b *BookPayloadBuilder) WithField(key string, value interface{}) *BookPayloadBuilder {
	b.payload[key] = value
	return b
}

// Without removes fields.
func (b *BookPayloadBuilder) Without(keys ...string) *BookPayloadBuilder {
	for _, key := range keys {
		delete(b.payload, key)
	}

	return b
}

// Build returns a copy of the completed payload.
func (b *BookPayloadBuilder) Build() map[string]interface{} {
	return maps.Clone(b.payload)
}
