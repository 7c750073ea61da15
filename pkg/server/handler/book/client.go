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

package book

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

// ErrNotFound is returned when a book does not exist.
var ErrNotFound = errors.New("book not found")

// Book is a stored book.  The service issues integer IDs.
type Book struct {
	ID int `json:"id"`
	openapi.BookRecord
}

// Client wraps up book related management handling.
type Client struct {
	// lock guards books and nextID.
	lock sync.RWMutex

	// books is indexed by the numeric ID.
	books map[int]Book

	// nextID is the next ID to allocate, IDs are never reused.
	nextID int
}

// NewClient returns an empty book store.
func NewClient() *Client {
	return &Client{
		books:  map[int]Book{},
		nextID: 1,
	}
}

// List returns all books ordered by ID.
func (c *Client) List(ctx context.Context) []Book {
	c.lock.RLock()
	defer c.lock.RUnlock()

	result := make([]Book, 0, len(c.books))

	for _, id := range slices.Sorted(maps.Keys(c.books)) {
		result = append(result, c.books[id])
	}

	return result
}

// Get returns a single book.
func (c *Client) Get(ctx context.Context, id int) (*Book, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	book, ok := c.books[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &book, nil
}

// Create stores a new book and allocates its ID.
func (c *Client) Create(ctx context.Context, record *openapi.BookRecord) *Book {
	c.lock.Lock()
	defer c.lock.Unlock()

	id := c.nextID
	c.nextID++

	book := generate(id, record)
	c.books[id] = book

	return &book
}

// Update replaces all writable fields of an existing book.
func (c *Client) Update(ctx context.Context, id int, record *openapi.BookRecord) (*Book, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.books[id]; !ok {
		return nil, ErrNotFound
	}

	book := generate(id, record)
	c.books[id] = book

	return &book, nil
}

// Delete removes a book.
func (c *Client) Delete(ctx context.Context, id int) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.books[id]; !ok {
		return ErrNotFound
	}

	delete(c.books, id)

	return nil
}

func generate(id int, record *openapi.BookRecord) Book {
	return Book{
		ID:         id,
		BookRecord: *record,
	}
}
