// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Item is stored in an [ItemStore].
type Item struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ItemStore is an in-memory set of uniquely named items.
type ItemStore struct {
	mu     sync.RWMutex
	items  map[uuid.UUID]Item
	byName map[string]uuid.UUID
}

// NewItemStore returns an empty [ItemStore].
func NewItemStore() *ItemStore {
	return &ItemStore{
		items:  make(map[uuid.UUID]Item),
		byName: make(map[string]uuid.UUID),
	}
}

// Create stores a new item. If the name is taken the existing item is returned
// and ok is false.
func (s *ItemStore) Create(name string) (item Item, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.byName[name]; exists {
		return s.items[id], false
	}

	item = Item{
		ID:   uuid.New(),
		Name: name,
	}
	s.items[item.ID] = item
	s.byName[name] = item.ID
	return item, true
}

// Get returns the item with the given id.
func (s *ItemStore) Get(id uuid.UUID) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	return item, ok
}

// Delete removes the item with the given id and reports whether it existed.
func (s *ItemStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return false
	}
	delete(s.items, id)
	delete(s.byName, item.Name)
	return true
}

// List returns every item ordered by name.
func (s *ItemStore) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b Item) int {
		return strings.Compare(a.Name, b.Name)
	})
	return items
}
