// Copyright 2026 The SimCloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store provides the in-memory resource store backing every
// simulated vendor API: a mapping from collection name to a mapping of
// resource id to resource document.
//
// A Store is an explicitly-owned handle. Callers construct as many isolated
// instances as they need; there is no package-level state. Every method is
// atomic with respect to concurrent callers, and multi-step operations run
// under Txn so their precondition checks and mutations cannot interleave.
//
// Documents cross the store boundary by deep copy in both directions, so a
// caller can never mutate stored state except through a write method.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

// A Store holds the resource collections of one simulated deployment.
// The zero value is not usable; call New or LoadFile.
type Store struct {
	mu    sync.Mutex
	colls map[string]map[string]resource.Document
}

// New returns an empty store.
func New() *Store {
	return &Store{colls: map[string]map[string]resource.Document{}}
}

// Load reads a JSON fixture from r: an object mapping collection names to
// objects mapping resource ids to documents. No schema is enforced beyond
// that shape.
func Load(r io.Reader) (*Store, error) {
	var colls map[string]map[string]resource.Document
	if err := json.NewDecoder(r).Decode(&colls); err != nil {
		return nil, fmt.Errorf("store: decoding fixture: %w", err)
	}
	if colls == nil {
		colls = map[string]map[string]resource.Document{}
	}
	return &Store{colls: colls}, nil
}

// LoadFile reads a JSON fixture from the named file. A missing file yields
// an empty store without error.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return New(), nil
	}
	defer f.Close()
	return Load(f)
}

// Save writes the store back out as indented JSON in the fixture format.
func (s *Store) Save(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.colls)
}

// SaveFile writes the store to the named file.
func (s *Store) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("store: encoding to %q: %w", path, err)
	}
	return f.Close()
}

// Txn runs f under the store lock. Mutations made through the Txn are
// visible to later calls only if f returns nil; a non-nil error rolls every
// one of them back, so a failed multi-step operation leaves no partial write.
func (s *Store) Txn(f func(tx *Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &Txn{colls: s.colls, dirty: map[string]map[string]resource.Document{}}
	if err := f(tx); err != nil {
		return err
	}
	for name, coll := range tx.dirty {
		s.colls[name] = coll
	}
	return nil
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(coll, id string) (resource.Document, error) {
	var doc resource.Document
	err := s.Txn(func(tx *Txn) error {
		var err error
		doc, err = tx.Get(coll, id)
		return err
	})
	return doc, err
}

// Insert adds a new document, failing with AlreadyExists if the id is taken.
func (s *Store) Insert(coll, id string, doc resource.Document) error {
	return s.Txn(func(tx *Txn) error { return tx.Insert(coll, id, doc) })
}

// Put writes a document unconditionally.
func (s *Store) Put(coll, id string, doc resource.Document) {
	_ = s.Txn(func(tx *Txn) error { tx.Put(coll, id, doc); return nil })
}

// Delete removes the document with the given id.
func (s *Store) Delete(coll, id string) error {
	return s.Txn(func(tx *Txn) error { return tx.Delete(coll, id) })
}

// Collections returns the names of the non-empty collections, sorted.
func (s *Store) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.colls))
	for name, coll := range s.colls {
		if len(coll) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Exists reports whether the id is present in the collection.
func (s *Store) Exists(coll, id string) bool {
	var ok bool
	_ = s.Txn(func(tx *Txn) error {
		ok = tx.Exists(coll, id)
		return nil
	})
	return ok
}

// List returns copies of the documents in the collection for which keep
// returns true (every document if keep is nil), ordered by id.
func (s *Store) List(coll string, keep func(resource.Document) bool) []resource.Document {
	var docs []resource.Document
	_ = s.Txn(func(tx *Txn) error {
		docs = tx.List(coll, keep)
		return nil
	})
	return docs
}

// Count reports how many documents in the collection keep accepts.
func (s *Store) Count(coll string, keep func(resource.Document) bool) int {
	return len(s.List(coll, keep))
}

// Apply runs the conditional-update procedure against one document: look it
// up, check the preconditions, merge or replace, bump the version counter,
// re-stamp the updated timestamp, write back. Either all of that happens or
// none of it does.
func (s *Store) Apply(coll, id string, op *resource.UpdateOp, now time.Time) (resource.Document, error) {
	var updated resource.Document
	err := s.Txn(func(tx *Txn) error {
		var err error
		updated, err = tx.Apply(coll, id, op, now)
		return err
	})
	return updated, err
}

// A Txn provides document access to the function passed to Store.Txn.
// It must not be used outside that function.
type Txn struct {
	colls map[string]map[string]resource.Document
	dirty map[string]map[string]resource.Document
}

func (tx *Txn) coll(name string) map[string]resource.Document {
	if c, ok := tx.dirty[name]; ok {
		return c
	}
	return tx.colls[name]
}

// writable returns a private copy of the named collection that will replace
// the shared one when the transaction commits.
func (tx *Txn) writable(name string) map[string]resource.Document {
	if c, ok := tx.dirty[name]; ok {
		return c
	}
	c := make(map[string]resource.Document, len(tx.colls[name])+1)
	for id, doc := range tx.colls[name] {
		c[id] = doc
	}
	tx.dirty[name] = c
	return c
}

// Get returns a copy of the document with the given id.
func (tx *Txn) Get(coll, id string) (resource.Document, error) {
	doc, ok := tx.coll(coll)[id]
	if !ok {
		return nil, simerr.Newf(simerr.NotFound, nil, "%s: %q not found", coll, id)
	}
	return doc.DeepCopy(), nil
}

// Exists reports whether the id is present in the collection.
func (tx *Txn) Exists(coll, id string) bool {
	_, ok := tx.coll(coll)[id]
	return ok
}

// Insert adds a new document, failing with AlreadyExists if the id is taken.
func (tx *Txn) Insert(coll, id string, doc resource.Document) error {
	if tx.Exists(coll, id) {
		return simerr.Newf(simerr.AlreadyExists, nil, "%s: %q already exists", coll, id)
	}
	tx.writable(coll)[id] = doc.DeepCopy()
	return nil
}

// Put writes a document unconditionally.
func (tx *Txn) Put(coll, id string, doc resource.Document) {
	tx.writable(coll)[id] = doc.DeepCopy()
}

// Delete removes the document with the given id.
func (tx *Txn) Delete(coll, id string) error {
	if !tx.Exists(coll, id) {
		return simerr.Newf(simerr.NotFound, nil, "%s: %q not found", coll, id)
	}
	delete(tx.writable(coll), id)
	return nil
}

// List returns copies of the documents keep accepts, ordered by id.
func (tx *Txn) List(coll string, keep func(resource.Document) bool) []resource.Document {
	c := tx.coll(coll)
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var docs []resource.Document
	for _, id := range ids {
		if keep == nil || keep(c[id]) {
			docs = append(docs, c[id].DeepCopy())
		}
	}
	return docs
}

// Count reports how many documents in the collection keep accepts.
func (tx *Txn) Count(coll string, keep func(resource.Document) bool) int {
	n := 0
	for _, doc := range tx.coll(coll) {
		if keep == nil || keep(doc) {
			n++
		}
	}
	return n
}

// Apply is the Txn form of Store.Apply.
func (tx *Txn) Apply(coll, id string, op *resource.UpdateOp, now time.Time) (resource.Document, error) {
	cur, ok := tx.coll(coll)[id]
	if !ok {
		return nil, simerr.Newf(simerr.NotFound, nil, "%s: %q not found", coll, id)
	}
	updated, err := op.Apply(cur, now)
	if err != nil {
		return nil, err
	}
	tx.writable(coll)[id] = updated
	return updated.DeepCopy(), nil
}
