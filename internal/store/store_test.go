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

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"simcloud.dev/internal/resource"
	"simcloud.dev/internal/simerr"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestCRUD(t *testing.T) {
	s := New()
	doc := resource.Document{"name": "b1", "metageneration": "1"}

	if err := s.Insert("buckets", "b1", doc); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert("buckets", "b1", doc); simerr.Code(err) != simerr.AlreadyExists {
		t.Fatalf("duplicate insert: got %v, want AlreadyExists", err)
	}

	got, err := s.Get("buckets", "b1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Get("buckets", "nope"); simerr.Code(err) != simerr.NotFound {
		t.Fatalf("missing get: got %v, want NotFound", err)
	}
	if _, err := s.Get("videos", "b1"); simerr.Code(err) != simerr.NotFound {
		t.Fatalf("missing collection: got %v, want NotFound", err)
	}

	if err := s.Delete("buckets", "b1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("buckets", "b1"); simerr.Code(err) != simerr.NotFound {
		t.Fatalf("double delete: got %v, want NotFound", err)
	}
}

func TestCopyOnReadAndWrite(t *testing.T) {
	s := New()
	doc := resource.Document{"name": "b1", "labels": map[string]interface{}{"env": "prod"}}
	if err := s.Insert("buckets", "b1", doc); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's document after insert must not affect the store.
	doc["labels"].(map[string]interface{})["env"] = "dev"
	got, err := s.Get("buckets", "b1")
	if err != nil {
		t.Fatal(err)
	}
	if got.StringField("labels.env") != "prod" {
		t.Error("insert did not copy the document")
	}

	// Mutating a returned document must not affect the store either.
	got["labels"].(map[string]interface{})["env"] = "dev"
	again, err := s.Get("buckets", "b1")
	if err != nil {
		t.Fatal(err)
	}
	if again.StringField("labels.env") != "prod" {
		t.Error("get did not copy the document")
	}
}

func TestApply(t *testing.T) {
	s := New()
	if err := s.Insert("buckets", "b1", resource.Document{"name": "b1", "metageneration": "3"}); err != nil {
		t.Fatal(err)
	}

	// Mismatched precondition leaves the stored document untouched.
	op := &resource.UpdateOp{
		Body:          resource.Document{"storageClass": "NEARLINE"},
		Preconditions: []resource.Precondition{{Field: "metageneration", Value: "2"}},
		CounterField:  "metageneration",
	}
	if _, err := s.Apply("buckets", "b1", op, testNow); simerr.Code(err) != simerr.FailedPrecondition {
		t.Fatalf("got %v, want FailedPrecondition", err)
	}
	got, err := s.Get("buckets", "b1")
	if err != nil {
		t.Fatal(err)
	}
	want := resource.Document{"name": "b1", "metageneration": "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document changed on failed precondition (-want +got):\n%s", diff)
	}

	// Matching precondition applies the patch and bumps the counter.
	op.Preconditions[0].Value = "3"
	updated, err := s.Apply("buckets", "b1", op, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if updated.StringField("metageneration") != "4" || updated.StringField("storageClass") != "NEARLINE" {
		t.Errorf("updated = %v", updated)
	}

	if _, err := s.Apply("buckets", "nope", op, testNow); simerr.Code(err) != simerr.NotFound {
		t.Fatalf("missing apply: got %v, want NotFound", err)
	}
}

func TestTxnRollback(t *testing.T) {
	s := New()
	if err := s.Insert("buckets", "b1", resource.Document{"name": "b1"}); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	err := s.Txn(func(tx *Txn) error {
		tx.Put("buckets", "b2", resource.Document{"name": "b2"})
		if err := tx.Delete("buckets", "b1"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	// Nothing the transaction did is visible.
	if _, err := s.Get("buckets", "b1"); err != nil {
		t.Errorf("b1 gone after rollback: %v", err)
	}
	if _, err := s.Get("buckets", "b2"); simerr.Code(err) != simerr.NotFound {
		t.Errorf("b2 visible after rollback: %v", err)
	}
}

func TestList(t *testing.T) {
	s := New()
	for _, id := range []string{"c", "a", "b"} {
		if err := s.Insert("buckets", id, resource.Document{"name": id}); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, d := range s.List("buckets", nil) {
		got = append(got, d.StringField("name"))
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("list order (-want +got):\n%s", diff)
	}

	n := s.Count("buckets", func(d resource.Document) bool { return d.StringField("name") != "b" })
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	fixture := `{
	  "buckets": {
	    "b1": {"name": "b1", "metageneration": "3"}
	  },
	  "videos": {
	    "v1": {"id": "v1", "snippet": {"title": "hello"}}
	  }
	}`
	s, err := Load(strings.NewReader(fixture))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("buckets", "b1"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	if err := s.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	s2, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := s.List("videos", nil)
	got := s2.List("videos", nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}

	// Loading a nonexistent file yields an empty, usable store.
	s3, err := LoadFile(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if n := s3.Count("buckets", nil); n != 0 {
		t.Errorf("empty store has %d buckets", n)
	}

	// A malformed fixture is an error.
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("loading malformed fixture succeeded")
	}
}
