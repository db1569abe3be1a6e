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

package storehealth

import (
	"errors"
	"testing"

	"simcloud.dev/internal/store"
)

func TestChecker(t *testing.T) {
	c := New()
	if err := c.CheckHealth(); err == nil {
		t.Error("CheckHealth() = nil before SetStore, want error")
	}

	c.SetStore(store.New())
	if err := c.CheckHealth(); err != nil {
		t.Errorf("CheckHealth() = %v after SetStore, want nil", err)
	}
}

func TestCheckerLoadError(t *testing.T) {
	c := New()
	loadErr := errors.New("fixture corrupt")
	c.SetError(loadErr)
	c.SetStore(store.New())
	if err := c.CheckHealth(); !errors.Is(err, loadErr) {
		t.Errorf("CheckHealth() = %v, want %v", err, loadErr)
	}
}
