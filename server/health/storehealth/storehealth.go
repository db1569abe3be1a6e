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

// Package storehealth provides a health check for the in-memory resource
// store.
package storehealth

import (
	"errors"
	"sync/atomic"

	"simcloud.dev/internal/store"
)

// Checker reports the readiness of a resource store: unhealthy until the
// fixture load finishes, healthy from then on.
type Checker struct {
	st    atomic.Pointer[store.Store]
	bad   atomic.Pointer[error]
	ready atomic.Bool
}

// New returns a Checker that is not yet ready.
func New() *Checker {
	return &Checker{}
}

// SetStore marks the checker ready with the loaded store.
func (c *Checker) SetStore(st *store.Store) {
	c.st.Store(st)
	c.ready.Store(true)
}

// SetError marks the checker permanently unhealthy, for a fixture that
// failed to load.
func (c *Checker) SetError(err error) {
	c.bad.Store(&err)
}

// CheckHealth returns nil iff a store has been handed to SetStore and no
// load error was reported.
func (c *Checker) CheckHealth() error {
	if errp := c.bad.Load(); errp != nil {
		return *errp
	}
	if !c.ready.Load() || c.st.Load() == nil {
		return errors.New("store not loaded yet")
	}
	return nil
}
