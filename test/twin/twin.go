/*
Copyright 2026 the FaceShot ChopShop Authors.

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

// Package twin is an in-memory replica of the FaceShot ChopShop HTTP
// contract. It backs the in-process tests of the client, the steps and the
// runner, and can be started against the suites in place of a live server.
package twin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ProcessCost is the flat number of credits a job costs.
const ProcessCost = 10

// Fault overrides the response of a single path.
type Fault struct {
	// StatusCode is written when non-zero.
	StatusCode int
	// Body is written verbatim, defaulting to an injected_fault error.
	Body string
	// Delay is applied before the response, or before the handler runs
	// when StatusCode is zero.
	Delay time.Duration
}

// Options shape the twin's environment.
type Options struct {
	// StorageConfigured makes uploads carrying a file succeed with a URL.
	StorageConfigured bool
	// ProcessorConfigured makes processing requests start a job rather than
	// fail with a2e_api_error.
	ProcessorConfigured bool
	// InitialBalance is credited to every new account.
	InitialBalance int
	// JobPollsUntilDone is the number of status reads before a job settles.
	JobPollsUntilDone int
	// FailJobs settles jobs as failed instead of completed.
	FailJobs bool
	// Catalog and Packs override the embedded fixtures.
	Catalog []Tool
	Packs   []Pack
}

// Twin serves the replica contract.
type Twin struct {
	options Options
	store   *store
	router  chi.Router

	lock   sync.RWMutex
	faults map[string]Fault
}

// New creates a twin with the given options.
func New(options Options) *Twin {
	if options.Catalog == nil {
		options.Catalog = DefaultCatalog()
	}

	if options.Packs == nil {
		options.Packs = DefaultPacks()
	}

	if options.JobPollsUntilDone <= 0 {
		options.JobPollsUntilDone = 1
	}

	t := &Twin{
		options: options,
		store:   newStore(),
		faults:  map[string]Fault{},
	}

	t.router = t.routes()

	return t
}

// NewServer starts the twin on a loopback httptest server. The caller
// closes it.
func NewServer(options Options) (*Twin, *httptest.Server) {
	t := New(options)

	return t, httptest.NewServer(t)
}

func (t *Twin) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(t.faultInjection)

	r.Get("/health", t.health("ok"))
	r.Get("/ready", t.health("ready"))
	r.Get("/alive", t.health("alive"))
	r.Get("/stats", t.stats)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", t.signup)
		r.Post("/login", t.login)
		r.With(t.authenticate).Get("/me", t.me)
	})

	r.Route("/api/web", func(r chi.Router) {
		r.Get("/catalog", t.catalog)
		r.Get("/packs", t.packs)
		r.Get("/status", t.status)

		r.Group(func(r chi.Router) {
			r.Use(t.authenticate)

			r.Get("/credits", t.credits)
			r.Get("/creations", t.creations)
			r.Post("/upload", t.upload)
			r.Post("/process", t.process)
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.router.ServeHTTP(w, r)
}

// Seed creates an account directly, as if it had signed up earlier.
func (t *Twin) Seed(email, password string) error {
	if t.store.createUser(email, password, t.options.InitialBalance) == nil {
		return fmt.Errorf("%w: %s", ErrAccountExists, email)
	}

	return nil
}

// InjectFault overrides every response for path until cleared.
func (t *Twin) InjectFault(path string, fault Fault) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.faults[path] = fault
}

// ClearFaults removes all injected faults.
func (t *Twin) ClearFaults() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.faults = map[string]Fault{}
}

func (t *Twin) fault(path string) (Fault, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	f, ok := t.faults[path]

	return f, ok
}

func (t *Twin) faultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := t.fault(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if f.Delay > 0 {
			select {
			case <-time.After(f.Delay):
			case <-r.Context().Done():
				return
			}
		}

		if f.StatusCode == 0 {
			next.ServeHTTP(w, r)
			return
		}

		body := f.Body
		if body == "" {
			body = `{"error":"injected_fault"}`
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.StatusCode)

		_, _ = w.Write([]byte(body))
	})
}
