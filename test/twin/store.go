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

package twin

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type user struct {
	ID       string
	Email    string
	Password string
	Balance  int
}

type upload struct {
	UserID string
	Type   string
	URL    *string
	JobID  string
}

type job struct {
	ID          string
	UserID      string
	Type        string
	Status      string
	CostCredits int
	ResultURL   *string
	Polls       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// store is the twin's in-memory state. Handlers run concurrently.
type store struct {
	mu      sync.Mutex
	users   map[string]*user // by email
	tokens  map[string]*user
	uploads []*upload
	jobs    map[string]*job
	order   []string
	now     func() time.Time
}

func newStore() *store {
	return &store{
		users:  map[string]*user{},
		tokens: map[string]*user{},
		jobs:   map[string]*job{},
		now:    time.Now,
	}
}

// createUser returns nil if the email is taken.
func (s *store) createUser(email, password string, balance int) *user {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return nil
	}

	u := &user{
		ID:       uuid.NewString(),
		Email:    email,
		Password: password,
		Balance:  balance,
	}

	s.users[email] = u

	return u
}

func (s *store) authenticate(email, password string) *user {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.Password != password {
		return nil
	}

	return u
}

func (s *store) issueToken(u *user) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = u

	return token
}

func (s *store) lookupToken(token string) *user {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tokens[token]
}

func (s *store) balance(u *user) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return u.Balance
}

func (s *store) addUpload(u *user, toolType string, url *string) *upload {
	s.mu.Lock()
	defer s.mu.Unlock()

	up := &upload{
		UserID: u.ID,
		Type:   toolType,
		URL:    url,
		JobID:  uuid.NewString(),
	}

	s.uploads = append(s.uploads, up)

	return up
}

func (s *store) lastUpload(u *user, toolType string) *upload {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.uploads) - 1; i >= 0; i-- {
		if up := s.uploads[i]; up.UserID == u.ID && up.Type == toolType {
			return up
		}
	}

	return nil
}

// startJob deducts the cost and records a processing job. It returns nil
// when the balance does not cover the cost.
func (s *store) startJob(u *user, toolType string, cost int) *job {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Balance < cost {
		return nil
	}

	u.Balance -= cost

	now := s.now()

	j := &job{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Type:        toolType,
		Status:      "processing",
		CostCredits: cost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.jobs[j.ID] = j
	s.order = append(s.order, j.ID)

	return j
}

// pollJob returns a snapshot of the job, advancing it to its final state
// once it has been polled enough times.
func (s *store) pollJob(id string, pollsUntilDone int, fail bool) (job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return job{}, false
	}

	j.Polls++

	if j.Status == "processing" && j.Polls >= pollsUntilDone {
		j.UpdatedAt = s.now()

		if fail {
			j.Status = "failed"
		} else {
			url := "https://cdn.twin.local/results/" + j.ID + ".jpg"
			j.Status = "completed"
			j.ResultURL = &url
		}
	}

	return *j, true
}

func (s *store) userJobs(u *user) []job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := []job{}

	for i := len(s.order) - 1; i >= 0; i-- {
		if j := s.jobs[s.order[i]]; j.UserID == u.ID {
			jobs = append(jobs, *j)
		}
	}

	return jobs
}

func (s *store) counts() (users, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.Status == "completed" {
			completed++
		}
	}

	return len(s.users), completed
}
