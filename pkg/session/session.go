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

// Package session holds the identity carried between scenario steps.
package session

import (
	"k8s.io/utils/ptr"
)

// State is the bearer token and user identity obtained by an authentication
// step. Steps run sequentially so no locking is done.
type State struct {
	token  *string
	userID *string
}

// New returns an unauthenticated session.
func New() *State {
	return &State{}
}

// SetAuth records a successful authentication.
func (s *State) SetAuth(token, userID string) {
	s.token = ptr.To(token)
	s.userID = ptr.To(userID)
}

// ClearAuth removes the token and returns it so the caller can restore it.
// The user identity is kept.
func (s *State) ClearAuth() string {
	previous := ptr.Deref(s.token, "")
	s.token = nil

	return previous
}

// RestoreAuth puts back a token previously returned by ClearAuth.
func (s *State) RestoreAuth(token string) {
	if token == "" {
		s.token = nil
		return
	}

	s.token = ptr.To(token)
}

// WithoutAuth runs the callback unauthenticated, restoring the token after.
func (s *State) WithoutAuth(callback func()) {
	previous := s.ClearAuth()
	defer s.RestoreAuth(previous)

	callback()
}

// Authenticated returns true when a usable token is held.
func (s *State) Authenticated() bool {
	return ptr.Deref(s.token, "") != ""
}

// Token returns the current token, or an empty string.
func (s *State) Token() string {
	return ptr.Deref(s.token, "")
}

// UserID returns the authenticated user's ID, or an empty string.
func (s *State) UserID() string {
	return ptr.Deref(s.userID, "")
}

// BearerToken implements client.TokenSource.
func (s *State) BearerToken() string {
	return s.Token()
}
