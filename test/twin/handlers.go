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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrAccountExists is returned when seeding an email already registered.
	ErrAccountExists = errors.New("account exists")

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minPasswordLength = 6

type contextKey int

const userKey contextKey = iota

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": code})
}

type userView struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type jobView struct {
	JobID        string  `json:"job_id"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	ResultURL    *string `json:"result_url"`
	CostCredits  int     `json:"cost_credits"`
	ErrorMessage *string `json:"error_message"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func newUserView(u *user) userView {
	return userView{
		ID:    u.ID,
		Email: u.Email,
	}
}

func newJobView(j job) jobView {
	v := jobView{
		JobID:       j.ID,
		Type:        j.Type,
		Status:      j.Status,
		ResultURL:   j.ResultURL,
		CostCredits: j.CostCredits,
		CreatedAt:   j.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   j.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if j.Status == "failed" {
		message := "processing failed"
		v.ErrorMessage = &message
	}

	return v
}

func (t *Twin) health(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	}
}

func (t *Twin) stats(w http.ResponseWriter, r *http.Request) {
	users, videos := t.store.counts()

	writeJSON(w, http.StatusOK, map[string]any{
		"videos":          videos,
		"paying_users":    0,
		"total_users":     users,
		"conversion_rate": 0,
		"revenue_cents":   0,
	})
}

func (t *Twin) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, t.options.Catalog)
}

func (t *Twin) packs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, t.options.Packs)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (t *Twin) signup(w http.ResponseWriter, r *http.Request) {
	var c credentials

	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Email == "" || c.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_email")
		return
	}

	if !emailPattern.MatchString(c.Email) {
		writeError(w, http.StatusBadRequest, "invalid_email")
		return
	}

	if len(c.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password_too_short")
		return
	}

	u := t.store.createUser(c.Email, c.Password, t.options.InitialBalance)
	if u == nil {
		writeError(w, http.StatusConflict, "email_exists")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token: t.store.issueToken(u),
		User:  newUserView(u),
	})
}

func (t *Twin) login(w http.ResponseWriter, r *http.Request) {
	var c credentials

	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Email == "" || c.Password == "" {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	u := t.store.authenticate(c.Email, c.Password)
	if u == nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: t.store.issueToken(u),
		User:  newUserView(u),
	})
}

func (t *Twin) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u := t.store.lookupToken(token)
		if u == nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func userFromContext(ctx context.Context) *user {
	//nolint:forcetypeassert
	return ctx.Value(userKey).(*user)
}

func (t *Twin) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newUserView(userFromContext(r.Context())))
}

func (t *Twin) credits(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())

	writeJSON(w, http.StatusOK, map[string]int{"balance": t.store.balance(u)})
}

func (t *Twin) creations(w http.ResponseWriter, r *http.Request) {
	jobs := t.store.userJobs(userFromContext(r.Context()))

	items := make([]jobView, len(jobs))
	for i := range jobs {
		items[i] = newJobView(jobs[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// maxUploadMemory bounds the multipart parser's in-memory buffer.
const maxUploadMemory = 8 << 20

func (t *Twin) upload(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())

	var hasFile bool

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_payload")
			return
		}

		_, hasFile = r.MultipartForm.File["file"]
	} else if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	toolType := r.FormValue("type")
	if toolType == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	var url *string

	if hasFile {
		if !t.options.StorageConfigured {
			writeError(w, http.StatusInternalServerError, "upload_failed")
			return
		}

		stored := "https://cdn.twin.local/uploads/" + toolType + ".jpg"
		url = &stored
	}

	up := t.store.addUpload(u, toolType, url)

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "uploaded",
		"url":    up.URL,
		"job_id": up.JobID,
	})
}

type processRequest struct {
	Type    string         `json:"type"`
	Options map[string]any `json:"options"`
}

func (t *Twin) process(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())

	var req processRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	if t.store.balance(u) < ProcessCost {
		writeError(w, http.StatusPaymentRequired, "insufficient_credits")
		return
	}

	if t.store.lastUpload(u, req.Type) == nil {
		writeError(w, http.StatusBadRequest, "no_media_uploaded")
		return
	}

	if !t.options.ProcessorConfigured {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "a2e_api_error",
			"details": "processor not configured",
		})

		return
	}

	j := t.store.startJob(u, req.Type, ProcessCost)
	if j == nil {
		writeError(w, http.StatusPaymentRequired, "insufficient_credits")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":            j.ID,
		"status":            j.Status,
		"estimated_credits": j.CostCredits,
	})
}

func (t *Twin) status(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "missing_id",
			"message": "Job ID is required",
		})

		return
	}

	j, ok := t.store.pollJob(id, t.options.JobPollsUntilDone, t.options.FailJobs)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "not_found",
			"message": "Job not found",
		})

		return
	}

	writeJSON(w, http.StatusOK, newJobView(j))
}
