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

package steps

import (
	"net/http"

	"github.com/faceshot-chopshop/conformance/pkg/policy"
)

//nolint:gochecknoglobals
var (
	healthPolicy    = policy.ExpectOK("health")
	statsPolicy     = policy.ExpectOK("stats")
	catalogPolicy   = policy.ExpectOK("catalog")
	packsPolicy     = policy.ExpectOK("packs")
	mePolicy        = policy.ExpectOK("me")
	creditsPolicy   = policy.ExpectOK("credits")
	creationsPolicy = policy.ExpectOK("creations")
	uploadPolicy    = policy.ExpectOK("upload")
	signupPolicy    = policy.Expect("signup", http.StatusCreated)

	unauthorizedPolicy = policy.Expect("unauthorized", http.StatusUnauthorized)

	loginPolicy = policy.Table{
		Name: "login",
		Rules: []policy.Rule{
			{Status: http.StatusOK, Verdict: policy.Accept},
			{Status: http.StatusUnauthorized, Verdict: policy.Tolerate, Note: "Login correctly rejected unknown credentials"},
		},
	}

	uploadWithFilePolicy = policy.Table{
		Name: "upload-with-file",
		Rules: []policy.Rule{
			{Status: http.StatusOK, Verdict: policy.Accept},
			{Status: http.StatusInternalServerError, Verdict: policy.Tolerate, Note: "Upload fails because storage is not configured"},
		},
	}

	statusMissingIDPolicy = policy.Table{
		Name: "status-missing-id",
		Rules: []policy.Rule{
			{Status: http.StatusBadRequest, Verdict: policy.Accept, ErrorCode: "missing_id"},
		},
	}

	statusInvalidIDPolicy = policy.Table{
		Name: "status-invalid-id",
		Rules: []policy.Rule{
			{Status: http.StatusNotFound, Verdict: policy.Accept, ErrorCode: "not_found"},
			{Status: http.StatusInternalServerError, Verdict: policy.Tolerate, Note: "Malformed job ID rejected below the handler"},
		},
	}

	processPolicy = policy.Table{
		Name: "process",
		Rules: []policy.Rule{
			{Status: http.StatusPaymentRequired, Verdict: policy.Accept},
			{Status: http.StatusInternalServerError, Verdict: policy.Tolerate, ErrorCode: "a2e_api_error", Note: "Process fails because the processor is not configured"},
			{Status: http.StatusOK, Verdict: policy.Accept},
		},
	}
)

// Policies returns every table the steps evaluate, keyed by name.
func Policies() map[string]policy.Table {
	tables := []policy.Table{
		healthPolicy,
		statsPolicy,
		catalogPolicy,
		packsPolicy,
		mePolicy,
		creditsPolicy,
		creationsPolicy,
		uploadPolicy,
		signupPolicy,
		unauthorizedPolicy,
		loginPolicy,
		uploadWithFilePolicy,
		statusMissingIDPolicy,
		statusInvalidIDPolicy,
		processPolicy,
	}

	out := make(map[string]policy.Table, len(tables))
	for _, table := range tables {
		out[table.Name] = table
	}

	return out
}
