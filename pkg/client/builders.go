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

package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Credentials is the body of signup and login requests. The email is
// validated when marshaled.
type Credentials struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// NewCredentials returns credentials for an existing account.
func NewCredentials(email, password string) Credentials {
	return Credentials{
		Email:    openapi_types.Email(email),
		Password: password,
	}
}

// NewSignupCredentials returns credentials for an account that does not
// exist yet, unique to the second.
func NewSignupCredentials(now time.Time, password string) Credentials {
	return NewCredentials(fmt.Sprintf("testuser_%d@example.com", now.Unix()), password)
}

// UploadForm is the body of an upload request.
type UploadForm struct {
	Type        string
	File        *openapi_types.File
	ContentType string
}

// UploadFormBuilder builds upload forms for testing.
type UploadFormBuilder struct {
	form UploadForm
}

// NewUploadForm creates an upload form for the given tool type.
func NewUploadForm(toolType string) *UploadFormBuilder {
	return &UploadFormBuilder{
		form: UploadForm{
			Type: toolType,
		},
	}
}

// WithFile attaches a file, turning the request into multipart/form-data.
func (b *UploadFormBuilder) WithFile(filename string, data []byte, contentType string) *UploadFormBuilder {
	file := &openapi_types.File{}
	file.InitFromBytes(data, filename)

	b.form.File = file
	b.form.ContentType = contentType

	return b
}

// Build returns the completed upload form.
func (b *UploadFormBuilder) Build() *UploadForm {
	form := b.form

	return &form
}

// Encode returns the request body and its content type. Without a file the
// form is URL encoded, with one it is multipart.
func (f *UploadForm) Encode() (io.Reader, string, error) {
	if f.File == nil {
		values := url.Values{}
		values.Set("type", f.Type)

		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
	}

	data, err := f.File.Bytes()
	if err != nil {
		return nil, "", fmt.Errorf("reading upload file: %w", err)
	}

	buffer := &bytes.Buffer{}
	writer := multipart.NewWriter(buffer)

	if err := writer.WriteField("type", f.Type); err != nil {
		return nil, "", fmt.Errorf("writing type field: %w", err)
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.File.Filename()))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return buffer, writer.FormDataContentType(), nil
}

// ProcessRequest is the body of a processing request.
type ProcessRequest struct {
	Type    string         `json:"type"`
	Options map[string]any `json:"options"`
}

// ProcessPayloadBuilder builds processing payloads for testing.
type ProcessPayloadBuilder struct {
	payload ProcessRequest
}

// NewProcessPayload creates a payload for the given tool type with no options.
func NewProcessPayload(toolType string) *ProcessPayloadBuilder {
	return &ProcessPayloadBuilder{
		payload: ProcessRequest{
			Type:    toolType,
			Options: map[string]any{},
		},
	}
}

// Build returns the completed payload.
func (b *ProcessPayloadBuilder) Build() ProcessRequest {
	return b.payload
}
