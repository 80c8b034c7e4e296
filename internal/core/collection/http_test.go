// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/collection"
	"github.com/taibuivan/folio/internal/platform/apperr"
)

type envelope struct {
	Data json.RawMessage `json:"data"`
	Code string          `json:"code"`
}

func serve(t *testing.T, handler http.Handler, method, path string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

func serveJSON(t *testing.T, handler http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	return serve(t, handler, method, path, strings.NewReader(body), "application/json")
}

func multipartBody(t *testing.T, fields map[string]string, filename string, data []byte) (io.Reader, string) {
	t.Helper()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buffer, writer.FormDataContentType()
}

/* TestHandler_AssembleAndRead drives creation, ingestion, reordering and a public page read over HTTP. */
func TestHandler_AssembleAndRead(t *testing.T) {
	fixture := newFixture(t, nil)
	handler := collection.NewHandler(fixture.service, 1<<20)
	admin := handler.AdminRoutes()
	public := handler.PublicRoutes()

	status, body := serveJSON(t, admin, http.MethodPost, "/", `{"type":"blog","title":"Summer Trip"}`)
	require.Equal(t, http.StatusCreated, status)

	var created collection.Collection
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "summer-trip", created.Slug)

	status, _ = serveJSON(t, admin, http.MethodPost, "/"+created.ID+"/content/text", `{"body":"first","format":"plain"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = serveJSON(t, admin, http.MethodPost, "/"+created.ID+"/content/code", `{"body":"fmt.Println(1)","language":"go","caption":"snippet"}`)
	require.Equal(t, http.StatusCreated, status)

	upload, contentType := multipartBody(t, map[string]string{
		"caption":     "Sunset",
		"iso":         "200",
		"captured_at": "2026-06-01T18:30:00Z",
	}, "sunset.png", []byte("png bytes"))
	status, _ = serve(t, admin, http.MethodPost, "/"+created.ID+"/content/image", upload, contentType)
	require.Equal(t, http.StatusCreated, status)

	ids := fixture.order(t, created.ID)
	require.Len(t, ids, 3)

	reorder := `{"instructions":[{"content_id":"` + ids[2] + `","order_index":0},{"content_id":"` + ids[0] + `","order_index":2}]}`
	status, _ = serveJSON(t, admin, http.MethodPut, "/"+created.ID+"/order", reorder)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, fixture.order(t, created.ID))

	status, body = serve(t, public, http.MethodGet, "/summer-trip/page?page=1&size=2", nil, "")
	require.Equal(t, http.StatusOK, status)

	// Payload is an interface, so only the placement side is decoded.
	var view struct {
		Items []struct {
			Placement collection.Link `json:"placement"`
		} `json:"items"`
		Counts collection.Counts `json:"counts"`
		Meta   struct {
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &view))
	require.Len(t, view.Items, 2)
	assert.Equal(t, ids[2], view.Items[0].Placement.ContentID)
	assert.Equal(t, 2, view.Meta.TotalPages)
	assert.Equal(t, 1, view.Counts.Image)
}

/* TestHandler_RejectsBadRequests checks malformed input maps to client errors. */
func TestHandler_RejectsBadRequests(t *testing.T) {
	fixture := newFixture(t, nil)
	target := fixture.create(t, blog("Errors"))
	admin := collection.NewHandler(fixture.service, 1<<20).AdminRoutes()

	badISO, badISOType := multipartBody(t, map[string]string{"iso": "fast"}, "a.png", []byte("x"))
	missingFile := &bytes.Buffer{}
	missingWriter := multipart.NewWriter(missingFile)
	require.NoError(t, missingWriter.WriteField("caption", "no file"))
	require.NoError(t, missingWriter.Close())

	tests := []struct {
		name        string
		method      string
		path        string
		body        io.Reader
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "malformed json",
			method:      http.MethodPost,
			path:        "/",
			body:        strings.NewReader(`{"title":`),
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperr.CodeValidation,
		},
		{
			name:        "password missing",
			method:      http.MethodPut,
			path:        "/" + target.ID + "/password",
			body:        strings.NewReader(`{}`),
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperr.CodeValidation,
		},
		{
			name:        "non numeric iso",
			method:      http.MethodPost,
			path:        "/" + target.ID + "/content/image",
			body:        badISO,
			contentType: badISOType,
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperr.CodeValidation,
		},
		{
			name:        "upload without file",
			method:      http.MethodPost,
			path:        "/" + target.ID + "/content/gif",
			body:        missingFile,
			contentType: missingWriter.FormDataContentType(),
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperr.CodeValidation,
		},
		{
			name:       "content id is not a uuid",
			method:     http.MethodDelete,
			path:       "/" + target.ID + "/content/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeValidation,
		},
		{
			name:       "collection id is not a uuid",
			method:     http.MethodPut,
			path:       "/summer-trip/order",
			body:       strings.NewReader(`{"instructions":[]}`),
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeValidation,
		},
		{
			name:       "unknown collection",
			method:     http.MethodDelete,
			path:       "/0190a8b2-7c1e-7000-8000-000000000000",
			wantStatus: http.StatusNotFound,
			wantCode:   apperr.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, admin, tt.method, tt.path, tt.body, tt.contentType)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

/* TestHandler_ProtectedPublicRead verifies a protected collection is closed to public reads without a gate. */
func TestHandler_ProtectedPublicRead(t *testing.T) {
	fixture := newFixture(t, nil)
	input := blog("Private Notes")
	password := "s3cret"
	input.Password = &password
	fixture.create(t, input)

	public := collection.NewHandler(fixture.service, 1<<20).PublicRoutes()

	status, body := serve(t, public, http.MethodGet, "/private-notes/page", nil, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperr.CodeForbidden, body.Code)

	status, _ = serve(t, public, http.MethodGet, "/private-notes", nil, "")
	assert.Equal(t, http.StatusOK, status)
}
