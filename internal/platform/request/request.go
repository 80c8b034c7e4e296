// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/convert"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryInt reads an integer query parameter, returning fallback when it is
absent or malformed. Range checks belong to the service.
*/
func QueryInt(request *http.Request, name string, fallback int) int {
	return convert.ToIntD(request.URL.Query().Get(name), fallback)
}

/*
QueryBool reads an optional boolean query parameter.
*/
func QueryBool(request *http.Request, name string) *bool {
	return convert.ToBoolPtr(request.URL.Query().Get(name))
}

/*
Grant returns the collection access grant attached by the middleware, or "".
*/
func Grant(request *http.Request) string {
	return ctxutil.GetGrant(request.Context())
}

/*
File is a single uploaded multipart file held in memory.
*/
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

/*
FormFile reads one multipart file field, capped at maxBytes.

Returns:
  - *File: The uploaded file
  - error: apperr.ValidationError if the field is missing or too large
*/
func FormFile(request *http.Request, field string, maxBytes int64) (*File, error) {
	request.Body = http.MaxBytesReader(nil, request.Body, maxBytes+1<<20)

	if err := request.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, validate.RequiredError(field, fmt.Sprintf("File exceeds %d bytes", maxBytes))
		}
		return nil, apperr.ValidationError("Invalid multipart payload")
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		return nil, validate.RequiredError(field, "This field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if int64(len(data)) > maxBytes {
		return nil, validate.RequiredError(field, fmt.Sprintf("File exceeds %d bytes", maxBytes))
	}

	return &File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

/*
FormValue returns a multipart/form field, or nil when it was not sent.
*/
func FormValue(request *http.Request, field string) *string {
	if request.MultipartForm == nil {
		return nil
	}
	values, ok := request.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
