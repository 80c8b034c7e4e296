// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"net/http"

	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/validate"
)

// Handler implements the HTTP layer for the password gate.
type Handler struct {
	service *Service
}

// NewHandler constructs an access [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
POST /api/v1/collections/{ref}/unlock.

Description: Exchanges a collection password for an access grant.
Rate limited per client IP.

Request:
  - ref: string (UUID or slug)
  - password: string

Response:
  - 200: Grant
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED (wrong password)
  - 404: NOT_FOUND
  - 422: UNPROCESSABLE (collection is not protected)
  - 429: RATE_LIMITED
*/
func (handler *Handler) Unlock(writer http.ResponseWriter, request *http.Request) {
	var input UnlockInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password == nil {
		respond.Error(writer, request, validate.RequiredError(FieldPassword, "This field is required"))
		return
	}

	grant, err := handler.service.Unlock(request.Context(), requestutil.Param(request, "ref"), *input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, grant)
}
