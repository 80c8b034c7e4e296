// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// RequireAPIKey guards the admin surface with a shared key.
//
// # Flow
//  1. Read the X-API-Key header.
//  2. Compare it with the configured key in constant time.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	expected := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			provided := []byte(request.Header.Get(constants.HeaderAPIKey))

			if len(provided) == 0 {
				respond.Error(writer, request, apperr.Unauthorized("API key required"))
				return
			}

			if subtle.ConstantTimeCompare(provided, expected) != 1 {
				respond.Error(writer, request, apperr.Forbidden("Invalid API key"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// CollectionGrant copies the access grant header, if any, into the context.
// Verification happens in the access service, which knows the collection.
func CollectionGrant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		token := strings.TrimSpace(request.Header.Get(constants.HeaderCollectionGrant))
		if token == "" {
			next.ServeHTTP(writer, request)
			return
		}

		next.ServeHTTP(writer, request.WithContext(ctxutil.WithGrant(request.Context(), token)))
	})
}
