// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestRequireAPIKey covers missing, wrong and valid keys.
*/
func TestRequireAPIKey(t *testing.T) {
	var reached int
	handler := middleware.RequireAPIKey("admin-key")(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		reached++
		writer.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing_key", "", http.StatusUnauthorized},
		{"wrong_key", "nope", http.StatusForbidden},
		{"valid_key", "admin-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/v1/admin/collections", nil)
			if tt.key != "" {
				request.Header.Set(constants.HeaderAPIKey, tt.key)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}

	assert.Equal(t, 1, reached, "only the valid key reaches the handler")
}

/*
TestCollectionGrant copies the header into the context.
*/
func TestCollectionGrant(t *testing.T) {
	var grant string
	handler := middleware.CollectionGrant(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		grant = ctxutil.GetGrant(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/collections/sunset", nil)
	request.Header.Set(constants.HeaderCollectionGrant, " token-value ")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, "token-value", grant)
}

/*
TestRateLimiter rejects the request that exceeds the burst.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewRateLimiter(ctx, rate.Every(rate.InfDuration), 2)
	handler := limiter.Handler(okHandler())

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/collections/sunset/unlock", nil)
		request.RemoteAddr = "10.0.0.1:5123"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// Another client has its own bucket
	request := httptest.NewRequest(http.MethodPost, "/api/v1/collections/sunset/unlock", nil)
	request.RemoteAddr = "10.0.0.2:5123"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequestID generates an id when the client did not send one.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}
