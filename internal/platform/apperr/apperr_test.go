// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

/*
TestAs_WrappedChain verifies that AppErrors survive fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	base := apperr.Conflict("Slug already taken")
	wrapped := fmt.Errorf("collection_service_create_failed: %w", base)

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeConflict))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
}

/*
TestInternal_HidesCause checks that the cause is reachable but not in the message.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "10.0.0.1")
	assert.ErrorIs(t, err, cause)
}

/*
TestConfiguration_IsServerError ensures configuration defects map to 500.
*/
func TestConfiguration_IsServerError(t *testing.T) {
	err := apperr.Configuration("unknown content type: video")

	assert.Equal(t, apperr.CodeConfiguration, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.Nil(t, apperr.As(nil))
}
