// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN rewrites postgres schemes into the driver scheme.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"postgres://u:p@db:5432/folio", "pgx5://u:p@db:5432/folio"},
		{"postgresql://u:p@db/folio?sslmode=disable", "pgx5://u:p@db/folio?sslmode=disable"},
		{"pgx5://u@db/folio", "pgx5://u@db/folio"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertToPgx5DSN(tt.input))
		})
	}
}
