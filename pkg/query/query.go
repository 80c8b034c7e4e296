// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses multi-valued URL query parameters.
package query

import (
	"strings"
)

// StringSlice parses every occurrence of a query parameter, accepting both
// repeated keys (?type=a&type=b) and comma-separated values (?type=a,b).
// Entries are trimmed and blanks dropped.
func StringSlice(vals []string) []string {
	var res []string
	for _, val := range vals {
		for _, v := range strings.Split(val, ",") {
			clean := strings.TrimSpace(v)
			if clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}
