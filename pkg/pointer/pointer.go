// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides utilities for working with pointers in Go.

Optional fields (caption, priority, page size) are modelled as pointers so
that "absent" and "zero" stay distinguishable; these helpers keep call sites short.

*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}
