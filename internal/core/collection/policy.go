// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import "github.com/taibuivan/folio/pkg/pointer"

// # Type Default Policy

// Page sizes applied when a new collection does not choose one.
const (
	DefaultContentPerPage       = 30
	ClientGalleryContentPerPage = 50
)

// typeDefaults is the creation-time default set for one collection type.
type typeDefaults struct {
	contentPerPage int
	visible        bool
}

// defaultsFor returns the defaults of a type. Client galleries are private
// and show more items per page; every other type is public.
func defaultsFor(collectionType Type) typeDefaults {
	if collectionType == TypeClientGallery {
		return typeDefaults{contentPerPage: ClientGalleryContentPerPage, visible: false}
	}
	return typeDefaults{contentPerPage: DefaultContentPerPage, visible: true}
}

// ApplyDefaults fills the unset fields of a creation request from its type.
// Values the caller provided, including explicit zero values, are kept.
func ApplyDefaults(input CreateInput) CreateInput {
	defaults := defaultsFor(Type(input.Type))

	if input.ContentPerPage == nil {
		input.ContentPerPage = pointer.To(defaults.contentPerPage)
	}
	if input.Visible == nil {
		input.Visible = pointer.To(defaults.visible)
	}

	return input
}
