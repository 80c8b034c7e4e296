// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package collection composes content items into ordered, paginated collections.

A [Collection] never embeds its items. Each placement is a [Link] carrying the
order index, the per-placement visibility flag and an optional caption
override, so reordering rewrites indices on links and never touches content.

Core Responsibilities:

  - Assembly: add, remove and edit placements with unique order indices.
  - Reorder: validate a whole batch, then apply it atomically.
  - Views: project a page of placements into a [PagedView].
  - Identity: keep slugs globally unique by sequential suffixing.
*/
package collection

import (
	"errors"
	"math"
	"time"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Domain Enums

// Type classifies a collection and drives its creation defaults.
type Type string

const (
	TypeBlog          Type = "blog"
	TypePortfolio     Type = "portfolio"
	TypeArtGallery    Type = "art_gallery"
	TypeClientGallery Type = "client_gallery"
)

// IsValid reports whether t is a recognised [Type].
func (t Type) IsValid() bool {
	switch t {
	case TypeBlog, TypePortfolio, TypeArtGallery, TypeClientGallery:
		return true
	}
	return false
}

// # Limits

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	SlugMinLength        = 3
	SlugMaxLength        = 150
	DescriptionMaxLength = 500
	LocationMaxLength    = 255
	CaptionMaxLength     = content.MaxCaptionLength
	PriorityMin          = 1
	PriorityMax          = 4
	PageSizeMin          = 1
	PageSizeMax          = pagination.MaxLimit

	// OrderIndexMax is the largest index the orderindex INTEGER column holds.
	OrderIndexMax = math.MaxInt32
)

// # Field Names

const (
	FieldID             = "id"
	FieldType           = "type"
	FieldTitle          = "title"
	FieldSlug           = "slug"
	FieldDescription    = "description"
	FieldLocation       = "location"
	FieldPriority       = "priority"
	FieldContentPerPage = "content_per_page"
	FieldPassword       = "password"
	FieldContentID      = "content_id"
	FieldOrderIndex     = "order_index"
	FieldCaption        = "caption"
	FieldPage           = "page"
	FieldSize           = "size"
	FieldInstructions   = "instructions"
)

// # Sentinel Errors

var (
	// ErrSlugTaken is returned by stores when a write loses a slug race.
	ErrSlugTaken = errors.New("collection: slug already taken")

	// ErrLinkMissing is returned by UpdateOrderIndices when a content id has
	// no placement in the collection.
	ErrLinkMissing = errors.New("collection: placement missing")
)

// # Entities

// Collection is a named, typed container of ordered placements.
type Collection struct {
	ID                  string    `json:"id"`
	Type                Type      `json:"type"`
	Title               string    `json:"title"`
	Slug                string    `json:"slug"`
	Description         *string   `json:"description,omitempty"`
	Location            *string   `json:"location,omitempty"`
	Visible             bool      `json:"visible"`
	Priority            *int      `json:"priority,omitempty"`
	ContentPerPage      int       `json:"content_per_page"`
	IsPasswordProtected bool      `json:"is_password_protected"`
	PasswordHash        *string   `json:"-"`
	TotalContent        int       `json:"total_content"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Link places one content item into one collection.
type Link struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collection_id"`
	ContentID    string    `json:"content_id"`
	OrderIndex   int       `json:"order_index"`
	Visible      bool      `json:"visible"`
	Caption      *string   `json:"caption,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Item is a placement resolved against its content.
type Item struct {
	Placement *Link            `json:"placement"`
	Content   *content.Content `json:"content"`

	// Caption is the placement caption when set, else the content caption.
	Caption *string `json:"caption,omitempty"`
}

// Counts holds per-kind totals over a whole collection.
type Counts struct {
	Image int `json:"image"`
	Text  int `json:"text"`
	Code  int `json:"code"`
	Gif   int `json:"gif"`
}

// Add increments the counter for kind.
func (counts *Counts) Add(kind content.Kind, n int) {
	switch kind {
	case content.KindImage:
		counts.Image += n
	case content.KindText:
		counts.Text += n
	case content.KindCode:
		counts.Code += n
	case content.KindGif:
		counts.Gif += n
	}
}

// PagedView is a derived, never persisted, read projection of one page.
type PagedView struct {
	Collection *Collection     `json:"collection"`
	Items      []Item          `json:"items"`
	Counts     Counts          `json:"counts"`
	Meta       pagination.Meta `json:"meta"`
}

// # Requests

// Instruction moves one placement to a new order index.
type Instruction struct {
	ContentID  string `json:"content_id"`
	OrderIndex int    `json:"order_index"`
}

// Access describes who is reading a collection.
type Access struct {

	// IncludeHidden is set for owner reads; hidden placements are returned
	// and the password gate is bypassed.
	IncludeHidden bool

	// Grant is the access token presented on public reads of protected collections.
	Grant string
}

// OwnerAccess reads everything, hidden placements included.
var OwnerAccess = Access{IncludeHidden: true}

// PageRequest selects a one-based page of a collection.
type PageRequest struct {
	Page int

	// Size of 0 selects the collection's own content-per-page.
	Size int

	Access
}

// CreateInput carries a new collection. Nil fields are unset and may be
// filled by [ApplyDefaults].
type CreateInput struct {
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Slug           *string `json:"slug"`
	Description    *string `json:"description"`
	Location       *string `json:"location"`
	Visible        *bool   `json:"visible"`
	Priority       *int    `json:"priority"`
	ContentPerPage *int    `json:"content_per_page"`
	Password       *string `json:"password"`
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Type           *string `json:"type"`
	Title          *string `json:"title"`
	Slug           *string `json:"slug"`
	Description    *string `json:"description"`
	Location       *string `json:"location"`
	Visible        *bool   `json:"visible"`
	Priority       *int    `json:"priority"`
	ContentPerPage *int    `json:"content_per_page"`
}

// AddContentInput places an existing content item.
type AddContentInput struct {
	ContentID  string  `json:"content_id"`
	OrderIndex *int    `json:"order_index"`
	Visible    *bool   `json:"visible"`
	Caption    *string `json:"caption"`

	// AllowAppend turns a taken OrderIndex into an append instead of a conflict.
	AllowAppend bool `json:"allow_append"`
}

// PlacementUpdate edits a placement in place.
type PlacementUpdate struct {
	Visible *bool   `json:"visible"`
	Caption *string `json:"caption"`
}

// Filter narrows collection listings.
type Filter struct {
	Types   []Type
	Visible *bool
}
