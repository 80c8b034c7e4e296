// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Pagination Converter

// resolvePage validates a page request against a collection and returns the
// effective one-based page and page size.
func resolvePage(collection *Collection, request PageRequest) (int, int, error) {
	size := request.Size
	if size == 0 {
		size = collection.ContentPerPage
	}

	validator := &validate.Validator{}
	validator.Custom(FieldPage, request.Page < 1, "Must be at least 1").
		Range(FieldSize, size, PageSizeMin, PageSizeMax)

	if err := validator.Err(); err != nil {
		return 0, 0, err
	}
	return request.Page, size, nil
}

/*
BuildPagedView projects one page of placements into a [PagedView].

Description: Pure function of its inputs. links must already be the
requested page in display order; contents resolves their items; total is
the placement count the page was cut from; counts covers the whole
collection, not just the page. Placements whose content is missing from
contents are skipped.

Returns:
  - *PagedView: The projection
  - error: VALIDATION_ERROR for a page below 1 or a size outside [1, 100]
*/
func BuildPagedView(collection *Collection, request PageRequest, links []*Link, contents map[string]*content.Content, total int, counts Counts) (*PagedView, error) {
	page, size, err := resolvePage(collection, request)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(links))
	for _, link := range links {
		item, ok := contents[link.ContentID]
		if !ok {
			continue
		}

		caption := item.Caption
		if link.Caption != nil {
			caption = link.Caption
		}

		items = append(items, Item{Placement: link, Content: item, Caption: caption})
	}

	return &PagedView{
		Collection: collection,
		Items:      items,
		Counts:     counts,
		Meta:       pagination.NewMeta(page, size, total),
	}, nil
}
