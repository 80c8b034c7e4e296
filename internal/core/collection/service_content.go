// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slice"
	"github.com/taibuivan/folio/pkg/uuid"
)

// listChunkSize is the window used when streaming placements.
const listChunkSize = 100

// # Placement Assembly

/*
AddContent places an existing content item into a collection.

Description: Runs under the collection lock. Without an order index the
item is appended after the current maximum. A requested index already in
use is a conflict unless AllowAppend is set, in which case the item is
appended instead.

Parameters:
  - context: context.Context
  - collectionID: string
  - input: AddContentInput

Returns:
  - *Link: The new placement
  - error: NOT_FOUND (collection or content), CONFLICT (already placed or
    index taken), or VALIDATION_ERROR
*/
func (service *Service) AddContent(context context.Context, collectionID string, input AddContentInput) (*Link, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContentID, input.ContentID).
		OptionalMaxLen(FieldCaption, input.Caption, CaptionMaxLength)
	if input.OrderIndex != nil {
		validator.Custom(FieldOrderIndex, *input.OrderIndex < 0, "Must not be negative").
			Custom(FieldOrderIndex, *input.OrderIndex > OrderIndexMax, fmt.Sprintf("Must not exceed %d", OrderIndexMax))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.contents.FindByID(context, input.ContentID); err != nil {
		return nil, err
	}

	var link *Link
	err := service.repository.WithPlacements(context, collectionID, func(_ *Collection, placements Placements) error {
		_, err := placements.Find(context, input.ContentID)
		if err == nil {
			return apperr.Conflict("Content is already placed in this collection")
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return err
		}

		maxIndex, err := placements.MaxOrderIndex(context)
		if err != nil {
			return err
		}

		index := maxIndex + 1
		if input.OrderIndex != nil {
			taken, err := indexTaken(context, placements, *input.OrderIndex)
			if err != nil {
				return err
			}

			switch {
			case !taken:
				index = *input.OrderIndex
			case !input.AllowAppend:
				return apperr.Conflict(fmt.Sprintf("Order index %d is already in use", *input.OrderIndex))
			}
		}

		if index > OrderIndexMax {
			return apperr.Conflict("No order index left to append at")
		}

		visible := true
		if input.Visible != nil {
			visible = *input.Visible
		}

		link = &Link{
			ID:           uuid.New(),
			CollectionID: collectionID,
			ContentID:    input.ContentID,
			OrderIndex:   index,
			Visible:      visible,
			Caption:      trimOptional(input.Caption),
			CreatedAt:    service.now().UTC(),
		}
		return placements.Insert(context, link)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("collection_content_added",
		slog.String("collection_id", collectionID),
		slog.String("content_id", link.ContentID),
		slog.Int("order_index", link.OrderIndex),
	)
	return link, nil
}

// RemoveContent drops a placement. The content item itself is kept.
func (service *Service) RemoveContent(context context.Context, collectionID, contentID string) error {
	err := service.repository.WithPlacements(context, collectionID, func(_ *Collection, placements Placements) error {
		return placements.Remove(context, contentID)
	})
	if err != nil {
		return err
	}

	service.logger.Info("collection_content_removed",
		slog.String("collection_id", collectionID),
		slog.String("content_id", contentID),
	)
	return nil
}

// UpdatePlacement edits the visibility or caption of one placement.
func (service *Service) UpdatePlacement(context context.Context, collectionID, contentID string, update PlacementUpdate) (*Link, error) {
	validator := &validate.Validator{}
	validator.OptionalMaxLen(FieldCaption, update.Caption, CaptionMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var link *Link
	err := service.repository.WithPlacements(context, collectionID, func(_ *Collection, placements Placements) error {
		found, err := placements.Find(context, contentID)
		if err != nil {
			return err
		}

		if update.Visible != nil {
			found.Visible = *update.Visible
		}
		if update.Caption != nil {
			found.Caption = trimOptional(update.Caption)
		}

		link = found
		return placements.Update(context, found)
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// # Content Submission

// AddText creates a text item and appends it to the collection.
func (service *Service) AddText(context context.Context, collectionID string, input content.TextInput) (*content.Content, error) {
	return service.AddNew(context, collectionID, content.CreateRequest{Kind: string(content.KindText), Text: &input})
}

// AddCode creates a code item and appends it to the collection.
func (service *Service) AddCode(context context.Context, collectionID string, input content.CodeInput) (*content.Content, error) {
	return service.AddNew(context, collectionID, content.CreateRequest{Kind: string(content.KindCode), Code: &input})
}

// AddImage uploads an image and appends it to the collection.
func (service *Service) AddImage(context context.Context, collectionID string, input content.ImageInput) (*content.Content, error) {
	return service.AddNew(context, collectionID, content.CreateRequest{Kind: string(content.KindImage), Image: &input})
}

// AddGif uploads a gif and appends it to the collection.
func (service *Service) AddGif(context context.Context, collectionID string, input content.GifInput) (*content.Content, error) {
	return service.AddNew(context, collectionID, content.CreateRequest{Kind: string(content.KindGif), Gif: &input})
}

/*
AddNew ingests a submission and appends it to the collection as a visible
placement.

Description: The collection is checked before anything is stored. If the
placement cannot be written afterwards, the fresh content item is deleted
again so no unplaced content is left behind.

Returns:
  - *content.Content: The created item
  - error: NOT_FOUND, VALIDATION_ERROR, CONFIGURATION_ERROR, or an error
    wrapping content.ErrNotProduced when an upload failed
*/
func (service *Service) AddNew(context context.Context, collectionID string, request content.CreateRequest) (*content.Content, error) {
	if _, err := service.repository.FindByID(context, collectionID); err != nil {
		return nil, err
	}

	item, err := service.ingestor.Create(context, request)
	if err != nil {
		return nil, err
	}

	_, err = service.AddContent(context, collectionID, AddContentInput{ContentID: item.ID})
	if err != nil {
		if cleanupErr := service.contents.Delete(context, item.ID); cleanupErr != nil {
			service.logger.Error("collection_content_cleanup_failed",
				slog.String("content_id", item.ID),
				slog.Any("error", cleanupErr),
			)
		}
		return nil, err
	}
	return item, nil
}

// UpdateContent edits a content item. Its placements are unaffected.
func (service *Service) UpdateContent(context context.Context, contentID string, request content.UpdateRequest) (*content.Content, error) {
	return service.ingestor.Update(context, contentID, request)
}

// DeleteContent removes a content item that no collection references.
func (service *Service) DeleteContent(context context.Context, contentID string) error {
	placed, err := service.repository.CountLinksForContent(context, contentID)
	if err != nil {
		return err
	}
	if placed > 0 {
		return apperr.Conflict(fmt.Sprintf("Content is still placed in %d collection(s)", placed))
	}

	if err := service.contents.Delete(context, contentID); err != nil {
		return err
	}

	service.logger.Info("content_deleted", slog.String("content_id", contentID))
	return nil
}

// # Reads

/*
ListOrdered streams every placement of a collection in display order,
hidden ones included.

Description: Placements are fetched in windows, so large collections are
never loaded at once. A missing collection yields a single NOT_FOUND
error. Iteration stops at the first error.
*/
func (service *Service) ListOrdered(context context.Context, collectionID string) iter.Seq2[*Link, error] {
	return func(yield func(*Link, error) bool) {
		if _, err := service.repository.FindByID(context, collectionID); err != nil {
			yield(nil, err)
			return
		}

		for offset := 0; ; offset += listChunkSize {
			links, err := service.repository.ListLinks(context, collectionID, true, listChunkSize, offset)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, link := range links {
				if !yield(link, nil) {
					return
				}
			}

			if len(links) < listChunkSize {
				return
			}
		}
	}
}

/*
GetPage returns one page of a collection as a [PagedView].

Description: Owner reads (IncludeHidden) see hidden placements and bypass
the password gate. Public reads of a protected collection must present a
valid grant. Counts cover the same placements the read can see.

Parameters:
  - context: context.Context
  - ref: string (collection UUID or slug)
  - request: PageRequest

Returns:
  - *PagedView: The page, possibly with no items past the end
  - error: NOT_FOUND, VALIDATION_ERROR, UNAUTHORIZED, or FORBIDDEN
*/
func (service *Service) GetPage(context context.Context, ref string, request PageRequest) (*PagedView, error) {
	collection, err := service.Get(context, ref)
	if err != nil {
		return nil, err
	}

	if err := service.authorize(context, collection, request.Access); err != nil {
		return nil, err
	}

	page, size, err := resolvePage(collection, request)
	if err != nil {
		return nil, err
	}

	total, err := service.repository.CountLinks(context, collection.ID, request.IncludeHidden)
	if err != nil {
		return nil, err
	}

	counts, err := service.repository.CountByKind(context, collection.ID, request.IncludeHidden)
	if err != nil {
		return nil, err
	}

	links, err := service.repository.ListLinks(context, collection.ID, request.IncludeHidden, size, (page-1)*size)
	if err != nil {
		return nil, err
	}

	contents, err := service.contents.FindByIDs(context, contentIDs(links))
	if err != nil {
		return nil, err
	}

	return BuildPagedView(collection, request, links, contents, total, counts)
}

// GetAll returns every content item of a collection in display order.
func (service *Service) GetAll(context context.Context, ref string, access Access) ([]*content.Content, error) {
	collection, err := service.Get(context, ref)
	if err != nil {
		return nil, err
	}

	if err := service.authorize(context, collection, access); err != nil {
		return nil, err
	}

	var links []*Link
	for link, err := range service.ListOrdered(context, collection.ID) {
		if err != nil {
			return nil, err
		}
		if link.Visible || access.IncludeHidden {
			links = append(links, link)
		}
	}

	contents, err := service.contents.FindByIDs(context, contentIDs(links))
	if err != nil {
		return nil, err
	}

	items := make([]*content.Content, 0, len(links))
	for _, link := range links {
		if item, ok := contents[link.ContentID]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// # Internal Helpers

func indexTaken(context context.Context, placements Placements, index int) (bool, error) {
	links, err := placements.All(context)
	if err != nil {
		return false, err
	}
	for _, link := range links {
		if link.OrderIndex == index {
			return true, nil
		}
	}
	return false, nil
}

func contentIDs(links []*Link) []string {
	return slice.Map(links, func(link *Link) string { return link.ContentID })
}
