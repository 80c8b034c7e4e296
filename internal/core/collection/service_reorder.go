// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slice"
)

// # Reorder

/*
Reorder moves placements to new order indices as one all-or-nothing batch.

Description: The whole batch is checked under the collection lock before
anything is written. A batch fails validation when an instruction names
content that is not placed in the collection, repeats a content id, uses a
negative index, targets the same index twice, or targets an index held by
a placement the batch does not move. Moved placements may swap or rotate
freely among themselves. On any failure nothing changes. Applying the same
batch twice leaves the same order.

Parameters:
  - context: context.Context
  - collectionID: string
  - instructions: []Instruction

Returns:
  - *PagedView: The first page after the reorder, hidden placements included
  - error: NOT_FOUND or VALIDATION_ERROR
*/
func (service *Service) Reorder(context context.Context, collectionID string, instructions []Instruction) (*PagedView, error) {
	err := service.repository.WithPlacements(context, collectionID, func(_ *Collection, placements Placements) error {
		if len(instructions) == 0 {
			return nil
		}

		links, err := placements.All(context)
		if err != nil {
			return err
		}

		if err := checkBatch(links, instructions); err != nil {
			return err
		}

		indices := make(map[string]int, len(instructions))
		for _, instruction := range instructions {
			indices[instruction.ContentID] = instruction.OrderIndex
		}

		err = placements.UpdateOrderIndices(context, indices)
		if errors.Is(err, ErrLinkMissing) {
			return apperr.ValidationError("Reorder names content that is not in this collection")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(instructions) > 0 {
		service.logger.Info("collection_reordered",
			slog.String("collection_id", collectionID),
			slog.Int("moved", len(instructions)),
		)
	}

	return service.GetPage(context, collectionID, PageRequest{Page: 1, Access: OwnerAccess})
}

// checkBatch validates a reorder batch against the current placements.
func checkBatch(links []*Link, instructions []Instruction) error {
	byContent := slice.KeyBy(links, func(link *Link) string { return link.ContentID })

	moved := make(map[string]bool, len(instructions))
	targets := make(map[int]string, len(instructions))
	validator := &validate.Validator{}

	for position, instruction := range instructions {
		field := fmt.Sprintf("%s[%d]", FieldInstructions, position)

		if _, placed := byContent[instruction.ContentID]; !placed {
			validator.Custom(field+"."+FieldContentID, true,
				fmt.Sprintf("Content %q is not in this collection", instruction.ContentID))
		}
		validator.Custom(field+"."+FieldContentID, moved[instruction.ContentID],
			fmt.Sprintf("Content %q appears more than once", instruction.ContentID))
		validator.Custom(field+"."+FieldOrderIndex, instruction.OrderIndex < 0, "Must not be negative").
			Custom(field+"."+FieldOrderIndex, instruction.OrderIndex > OrderIndexMax, fmt.Sprintf("Must not exceed %d", OrderIndexMax))

		if previous, used := targets[instruction.OrderIndex]; used {
			validator.Custom(field+"."+FieldOrderIndex, true,
				fmt.Sprintf("Order index %d is also requested for content %q", instruction.OrderIndex, previous))
		}

		moved[instruction.ContentID] = true
		targets[instruction.OrderIndex] = instruction.ContentID
	}

	for _, link := range links {
		if moved[link.ContentID] {
			continue
		}
		if target, used := targets[link.OrderIndex]; used {
			validator.Custom(FieldInstructions, true,
				fmt.Sprintf("Order index %d for content %q is held by content %q", link.OrderIndex, target, link.ContentID))
		}
	}

	return validator.Err()
}
