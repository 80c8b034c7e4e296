// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// Record is the persisted shape of a [Content]: the shared columns plus the
// variant encoded as JSON under its kind tag.
type Record struct {
	ID          string
	Kind        string
	Caption     *string
	Description *string
	Payload     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

/*
FromRecord rebuilds the in-memory variant from a persisted record.

Returns:
  - *Content: The content with its typed payload
  - error: CONFIGURATION_ERROR for an unknown kind, or a decode failure
*/
func FromRecord(record Record) (*Content, error) {
	kind, err := ParseKind(record.Kind)
	if err != nil {
		return nil, err
	}

	payload := newPayload(kind)
	if err := json.Unmarshal(record.Payload, payload); err != nil {
		return nil, fmt.Errorf("content: failed to decode %s payload %s: %w", kind, record.ID, err)
	}

	return &Content{
		ID:          record.ID,
		Kind:        kind,
		Caption:     record.Caption,
		Description: record.Description,
		Payload:     payload,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

/*
ToRecord encodes a content item for persistence.

The kind tag and the payload's own kind must agree; a mismatch is a
programming defect and fails with CONFIGURATION_ERROR.
*/
func ToRecord(item *Content) (Record, error) {
	if item.Payload == nil {
		return Record{}, apperr.Configuration("content " + item.ID + " has no payload")
	}

	if item.Payload.Kind() != item.Kind {
		return Record{}, apperr.Configuration(fmt.Sprintf("content kind %q does not match payload %q", item.Kind, item.Payload.Kind()))
	}

	encoded, err := json.Marshal(item.Payload)
	if err != nil {
		return Record{}, fmt.Errorf("content: failed to encode payload %s: %w", item.ID, err)
	}

	return Record{
		ID:          item.ID,
		Kind:        string(item.Kind),
		Caption:     item.Caption,
		Description: item.Description,
		Payload:     encoded,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, nil
}

// newPayload returns an empty variant for a known kind.
func newPayload(kind Kind) Payload {
	switch kind {
	case KindImage:
		return &Image{}
	case KindText:
		return &Text{}
	case KindCode:
		return &Code{}
	default:
		return &Gif{}
	}
}
