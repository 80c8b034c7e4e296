package schema

// ContentCollectionContentTable represents the 'content.collectioncontent' table
type ContentCollectionContentTable struct {
	Table        string
	ID           string
	CollectionID string
	ContentID    string
	OrderIndex   string
	Visible      string
	Caption      string
	CreatedAt    string
}

// ContentCollectionContent is the schema definition for content.collectioncontent
var ContentCollectionContent = ContentCollectionContentTable{
	Table:        "content.collectioncontent",
	ID:           "id",
	CollectionID: "collectionid",
	ContentID:    "contentid",
	OrderIndex:   "orderindex",
	Visible:      "visible",
	Caption:      "caption",
	CreatedAt:    "createdat",
}

// Unique constraints raised by placement writes.
const (
	ContentCollectionContentPlacementConstraint = "collectioncontent_collectionid_contentid_key"
	ContentCollectionContentOrderConstraint     = "collectioncontent_collectionid_orderindex_key"
)

func (t ContentCollectionContentTable) Columns() []string {
	return []string{
		t.ID, t.CollectionID, t.ContentID, t.OrderIndex, t.Visible, t.Caption, t.CreatedAt,
	}
}
