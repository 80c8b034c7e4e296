package schema

// ContentCollectionTable represents the 'content.collection' table
type ContentCollectionTable struct {
	Table               string
	ID                  string
	Type                string
	Title               string
	Slug                string
	Description         string
	Location            string
	Visible             string
	Priority            string
	ContentPerPage      string
	IsPasswordProtected string
	PasswordHash        string
	TotalContent        string
	CreatedAt           string
	UpdatedAt           string
}

// ContentCollection is the schema definition for content.collection
var ContentCollection = ContentCollectionTable{
	Table:               "content.collection",
	ID:                  "id",
	Type:                "type",
	Title:               "title",
	Slug:                "slug",
	Description:         "description",
	Location:            "location",
	Visible:             "visible",
	Priority:            "priority",
	ContentPerPage:      "contentperpage",
	IsPasswordProtected: "ispasswordprotected",
	PasswordHash:        "passwordhash",
	TotalContent:        "totalcontent",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// ContentCollectionSlugConstraint is the unique index guarding global slug uniqueness.
const ContentCollectionSlugConstraint = "collection_slug_key"

func (t ContentCollectionTable) Columns() []string {
	return []string{
		t.ID, t.Type, t.Title, t.Slug, t.Description, t.Location, t.Visible, t.Priority,
		t.ContentPerPage, t.IsPasswordProtected, t.PasswordHash, t.TotalContent, t.CreatedAt, t.UpdatedAt,
	}
}
