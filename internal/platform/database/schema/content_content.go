package schema

// ContentContentTable represents the 'content.content' table
type ContentContentTable struct {
	Table       string
	ID          string
	Kind        string
	Caption     string
	Description string
	Payload     string
	CreatedAt   string
	UpdatedAt   string
}

// ContentContent is the schema definition for content.content
var ContentContent = ContentContentTable{
	Table:       "content.content",
	ID:          "id",
	Kind:        "kind",
	Caption:     "caption",
	Description: "description",
	Payload:     "payload",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t ContentContentTable) Columns() []string {
	return []string{
		t.ID, t.Kind, t.Caption, t.Description, t.Payload, t.CreatedAt, t.UpdatedAt,
	}
}
