package watches

// Collection is the document collection holding watches.
const Collection = "watch"

// Watch is a catalog product. ID is the store identifier, exposed as "id".
type Watch struct {
	ID          string   `dynamodbav:"_id,omitempty" json:"id"`
	Title       string   `dynamodbav:"title" json:"title" validate:"required"`
	Description *string  `dynamodbav:"description" json:"description"`
	Price       float64  `dynamodbav:"price" json:"price" validate:"gte=0"`
	Brand       string   `dynamodbav:"brand" json:"brand" validate:"required"`
	Collection  string   `dynamodbav:"collection" json:"collection" validate:"required"` // category tag: chronograph, dress, sport
	Image       *string  `dynamodbav:"image" json:"image" validate:"omitempty,url"`
	Images      []string `dynamodbav:"images" json:"images" validate:"omitempty,dive,url"`
	InStock     bool     `dynamodbav:"in_stock" json:"in_stock"`
}

// ListFilter holds the optional catalog filters. Empty fields are ignored.
type ListFilter struct {
	Collection string
	Brand      string
	Query      string // case-insensitive title pattern
}
