package domain

// LocalizedText pairs zh-TW copy with its English translation.
type LocalizedText struct {
	Zh string `json:"zh"`
	En string `json:"en"`
}

// CategoryCopy is one sponsorship category's description for an item
// plus its presentation order within that category.
type CategoryCopy struct {
	Description LocalizedText `json:"description"`
	Order       int           `json:"order"`
}

// SubItem is a numbered nested offering owned by exactly one Item.
type SubItem struct {
	Name    LocalizedText `json:"name"`
	Price   string        `json:"price"`
	Image   string        `json:"image"`
	Caption LocalizedText `json:"caption"`
}

type Item struct {
	ID          string        `json:"id"`       // Item code from the items tab
	Name        string        `json:"name"`     // Display name
	Quantity    string        `json:"quantity"` // Free-form quantity
	Price       string        `json:"price"`    // Empty means governed by plan or sub-items
	Deadline    string        `json:"deadline"` // Free-form YYYY/MM/DD
	Image       string        `json:"image"`    // Drive file id, then local filename after harvest
	Description LocalizedText `json:"description"`
	Talent      CategoryCopy  `json:"talent"`
	Brand       CategoryCopy  `json:"brand"`
	Product     CategoryCopy  `json:"product"`
	SubItems    []SubItem     `json:"subItems"`
}

// Catalog maps item code to Item; this is the catalog JSON artifact.
type Catalog map[string]*Item
