package domain

// Benefit records one (plan, item) inclusion. ItemID is empty when the
// plan tab's item name did not resolve against the catalog; an empty
// Quantity means included with no stated quantity.
type Benefit struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity string `json:"quantity"`
}

type Plan struct {
	Name     LocalizedText `json:"name"`
	Price    string        `json:"price"`
	Order    int           `json:"order"` // 1 = first tier column
	Benefits []Benefit     `json:"benefits"`
}

// PlanSet maps plan slug to Plan; this is the plans JSON artifact.
type PlanSet map[string]*Plan
