package domain

// TabName identifies one logical worksheet of the source spreadsheet.
type TabName string

const (
	TabItems       TabName = "items"
	TabDescription TabName = "description"
	TabTalent      TabName = "talent"
	TabBrand       TabName = "brand"
	TabProduct     TabName = "product"
	TabPlans       TabName = "plans"
)

var TabNames = []TabName{
	TabItems,
	TabDescription,
	TabTalent,
	TabBrand,
	TabProduct,
	TabPlans,
}

// Record is one data row keyed by column header.
type Record map[string]string

// Sheet is one parsed tab. Rows are keyed by the headers from the
// first grid line; Grid keeps every trimmed line as-is for grid-shaped
// tabs (the plans tab) whose first line is tier metadata rather than
// column headers.
type Sheet struct {
	Name    TabName    `json:"name"`
	Headers []string   `json:"headers"`
	Rows    []Record   `json:"rows"`
	Grid    [][]string `json:"grid"`
}

// SheetTable groups all fetched tabs of one pipeline run.
type SheetTable map[TabName]*Sheet
