package plan

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"sponsor/etl/internal/domain"
)

// tierLabelColumns is the number of leading label columns in the plan
// tab's header row; tier names start after them. Data rows may shift
// one column right of the header (merged label cells), so a benefit
// row's lead value is searched up to and including that extra column.
const tierLabelColumns = 2

// HeaderPredicate reports whether a benefit-row lead label is a
// category section header rather than an item name.
type HeaderPredicate func(label string) bool

var categoryHeaderPattern = regexp.MustCompile(`^(年會現場|網路宣傳)|曝光$`)

// IsCategoryHeader is the default HeaderPredicate, covering the venue,
// network-promotion and generic exposure section labels.
func IsCategoryHeader(label string) bool {
	return categoryHeaderPattern.MatchString(label)
}

type tierNaming struct {
	En   string
	Slug string
}

var knownTiers = map[string]tierNaming{
	"領航級": {En: "Navigator", Slug: "navigator"},
	"深耕級": {En: "Deep Cultivation", Slug: "deep_cultivation"},
	"前瞻級": {En: "Visionary", Slug: "visionary"},
	"新芽級": {En: "Sprout", Slug: "sprout"},
}

// BuildPlans interprets the grid-shaped plans tab: row 0 names the
// tiers from the third column on, row 1 carries their prices, and
// every remaining row contributes one benefit per tier (empty quantity
// included) unless it is a category section header.
func BuildPlans(sheet *domain.Sheet, items domain.Catalog, isHeader HeaderPredicate) (domain.PlanSet, error) {
	if sheet == nil || len(sheet.Grid) == 0 {
		return nil, fmt.Errorf("plans tab is missing or empty")
	}
	if isHeader == nil {
		isHeader = IsCategoryHeader
	}

	nameToID := itemNameIndex(items)

	header := sheet.Grid[0]
	var prices []string
	if len(sheet.Grid) > 1 {
		prices = sheet.Grid[1]
	}

	plans := make(domain.PlanSet)
	var tiers []*domain.Plan
	for col := tierLabelColumns; col < len(header); col++ {
		name := header[col]
		if name == "" {
			continue
		}
		naming, ok := knownTiers[name]
		if !ok {
			naming = tierNaming{En: name, Slug: strings.ToLower(name)}
		}
		tier := &domain.Plan{
			Name:     domain.LocalizedText{Zh: name, En: naming.En},
			Order:    len(tiers) + 1,
			Benefits: []domain.Benefit{},
		}
		if col < len(prices) {
			tier.Price = prices[col]
		}
		plans[naming.Slug] = tier
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		log.Warnf("Plans tab header row names no tiers")
	}

	for i := 2; i < len(sheet.Grid); i++ {
		row := sheet.Grid[i]

		lead := leadCell(row)
		if lead < 0 {
			continue
		}
		name := row[lead]

		id, known := nameToID[name]
		if !known {
			if isHeader(name) {
				log.Debugf("Skipping category header row %q in plans tab", name)
				continue
			}
			log.Warnf("Plan benefit %q does not match any catalog item name", name)
		}

		// Per-tier quantities follow the lead cell positionally, in
		// tier presentation order.
		for j, tier := range tiers {
			quantity := ""
			if k := lead + 1 + j; k < len(row) {
				quantity = row[k]
			}
			tier.Benefits = append(tier.Benefits, domain.Benefit{
				ItemID:   id,
				ItemName: name,
				Quantity: quantity,
			})
		}
	}

	return plans, nil
}

// leadCell locates a benefit row's lead value: the first non-empty
// cell within the label region. Rows whose label region is entirely
// empty are skipped.
func leadCell(row []string) int {
	for j := 0; j <= tierLabelColumns && j < len(row); j++ {
		if row[j] != "" {
			return j
		}
	}
	return -1
}

// itemNameIndex maps display names to item codes. On a display-name
// collision the item with the later sorted code wins, keeping repeated
// runs deterministic.
func itemNameIndex(items domain.Catalog) map[string]string {
	codes := make([]string, 0, len(items))
	for code := range items {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	index := make(map[string]string, len(codes))
	for _, code := range codes {
		if name := items[code].Name; name != "" {
			index[name] = code
		}
	}
	return index
}
