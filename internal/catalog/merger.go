package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"sponsor/etl/internal/domain"
)

// maxSubItems caps the numbered sub-item column groups scanned per item.
const maxSubItems = 50

// Items tab columns.
const (
	colCode     = "編號"
	colName     = "名稱"
	colQuantity = "數量"
	colPrice    = "金額"
	colDeadline = "截止日期"
	colImage    = "圖片"
)

// Satellite tab columns.
const (
	colDescZh = "說明"
	colDescEn = "英文說明"
	colOrder  = "排序"
)

var driveFilePattern = regexp.MustCompile(`drive\.google\.com/(?:file/d/([-\w]+)|[\w./]*\?(?:[^#\s]*&)?id=([-\w]+))`)

// ExtractFileID pulls the opaque file id out of a Drive sharable link.
// Anything that is not a recognizable link yields an empty id.
func ExtractFileID(link string) string {
	m := driveFilePattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// BuildCatalog joins the items tab with the four satellite tabs on the
// item code and assembles the nested catalog. A missing satellite
// match degrades to empty copy, never an error.
func BuildCatalog(tabs domain.SheetTable) (domain.Catalog, error) {
	items := tabs[domain.TabItems]
	if items == nil || len(items.Rows) == 0 {
		return nil, fmt.Errorf("items tab is missing or empty")
	}

	descIndex := indexByCode(tabs[domain.TabDescription])
	talentIndex := indexByCode(tabs[domain.TabTalent])
	brandIndex := indexByCode(tabs[domain.TabBrand])
	productIndex := indexByCode(tabs[domain.TabProduct])

	result := make(domain.Catalog, len(items.Rows))
	for _, row := range items.Rows {
		code := NormalizeCode(row[colCode])
		if code == "" {
			continue
		}
		if _, exists := result[code]; exists {
			log.Warnf("Duplicate item code %s in items tab, overwriting earlier entry", code)
		}

		result[code] = &domain.Item{
			ID:          code,
			Name:        row[colName],
			Quantity:    row[colQuantity],
			Price:       row[colPrice],
			Deadline:    row[colDeadline],
			Image:       ExtractFileID(row[colImage]),
			Description: localizedCopy(descIndex[code]),
			Talent:      categoryCopy(talentIndex[code]),
			Brand:       categoryCopy(brandIndex[code]),
			Product:     categoryCopy(productIndex[code]),
			SubItems:    extractSubItems(code, row),
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("items tab has no rows with an item code")
	}
	return result, nil
}

func indexByCode(sheet *domain.Sheet) map[string]domain.Record {
	index := make(map[string]domain.Record)
	if sheet == nil {
		return index
	}
	for _, row := range sheet.Rows {
		if code := NormalizeCode(row[colCode]); code != "" {
			index[code] = row
		}
	}
	return index
}

func localizedCopy(row domain.Record) domain.LocalizedText {
	if row == nil {
		return domain.LocalizedText{}
	}
	return domain.LocalizedText{Zh: row[colDescZh], En: row[colDescEn]}
}

func categoryCopy(row domain.Record) domain.CategoryCopy {
	if row == nil {
		return domain.CategoryCopy{}
	}
	return domain.CategoryCopy{
		Description: domain.LocalizedText{Zh: row[colDescZh], En: row[colDescEn]},
		Order:       atoiLenient(row[colOrder]),
	}
}

// extractSubItems walks the numbered column groups, stopping at the
// first index where neither localized name is present.
func extractSubItems(code string, row domain.Record) []domain.SubItem {
	var subItems []domain.SubItem
	for i := 1; i <= maxSubItems; i++ {
		zh := row[fmt.Sprintf("細項%d", i)]
		en := row[fmt.Sprintf("細項%d英文", i)]
		if zh == "" && en == "" {
			return subItems
		}
		subItems = append(subItems, domain.SubItem{
			Name:  domain.LocalizedText{Zh: zh, En: en},
			Price: row[fmt.Sprintf("細項%d金額", i)],
			Image: ExtractFileID(row[fmt.Sprintf("細項%d圖片", i)]),
			Caption: domain.LocalizedText{
				Zh: row[fmt.Sprintf("細項%d圖說", i)],
				En: row[fmt.Sprintf("細項%d英文圖說", i)],
			},
		})
	}
	log.Warnf("Item %s filled all %d sub-item slots, source may be truncated", code, maxSubItems)
	return subItems
}

// NormalizeCode reconciles string and numeric renderings of an item
// code, so "7" and "7.0" join the same rows.
func NormalizeCode(raw string) string {
	code := strings.TrimSpace(raw)
	if code == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(code, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return code
}

func atoiLenient(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
