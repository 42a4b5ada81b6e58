package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsor/etl/internal/domain"
)

func sheetOf(name domain.TabName, headers []string, rows ...[]string) *domain.Sheet {
	sheet := &domain.Sheet{Name: name, Headers: headers, Grid: [][]string{headers}}
	for _, cells := range rows {
		record := make(domain.Record, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				record[header] = cells[i]
			} else {
				record[header] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, record)
		sheet.Grid = append(sheet.Grid, cells)
	}
	return sheet
}

var itemHeaders = []string{"編號", "名稱", "數量", "金額", "截止日期", "圖片"}

func satellite(name domain.TabName, rows ...[]string) *domain.Sheet {
	return sheetOf(name, []string{"編號", "說明", "英文說明", "排序"}, rows...)
}

func TestBuildCatalog(t *testing.T) {
	t.Run("joins the satellite tabs on the item code", func(t *testing.T) {
		tabs := domain.SheetTable{
			domain.TabItems: sheetOf(domain.TabItems, itemHeaders,
				[]string{"7", "活動入場", "10", "$1000", "2026/10/31", "https://drive.google.com/file/d/imgA-1_x/view"},
			),
			domain.TabDescription: satellite(domain.TabDescription, []string{"7", "入場說明", "Admission"}),
			domain.TabTalent:      satellite(domain.TabTalent, []string{"7", "徵才說明", "Recruiting", "2"}),
			domain.TabProduct:     satellite(domain.TabProduct, []string{"7.0", "產品說明", "Product", "not-a-number"}),
		}

		items, err := BuildCatalog(tabs)

		require.NoError(t, err)
		require.Len(t, items, 1)
		item := items["7"]
		require.NotNil(t, item)
		assert.Equal(t, "7", item.ID)
		assert.Equal(t, "活動入場", item.Name)
		assert.Equal(t, "10", item.Quantity)
		assert.Equal(t, "$1000", item.Price)
		assert.Equal(t, "2026/10/31", item.Deadline)
		assert.Equal(t, "imgA-1_x", item.Image)

		assert.Equal(t, domain.LocalizedText{Zh: "入場說明", En: "Admission"}, item.Description)
		assert.Equal(t, domain.LocalizedText{Zh: "徵才說明", En: "Recruiting"}, item.Talent.Description)
		assert.Equal(t, 2, item.Talent.Order)

		// brand tab is entirely absent
		assert.Equal(t, domain.CategoryCopy{}, item.Brand)

		// "7.0" joins "7"; a non-numeric order resolves to zero
		assert.Equal(t, "產品說明", item.Product.Description.Zh)
		assert.Equal(t, 0, item.Product.Order)
	})

	t.Run("extracts sub-items until the first index with both names empty", func(t *testing.T) {
		headers := append([]string{}, itemHeaders...)
		row := []string{"7", "活動入場", "", "", "", ""}
		for i := 1; i <= 4; i++ {
			headers = append(headers,
				fmt.Sprintf("細項%d", i),
				fmt.Sprintf("細項%d英文", i),
				fmt.Sprintf("細項%d金額", i),
				fmt.Sprintf("細項%d圖片", i),
				fmt.Sprintf("細項%d圖說", i),
				fmt.Sprintf("細項%d英文圖說", i),
			)
		}
		//                    名稱         英文名稱      金額     圖片                                             圖說    英文圖說
		row = append(row, "工作坊", "Workshop", "$500", "https://drive.google.com/open?id=subImg1", "圖說", "Caption")
		row = append(row, "", "Booth only", "", "", "", "")
		row = append(row, "", "", "", "", "", "") // stop here
		row = append(row, "晚宴", "Banquet", "", "", "", "")

		tabs := domain.SheetTable{domain.TabItems: sheetOf(domain.TabItems, headers, row)}
		items, err := BuildCatalog(tabs)

		require.NoError(t, err)
		subItems := items["7"].SubItems
		require.Len(t, subItems, 2)
		assert.Equal(t, domain.LocalizedText{Zh: "工作坊", En: "Workshop"}, subItems[0].Name)
		assert.Equal(t, "$500", subItems[0].Price)
		assert.Equal(t, "subImg1", subItems[0].Image)
		assert.Equal(t, domain.LocalizedText{Zh: "圖說", En: "Caption"}, subItems[0].Caption)
		assert.Equal(t, "Booth only", subItems[1].Name.En)
	})

	t.Run("a duplicate item code overwrites the earlier entry", func(t *testing.T) {
		tabs := domain.SheetTable{
			domain.TabItems: sheetOf(domain.TabItems, itemHeaders,
				[]string{"7", "舊項目"},
				[]string{"7", "新項目"},
			),
		}

		items, err := BuildCatalog(tabs)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "新項目", items["7"].Name)
	})

	t.Run("rows without an item code are skipped", func(t *testing.T) {
		tabs := domain.SheetTable{
			domain.TabItems: sheetOf(domain.TabItems, itemHeaders,
				[]string{"", "無編號"},
				[]string{"9", "攤位"},
			),
		}

		items, err := BuildCatalog(tabs)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.NotNil(t, items["9"])
	})

	t.Run("fails when the items tab is missing", func(t *testing.T) {
		_, err := BuildCatalog(domain.SheetTable{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "items tab")
	})

	t.Run("fails when the items tab has no data rows", func(t *testing.T) {
		tabs := domain.SheetTable{domain.TabItems: sheetOf(domain.TabItems, itemHeaders)}
		_, err := BuildCatalog(tabs)
		require.Error(t, err)
	})

	t.Run("fails when no row carries an item code", func(t *testing.T) {
		tabs := domain.SheetTable{
			domain.TabItems: sheetOf(domain.TabItems, itemHeaders, []string{"", "無編號"}),
		}
		_, err := BuildCatalog(tabs)
		require.Error(t, err)
	})
}

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://drive.google.com/file/d/1a2B-c_3/view?usp=sharing", "1a2B-c_3"},
		{"https://drive.google.com/open?id=XYZ_9-8", "XYZ_9-8"},
		{"https://drive.google.com/uc?export=download&id=QQ123", "QQ123"},
		{"http://drive.google.com/file/d/plainHttp/view", "plainHttp"},
		{"https://example.com/file/d/abc/view", ""},
		{"not a link", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractFileID(tt.link), "link %q", tt.link)
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"7", "7"},
		{" 7.0 ", "7"},
		{"7.5", "7.5"},
		{"A-3", "A-3"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.raw), "raw %q", tt.raw)
	}
}
