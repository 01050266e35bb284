package httpapi

import (
	"fmt"

	"github.com/MPanduranga55/Contact-Book/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	contactsSheet    = "Contacts"
	exportTimeLayout = "2006-01-02 15:04:05"
)

// ContactsExportHeader 导出表头
var ContactsExportHeader = []string{"ID", "Name", "Email", "Phone", "Created At"}

var contactsColumnWidths = []float64{10, 28, 36, 16, 22}

// GenerateContactsExport 生成联系人导出 Excel 文件；contacts 为空时只有表头
func GenerateContactsExport(contacts []*domain.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(contactsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(ContactsExportHeader))
	for i, h := range ContactsExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(contactsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(ContactsExportHeader))
	if err != nil {
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(contactsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range contactsColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(contactsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// 第 1 行是表头，数据从第 2 行开始；phone 按文本写入保留前导 0
	for i, c := range contacts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := []any{c.ID, c.Name, c.Email, c.Phone, c.CreatedAt.UTC().Format(exportTimeLayout)}
		if err := f.SetSheetRow(contactsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
