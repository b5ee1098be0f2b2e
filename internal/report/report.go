package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"employee-portal/internal/domain"
)

var ErrNoEmployees = errors.New("failed to generate report, 0 employees were provided")

const (
	maxSheetName = 31
	defaultSheet = "Sheet1"
	headerRow    = 1
)

var headers = []string{"Name", "Email", "Mobile No", "Designation", "Gender", "Course", "Created"}

// Generator holds the workbook being built.
type Generator struct {
	file *excelize.File
}

func NewGenerator() *Generator {
	return &Generator{file: excelize.NewFile()}
}

// GenerateEmployeeWorkbook renders one sheet per designation, in order of
// first appearance, each with a styled header and an Excel table.
func GenerateEmployeeWorkbook(employees []domain.Employee) (*bytes.Buffer, error) {
	if len(employees) == 0 {
		return nil, ErrNoEmployees
	}

	var order []string
	groups := make(map[string][]domain.Employee)
	for _, e := range employees {
		if _, ok := groups[e.Designation]; !ok {
			order = append(order, e.Designation)
		}
		groups[e.Designation] = append(groups[e.Designation], e)
	}

	gen := NewGenerator()
	defer gen.file.Close()

	used := make(map[string]bool)
	for i, designation := range order {
		name := uniqueSheetName(sheetName(designation), used)
		if i == 0 {
			// reuse the default sheet so no empty sheet is left behind
			if err := gen.file.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else if _, err := gen.file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to generate new sheet '%s': %w", name, err)
		}

		rows := groups[designation]
		if err := gen.setupSheet(name, i+1, len(rows)); err != nil {
			return nil, fmt.Errorf("failed to setup sheet '%s': %w", name, err)
		}
		for j, e := range rows {
			if err := gen.addRow(name, j+headerRow+1, e); err != nil {
				return nil, fmt.Errorf("failed to add row '%d': %w", j+headerRow+1, err)
			}
		}
	}
	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func (g *Generator) setupSheet(sheet string, index, rowCount int) error {
	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err = g.file.SetRowHeight(sheet, headerRow, 20); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	widths := map[string]float64{"A": 28, "B": 34, "C": 14, "D": 16, "E": 10, "F": 24, "G": 18}
	for col, width := range widths {
		if err = g.file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// table names must be unique in the workbook and free of spaces
	if err = g.file.AddTable(sheet, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastCol, rowCount+headerRow),
		Name:      fmt.Sprintf("employees_%d", index),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}

func (g *Generator) addRow(sheet string, rowNum int, e domain.Employee) error {
	row := []any{
		e.Name,
		e.Email,
		e.MobileNo,
		e.Designation,
		e.Gender,
		strings.Join(e.Course, ", "),
		e.CreatedAt.Format("02.01.2006 15:04"),
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := g.file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}
	return nil
}

// sheetName drops the characters Excel rejects in sheet names and truncates
// to 31 runes.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if name == "" {
		name = "Unassigned"
	}
	if utf8.RuneCountInString(name) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

// uniqueSheetName suffixes name until it no longer collides, case
// insensitively, with a sheet already in used.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if keep := maxSheetName - len(suffix); len(base) > keep {
			base = base[:keep]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
