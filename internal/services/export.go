package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"student-records/internal/models"
)

const exportSheet = "Students"

var exportFixedColumns = []string{"ID", "Username", "First Name", "Last Name", "Class", "Email", "Remarks"}

// WriteStudentsWorkbook renders one row per student with a column per subject.
// Subjects a student has no mark for are left blank.
func WriteStudentsWorkbook(w io.Writer, students []models.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}

	subjects := subjectColumns(students)
	header := make([]interface{}, 0, len(exportFixedColumns)+len(subjects))
	for _, col := range exportFixedColumns {
		header = append(header, col)
	}
	for _, subject := range subjects {
		header = append(header, subject)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range students {
		marks := s.MarkMap()
		row := []interface{}{s.ID, s.Username, s.FirstName, s.LastName, s.Class, s.Email, s.Remarks}
		for _, subject := range subjects {
			if value, ok := marks[subject]; ok {
				row = append(row, value)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func subjectColumns(students []models.Student) []string {
	seen := map[string]bool{}
	subjects := []string{}
	for _, s := range students {
		for _, mark := range s.Marks {
			if !seen[mark.Subject] {
				seen[mark.Subject] = true
				subjects = append(subjects, mark.Subject)
			}
		}
	}
	sort.Strings(subjects)
	return subjects
}
