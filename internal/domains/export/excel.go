package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/xuri/excelize/v2"
)

// RenderExcel builds a spreadsheet index of the catalog, one recipe
// per row.
func RenderExcel(recipes []model.Recipe) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Recipes"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"ID",
		"Title",
		"Category",
		"Season",
		"Vegetarian",
		"Difficulty",
		"Serves",
		"Rating",
		"Tested",
		"Prep (min)",
		"Cook (min)",
		"Rest (min)",
		"Tags",
		"Ingredients",
		"Sources",
		"Created At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "P1", headerStyle)
	}

	for i := range recipes {
		rec := &recipes[i]
		rowNum := i + 2

		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), rec.ID.String())
		f.SetCellValue(sheetName, cell(2), rec.Title)
		f.SetCellValue(sheetName, cell(3), string(rec.Category))
		f.SetCellValue(sheetName, cell(4), seasonOrAny(rec.Season))
		f.SetCellValue(sheetName, cell(5), yesNo(rec.IsVeggie))
		if rec.Difficulty != nil {
			f.SetCellValue(sheetName, cell(6), *rec.Difficulty)
		}
		if rec.NumberOfPeople != nil {
			f.SetCellValue(sheetName, cell(7), *rec.NumberOfPeople)
		}
		if rec.Rate != nil {
			f.SetCellValue(sheetName, cell(8), *rec.Rate)
		}
		f.SetCellValue(sheetName, cell(9), yesNo(rec.Tested))
		if rec.PrepTimeMinutes != nil {
			f.SetCellValue(sheetName, cell(10), *rec.PrepTimeMinutes)
		}
		if rec.CookTimeMinutes != nil {
			f.SetCellValue(sheetName, cell(11), *rec.CookTimeMinutes)
		}
		if rec.RestTimeMinutes != nil {
			f.SetCellValue(sheetName, cell(12), *rec.RestTimeMinutes)
		}
		f.SetCellValue(sheetName, cell(13), strings.Join(rec.Tags, ", "))
		f.SetCellValue(sheetName, cell(14), ingredientSummary(rec.Ingredients))
		f.SetCellValue(sheetName, cell(15), strconv.Itoa(len(rec.Sources)))
		f.SetCellValue(sheetName, cell(16), rec.CreatedAt.Format(time.RFC3339))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func ingredientSummary(ingredients []model.RecipeIngredient) string {
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}
	return strings.Join(names, ", ")
}
