package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/pkg/logger"

	"github.com/fumiama/go-docx"
)

// RenderWord builds a Word document with one section per recipe,
// separated by page breaks. Images that resolve are embedded inline;
// the rest are logged and skipped.
func RenderWord(ctx context.Context, title string, recipes []model.Recipe, resolve ImageResolver) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	titlePara := w.AddParagraph().Justification("center")
	titlePara.AddText(title).Size("56").Bold()

	for i := range recipes {
		addWordRecipe(ctx, w, &recipes[i], resolve)
		w.AddParagraph().AddPageBreaks()
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

func addWordRecipe(ctx context.Context, w *docx.Docx, rec *model.Recipe, resolve ImageResolver) {
	heading := w.AddParagraph()
	heading.AddText(rec.Title).Size("40").Bold()

	meta := w.AddParagraph()
	meta.AddText(metaLine(rec)).Italic()

	if len(rec.Tags) > 0 {
		w.AddParagraph().AddText("Tags: " + strings.Join(rec.Tags, ", "))
	}

	addTimesTable(w, rec)

	sectionHeading(w, "Description")
	w.AddParagraph().AddText(rec.Description)

	sectionHeading(w, "Ingredients")
	for _, ing := range rec.Ingredients {
		w.AddParagraph().AddText("• " + ingredientLine(ing))
	}

	if len(rec.Preparation) > 0 {
		sectionHeading(w, "Preparation")
		for i, step := range rec.Preparation {
			w.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, step))
		}
	}

	if len(rec.Images) > 0 {
		addWordImages(ctx, w, rec, resolve)
	}
}

// metaLine joins the set classification fields with " | ", matching
// the document's compact single-line header.
func metaLine(rec *model.Recipe) string {
	parts := []string{"Category: " + string(rec.Category)}
	if rec.Season != nil {
		parts = append(parts, "Season: "+string(*rec.Season))
	}
	if rec.IsVeggie {
		parts = append(parts, "Vegetarian")
	}
	if rec.Difficulty != nil {
		parts = append(parts, fmt.Sprintf("Difficulty: %d/3", *rec.Difficulty))
	}
	if rec.NumberOfPeople != nil {
		parts = append(parts, fmt.Sprintf("Serves: %d", *rec.NumberOfPeople))
	}
	if rec.Rate != nil {
		parts = append(parts, fmt.Sprintf("Rating: %d/5", *rec.Rate))
	}
	if rec.Tested {
		parts = append(parts, "Tested")
	} else {
		parts = append(parts, "Not tested")
	}
	return strings.Join(parts, " | ")
}

func addTimesTable(w *docx.Docx, rec *model.Recipe) {
	tbl := w.AddTable(2, 3, 0, nil)

	headers := []string{"Prep", "Cook", "Rest"}
	for i, cell := range tbl.TableRows[0].TableCells {
		cell.AddParagraph().AddText(headers[i]).Bold()
	}

	values := []*int{rec.PrepTimeMinutes, rec.CookTimeMinutes, rec.RestTimeMinutes}
	for i, cell := range tbl.TableRows[1].TableCells {
		cell.AddParagraph().AddText(wordMinutes(values[i]))
	}
}

func addWordImages(ctx context.Context, w *docx.Docx, rec *model.Recipe, resolve ImageResolver) {
	sectionHeading(w, "Images")
	for _, img := range rec.Images {
		content, _, err := resolve(ctx, img.ID.String())
		if err != nil || content == nil {
			logger.Warn("Skipping unresolvable image in export", map[string]interface{}{
				"image_id": img.ID.String(),
				"error":    errString(err),
			})
			continue
		}
		if _, err := w.AddParagraph().AddInlineDrawing(content); err != nil {
			logger.Warn("Failed to embed image", map[string]interface{}{
				"image_id": img.ID.String(),
				"error":    err.Error(),
			})
			continue
		}
		if img.Caption != nil && *img.Caption != "" {
			w.AddParagraph().AddText(*img.Caption).Italic()
		}
	}
}

func sectionHeading(w *docx.Docx, text string) {
	w.AddParagraph().AddText(text).Size("32").Bold()
}

func wordMinutes(v *int) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v) + " min"
}
