package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/pkg/logger"

	"github.com/google/uuid"
)

// ImageResolver fetches the blob for an image id. It returns the
// content and the storage key the blob lives under; a nil slice means
// the blob does not exist.
type ImageResolver func(ctx context.Context, imageID string) ([]byte, string, error)

// RenderMarkdown converts recipes to one Markdown document. imagePaths
// maps image ids to the link targets to use; ids without an entry fall
// back to the bare id.
func RenderMarkdown(recipes []model.Recipe, imagePaths map[uuid.UUID]string) string {
	parts := make([]string, 0, len(recipes))
	for i := range recipes {
		parts = append(parts, recipeMarkdown(&recipes[i], imagePaths))
	}
	return strings.Join(parts, "\n")
}

func recipeMarkdown(rec *model.Recipe, imagePaths map[uuid.UUID]string) string {
	lines := []string{
		fmt.Sprintf("# %s", rec.Title),
		fmt.Sprintf("*Category:* %s", rec.Category),
		fmt.Sprintf("*Season:* %s", seasonOrAny(rec.Season)),
		fmt.Sprintf("*Vegetarian:* %s", yesNo(rec.IsVeggie)),
		fmt.Sprintf("*Prep Time:* %s min", minutesOrDash(rec.PrepTimeMinutes)),
		fmt.Sprintf("*Cook Time:* %s min", minutesOrDash(rec.CookTimeMinutes)),
		fmt.Sprintf("*Rest Time:* %s min", minutesOrDash(rec.RestTimeMinutes)),
	}

	if rec.Difficulty != nil {
		lines = append(lines, fmt.Sprintf("*Difficulty:* %d/3", *rec.Difficulty))
	}
	if rec.NumberOfPeople != nil {
		lines = append(lines, fmt.Sprintf("*Serves:* %d", *rec.NumberOfPeople))
	}
	if rec.Rate != nil {
		lines = append(lines, fmt.Sprintf("*Rating:* %d/5", *rec.Rate))
	}
	lines = append(lines, fmt.Sprintf("*Tested:* %s", yesNo(rec.Tested)))

	if len(rec.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("*Tags:* %s", strings.Join(rec.Tags, ", ")))
	}

	lines = append(lines, "", rec.Description, "", "## Ingredients")
	for _, ing := range rec.Ingredients {
		lines = append(lines, "- "+ingredientLine(ing))
	}

	if len(rec.Preparation) > 0 {
		lines = append(lines, "\n## Preparation")
		for i, step := range rec.Preparation {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
		}
	}

	if len(rec.Images) > 0 {
		lines = append(lines, "\n## Images")
		for _, img := range rec.Images {
			caption := "Image"
			if img.Caption != nil && *img.Caption != "" {
				caption = *img.Caption
			}
			target := img.ID.String()
			if path, ok := imagePaths[img.ID]; ok {
				target = path
			}
			lines = append(lines, fmt.Sprintf("![%s](%s)", caption, target))
		}
	}

	if len(rec.Sources) > 0 {
		lines = append(lines, "\n## Sources")
		for _, src := range rec.Sources {
			lines = append(lines, fmt.Sprintf("- [%s] %s", src.Type, src.RawContent))
		}
	}

	lines = append(lines, "\n---\n")
	return strings.Join(lines, "\n")
}

// BuildMarkdownArchive assembles a zip with recipes.md at the root and
// an images/ directory holding every referenced blob that resolves.
// Each blob is fetched once per image id; failures are logged and the
// entry skipped, the document link then keeps the bare id.
func BuildMarkdownArchive(ctx context.Context, recipes []model.Recipe, resolve ImageResolver) ([]byte, error) {
	type blob struct {
		path    string
		content []byte
	}

	imagePaths := make(map[uuid.UUID]string)
	var blobs []blob
	for i := range recipes {
		for _, img := range recipes[i].Images {
			if _, done := imagePaths[img.ID]; done {
				continue
			}
			content, key, err := resolve(ctx, img.ID.String())
			if err != nil || content == nil {
				logger.Warn("Skipping unresolvable image in export", map[string]interface{}{
					"image_id": img.ID.String(),
					"error":    errString(err),
				})
				continue
			}
			path := "images/" + img.ID.String() + strings.ToLower(filepath.Ext(key))
			imagePaths[img.ID] = path
			blobs = append(blobs, blob{path: path, content: content})
		}
	}

	doc := RenderMarkdown(recipes, imagePaths)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("recipes.md")
	if err != nil {
		return nil, fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		return nil, fmt.Errorf("failed to write markdown: %w", err)
	}

	for _, b := range blobs {
		w, err := zw.Create(b.path)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry: %w", err)
		}
		if _, err := w.Write(b.content); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func seasonOrAny(s *model.Season) string {
	if s == nil {
		return "Any"
	}
	return string(*s)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func minutesOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func ingredientLine(ing model.RecipeIngredient) string {
	var sb strings.Builder
	if ing.Quantity != nil {
		sb.WriteString(strconv.FormatFloat(*ing.Quantity, 'g', -1, 64))
		sb.WriteString(" ")
	}
	if ing.Unit != nil && *ing.Unit != "" {
		sb.WriteString(*ing.Unit)
		sb.WriteString(" ")
	}
	sb.WriteString(ing.Name)
	return sb.String()
}

func errString(err error) string {
	if err == nil {
		return "not found"
	}
	return err.Error()
}
