package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe() model.Recipe {
	winter := model.SeasonWinter
	prep, cook := 20, 45
	diff, people, rate := 2, 4, 5
	qty := 1.5
	unit := "kg"
	caption := "Fresh out of the oven"

	return model.Recipe{
		ID:              uuid.New(),
		Title:           "Gratin dauphinois",
		Description:     "A classic from the Alps.",
		PrepTimeMinutes: &prep,
		CookTimeMinutes: &cook,
		Season:          &winter,
		Category:        model.CategoryPlat,
		IsVeggie:        true,
		Difficulty:      &diff,
		NumberOfPeople:  &people,
		Rate:            &rate,
		Tested:          true,
		Tags:            []string{"comfort", "oven"},
		Preparation:     []string{"Slice the potatoes.", "Bake for 45 minutes."},
		Ingredients: []model.RecipeIngredient{
			{Name: "Potato", Quantity: &qty, Unit: &unit, DisplayOrder: 0},
			{Name: "Cream", DisplayOrder: 1},
		},
		Images: []model.Image{
			{ID: uuid.New(), Caption: &caption, DisplayOrder: 0},
		},
		Sources: []model.Source{
			{ID: uuid.New(), Type: model.SourceManual, RawContent: "Grandma's notebook"},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	rec := sampleRecipe()
	doc := RenderMarkdown([]model.Recipe{rec}, nil)

	assert.Contains(t, doc, "# Gratin dauphinois")
	assert.Contains(t, doc, "*Category:* plat")
	assert.Contains(t, doc, "*Season:* winter")
	assert.Contains(t, doc, "*Vegetarian:* Yes")
	assert.Contains(t, doc, "*Prep Time:* 20 min")
	assert.Contains(t, doc, "*Cook Time:* 45 min")
	assert.Contains(t, doc, "*Rest Time:* - min")
	assert.Contains(t, doc, "*Difficulty:* 2/3")
	assert.Contains(t, doc, "*Serves:* 4")
	assert.Contains(t, doc, "*Rating:* 5/5")
	assert.Contains(t, doc, "*Tested:* Yes")
	assert.Contains(t, doc, "*Tags:* comfort, oven")
	assert.Contains(t, doc, "A classic from the Alps.")
	assert.Contains(t, doc, "## Ingredients")
	assert.Contains(t, doc, "- 1.5 kg Potato")
	assert.Contains(t, doc, "- Cream")
	assert.Contains(t, doc, "## Preparation")
	assert.Contains(t, doc, "1. Slice the potatoes.")
	assert.Contains(t, doc, "2. Bake for 45 minutes.")
	assert.Contains(t, doc, "## Images")
	assert.Contains(t, doc, "![Fresh out of the oven]("+rec.Images[0].ID.String()+")")
	assert.Contains(t, doc, "## Sources")
	assert.Contains(t, doc, "- [manual] Grandma's notebook")
	assert.Contains(t, doc, "---")
}

func TestRenderMarkdownOptionalFieldsAbsent(t *testing.T) {
	rec := model.Recipe{
		ID:          uuid.New(),
		Title:       "Toast",
		Description: "Bread, toasted.",
		Category:    model.CategoryApero,
	}

	doc := RenderMarkdown([]model.Recipe{rec}, nil)

	assert.Contains(t, doc, "*Season:* Any")
	assert.Contains(t, doc, "*Vegetarian:* No")
	assert.Contains(t, doc, "*Tested:* No")
	assert.NotContains(t, doc, "*Difficulty:*")
	assert.NotContains(t, doc, "*Serves:*")
	assert.NotContains(t, doc, "*Rating:*")
	assert.NotContains(t, doc, "*Tags:*")
	assert.NotContains(t, doc, "## Preparation")
	assert.NotContains(t, doc, "## Images")
	assert.NotContains(t, doc, "## Sources")
}

func TestRenderMarkdownUsesImagePaths(t *testing.T) {
	rec := sampleRecipe()
	imgID := rec.Images[0].ID
	doc := RenderMarkdown([]model.Recipe{rec}, map[uuid.UUID]string{
		imgID: "images/" + imgID.String() + ".jpg",
	})

	assert.Contains(t, doc, "](images/"+imgID.String()+".jpg)")
}

func TestRenderMarkdownMultipleRecipes(t *testing.T) {
	doc := RenderMarkdown([]model.Recipe{sampleRecipe(), sampleRecipe()}, nil)
	assert.Equal(t, 2, strings.Count(doc, "# Gratin dauphinois"))
	assert.Equal(t, 2, strings.Count(doc, "\n---\n"))
}

func TestBuildMarkdownArchive(t *testing.T) {
	rec := sampleRecipe()
	imgID := rec.Images[0].ID

	resolver := func(_ context.Context, imageID string) ([]byte, string, error) {
		require.Equal(t, imgID.String(), imageID)
		return []byte("jpeg-bytes"), imageID + ".jpg", nil
	}

	archive, err := BuildMarkdownArchive(context.Background(), []model.Recipe{rec}, resolver)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	entries := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = content
	}

	require.Contains(t, entries, "recipes.md")
	imagePath := "images/" + imgID.String() + ".jpg"
	require.Contains(t, entries, imagePath)
	assert.Equal(t, []byte("jpeg-bytes"), entries[imagePath])

	doc := string(entries["recipes.md"])
	assert.Contains(t, doc, "]("+imagePath+")")
}

func TestBuildMarkdownArchiveSkipsFailingBlobs(t *testing.T) {
	rec := sampleRecipe()

	resolver := func(_ context.Context, _ string) ([]byte, string, error) {
		return nil, "", errors.New("storage down")
	}

	archive, err := BuildMarkdownArchive(context.Background(), []model.Recipe{rec}, resolver)
	require.NoError(t, err, "blob failures must not fail the export")

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "recipes.md", zr.File[0].Name)
}

func TestBuildMarkdownArchiveFetchesSharedImagesOnce(t *testing.T) {
	rec := sampleRecipe()
	other := sampleRecipe()
	other.Images = rec.Images

	calls := 0
	resolver := func(_ context.Context, imageID string) ([]byte, string, error) {
		calls++
		return []byte("x"), imageID + ".png", nil
	}

	_, err := BuildMarkdownArchive(context.Background(), []model.Recipe{rec, other}, resolver)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
