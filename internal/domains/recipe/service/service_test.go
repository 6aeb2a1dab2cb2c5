package service

import (
	"context"
	"errors"
	"testing"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository covering the paths the service
// coordinates. Persistence behavior itself is exercised against the
// SQL layer, not here.
type fakeRepo struct {
	recipes map[uuid.UUID]*model.Recipe
	images  map[uuid.UUID][]model.Image

	addImageErr  error
	deletedImage []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipes: map[uuid.UUID]*model.Recipe{},
		images:  map[uuid.UUID][]model.Image{},
	}
}

func (f *fakeRepo) AddRecipe(_ context.Context, data *model.RecipeCreate) (*model.Recipe, error) {
	rec := &model.Recipe{
		ID:       uuid.New(),
		Title:    data.Title,
		Category: data.Category,
		Season:   data.Season,
	}
	for _, ing := range data.Ingredients {
		rec.Ingredients = append(rec.Ingredients, model.RecipeIngredient{Name: ing.Name})
	}
	f.recipes[rec.ID] = rec
	return rec, nil
}

func (f *fakeRepo) AddRecipes(ctx context.Context, data []model.RecipeCreate) ([]model.Recipe, error) {
	var out []model.Recipe
	for i := range data {
		rec, err := f.AddRecipe(ctx, &data[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeRepo) GetRecipeByID(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	rec, ok := f.recipes[id]
	if !ok {
		return nil, model.ErrRecipeNotFound
	}
	return rec, nil
}

func (f *fakeRepo) SearchRecipes(_ context.Context, _ *model.SearchFilter) (*model.PaginatedResult, error) {
	var items []model.Recipe
	for _, rec := range f.recipes {
		items = append(items, *rec)
	}
	return &model.PaginatedResult{Items: items, Total: len(items)}, nil
}

func (f *fakeRepo) UpdateRecipe(_ context.Context, id uuid.UUID, data *model.RecipeUpdate) (*model.Recipe, error) {
	rec, ok := f.recipes[id]
	if !ok {
		return nil, model.ErrRecipeNotFound
	}
	rec.Title = data.Title
	rec.Season = data.Season
	return rec, nil
}

func (f *fakeRepo) DeleteRecipe(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.recipes[id]; !ok {
		return false, nil
	}
	delete(f.recipes, id)
	delete(f.images, id)
	return true, nil
}

func (f *fakeRepo) AddImage(_ context.Context, recipeID uuid.UUID, caption *string, displayOrder int) (*model.Image, error) {
	if f.addImageErr != nil {
		return nil, f.addImageErr
	}
	img := model.Image{ID: uuid.New(), Caption: caption, DisplayOrder: displayOrder}
	f.images[recipeID] = append(f.images[recipeID], img)
	return &img, nil
}

func (f *fakeRepo) DeleteImage(_ context.Context, imageID uuid.UUID) (bool, error) {
	f.deletedImage = append(f.deletedImage, imageID)
	for recipeID, imgs := range f.images {
		for i, img := range imgs {
			if img.ID == imageID {
				f.images[recipeID] = append(imgs[:i], imgs[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRepo) ListRecipeImages(_ context.Context, recipeID uuid.UUID) ([]model.Image, error) {
	return f.images[recipeID], nil
}

// fakeBlob is an in-memory BlobStore keyed like the real one.
type fakeBlob struct {
	objects map[string][]byte // key -> content

	putErr    error
	deleteErr error
	deleted   []string
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}}
}

func (f *fakeBlob) Put(_ context.Context, key string, data []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlob) Get(_ context.Context, imageID string) ([]byte, string, error) {
	for key, content := range f.objects {
		if len(key) >= len(imageID) && key[:len(imageID)] == imageID {
			return content, key, nil
		}
	}
	return nil, "", nil
}

func (f *fakeBlob) Delete(_ context.Context, imageID string) (bool, error) {
	f.deleted = append(f.deleted, imageID)
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	for key := range f.objects {
		if len(key) >= len(imageID) && key[:len(imageID)] == imageID {
			delete(f.objects, key)
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo *fakeRepo, blob *fakeBlob) Service {
	return NewRecipeService(repo, blob)
}

func TestCreateRecipeNormalizesInput(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeBlob())

	empty := model.Season("")
	rec, err := svc.CreateRecipe(context.Background(), &model.RecipeCreate{
		Title:    "Tarte",
		Category: model.CategoryDessert,
		Season:   &empty,
		Ingredients: []model.IngredientInput{
			{Name: "flour"},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, rec.Season)
	require.Len(t, rec.Ingredients, 1)
	assert.Equal(t, "Flour", rec.Ingredients[0].Name)
}

func TestAddRecipeImageStoresBlobUnderImageID(t *testing.T) {
	repo := newFakeRepo()
	blob := newFakeBlob()
	svc := newTestService(repo, blob)

	recipeID := uuid.New()
	repo.recipes[recipeID] = &model.Recipe{ID: recipeID}

	img, err := svc.AddRecipeImage(context.Background(), recipeID, "photo.JPG", []byte("content"), nil)
	require.NoError(t, err)

	key := img.ID.String() + ".jpg"
	require.Contains(t, blob.objects, key)
	assert.Equal(t, []byte("content"), blob.objects[key])
	assert.Equal(t, 0, img.DisplayOrder)

	second, err := svc.AddRecipeImage(context.Background(), recipeID, "other.png", []byte("more"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.DisplayOrder, "display order follows upload order")
}

func TestAddRecipeImageRollsBackMetadataOnUploadFailure(t *testing.T) {
	repo := newFakeRepo()
	blob := newFakeBlob()
	blob.putErr = errors.New("minio down")
	svc := newTestService(repo, blob)

	recipeID := uuid.New()
	repo.recipes[recipeID] = &model.Recipe{ID: recipeID}

	_, err := svc.AddRecipeImage(context.Background(), recipeID, "photo.jpg", []byte("content"), nil)
	require.Error(t, err)

	imgs, _ := repo.ListRecipeImages(context.Background(), recipeID)
	assert.Empty(t, imgs, "metadata row must not survive a failed upload")
	assert.Len(t, repo.deletedImage, 1)
}

func TestGetRecipeImage(t *testing.T) {
	repo := newFakeRepo()
	blob := newFakeBlob()
	svc := newTestService(repo, blob)

	imageID := uuid.New()
	blob.objects[imageID.String()+".png"] = []byte("png-bytes")

	got, err := svc.GetRecipeImage(context.Background(), imageID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got.Content)
	assert.Equal(t, "image/png", got.MediaType)
}

func TestGetRecipeImageNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeBlob())

	_, err := svc.GetRecipeImage(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrImageNotFound)
}

func TestDeleteRecipeImage(t *testing.T) {
	repo := newFakeRepo()
	blob := newFakeBlob()
	svc := newTestService(repo, blob)

	recipeID := uuid.New()
	repo.recipes[recipeID] = &model.Recipe{ID: recipeID}
	img, err := svc.AddRecipeImage(context.Background(), recipeID, "a.jpg", []byte("x"), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipeImage(context.Background(), img.ID))
	assert.Empty(t, blob.objects)

	err = svc.DeleteRecipeImage(context.Background(), img.ID)
	assert.ErrorIs(t, err, model.ErrImageNotFound)
}

func TestDeleteRecipeRemovesBlobs(t *testing.T) {
	repo := newFakeRepo()
	blob := newFakeBlob()
	svc := newTestService(repo, blob)

	recipeID := uuid.New()
	repo.recipes[recipeID] = &model.Recipe{ID: recipeID}
	img, err := svc.AddRecipeImage(context.Background(), recipeID, "a.jpg", []byte("x"), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(context.Background(), recipeID))
	assert.NotContains(t, repo.recipes, recipeID)
	assert.Contains(t, blob.deleted, img.ID.String())
}

func TestDeleteRecipeToleratesBlobFailure(t *testing.T) {
	repo := newFakeRepo()
	blob := newFakeBlob()
	blob.deleteErr = errors.New("minio down")
	svc := newTestService(repo, blob)

	recipeID := uuid.New()
	repo.recipes[recipeID] = &model.Recipe{ID: recipeID}
	repo.images[recipeID] = []model.Image{{ID: uuid.New()}}

	err := svc.DeleteRecipe(context.Background(), recipeID)
	assert.NoError(t, err, "catalog delete wins even when blob cleanup fails")
	assert.NotContains(t, repo.recipes, recipeID)
}

func TestDeleteRecipeNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeBlob())
	err := svc.DeleteRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrRecipeNotFound)
}
