package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	recipe    *model.Recipe
	result    *model.PaginatedResult
	blob      *model.ImageBlob
	err       error
	gotFilter *model.SearchFilter
}

func (f *fakeService) CreateRecipe(_ context.Context, data *model.RecipeCreate) (*model.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Recipe{ID: uuid.New(), Title: data.Title, Category: data.Category}, nil
}

func (f *fakeService) CreateRecipes(_ context.Context, data *model.BatchRecipeCreate) ([]model.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Recipe, len(data.Recipes))
	for i, rc := range data.Recipes {
		out[i] = model.Recipe{ID: uuid.New(), Title: rc.Title, Category: rc.Category}
	}
	return out, nil
}

func (f *fakeService) GetRecipe(_ context.Context, _ uuid.UUID) (*model.Recipe, error) {
	return f.recipe, f.err
}

func (f *fakeService) SearchRecipes(_ context.Context, filter *model.SearchFilter) (*model.PaginatedResult, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &model.PaginatedResult{Items: []model.Recipe{}}, nil
}

func (f *fakeService) UpdateRecipe(_ context.Context, _ uuid.UUID, _ *model.RecipeUpdate) (*model.Recipe, error) {
	return f.recipe, f.err
}

func (f *fakeService) DeleteRecipe(_ context.Context, _ uuid.UUID) error {
	return f.err
}

func (f *fakeService) AddRecipeImage(_ context.Context, _ uuid.UUID, _ string, _ []byte, _ *string) (*model.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Image{ID: uuid.New()}, nil
}

func (f *fakeService) GetRecipeImage(_ context.Context, _ uuid.UUID) (*model.ImageBlob, error) {
	return f.blob, f.err
}

func (f *fakeService) DeleteRecipeImage(_ context.Context, _ uuid.UUID) error {
	return f.err
}

func setupRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRecipeHandler(svc)

	r := gin.New()
	r.POST("/recipes", h.CreateRecipe)
	r.POST("/recipes/batch", h.CreateRecipes)
	r.GET("/recipes", h.SearchRecipes)
	r.GET("/recipes/:id", h.GetRecipe)
	r.PUT("/recipes/:id", h.UpdateRecipe)
	r.DELETE("/recipes/:id", h.DeleteRecipe)
	r.GET("/images/:image_id", h.GetImage)
	r.DELETE("/images/:image_id", h.DeleteImage)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRecipeHandler(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := doJSON(t, r, http.MethodPost, "/recipes",
		`{"title":"Tarte","category":"dessert"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    model.Recipe `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Tarte", resp.Data.Title)
}

func TestCreateRecipeHandlerValidation(t *testing.T) {
	r := setupRouter(&fakeService{})

	t.Run("missing title", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/recipes", `{"category":"dessert"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad category", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/recipes", `{"title":"x","category":"brunch"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/recipes", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetRecipeHandlerNotFound(t *testing.T) {
	r := setupRouter(&fakeService{err: model.ErrRecipeNotFound})

	w := doJSON(t, r, http.MethodGet, "/recipes/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecipeHandlerBadID(t *testing.T) {
	r := setupRouter(&fakeService{})

	w := doJSON(t, r, http.MethodGet, "/recipes/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRecipesHandlerFilterParsing(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc)

	w := doJSON(t, r, http.MethodGet,
		"/recipes?title=tarte&category=dessert&is_veggie=true&season=winter&limit=10&offset=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	f := svc.gotFilter
	require.NotNil(t, f)
	assert.Equal(t, "tarte", f.Title)
	assert.Equal(t, "dessert", f.Category)
	assert.Equal(t, "winter", f.Season)
	require.NotNil(t, f.IsVeggie)
	assert.True(t, *f.IsVeggie)
	require.NotNil(t, f.Limit)
	assert.Equal(t, 10, *f.Limit)
	assert.Equal(t, 5, f.Offset)
}

func TestSearchRecipesHandlerInvalidFilters(t *testing.T) {
	r := setupRouter(&fakeService{})

	for _, query := range []string{
		"?recipe_id=nope",
		"?is_veggie=maybe",
		"?limit=-1",
		"?limit=abc",
		"?offset=-3",
	} {
		w := doJSON(t, r, http.MethodGet, "/recipes"+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %s", query)
	}
}

func TestDeleteRecipeHandler(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		r := setupRouter(&fakeService{})
		w := doJSON(t, r, http.MethodDelete, "/recipes/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		r := setupRouter(&fakeService{err: model.ErrRecipeNotFound})
		w := doJSON(t, r, http.MethodDelete, "/recipes/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIngredientConflictMapsToConflict(t *testing.T) {
	r := setupRouter(&fakeService{err: model.ErrIngredientConflict})

	w := doJSON(t, r, http.MethodPost, "/recipes",
		`{"title":"Tarte","category":"dessert"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetImageHandlerServesBlob(t *testing.T) {
	r := setupRouter(&fakeService{blob: &model.ImageBlob{
		Content:   []byte("png-bytes"),
		MediaType: "image/png",
	}})

	w := doJSON(t, r, http.MethodGet, "/images/"+uuid.NewString(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), w.Body.Bytes())
}

func TestGetImageHandlerNotFound(t *testing.T) {
	r := setupRouter(&fakeService{err: model.ErrImageNotFound})

	w := doJSON(t, r, http.MethodGet, "/images/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadFilename(t *testing.T) {
	t.Run("keeps original", func(t *testing.T) {
		name, err := uploadFilename("photo.jpg", "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", name)
	})

	t.Run("derives from content type", func(t *testing.T) {
		name, err := uploadFilename("", "image/png")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, ".png"))
		assert.NotContains(t, name, "-")
	})

	t.Run("fails without filename or content type", func(t *testing.T) {
		_, err := uploadFilename("", "")
		assert.Error(t, err)
	})
}

// newMultipart writes a single-file multipart body and returns the
// content type to send with it.
func newMultipart(t *testing.T, buf *bytes.Buffer, field, filename string, content []byte) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return mw.FormDataContentType()
}

func TestUploadImageHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewRecipeHandler(&fakeService{})
	r := gin.New()
	r.POST("/recipes/:id/image", h.UploadImage)

	var body bytes.Buffer
	mw := newMultipart(t, &body, "file", "photo.jpg", []byte("jpeg-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/recipes/"+uuid.NewString()+"/image", &body)
	req.Header.Set("Content-Type", mw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUploadImageHandlerMissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewRecipeHandler(&fakeService{})
	r := gin.New()
	r.POST("/recipes/:id/image", h.UploadImage)

	req := httptest.NewRequest(http.MethodPost, "/recipes/"+uuid.NewString()+"/image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
