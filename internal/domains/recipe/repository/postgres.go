package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipebook-backend/internal/domains/recipe/model"
	"recipebook-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the loaders need, so
// aggregates can be read both inside and outside a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const recipeColumns = `r.id, r.title, r.description,
	r.prep_time_minutes, r.cook_time_minutes, r.rest_time_minutes,
	r.season, r.category, r.is_veggie, r.difficulty,
	r.number_of_people, r.rate, r.tested, r.tags, r.preparation,
	r.created_at`

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var rec model.Recipe
	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Description,
		&rec.PrepTimeMinutes, &rec.CookTimeMinutes, &rec.RestTimeMinutes,
		&rec.Season, &rec.Category, &rec.IsVeggie, &rec.Difficulty,
		&rec.NumberOfPeople, &rec.Rate, &rec.Tested,
		pq.Array(&rec.Tags), pq.Array(&rec.Preparation),
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ========================================
// CREATE
// ========================================

func (r *postgresRepository) AddRecipe(ctx context.Context, data *model.RecipeCreate) (*model.Recipe, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Recipe, error) {
		ingredientIDs, err := getOrCreateIngredients(ctx, tx, ingredientNames(data.Ingredients))
		if err != nil {
			return nil, err
		}

		id, err := r.insertRecipe(ctx, tx, data)
		if err != nil {
			return nil, err
		}
		if err := r.insertChildren(ctx, tx, id, data.Ingredients, data.Images, data.Sources, ingredientIDs); err != nil {
			return nil, err
		}

		return r.loadRecipe(ctx, tx, id)
	})
}

func (r *postgresRepository) AddRecipes(ctx context.Context, data []model.RecipeCreate) ([]model.Recipe, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]model.Recipe, error) {
		// Dedup is resolved once for the whole batch, not per recipe.
		var names []string
		for i := range data {
			names = append(names, ingredientNames(data[i].Ingredients)...)
		}
		ingredientIDs, err := getOrCreateIngredients(ctx, tx, names)
		if err != nil {
			return nil, err
		}

		recipes := make([]model.Recipe, 0, len(data))
		for i := range data {
			id, err := r.insertRecipe(ctx, tx, &data[i])
			if err != nil {
				return nil, err
			}
			if err := r.insertChildren(ctx, tx, id, data[i].Ingredients, data[i].Images, data[i].Sources, ingredientIDs); err != nil {
				return nil, err
			}
			rec, err := r.loadRecipe(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			recipes = append(recipes, *rec)
		}
		return recipes, nil
	})
}

func (r *postgresRepository) insertRecipe(ctx context.Context, tx pgx.Tx, data *model.RecipeCreate) (uuid.UUID, error) {
	id := uuid.New()
	tags := data.Tags
	if tags == nil {
		tags = []string{}
	}
	preparation := data.Preparation
	if preparation == nil {
		preparation = []string{}
	}

	// created_at is server-assigned, set once
	var createdAt time.Time
	err := tx.QueryRow(ctx, `
		INSERT INTO recipes (
			id, title, description,
			prep_time_minutes, cook_time_minutes, rest_time_minutes,
			season, category, is_veggie, difficulty,
			number_of_people, rate, tested, tags, preparation
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15
		)
		RETURNING created_at`,
		id, data.Title, data.Description,
		data.PrepTimeMinutes, data.CookTimeMinutes, data.RestTimeMinutes,
		data.Season, data.Category, data.IsVeggie, data.Difficulty,
		data.NumberOfPeople, data.Rate, data.Tested,
		pq.Array(tags), pq.Array(preparation),
	).Scan(&createdAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert recipe: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) insertChildren(
	ctx context.Context,
	tx pgx.Tx,
	recipeID uuid.UUID,
	ingredients []model.IngredientInput,
	images []model.ImageInput,
	sources []model.SourceInput,
	ingredientIDs map[string]uuid.UUID,
) error {
	for idx, ing := range ingredients {
		name := model.CapitalizeName(ing.Name)
		ingredientID, ok := ingredientIDs[name]
		if !ok {
			return fmt.Errorf("ingredient %q was not resolved", name)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit, display_order)
			VALUES ($1, $2, $3, $4, $5)`,
			recipeID, ingredientID, ing.Quantity, ing.Unit, orderOrIndex(ing.DisplayOrder, idx),
		)
		if err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}

	for idx, img := range images {
		_, err := tx.Exec(ctx, `
			INSERT INTO images (id, recipe_id, caption, display_order)
			VALUES ($1, $2, $3, $4)`,
			uuid.New(), recipeID, img.Caption, orderOrIndex(img.DisplayOrder, idx),
		)
		if err != nil {
			return fmt.Errorf("failed to insert image: %w", err)
		}
	}

	for _, src := range sources {
		_, err := tx.Exec(ctx, `
			INSERT INTO sources (id, type, raw_content, recipe_id)
			VALUES ($1, $2, $3, $4)`,
			uuid.New(), src.Type, src.RawContent, recipeID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert source: %w", err)
		}
	}

	return nil
}

// ========================================
// READ
// ========================================

func (r *postgresRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return r.loadRecipe(ctx, r.pool, id)
}

func (r *postgresRepository) loadRecipe(ctx context.Context, q dbtx, id uuid.UUID) (*model.Recipe, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipes r WHERE r.id = $1`, recipeColumns)
	rec, err := scanRecipe(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := r.attachChildren(ctx, q, []*model.Recipe{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

// attachChildren eager-loads ingredient links, images, and sources
// for a set of recipes in three batch queries.
func (r *postgresRepository) attachChildren(ctx context.Context, q dbtx, recipes []*model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(recipes))
	byID := make(map[uuid.UUID]*model.Recipe, len(recipes))
	for i, rec := range recipes {
		ids[i] = rec.ID
		byID[rec.ID] = rec
		rec.Ingredients = []model.RecipeIngredient{}
		rec.Images = []model.Image{}
		rec.Sources = []model.Source{}
	}

	rows, err := q.Query(ctx, `
		SELECT ri.recipe_id, i.name, ri.quantity, ri.unit, ri.display_order
		FROM recipe_ingredients ri
		JOIN ingredients i ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.display_order, i.name`, ids)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	for rows.Next() {
		var recipeID uuid.UUID
		var link model.RecipeIngredient
		if err := rows.Scan(&recipeID, &link.Name, &link.Quantity, &link.Unit, &link.DisplayOrder); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan ingredient link: %w", err)
		}
		rec := byID[recipeID]
		rec.Ingredients = append(rec.Ingredients, link)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT recipe_id, id, caption, display_order
		FROM images
		WHERE recipe_id = ANY($1)
		ORDER BY display_order, id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}
	for rows.Next() {
		var recipeID uuid.UUID
		var img model.Image
		if err := rows.Scan(&recipeID, &img.ID, &img.Caption, &img.DisplayOrder); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan image: %w", err)
		}
		rec := byID[recipeID]
		rec.Images = append(rec.Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT recipe_id, id, type, raw_content
		FROM sources
		WHERE recipe_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}
	for rows.Next() {
		var recipeID uuid.UUID
		var src model.Source
		if err := rows.Scan(&recipeID, &src.ID, &src.Type, &src.RawContent); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan source: %w", err)
		}
		rec := byID[recipeID]
		rec.Sources = append(rec.Sources, src)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	return nil
}

// ========================================
// SEARCH
// ========================================

func (r *postgresRepository) SearchRecipes(ctx context.Context, filter *model.SearchFilter) (*model.PaginatedResult, error) {
	if filter == nil {
		filter = &model.SearchFilter{}
	}
	whereClause, args := buildSearchWhere(filter)

	// Total before the page window
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM recipes r %s`, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}

	// Most recently created first; id breaks creation-time ties so
	// repeated searches return an identical ordering.
	query := fmt.Sprintf(`SELECT %s FROM recipes r %s ORDER BY r.created_at DESC, r.id`,
		recipeColumns, whereClause)
	argIndex := len(args) + 1
	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	recipes := []*model.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := r.attachChildren(ctx, r.pool, recipes); err != nil {
		return nil, err
	}

	items := make([]model.Recipe, len(recipes))
	for i, rec := range recipes {
		items[i] = *rec
	}
	return &model.PaginatedResult{Items: items, Total: total}, nil
}

// ========================================
// UPDATE
// ========================================

// UpdateRecipe replaces, never merges: scalar fields are overwritten,
// ingredient links are cleared and reinserted, and source rows are
// physically recreated. All inside one transaction.
func (r *postgresRepository) UpdateRecipe(ctx context.Context, id uuid.UUID, data *model.RecipeUpdate) (*model.Recipe, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Recipe, error) {
		tags := data.Tags
		if tags == nil {
			tags = []string{}
		}
		preparation := data.Preparation
		if preparation == nil {
			preparation = []string{}
		}

		tag, err := tx.Exec(ctx, `
			UPDATE recipes SET
				title = $1, description = $2,
				prep_time_minutes = $3, cook_time_minutes = $4, rest_time_minutes = $5,
				season = $6, category = $7, is_veggie = $8, difficulty = $9,
				number_of_people = $10, rate = $11, tested = $12,
				tags = $13, preparation = $14
			WHERE id = $15`,
			data.Title, data.Description,
			data.PrepTimeMinutes, data.CookTimeMinutes, data.RestTimeMinutes,
			data.Season, data.Category, data.IsVeggie, data.Difficulty,
			data.NumberOfPeople, data.Rate, data.Tested,
			pq.Array(tags), pq.Array(preparation),
			id,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update recipe: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, model.ErrRecipeNotFound
		}

		// Replace ingredient links
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		ingredientIDs, err := getOrCreateIngredients(ctx, tx, ingredientNames(data.Ingredients))
		if err != nil {
			return nil, err
		}

		// Replace sources: they have no identity across updates
		if _, err := tx.Exec(ctx, `DELETE FROM sources WHERE recipe_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to clear sources: %w", err)
		}

		if err := r.insertChildren(ctx, tx, id, data.Ingredients, nil, data.Sources, ingredientIDs); err != nil {
			return nil, err
		}

		return r.loadRecipe(ctx, tx, id)
	})
}

// ========================================
// DELETE
// ========================================

// DeleteRecipe removes the aggregate with explicit child handling:
// sources are detached first, then images and ingredient links are
// deleted, then the recipe row. The declared ON DELETE behaviors are
// not relied upon, so the semantics hold on any backend.
func (r *postgresRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) (bool, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (bool, error) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM recipes WHERE id = $1)`, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check recipe: %w", err)
		}
		if !exists {
			return false, nil
		}

		if _, err := tx.Exec(ctx, `UPDATE sources SET recipe_id = NULL WHERE recipe_id = $1`, id); err != nil {
			return false, fmt.Errorf("failed to detach sources: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM images WHERE recipe_id = $1`, id); err != nil {
			return false, fmt.Errorf("failed to delete images: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
			return false, fmt.Errorf("failed to delete recipe ingredients: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id); err != nil {
			return false, fmt.Errorf("failed to delete recipe: %w", err)
		}

		return true, nil
	})
}

// ========================================
// IMAGES
// ========================================

func (r *postgresRepository) AddImage(ctx context.Context, recipeID uuid.UUID, caption *string, displayOrder int) (*model.Image, error) {
	img := &model.Image{
		ID:           uuid.New(),
		Caption:      caption,
		DisplayOrder: displayOrder,
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO images (id, recipe_id, caption, display_order)
		VALUES ($1, $2, $3, $4)`,
		img.ID, recipeID, img.Caption, img.DisplayOrder,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return img, nil
}

func (r *postgresRepository) DeleteImage(ctx context.Context, imageID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, imageID)
	if err != nil {
		return false, fmt.Errorf("failed to delete image: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ListRecipeImages(ctx context.Context, recipeID uuid.UUID) ([]model.Image, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, caption, display_order
		FROM images
		WHERE recipe_id = $1
		ORDER BY display_order, id`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []model.Image{}
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.Caption, &img.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return images, nil
}

// ========================================
// HELPERS
// ========================================

func ingredientNames(inputs []model.IngredientInput) []string {
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	return names
}

func orderOrIndex(order *int, idx int) int {
	if order != nil {
		return *order
	}
	return idx
}
