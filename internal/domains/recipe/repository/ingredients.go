package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"recipebook-backend/internal/domains/recipe/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// The ingredient registry: one canonical row per distinct name,
// shared across recipes. Existing rows are pre-fetched for the whole
// batch in one query; only the residual missing names are created
// before the enclosing transaction commits.

// getOrCreateIngredients resolves a batch of names to ingredient ids,
// creating missing rows. Names are capitalized before lookup. A
// uniqueness race with a concurrent writer is retried once: refetch,
// then create only what is still missing.
func getOrCreateIngredients(ctx context.Context, tx pgx.Tx, names []string) (map[string]uuid.UUID, error) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = model.CapitalizeName(name)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	if len(set) == 0 {
		return map[string]uuid.UUID{}, nil
	}

	all := make([]string, 0, len(set))
	for name := range set {
		all = append(all, name)
	}
	sort.Strings(all)

	resolved, err := fetchIngredients(ctx, tx, all)
	if err != nil {
		return nil, err
	}

	missing := missingNames(all, resolved)
	if len(missing) == 0 {
		return resolved, nil
	}

	if err := insertIngredients(ctx, tx, missing, resolved); err != nil {
		if !isUniqueViolation(err) {
			return nil, err
		}
		// Lost the race: another writer committed some of these
		// names. Fetch what exists now and create only the residual.
		resolved, err = fetchIngredients(ctx, tx, all)
		if err != nil {
			return nil, err
		}
		if missing = missingNames(all, resolved); len(missing) > 0 {
			if err := insertIngredients(ctx, tx, missing, resolved); err != nil {
				if isUniqueViolation(err) {
					return nil, model.ErrIngredientConflict
				}
				return nil, err
			}
		}
	}

	return resolved, nil
}

func fetchIngredients(ctx context.Context, tx pgx.Tx, names []string) (map[string]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `SELECT id, name FROM ingredients WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ingredients: %w", err)
	}
	defer rows.Close()

	resolved := make(map[string]uuid.UUID, len(names))
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		resolved[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return resolved, nil
}

// insertIngredients creates rows for the given names inside a
// savepoint, so a uniqueness violation can be rolled back and retried
// without aborting the enclosing transaction. On success the new ids
// are merged into resolved.
func insertIngredients(ctx context.Context, tx pgx.Tx, names []string, resolved map[string]uuid.UUID) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open savepoint: %w", err)
	}

	staged := make(map[string]uuid.UUID, len(names))
	for _, name := range names {
		id := uuid.New()
		if _, err := sp.Exec(ctx,
			`INSERT INTO ingredients (id, name) VALUES ($1, $2)`, id, name,
		); err != nil {
			_ = sp.Rollback(ctx)
			return fmt.Errorf("failed to insert ingredient %q: %w", name, err)
		}
		staged[name] = id
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}

	for name, id := range staged {
		resolved[name] = id
	}
	return nil
}

func missingNames(all []string, resolved map[string]uuid.UUID) []string {
	var missing []string
	for _, name := range all {
		if _, ok := resolved[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
