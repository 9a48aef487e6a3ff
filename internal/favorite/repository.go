package favorite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/errors"
)

// Repository queries are always scoped by user id.
type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing favorite repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const favoriteColumns = `id, user_id, name, nature, nature_id, created_at`

func scanFavorite(row interface{ Scan(...interface{}) error }) (*Favorite, error) {
	var f Favorite
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Nature, &f.NatureID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]Favorite, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapInternal("failed to query favorites", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "component", "favorite_repository", "error", err)
		}
	}()

	var favorites []Favorite
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan favorite", err)
		}
		favorites = append(favorites, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating favorites", err)
	}
	return favorites, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]Favorite, error) {
	return r.query(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = $1 ORDER BY id`,
		userID)
}

func (r *Repository) ListByNature(ctx context.Context, userID int, nature Nature) ([]Favorite, error) {
	return r.query(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = $1 AND nature = $2 ORDER BY id`,
		userID, nature)
}

func (r *Repository) Get(ctx context.Context, userID int, nature Nature, natureID int, tx *database.Tx) (*Favorite, error) {
	exec := r.getExecutor(tx)

	f, err := scanFavorite(exec.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = $1 AND nature = $2 AND nature_id = $3`,
		userID, nature, natureID))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) || database.IsInvalidValue(err) {
			return nil, errors.NotFoundf("favorite %s %d not found", nature, natureID)
		}
		return nil, errors.WrapInternal("failed to get favorite", err)
	}
	return f, nil
}

func (r *Repository) Create(ctx context.Context, f Favorite, tx *database.Tx) (*Favorite, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With("component", "favorite_repository", "operation", "create",
		"user_id", f.UserID, "nature", f.Nature, "nature_id", f.NatureID)
	logger.Debug("Creating favorite")

	query := `
		INSERT INTO favorites (user_id, name, nature, nature_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + favoriteColumns

	created, err := scanFavorite(exec.QueryRowContext(ctx, query, f.UserID, f.Name, f.Nature, f.NatureID))
	if err != nil {
		return nil, classifyWriteError("failed to create favorite", err)
	}

	logger.Debug("Favorite created", "favorite_id", created.ID)
	return created, nil
}

// Update re-points the favorite identified by (userID, nature, natureID).
func (r *Repository) Update(ctx context.Context, userID int, nature Nature, natureID int, newNatureID int, name string, tx *database.Tx) (*Favorite, error) {
	exec := r.getExecutor(tx)

	query := `
		UPDATE favorites
		SET nature_id = $4, name = $5
		WHERE user_id = $1 AND nature = $2 AND nature_id = $3
		RETURNING ` + favoriteColumns

	updated, err := scanFavorite(exec.QueryRowContext(ctx, query, userID, nature, natureID, newNatureID, name))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("favorite %s %d not found", nature, natureID)
		}
		return nil, classifyWriteError("failed to update favorite", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, userID int, nature Nature, natureID int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND nature = $2 AND nature_id = $3`,
		userID, nature, natureID)
	if err != nil {
		return errors.WrapInternal("failed to delete favorite", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.NotFoundf("favorite %s %d not found", nature, natureID)
	}
	return nil
}

func classifyWriteError(message string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return errors.WrapConflict("favorite already exists", err)
	case database.ConstraintName(err) == "favorites_user_id_fkey":
		return errors.WrapUnauthorized("user no longer exists", err)
	case database.IsIntegrityViolation(err):
		return errors.WrapValidation("favorite data violates a constraint", err)
	case database.IsInvalidValue(err):
		return errors.WrapValidation("favorite data does not fit the column limits", err)
	default:
		return errors.WrapInternal(message, err)
	}
}
