package user

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"starwars-api/internal/shared/database"
	"starwars-api/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing user repository")

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

const userColumns = `id, email, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	logger := r.logger.With("component", "user_repository", "operation", "list")
	logger.Debug("Retrieving all users")

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.WrapInternal("failed to query users", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan user", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating users", err)
	}

	logger.Debug("Users retrieved", "count", len(users))
	return users, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) || database.IsInvalidValue(err) {
			return nil, errors.NotFoundf("user %d not found", id)
		}
		return nil, errors.WrapInternal("failed to get user", err)
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.WrapInternal("failed to find user by email", err)
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, email, passwordHash string, tx *database.Tx) (*User, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With("component", "user_repository", "operation", "create")
	logger.Debug("Creating user")

	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	u, err := scanUser(exec.QueryRowContext(ctx, query, email, passwordHash))
	if err != nil {
		return nil, classifyWriteError("failed to create user", err)
	}

	logger.Info("User created", "user_id", u.ID)
	return u, nil
}

func (r *Repository) Update(ctx context.Context, id int, email, passwordHash string, tx *database.Tx) (*User, error) {
	exec := r.getExecutor(tx)

	query := `
		UPDATE users
		SET email = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(exec.QueryRowContext(ctx, query, id, email, passwordHash))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("user %d not found", id)
		}
		return nil, classifyWriteError("failed to update user", err)
	}

	r.logger.Info("User updated", "component", "user_repository", "user_id", id)
	return u, nil
}

func (r *Repository) Delete(ctx context.Context, id int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.WrapInternal("failed to delete user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.NotFoundf("user %d not found", id)
	}

	r.logger.Info("User deleted", "component", "user_repository", "user_id", id)
	return nil
}

func classifyWriteError(message string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return errors.WrapConflict("email already registered", err)
	case database.IsInvalidValue(err):
		return errors.WrapValidation("user data does not fit the column limits", err)
	default:
		return errors.WrapInternal(message, err)
	}
}
