package people

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
	logger.Debug("Initializing people repository")

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

const personColumns = `id, name, height, mass, hair_color, skin_color, eye_color, birth_year, gender, created_at, updated_at`

func scanPerson(row interface{ Scan(...interface{}) error }) (*Person, error) {
	var p Person
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Height,
		&p.Mass,
		&p.HairColor,
		&p.SkinColor,
		&p.EyeColor,
		&p.BirthYear,
		&p.Gender,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context) ([]Person, error) {
	logger := r.logger.With("component", "people_repository", "operation", "list")
	logger.Debug("Retrieving all people")

	rows, err := r.db.QueryContext(ctx, `SELECT `+personColumns+` FROM people ORDER BY id`)
	if err != nil {
		return nil, errors.WrapInternal("failed to query people", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var result []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan person", err)
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating people", err)
	}

	logger.Debug("People retrieved", "count", len(result))
	return result, nil
}

func (r *Repository) GetByID(ctx context.Context, id int, tx *database.Tx) (*Person, error) {
	return r.getByID(ctx, id, tx, "")
}

// LockByID reads a person and holds a key-share lock on the row until tx
// ends, so a concurrent delete waits for tx to commit.
func (r *Repository) LockByID(ctx context.Context, id int, tx *database.Tx) (*Person, error) {
	return r.getByID(ctx, id, tx, " FOR KEY SHARE")
}

func (r *Repository) getByID(ctx context.Context, id int, tx *database.Tx, lock string) (*Person, error) {
	exec := r.getExecutor(tx)

	p, err := scanPerson(exec.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1`+lock, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) || database.IsInvalidValue(err) {
			return nil, errors.NotFoundf("person %d not found", id)
		}
		return nil, errors.WrapInternal("failed to get person", err)
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, p Person, tx *database.Tx) (*Person, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With("component", "people_repository", "operation", "create", "name", p.Name)
	logger.Debug("Creating person")

	query := `
		INSERT INTO people (name, height, mass, hair_color, skin_color, eye_color, birth_year, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + personColumns

	created, err := scanPerson(exec.QueryRowContext(ctx, query,
		p.Name, p.Height, p.Mass, p.HairColor, p.SkinColor, p.EyeColor, p.BirthYear, p.Gender))
	if err != nil {
		return nil, classifyWriteError("failed to create person", err)
	}

	logger.Debug("Person created", "person_id", created.ID)
	return created, nil
}

func (r *Repository) Update(ctx context.Context, id int, p Person, tx *database.Tx) (*Person, error) {
	exec := r.getExecutor(tx)

	query := `
		UPDATE people
		SET name = $2, height = $3, mass = $4, hair_color = $5, skin_color = $6,
			eye_color = $7, birth_year = $8, gender = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + personColumns

	updated, err := scanPerson(exec.QueryRowContext(ctx, query,
		id, p.Name, p.Height, p.Mass, p.HairColor, p.SkinColor, p.EyeColor, p.BirthYear, p.Gender))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("person %d not found", id)
		}
		return nil, classifyWriteError("failed to update person", err)
	}

	r.logger.Debug("Person updated", "component", "people_repository", "person_id", id)
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return errors.WrapInternal("failed to delete person", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.NotFoundf("person %d not found", id)
	}

	r.logger.Debug("Person deleted", "component", "people_repository", "person_id", id)
	return nil
}

func classifyWriteError(message string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return errors.WrapConflict("a person with this name already exists", err)
	case database.IsIntegrityViolation(err):
		return errors.WrapValidation("person data violates a constraint", err)
	case database.IsInvalidValue(err):
		return errors.WrapValidation("person data does not fit the column limits", err)
	default:
		return errors.WrapInternal(message, err)
	}
}
