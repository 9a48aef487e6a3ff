package planet

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
	logger.Debug("Initializing planet repository")

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

const planetColumns = `id, name, diameter, climate, gravity, terrain, surface_water, population, created_at, updated_at`

func scanPlanet(row interface{ Scan(...interface{}) error }) (*Planet, error) {
	var p Planet
	var population sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Diameter,
		&p.Climate,
		&p.Gravity,
		&p.Terrain,
		&p.SurfaceWater,
		&population,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if population.Valid {
		p.Population = &population.String
	}
	return &p, nil
}

func nullablePopulation(p Planet) sql.NullString {
	if p.Population == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p.Population, Valid: true}
}

func (r *Repository) GetAll(ctx context.Context) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_all")
	logger.Debug("Retrieving all planets")

	rows, err := r.db.QueryContext(ctx, `SELECT `+planetColumns+` FROM planets ORDER BY id`)
	if err != nil {
		return nil, errors.WrapInternal("failed to query planets", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []Planet
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan planet", err)
		}
		planets = append(planets, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating planets", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

func (r *Repository) GetByID(ctx context.Context, id int, tx *database.Tx) (*Planet, error) {
	return r.getByID(ctx, id, tx, "")
}

// LockByID reads a planet and holds a key-share lock on the row until tx
// ends, so a concurrent delete waits for tx to commit.
func (r *Repository) LockByID(ctx context.Context, id int, tx *database.Tx) (*Planet, error) {
	return r.getByID(ctx, id, tx, " FOR KEY SHARE")
}

func (r *Repository) getByID(ctx context.Context, id int, tx *database.Tx, lock string) (*Planet, error) {
	exec := r.getExecutor(tx)

	p, err := scanPlanet(exec.QueryRowContext(ctx, `SELECT `+planetColumns+` FROM planets WHERE id = $1`+lock, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) || database.IsInvalidValue(err) {
			return nil, errors.NotFoundf("planet %d not found", id)
		}
		return nil, errors.WrapInternal("failed to get planet", err)
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, p Planet, tx *database.Tx) (*Planet, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With("component", "planet_repository", "operation", "create", "name", p.Name)
	logger.Debug("Creating planet")

	query := `
		INSERT INTO planets (name, diameter, climate, gravity, terrain, surface_water, population)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + planetColumns

	created, err := scanPlanet(exec.QueryRowContext(ctx, query,
		p.Name, p.Diameter, p.Climate, p.Gravity, p.Terrain, p.SurfaceWater, nullablePopulation(p)))
	if err != nil {
		return nil, classifyWriteError("failed to create planet", err)
	}

	logger.Debug("Planet created", "planet_id", created.ID)
	return created, nil
}

func (r *Repository) Update(ctx context.Context, id int, p Planet, tx *database.Tx) (*Planet, error) {
	exec := r.getExecutor(tx)

	query := `
		UPDATE planets
		SET name = $2, diameter = $3, climate = $4, gravity = $5, terrain = $6,
			surface_water = $7, population = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + planetColumns

	updated, err := scanPlanet(exec.QueryRowContext(ctx, query,
		id, p.Name, p.Diameter, p.Climate, p.Gravity, p.Terrain, p.SurfaceWater, nullablePopulation(p)))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("planet %d not found", id)
		}
		return nil, classifyWriteError("failed to update planet", err)
	}

	r.logger.Debug("Planet updated", "component", "planet_repository", "planet_id", id)
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx, `DELETE FROM planets WHERE id = $1`, id)
	if err != nil {
		return errors.WrapInternal("failed to delete planet", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to read affected rows", err)
	}
	if affected == 0 {
		return errors.NotFoundf("planet %d not found", id)
	}

	r.logger.Debug("Planet deleted", "component", "planet_repository", "planet_id", id)
	return nil
}

func classifyWriteError(message string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return errors.WrapConflict("a planet with this name already exists", err)
	case database.IsIntegrityViolation(err):
		return errors.WrapValidation("planet data violates a constraint", err)
	case database.IsInvalidValue(err):
		return errors.WrapValidation("planet data does not fit the column limits", err)
	default:
		return errors.WrapInternal(message, err)
	}
}
