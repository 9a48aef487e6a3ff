// Package seed populates the catalog from the public SWAPI mirror.
package seed

import (
	"context"
	"log/slog"

	"starwars-api/internal/people"
	"starwars-api/internal/planet"
	"starwars-api/internal/shared/errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	ResourcePeople  = "people"
	ResourcePlanets = "planets"
)

type Source interface {
	List(ctx context.Context, resource string) ([]ListItem, error)
	Properties(ctx context.Context, detailURL string) (Properties, error)
}

type PeopleCreator interface {
	Create(ctx context.Context, in people.Input) (*people.Person, error)
}

type PlanetCreator interface {
	Create(ctx context.Context, in planet.Input) (*planet.Planet, error)
}

type Report struct {
	Resource string `json:"resource"`
	Fetched  int    `json:"fetched"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

type outcome string

const (
	outcomeCreated outcome = "created"
	outcomeSkipped outcome = "skipped"
	outcomeFailed  outcome = "failed"
)

func (r *Report) add(o outcome) {
	switch o {
	case outcomeCreated:
		r.Created++
	case outcomeSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
}

type Importer struct {
	source  Source
	people  PeopleCreator
	planets PlanetCreator
	rows    *prometheus.CounterVec
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewImporter wires the importer. rows may be nil when metrics are not
// collected.
func NewImporter(source Source, people PeopleCreator, planets PlanetCreator, rows *prometheus.CounterVec, logger *slog.Logger) *Importer {
	return &Importer{
		source:  source,
		people:  people,
		planets: planets,
		rows:    rows,
		tracer:  otel.Tracer("starwars-api/internal/seed"),
		logger:  logger,
	}
}

// Import dispatches on the resource name used in routes and the CLI.
func (i *Importer) Import(ctx context.Context, resource string) (*Report, error) {
	switch resource {
	case ResourcePeople:
		return i.ImportPeople(ctx)
	case ResourcePlanets:
		return i.ImportPlanets(ctx)
	default:
		return nil, errors.NotFoundf("unknown seed resource %q", resource)
	}
}

func (i *Importer) ImportPeople(ctx context.Context) (*Report, error) {
	return i.run(ctx, ResourcePeople, func(ctx context.Context, props Properties, logger *slog.Logger) error {
		_, err := i.people.Create(ctx, people.Input{
			Name:      props.String("name"),
			Height:    props.Int("height", logger),
			Mass:      props.Int("mass", logger),
			HairColor: props.String("hair_color"),
			SkinColor: props.String("skin_color"),
			EyeColor:  props.String("eye_color"),
			BirthYear: props.String("birth_year"),
			Gender:    props.String("gender"),
		})
		return err
	})
}

func (i *Importer) ImportPlanets(ctx context.Context) (*Report, error) {
	return i.run(ctx, ResourcePlanets, func(ctx context.Context, props Properties, logger *slog.Logger) error {
		_, err := i.planets.Create(ctx, planet.Input{
			Name:         props.String("name"),
			Diameter:     props.Float("diameter", logger),
			Climate:      props.String("climate"),
			Gravity:      props.String("gravity"),
			Terrain:      props.String("terrain"),
			SurfaceWater: props.String("surface_water"),
			Population:   props.String("population"),
		})
		return err
	})
}

// run fetches the listing and then each detail, inserting rows one by one.
// Only a failed listing aborts the import.
func (i *Importer) run(ctx context.Context, resource string, insert func(context.Context, Properties, *slog.Logger) error) (*Report, error) {
	ctx, span := i.tracer.Start(ctx, "seed.import", trace.WithAttributes(attribute.String("seed.resource", resource)))
	defer span.End()

	logger := i.logger.With("component", "seed_importer", "resource", resource)
	logger.Info("Starting import")

	items, err := i.source.List(ctx, resource)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing failed")
		return nil, errors.WrapExternal("failed to fetch "+resource+" listing", err)
	}

	report := &Report{Resource: resource, Fetched: len(items)}
	for _, item := range items {
		o := i.importOne(ctx, item, insert, logger.With("uid", item.UID, "name", item.Name))
		report.add(o)
		if i.rows != nil {
			i.rows.WithLabelValues(resource, string(o)).Inc()
		}
	}

	span.SetAttributes(
		attribute.Int("seed.fetched", report.Fetched),
		attribute.Int("seed.created", report.Created),
		attribute.Int("seed.skipped", report.Skipped),
		attribute.Int("seed.failed", report.Failed),
	)
	logger.Info("Import finished",
		"fetched", report.Fetched,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}

func (i *Importer) importOne(ctx context.Context, item ListItem, insert func(context.Context, Properties, *slog.Logger) error, logger *slog.Logger) outcome {
	props, err := i.source.Properties(ctx, item.URL)
	if err != nil {
		logger.Warn("Failed to fetch detail", "error", err)
		return outcomeFailed
	}

	err = insert(ctx, props, logger)
	switch {
	case err == nil:
		logger.Debug("Row imported")
		return outcomeCreated
	case errors.Is(err, errors.ErrorTypeConflict):
		logger.Debug("Row already present, skipping")
		return outcomeSkipped
	case errors.Is(err, errors.ErrorTypeValidation):
		logger.Debug("Row incomplete, skipping", "reason", errors.ClientMessage(err))
		return outcomeSkipped
	default:
		logger.Error("Failed to insert row", "error", err)
		return outcomeFailed
	}
}
