package generate

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/dungeongen/internal/telemetry"
	"github.com/samdwyer/dungeongen/internal/world"
)

// Generator turns a configuration and a random source into a Level.
// Implementations hold no state between calls.
type Generator interface {
	Algorithm() world.Algorithm
	Generate(seed string, cfg Config, rng Rand) (*world.Level, error)
}

// New returns the generator for the given algorithm.
func New(algo world.Algorithm) (Generator, error) {
	switch algo {
	case world.AlgorithmRooms:
		return RoomsCorridors{}, nil
	case world.AlgorithmBSP:
		return BSP{}, nil
	default:
		return nil, fmt.Errorf("algorithm %d: %w", int(algo), world.ErrInvalidConfig)
	}
}

// Generate runs the selected algorithm and records a trace span for it.
// The context only carries tracing; generation cannot be cancelled.
func Generate(ctx context.Context, algo world.Algorithm, seed string, cfg Config, rng Rand) (*world.Level, error) {
	tracer := telemetry.Tracer("generate")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()
	span.SetAttributes(
		attribute.String("dungeon.algorithm", algo.String()),
		attribute.String("dungeon.seed", seed),
		attribute.Int("dungeon.width", cfg.Width),
		attribute.Int("dungeon.height", cfg.Height),
		attribute.Bool("dungeon.walls", cfg.Walls),
	)

	gen, err := New(algo)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	level, err := gen.Generate(seed, cfg, rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("dungeon.room_count", len(level.Rooms())),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return level, nil
}

// validate rejects unusable input before any grid is allocated.
func validate(cfg Config, rng Rand) error {
	if rng == nil {
		return fmt.Errorf("nil random source: %w", world.ErrInvalidConfig)
	}
	return cfg.Validate()
}
