package calculation

import (
	"context"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("calculation")

// Service applies the record lifecycle on top of a Store. Every method acts on
// behalf of caller and refuses records caller does not own.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, caller uuid.UUID, t calculator.Type, inputs []float64) (*Calculation, error) {
	ctx, span := tracer.Start(ctx, "calculation.create", trace.WithAttributes(
		attribute.String("enduser.id", caller.String()),
		attribute.String("calculation.type", t.String()),
		attribute.Int("calculation.inputs_count", len(inputs)),
	))
	defer span.End()

	c, err := New(caller, t, inputs)
	if err != nil {
		return nil, fail(span, err)
	}

	if err := timed(ctx, "save", func() error { return s.store.Save(ctx, c) }); err != nil {
		return nil, fail(span, err)
	}

	s.recorded(ctx, span, "create", "calculation created", c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, caller, id uuid.UUID) (*Calculation, error) {
	ctx, span := tracer.Start(ctx, "calculation.get", trace.WithAttributes(
		attribute.String("enduser.id", caller.String()),
		attribute.String("calculation.id", id.String()),
	))
	defer span.End()

	var c *Calculation
	err := timed(ctx, "fetch", func() error {
		var err error
		c, err = s.store.Fetch(ctx, id)
		return err
	})
	if err == nil {
		err = c.AuthorizeFor(caller)
	}
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetStatus(codes.Ok, "")
	return c, nil
}

// List returns caller's records, newest first, and the total count.
func (s *Service) List(ctx context.Context, caller uuid.UUID, page Page) ([]Calculation, int64, error) {
	page = page.Normalize()
	ctx, span := tracer.Start(ctx, "calculation.list", trace.WithAttributes(
		attribute.String("enduser.id", caller.String()),
		attribute.Int("page.limit", page.Limit),
		attribute.Int("page.offset", page.Offset),
	))
	defer span.End()

	var (
		calcs []Calculation
		total int64
	)
	err := timed(ctx, "list", func() error {
		var err error
		calcs, total, err = s.store.ListByOwner(ctx, caller, page)
		return err
	})
	if err != nil {
		return nil, 0, fail(span, err)
	}

	span.SetAttributes(attribute.Int64("calculation.total", total))
	span.SetStatus(codes.Ok, "")
	return calcs, total, nil
}

// Update replaces the inputs of record id and recomputes its result. Type and
// owner are kept.
func (s *Service) Update(ctx context.Context, caller, id uuid.UUID, inputs []float64) (*Calculation, error) {
	ctx, span := tracer.Start(ctx, "calculation.update", trace.WithAttributes(
		attribute.String("enduser.id", caller.String()),
		attribute.String("calculation.id", id.String()),
		attribute.Int("calculation.inputs_count", len(inputs)),
	))
	defer span.End()

	var c *Calculation
	err := timed(ctx, "update", func() error {
		var err error
		c, err = s.store.Update(ctx, id, func(c *Calculation) error {
			if err := c.AuthorizeFor(caller); err != nil {
				return err
			}
			return c.SetInputs(inputs)
		})
		return err
	})
	if err != nil {
		return nil, fail(span, err)
	}

	s.recorded(ctx, span, "update", "calculation updated", c)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, caller, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "calculation.delete", trace.WithAttributes(
		attribute.String("enduser.id", caller.String()),
		attribute.String("calculation.id", id.String()),
	))
	defer span.End()

	err := timed(ctx, "delete", func() error {
		return s.store.Delete(ctx, id, func(c *Calculation) error {
			return c.AuthorizeFor(caller)
		})
	})
	if err != nil {
		return fail(span, err)
	}

	mutationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", "delete")))
	observability.LoggerWithTrace(ctx).Info("calculation deleted",
		zap.String("calculation_id", id.String()),
		zap.String("user_id", caller.String()),
	)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *Service) recorded(ctx context.Context, span trace.Span, action, msg string, c *Calculation) {
	mutationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("type", c.Type.String()),
	))
	inputsHistogram.Record(ctx, int64(len(c.Inputs)), metric.WithAttributes(attribute.String("type", c.Type.String())))

	span.SetAttributes(
		attribute.String("calculation.id", c.ID.String()),
		attribute.Float64("calculation.result", c.Result),
	)
	span.SetStatus(codes.Ok, "")

	observability.LoggerWithTrace(ctx).Info(msg,
		zap.String("calculation_id", c.ID.String()),
		zap.String("user_id", c.UserID.String()),
		zap.String("type", c.Type.String()),
		zap.Float64s("inputs", c.Inputs),
		zap.Float64("result", c.Result),
	)
}

func timed(ctx context.Context, call string, fn func() error) error {
	start := time.Now()
	err := fn()
	storeHistogram.Record(ctx, float64(time.Since(start).Microseconds())/1000.0,
		metric.WithAttributes(attribute.String("call", call)))
	return err
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
