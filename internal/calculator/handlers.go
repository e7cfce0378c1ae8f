package calculator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ---------------------------------------------------------------------------
// Handlers: binary operations
// ---------------------------------------------------------------------------

// HandleAdd handles POST /calculator/add
func HandleAdd(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, Addition, binaryOps[Addition])
}

// HandleSubtract handles POST /calculator/subtract
func HandleSubtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, Subtraction, binaryOps[Subtraction])
}

// HandleMultiply handles POST /calculator/multiply
func HandleMultiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, Multiplication, binaryOps[Multiplication])
}

// HandleDivide handles POST /calculator/divide
func HandleDivide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, Division, Divide)
}

// HandleExponent handles POST /calculator/exponent
func HandleExponent(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, Exponentiation, Exponent)
}

// handleBinaryOp is the shared implementation for all binary calculator operations.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, op Type, compute BinaryOp) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	opName := op.String()

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if err := Validate(op, []float64{req.A, req.B}); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	start := time.Now()
	result, err := compute(req.A, req.B)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    result,
	})
}

// ---------------------------------------------------------------------------
// Handler: reduction over a sequence, one child span per fold step
// ---------------------------------------------------------------------------

// HandleReduce handles POST /calculator/reduce. It folds the requested
// operation over the inputs left to right and records a child span for
// every step.
func HandleReduce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.reduce",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ReduceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "reduce", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	op, err := ParseType(req.Type)
	if err == nil {
		err = Validate(op, req.Inputs)
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "reduce", err.Error(), err, http.StatusBadRequest, w)
		return
	}
	compute := binaryOps[op]

	span.SetAttributes(
		attribute.String("calculator.operation", op.String()),
		attribute.Int("reduce.inputs_count", len(req.Inputs)),
	)

	running := req.Inputs[0]
	steps := make([]StepResult, 0, len(req.Inputs)-1)

	for i, v := range req.Inputs[1:] {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.reduce.step.%d", i),
			trace.WithAttributes(
				attribute.Int("reduce.step.index", i),
				attribute.Float64("reduce.step.left", running),
				attribute.Float64("reduce.step.right", v),
			),
		)

		stepStart := time.Now()
		next, err := compute(running, v)
		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		if err != nil {
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			span.SetAttributes(attribute.Int("reduce.failed_step", i))
			observability.RecordError(ctx, span, logger, errorCounter, op.String(), err.Error(), err, http.StatusBadRequest, w)
			return
		}

		attrs := metric.WithAttributes(attribute.String("operation", op.String()))
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		stepSpan.SetAttributes(attribute.Float64("reduce.step.result", next))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		steps = append(steps, StepResult{Left: running, Right: v, Result: next})
		running = next
	}

	resultGauge.Record(ctx, running, metric.WithAttributes(attribute.String("operation", op.String())))

	span.AddEvent("reduce.complete", trace.WithAttributes(
		attribute.Float64("result", running),
		attribute.Int("total_steps", len(steps)),
	))
	span.SetAttributes(attribute.Float64("calculator.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("reduction completed",
		zap.String("operation", op.String()),
		zap.Float64s("inputs", req.Inputs),
		zap.Float64("result", running),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ReduceResponse{
		Type:   op,
		Inputs: req.Inputs,
		Steps:  steps,
		Result: running,
	})
}
