package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/roach88/bookstore/internal/catalog"
	"github.com/roach88/bookstore/internal/engine"
	"github.com/roach88/bookstore/internal/ledger"
	"github.com/roach88/bookstore/internal/report"
	"github.com/roach88/bookstore/internal/store"
	"github.com/roach88/bookstore/internal/testutil"
)

// Harness executes scenario steps against one store.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger used by the harness and its engine.
// Default: discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and apply the default catalog
// 2. Apply the scenario catalog, if any
// 3. Execute flow steps through the engine, checking expect clauses
// 4. Evaluate assertions against the final state
// 5. Render the sale report
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.engine = engine.New(st,
		engine.WithLogger(h.logger),
		engine.WithOpIDGenerator(testutil.NewSequenceOpIDGenerator(scenario.Name)),
	)

	ctx := context.Background()

	if err := catalog.Apply(ctx, st, catalog.Default()); err != nil {
		return nil, err
	}
	if scenario.Catalog != nil {
		if err := catalog.Apply(ctx, st, scenario.Catalog); err != nil {
			return nil, err
		}
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	for _, msg := range EvaluateAssertions(ctx, st, scenario.Assertions) {
		result.AddError(msg)
	}

	var buf bytes.Buffer
	if _, err := report.Render(&buf, report.Records(ctx, st)); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	result.Report = buf.String()

	return result, nil
}

// executeFlow runs all flow steps and validates expect clauses.
// Malformed step arguments abort the run; ledger errors are outcomes.
func (h *Harness) executeFlow(ctx context.Context, flow []Step, result *Result) error {
	for i, step := range flow {
		event, err := h.executeStep(ctx, step)
		if err != nil {
			return fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
		}
		event.Step = i
		result.Trace = append(result.Trace, event)

		for _, msg := range checkExpect(i, step, event) {
			result.AddError(msg)
		}

		h.logger.Info("flow step completed",
			"step", i,
			"op", step.Op,
			"code", event.Code,
		)
	}
	return nil
}

func (h *Harness) executeStep(ctx context.Context, step Step) (TraceEvent, error) {
	event := TraceEvent{Op: step.Op, Args: step.Args}

	var opErr error
	switch step.Op {
	case OpCreateSale:
		in := engine.CreateSaleInput{}
		var err error
		if in.Date, err = argString(step.Args, "date"); err != nil {
			return event, err
		}
		if in.MemberID, err = argString(step.Args, "member"); err != nil {
			return event, err
		}
		if in.BookID, err = argString(step.Args, "book"); err != nil {
			return event, err
		}
		if in.Qty, err = argInt(step.Args, "qty"); err != nil {
			return event, err
		}
		if in.Discount, err = argInt(step.Args, "discount"); err != nil {
			return event, err
		}

		sid, err := h.engine.CreateSale(ctx, in)
		opErr = err
		if err == nil {
			event.SaleID = sid
			sale, err := h.store.GetSale(ctx, sid)
			if err != nil {
				return event, err
			}
			event.Total = &sale.Total
		}

	case OpUpdateDiscount:
		sid, err := argInt(step.Args, "sale")
		if err != nil {
			return event, err
		}
		raw, ok := step.Args["discount"]
		if !ok {
			return event, fmt.Errorf("missing arg %q", "discount")
		}

		sale, err := h.engine.UpdateSaleDiscount(ctx, sid, fmt.Sprint(raw))
		opErr = err
		if err == nil {
			event.SaleID = sid
			event.Total = &sale.Total
		}

	case OpDeleteSale:
		sid, err := argInt(step.Args, "sale")
		if err != nil {
			return event, err
		}
		_, opErr = h.engine.DeleteSale(ctx, sid)
		if opErr == nil {
			event.SaleID = sid
		}

	default:
		return event, fmt.Errorf("unknown op %q", step.Op)
	}

	event.Code = CodeOK
	if opErr != nil {
		code := ledger.CodeOf(opErr)
		if code == "" {
			return event, opErr
		}
		event.Code = string(code)
	}
	return event, nil
}

// checkExpect compares a step's outcome with its expect clause.
// A step without expect must succeed.
func checkExpect(index int, step Step, event TraceEvent) []string {
	expect := step.Expect
	if expect == nil {
		expect = &Expect{Code: CodeOK}
	}

	var errs []string
	if event.Code != expect.Code {
		errs = append(errs, fmt.Sprintf("flow[%d] %s: expected code %s, got %s",
			index, step.Op, expect.Code, event.Code))
	}
	if expect.SaleID != nil && event.SaleID != *expect.SaleID {
		errs = append(errs, fmt.Sprintf("flow[%d] %s: expected sale_id %d, got %d",
			index, step.Op, *expect.SaleID, event.SaleID))
	}
	if expect.Total != nil {
		switch {
		case event.Total == nil:
			errs = append(errs, fmt.Sprintf("flow[%d] %s: expected total %d, got none",
				index, step.Op, *expect.Total))
		case *event.Total != *expect.Total:
			errs = append(errs, fmt.Sprintf("flow[%d] %s: expected total %d, got %d",
				index, step.Op, *expect.Total, *event.Total))
		}
	}
	return errs
}

func argString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing arg %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("arg %q: expected string, got %T", key, v)
	}
	return s, nil
}

// argInt reads an integer arg. YAML integers decode as int; whole floats are
// accepted too.
func argInt(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("missing arg %q", key)
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("arg %q: %d overflows int64", key, n)
		}
		return int64(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int64(n), nil
		}
		return 0, fmt.Errorf("arg %q: expected integer, got %v", key, n)
	default:
		return 0, fmt.Errorf("arg %q: expected integer, got %T", key, v)
	}
}
