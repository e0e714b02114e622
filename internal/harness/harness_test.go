package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ScenarioDir(t *testing.T) {
	scenarios, err := LoadScenarioDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := Run(sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(sc.Flow))
		})
	}
}

func TestRunWithGolden_UpdateDiscount(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", "04_update_discount.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: wrong_expectations
description: Expectations that do not hold are reported, not fatal.
flow:
  - op: create_sale
    args: {date: "2024-01-15", member: M001, book: B001, qty: 2, discount: 50}
    expect: {code: OK, sale_id: 5, total: 1000}
  - op: delete_sale
    args: {sale: 9}
assertions:
  - {type: book_stock, book: B001, value: 10}
  - {type: sale_absent, sale: 1}
`))
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	// sale_id, total, unexpected NOT_FOUND, stock, and sale still present.
	assert.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "expected sale_id 5, got 1")
	assert.Contains(t, result.Errors[1], "expected total 1000, got 950")
	assert.Contains(t, result.Errors[2], "expected code OK, got NOT_FOUND")
}

func TestRun_BadArgsAbort(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: bad_args
description: A step missing a required arg is a scenario error.
flow:
  - op: create_sale
    args: {date: "2024-01-15", member: M001, qty: 1, discount: 0}
`))
	require.NoError(t, err)

	_, err = Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing arg "book"`)
}

func TestRun_LogsSteps(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", "01_create_sale.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = Run(sc, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "op=create_sale")
	assert.Contains(t, buf.String(), "code=OK")
}

func TestArgInt(t *testing.T) {
	args := map[string]any{"a": 3, "b": int64(4), "c": 5.0, "d": 5.5, "e": "6"}

	v, err := argInt(args, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = argInt(args, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	v, err = argInt(args, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	_, err = argInt(args, "d")
	assert.Error(t, err)
	_, err = argInt(args, "e")
	assert.Error(t, err)
	_, err = argInt(args, "missing")
	assert.Error(t, err)
}
