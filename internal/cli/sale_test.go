package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bookstore/internal/ledger"
	"github.com/roach88/bookstore/internal/store"
)

func addSale(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	return execute(t, dbPath, append([]string{"sale", "add"}, args...)...)
}

func bookStock(t *testing.T, dbPath, bid string) int64 {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	book, err := st.GetBook(context.Background(), bid)
	require.NoError(t, err)
	return book.Stock
}

func TestSaleAdd(t *testing.T) {
	dbPath := tempDB(t)

	out, err := addSale(t, dbPath, "--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "2", "--discount", "50")
	require.NoError(t, err)
	assert.Equal(t, "Sale 1 recorded, total 950\n", out)
	assert.Equal(t, int64(8), bookStock(t, dbPath, "B001"))
}

func TestSaleAdd_JSON(t *testing.T) {
	dbPath := tempDB(t)

	out, err := execute(t, dbPath, "--format", "json", "sale", "add",
		"--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "1")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   SaleAddResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, SaleAddResult{SaleID: 1, Total: 500}, resp.Data)
}

func TestSaleAdd_Rejections(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code ledger.ErrorCode
	}{
		{"insufficient stock", []string{"--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "11"}, ledger.CodeInsufficientStock},
		{"bad date", []string{"--date", "2024/01/15", "--member", "M001", "--book", "B001", "--qty", "1"}, ledger.CodeInvalidInput},
		{"unknown member", []string{"--date", "2024-01-15", "--member", "M999", "--book", "B001", "--qty", "1"}, ledger.CodeNotFound},
		{"unknown book", []string{"--date", "2024-01-15", "--member", "M001", "--book", "B999", "--qty", "1"}, ledger.CodeNotFound},
		{"zero qty", []string{"--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "0"}, ledger.CodeInvalidInput},
		{"non-integer qty", []string{"--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "two"}, ledger.CodeInvalidInput},
		{"negative discount", []string{"--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "1", "--discount", "-5"}, ledger.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tempDB(t)

			out, err := addSale(t, dbPath, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.True(t, IsReported(err))
			assert.Equal(t, tt.code, ledger.CodeOf(err))
			assert.Contains(t, out, "Error ["+string(tt.code)+"]")
		})
	}
}

func TestSaleAdd_MissingRequiredFlag(t *testing.T) {
	_, err := addSale(t, tempDB(t), "--date", "2024-01-15", "--member", "M001", "--qty", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "book")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSaleUpdate(t *testing.T) {
	dbPath := tempDB(t)
	_, err := addSale(t, dbPath, "--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "2", "--discount", "50")
	require.NoError(t, err)

	out, err := execute(t, dbPath, "sale", "update", "1", "--discount", "100")
	require.NoError(t, err)
	assert.Equal(t, "Sale 1 updated, total 900\n", out)
	assert.Equal(t, int64(8), bookStock(t, dbPath, "B001"))

	_, err = execute(t, dbPath, "sale", "update", "1", "--discount", "ten")
	require.Error(t, err)
	assert.True(t, ledger.IsInvalidInput(err))

	_, err = execute(t, dbPath, "sale", "update", "2", "--discount", "10")
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

func TestSaleDelete(t *testing.T) {
	dbPath := tempDB(t)
	_, err := addSale(t, dbPath, "--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "3")
	require.NoError(t, err)
	assert.Equal(t, int64(7), bookStock(t, dbPath, "B001"))

	out, err := execute(t, dbPath, "sale", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Sale 1 deleted, 3 restored to B001\n", out)
	assert.Equal(t, int64(10), bookStock(t, dbPath, "B001"))

	out, err = execute(t, dbPath, "sale", "delete", "1")
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
	assert.Contains(t, out, "Error [NOT_FOUND]")
}

func TestSaleDelete_BadID(t *testing.T) {
	_, err := execute(t, tempDB(t), "sale", "delete", "abc")
	require.Error(t, err)
	assert.True(t, ledger.IsInvalidInput(err))
}

func TestSaleList(t *testing.T) {
	dbPath := tempDB(t)
	_, err := addSale(t, dbPath, "--date", "2024-01-15", "--member", "M001", "--book", "B001", "--qty", "2", "--discount", "50")
	require.NoError(t, err)
	_, err = addSale(t, dbPath, "--date", "2024-01-16", "--member", "M001", "--book", "B001", "--qty", "1")
	require.NoError(t, err)

	out, err := execute(t, dbPath, "sale", "list")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("..", "report", "testdata", "golden", "summary_two_sales.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), out)
}

func TestSaleList_Empty(t *testing.T) {
	out, err := execute(t, tempDB(t), "--format", "json", "sale", "list")
	require.NoError(t, err)

	var resp struct {
		Status string               `json:"status"`
		Data   []ledger.SaleSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data)
}
