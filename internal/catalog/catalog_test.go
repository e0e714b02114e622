package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bookstore/internal/store"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.Len(t, c.Members, 1)
	require.Len(t, c.Books, 1)
	assert.Equal(t, Member{ID: "M001", Name: "Alice", Phone: "0912345678", Email: "alice@example.com"}, c.Members[0])
	assert.Equal(t, Book{ID: "B001", Title: "Python入門", Price: 500, Stock: 10}, c.Books[0])
}

func TestParse_Valid(t *testing.T) {
	c, err := Parse([]byte(`
members:
  - id: M002
    name: Bob
    phone: "0922"
books:
  - id: B002
    title: Go in Action
    price: 1200
    stock: 0
`))
	require.NoError(t, err)
	require.Len(t, c.Members, 1)
	assert.Empty(t, c.Members[0].Email)
	assert.Equal(t, int64(1200), c.Books[0].Price)
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, c.Members)
	assert.Empty(t, c.Books)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative price", `
books:
  - {id: B1, title: T, price: -1, stock: 1}
`},
		{"negative stock", `
books:
  - {id: B1, title: T, price: 1, stock: -5}
`},
		{"empty title", `
books:
  - {id: B1, title: "", price: 1, stock: 1}
`},
		{"missing phone", `
members:
  - {id: M1, name: Bob}
`},
		{"numeric phone", `
members:
  - {id: M1, name: Bob, phone: 912345678}
`},
		{"id with space", `
members:
  - {id: "M 1", name: Bob, phone: "1"}
`},
		{"unknown field", `
books:
  - {id: B1, title: T, price: 1, stock: 1, isbn: "x"}
`},
		{"unknown top-level", `
authors: []
`},
		{"duplicate book id", `
books:
  - {id: B1, title: T, price: 1, stock: 1}
  - {id: B1, title: U, price: 2, stock: 2}
`},
		{"fractional price", `
books:
  - {id: B1, title: T, price: 1.5, stock: 1}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
books:
  - {id: B002, title: Go, price: 800, stock: 3}
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Books, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply_Idempotent(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, st, Default()))
	require.NoError(t, Apply(ctx, st, Default()))

	var members, books int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM member WHERE mid = 'M001'").Scan(&members))
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM book WHERE bid = 'B001'").Scan(&books))
	assert.Equal(t, 1, members)
	assert.Equal(t, 1, books)

	m, err := st.GetMember(ctx, "M001")
	require.NoError(t, err)
	require.NotNil(t, m.Email)
	assert.Equal(t, "alice@example.com", *m.Email)
}
