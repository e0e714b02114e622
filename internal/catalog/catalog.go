// Package catalog loads the member and book seed data of the ledger.
//
// A catalog is a YAML document validated against an embedded CUE schema
// (schema.cue) before it reaches the store. The default catalog holds the
// single member and book every fresh ledger starts with.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bookstore/internal/ledger"
	"github.com/roach88/bookstore/internal/store"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed schema.cue
var schemaCUE string

// Catalog is a set of members and books to seed.
type Catalog struct {
	Members []Member `yaml:"members,omitempty"`
	Books   []Book   `yaml:"books,omitempty"`
}

// Member is a catalog entry for a ledger.Member.
type Member struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email,omitempty"`
}

// Book is a catalog entry for a ledger.Book.
type Book struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Price int64  `yaml:"price"`
	Stock int64  `yaml:"stock"`
}

// Default returns the built-in seed catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and validates it.
// Unknown fields, negative prices or stock, empty names and duplicate ids
// are all rejected.
func Parse(data []byte) (*Catalog, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := c.checkUnique(); err != nil {
		return nil, err
	}
	return &c, nil
}

// validateSchema unifies the raw document with #Catalog.
func validateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode catalog: %s", cueerrors.Details(err, nil))
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid catalog: %s", cueerrors.Details(err, nil))
	}
	return nil
}

func (c *Catalog) checkUnique() error {
	seen := make(map[string]bool)
	for i, m := range c.Members {
		if seen[m.ID] {
			return fmt.Errorf("members[%d]: duplicate id %q", i, m.ID)
		}
		seen[m.ID] = true
	}
	seen = make(map[string]bool)
	for i, b := range c.Books {
		if seen[b.ID] {
			return fmt.Errorf("books[%d]: duplicate id %q", i, b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// LedgerMembers converts the catalog members to ledger records.
// An empty email becomes NULL.
func (c *Catalog) LedgerMembers() []ledger.Member {
	out := make([]ledger.Member, 0, len(c.Members))
	for _, m := range c.Members {
		lm := ledger.Member{ID: m.ID, Name: m.Name, Phone: m.Phone}
		if m.Email != "" {
			email := m.Email
			lm.Email = &email
		}
		out = append(out, lm)
	}
	return out
}

// LedgerBooks converts the catalog books to ledger records.
func (c *Catalog) LedgerBooks() []ledger.Book {
	out := make([]ledger.Book, 0, len(c.Books))
	for _, b := range c.Books {
		out = append(out, ledger.Book{ID: b.ID, Title: b.Title, Price: b.Price, Stock: b.Stock})
	}
	return out
}

// Apply seeds the store with the catalog. Rows whose id already exists are
// left untouched.
func Apply(ctx context.Context, s *store.Store, c *Catalog) error {
	if err := s.Seed(ctx, c.LedgerMembers(), c.LedgerBooks()); err != nil {
		return fmt.Errorf("apply catalog: %w", err)
	}
	return nil
}
