package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bookstore/internal/catalog"
	"github.com/roach88/bookstore/internal/ledger"
)

// Scenario defines a ledger scenario.
type Scenario struct {
	// Name uniquely identifies this scenario (also the golden file name).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog holds extra members and books, seeded after the default catalog.
	Catalog *catalog.Catalog `yaml:"catalog,omitempty"`

	// Flow contains the operations to execute, in order.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final ledger state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one engine operation.
type Step struct {
	// Op is one of OpCreateSale, OpUpdateDiscount, OpDeleteSale.
	Op string `yaml:"op"`

	// Args holds the operation arguments:
	//   create_sale:     date, member, book, qty, discount
	//   update_discount: sale, discount (any scalar; parsed as an integer)
	//   delete_sale:     sale
	Args map[string]any `yaml:"args"`

	// Expect specifies the expected outcome. If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Code is CodeOK or a ledger error code (e.g. INSUFFICIENT_STOCK).
	Code string `yaml:"code"`

	// SaleID is the expected new sale id (create_sale only).
	SaleID *int64 `yaml:"sale_id,omitempty"`

	// Total is the expected sale total after the step.
	Total *int64 `yaml:"total,omitempty"`
}

// Assertion validates final ledger state.
type Assertion struct {
	// Type is one of AssertBookStock, AssertSaleTotal, AssertSaleCount, AssertSaleAbsent.
	Type string `yaml:"type"`

	// Book is the book id (book_stock).
	Book string `yaml:"book,omitempty"`

	// Sale is the sale id (sale_total, sale_absent).
	Sale int64 `yaml:"sale,omitempty"`

	// Value is the expected stock or total.
	Value int64 `yaml:"value,omitempty"`

	// Count is the expected number of sales (sale_count).
	Count int `yaml:"count,omitempty"`
}

// Step operations.
const (
	OpCreateSale     = "create_sale"
	OpUpdateDiscount = "update_discount"
	OpDeleteSale     = "delete_sale"
)

// Assertion type constants.
const (
	AssertBookStock  = "book_stock"
	AssertSaleTotal  = "sale_total"
	AssertSaleCount  = "sale_count"
	AssertSaleAbsent = "sale_absent"
)

var validCodes = map[string]bool{
	CodeOK:                               true,
	string(ledger.CodeInvalidInput):      true,
	string(ledger.CodeNotFound):          true,
	string(ledger.CodeInsufficientStock): true,
	string(ledger.CodeStorage):           true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml file in dir, sorted by file name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\ `) {
		return fmt.Errorf("name %q must not contain slashes or spaces", s.Name)
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog != nil {
		data, err := yaml.Marshal(s.Catalog)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		if _, err := catalog.Parse(data); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		switch step.Op {
		case OpCreateSale, OpUpdateDiscount, OpDeleteSale:
		case "":
			return fmt.Errorf("flow[%d]: op is required", i)
		default:
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
		if step.Args == nil {
			return fmt.Errorf("flow[%d]: args is required", i)
		}
		if step.Expect != nil && !validCodes[step.Expect.Code] {
			return fmt.Errorf("flow[%d].expect: unknown code %q", i, step.Expect.Code)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertBookStock:
		if a.Book == "" {
			return fmt.Errorf("assertions[%d]: book is required for book_stock", index)
		}
	case AssertSaleTotal, AssertSaleAbsent:
		if a.Sale <= 0 {
			return fmt.Errorf("assertions[%d]: sale is required for %s", index, a.Type)
		}
	case AssertSaleCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
