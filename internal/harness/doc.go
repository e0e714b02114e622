// Package harness runs ledger scenarios: scripted sequences of sale
// operations with expected outcomes and assertions on the final ledger.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog:                 # optional, applied after the default catalog
//	  books:
//	    - {id: B002, title: Go, price: 800, stock: 3}
//	flow:
//	  - op: create_sale
//	    args: {date: "2024-01-15", member: M001, book: B001, qty: 2, discount: 50}
//	    expect: {code: OK, sale_id: 1, total: 950}
//	  - op: update_discount
//	    args: {sale: 1, discount: 100}
//	  - op: delete_sale
//	    args: {sale: 1}
//	assertions:
//	  - {type: book_stock, book: B001, value: 10}
//	  - {type: sale_count, count: 0}
//
// Each scenario runs against a fresh in-memory store seeded with the default
// catalog, through the real engine. A step without expect must succeed.
//
// # Golden Files
//
// RunWithGolden compares the trace and rendered report with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
