package ledger

import "math"

// Member is a registered customer.
type Member struct {
	ID    string  `json:"mid"`
	Name  string  `json:"mname"`
	Phone string  `json:"mphone"`
	Email *string `json:"memail,omitempty"`
}

// Book is a stocked, priced catalog item.
// Price is expressed in the smallest currency unit.
type Book struct {
	ID    string `json:"bid"`
	Title string `json:"btitle"`
	Price int64  `json:"bprice"`
	Stock int64  `json:"bstock"`
}

// Sale is one purchase transaction.
//
// Qty, MemberID, BookID and Date are fixed at creation. Only Discount and
// Total change afterwards (see engine.UpdateSaleDiscount).
type Sale struct {
	ID       int64  `json:"sid"`
	Date     string `json:"sdate"`
	MemberID string `json:"mid"`
	BookID   string `json:"bid"`
	Qty      int64  `json:"sqty"`
	Discount int64  `json:"sdiscount"`
	Total    int64  `json:"stotal"`
}

// SaleSummary is the compact projection used to pick a sale for update or delete.
type SaleSummary struct {
	SaleID     int64  `json:"sid"`
	MemberName string `json:"mname"`
	Date       string `json:"sdate"`
}

// SaleRecord is one row of the full sale report: a sale joined with its
// member's name and its book's title and price.
type SaleRecord struct {
	SaleID     int64  `json:"sid"`
	Date       string `json:"sdate"`
	MemberName string `json:"mname"`
	BookTitle  string `json:"btitle"`
	Price      int64  `json:"bprice"`
	Qty        int64  `json:"sqty"`
	Discount   int64  `json:"sdiscount"`
	Total      int64  `json:"stotal"`
}

// ComputeTotal returns price*qty - discount.
// The result is not clamped: a discount larger than price*qty yields a
// negative total. A result outside the int64 range is INVALID_INPUT.
func ComputeTotal(price, qty, discount int64) (int64, error) {
	subtotal, ok := mulInt64(price, qty)
	if !ok {
		return 0, NewInvalidInput("price %d x quantity %d overflows", price, qty)
	}
	total := subtotal - discount
	if (discount > 0 && total > subtotal) || (discount < 0 && total < subtotal) {
		return 0, NewInvalidInput("subtotal %d - discount %d overflows", subtotal, discount)
	}
	return total, nil
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || p/b != a {
		return 0, false
	}
	return p, true
}
