package receipt

import "time"

// LineItem is one bracket's priced contribution within a receipt. The
// coefficient is the effective value captured at creation time and is never
// re-derived afterwards.
type LineItem struct {
	ID          int64   `json:"id"`
	ReceiptID   int64   `json:"receipt_id"`
	Percentage  int     `json:"percentage"`
	Weight      float64 `json:"weight"`
	Coefficient float64 `json:"coefficient"`
	Sum         int64   `json:"sum"`
}

// Receipt is an immutable intake record. TotalWeight and TotalSum are
// denormalized snapshots written once at creation; no edit path exists, so
// they are never recomputed from the items. ReceiptNumber is a pointer so a
// blank number serializes as an explicit null rather than disappearing.
type Receipt struct {
	ID            int64      `json:"id"`
	ReceiptNumber *string    `json:"receipt_number"`
	CreatedAt     time.Time  `json:"created_at"`
	TotalWeight   float64    `json:"total_weight"`
	TotalSum      int64      `json:"total_sum"`
	Items         []LineItem `json:"items"`
}
