package billing

import (
	"fmt"
	"time"
)

// BillNumberAt formats a bill number for the given instant:
// BILL{YY}{MM}{DD}{last six digits of the epoch millisecond}.
//
// Two calls within the same millisecond collide, which is acceptable for a
// single terminal; cross-terminal uniqueness is enforced by the unique
// constraint on sale_no plus the Idempotency-Key required at checkout.
func BillNumberAt(t time.Time) string {
	return fmt.Sprintf("BILL%s%06d", t.Format("060102"), t.UnixMilli()%1_000_000)
}

// NewBillNumber returns a bill number for the current time.
func NewBillNumber() string {
	return BillNumberAt(time.Now())
}
