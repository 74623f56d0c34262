package billing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/krishisethu/pos-api/pkg/billing"
)

func TestBillNumberAt_Format(t *testing.T) {
	at := time.Date(2026, time.March, 9, 14, 30, 0, 0, time.UTC)

	got := billing.BillNumberAt(at)
	if !strings.HasPrefix(got, "BILL260309") {
		t.Errorf("BillNumberAt = %q, want prefix BILL260309", got)
	}
	if len(got) != len("BILL")+6+6 {
		t.Errorf("BillNumberAt = %q, want 16 characters", got)
	}
}

func TestBillNumberAt_DistinctAcrossMilliseconds(t *testing.T) {
	base := time.Date(2026, time.March, 9, 14, 30, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		n := billing.BillNumberAt(base.Add(time.Duration(i) * time.Millisecond))
		if seen[n] {
			t.Fatalf("duplicate bill number %q at offset %dms", n, i)
		}
		seen[n] = true
	}
}
