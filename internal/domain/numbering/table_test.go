package numbering

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestTable_ExpireStale(t *testing.T) {
	tbl := NewTable()
	t0 := mustTime(t, "2024-05-01T09:00:00Z")

	tbl.Insert(&Reservation{Number: 601, SessionID: "a", CreatedAt: t0, Date: "2024-05-01"})
	tbl.Insert(&Reservation{Number: 602, SessionID: "b", CreatedAt: t0.Add(10 * time.Minute), Date: "2024-05-01"})

	// Just inside the TTL: nothing expires.
	if got := tbl.ExpireStale(t0.Add(ReservationTTL)); got != 0 {
		t.Fatalf("expected 0 expired at TTL boundary, got %d", got)
	}

	// One second past the first reservation's TTL.
	if got := tbl.ExpireStale(t0.Add(ReservationTTL + time.Second)); got != 1 {
		t.Fatalf("expected 1 expired, got %d", got)
	}
	if tbl.Get(601) != nil {
		t.Error("601 should have expired")
	}
	if tbl.Get(602) == nil {
		t.Error("602 should still be held")
	}
}

func TestTable_FindBySession(t *testing.T) {
	tbl := NewTable()
	t0 := mustTime(t, "2024-05-01T09:00:00Z")

	tbl.Insert(&Reservation{Number: 601, SessionID: "a", CreatedAt: t0, Date: "2024-05-01"})
	tbl.Insert(&Reservation{Number: 602, SessionID: "a", CreatedAt: t0, Date: "2024-05-02"})

	if res := tbl.FindBySession("a", "2024-05-01"); res == nil || res.Number != 601 {
		t.Fatalf("expected 601 for (a, 2024-05-01), got %+v", res)
	}
	if res := tbl.FindBySession("a", "2024-05-03"); res != nil {
		t.Fatalf("expected nil for unknown date, got %+v", res)
	}
	if res := tbl.FindBySession("b", "2024-05-01"); res != nil {
		t.Fatalf("expected nil for unknown session, got %+v", res)
	}
}

func TestTable_NumbersForDate_RespectsRange(t *testing.T) {
	tbl := NewTable()
	t0 := mustTime(t, "2024-05-01T09:00:00Z")

	tbl.Insert(&Reservation{Number: 599, SessionID: "a", CreatedAt: t0, Date: "2024-05-01"})
	tbl.Insert(&Reservation{Number: 601, SessionID: "b", CreatedAt: t0, Date: "2024-05-01"})
	tbl.Insert(&Reservation{Number: 602, SessionID: "c", CreatedAt: t0, Date: "2024-05-02"})

	taken := tbl.NumbersForDate("2024-05-01", Range{Start: 601, End: 700})
	if len(taken) != 1 {
		t.Fatalf("expected 1 taken number, got %d", len(taken))
	}
	if _, ok := taken[601]; !ok {
		t.Error("601 should be taken")
	}
}

func TestTable_ReleaseSession(t *testing.T) {
	tbl := NewTable()
	t0 := mustTime(t, "2024-05-01T09:00:00Z")

	tbl.Insert(&Reservation{Number: 601, SessionID: "a", CreatedAt: t0, Date: "2024-05-01"})
	tbl.Insert(&Reservation{Number: 602, SessionID: "a", CreatedAt: t0, Date: "2024-05-02"})
	tbl.Insert(&Reservation{Number: 603, SessionID: "b", CreatedAt: t0, Date: "2024-05-01"})

	freed := tbl.ReleaseSession("a")
	if len(freed) != 2 {
		t.Fatalf("expected 2 freed, got %v", freed)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", tbl.Len())
	}
	if tbl.Get(603) == nil {
		t.Error("b's reservation should survive")
	}
}

func TestTable_ClearForDate(t *testing.T) {
	tbl := NewTable()
	t0 := mustTime(t, "2024-05-01T09:00:00Z")

	tbl.Insert(&Reservation{Number: 601, SessionID: "a", CreatedAt: t0, Date: "2024-05-01"})
	tbl.Insert(&Reservation{Number: 602, SessionID: "b", CreatedAt: t0, Date: "2024-05-02"})

	if cleared := tbl.ClearForDate("2024-05-01"); cleared != 1 {
		t.Fatalf("expected 1 cleared, got %d", cleared)
	}
	if tbl.Get(602) == nil {
		t.Error("other date's reservation should survive")
	}

	if cleared := tbl.ClearAll(); cleared != 1 {
		t.Fatalf("expected 1 cleared by ClearAll, got %d", cleared)
	}
	if tbl.Len() != 0 {
		t.Errorf("table should be empty, has %d", tbl.Len())
	}
}
