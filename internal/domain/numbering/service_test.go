package numbering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	"github.com/rzkdmln/sicakap/internal/core/clock"
)

// fakeLedger serves persisted numbers from a map keyed by date.
type fakeLedger struct {
	used map[string][]int
	err  error
}

func (f *fakeLedger) UsedNumbers(_ context.Context, date string, rng Range) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []int
	for _, n := range f.used[date] {
		if rng.Contains(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeLedger) MaxUsedNumber(_ context.Context, date string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	max := 0
	for _, n := range f.used[date] {
		if n > max {
			max = n
		}
	}
	return max, nil
}

func newTestService(t *testing.T, rng Range, ledger *fakeLedger, clk *clock.Fixed) *Service {
	t.Helper()
	if ledger == nil {
		ledger = &fakeLedger{}
	}
	svc, err := NewService(Config{Range: rng, Ledger: ledger, Clock: clk})
	require.NoError(t, err)
	return svc
}

func fixedClock(day string) *clock.Fixed {
	t, _ := time.Parse(DateLayout, day)
	return &clock.Fixed{T: t.Add(9 * time.Hour)} // 09:00 local
}

func TestAllocate_SmallestFreeNumber(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{used: map[string][]int{"2024-05-01": {601, 602}}}
	svc := newTestService(t, Range{601, 700}, ledger, fixedClock("2024-05-01"))

	// 603 reserved by another session, so the smallest free is 604.
	_, err := svc.Allocate(ctx, "sess-owner-of-603")
	require.NoError(t, err)

	alloc, err := svc.Allocate(ctx, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, 604, alloc.Number)
	assert.Equal(t, StatusNew, alloc.Status)
}

func TestAllocate_IdempotentPerSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	first, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, first.Status)

	second, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, StatusExisting, second.Status)
}

func TestAllocate_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := fixedClock("2024-05-01")
	svc := newTestService(t, Range{601, 602}, nil, clk)

	alloc, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	require.Equal(t, 601, alloc.Number)

	// Still blocking one second before the TTL elapses.
	clk.Advance(ReservationTTL - time.Second)
	allocB, err := svc.Allocate(ctx, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, 602, allocB.Number)

	// Past the TTL both holds are stale and 601 is reclaimable.
	clk.Advance(2 * time.Second)
	allocC, err := svc.Allocate(ctx, "sess-c")
	require.NoError(t, err)
	assert.Equal(t, 601, allocC.Number)
	assert.Equal(t, StatusNew, allocC.Status)
}

func TestAllocate_RangeExhausted(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{used: map[string][]int{"2024-05-01": {601, 602}}}
	clk := fixedClock("2024-05-01")
	svc := newTestService(t, Range{601, 602}, ledger, clk)

	_, err := svc.Allocate(ctx, "sess-a")
	require.Error(t, err)
	assert.True(t, apperror.IsRangeExhausted(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", appErr.Details["date"])

	// A different date with no usage is unaffected.
	_, err = svc.SwitchDate(ctx, "2024-05-02")
	require.NoError(t, err)
	alloc, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, 601, alloc.Number)
}

func TestAllocate_LedgerError(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{err: errors.New("connection refused")}
	svc := newTestService(t, Range{601, 700}, ledger, fixedClock("2024-05-01"))

	_, err := svc.Allocate(ctx, "sess-a")
	require.Error(t, err)
	assert.False(t, apperror.IsRangeExhausted(err))
}

func TestReleaseAndConfirm_NoOpSafety(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	alloc, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)

	// Foreign session: silent no-op, reservation stays.
	assert.False(t, svc.Release(ctx, "sess-b", alloc.Number))
	assert.False(t, svc.Confirm(ctx, "sess-b", alloc.Number))

	again, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, StatusExisting, again.Status)

	// Unknown number: also a no-op.
	assert.False(t, svc.Release(ctx, "sess-a", 699))

	// Owner confirm removes the hold; a second confirm is a no-op.
	assert.True(t, svc.Confirm(ctx, "sess-a", alloc.Number))
	assert.False(t, svc.Confirm(ctx, "sess-a", alloc.Number))
}

func TestSwitchDate_ClearsWholeTable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	allocA, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)

	sw, err := svc.SwitchDate(ctx, "2024-05-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", sw.CurrentDate)
	assert.Equal(t, "2024-05-01", sw.PreviousDate)

	// Old reservation is gone: re-allocating on the new date is "new",
	// and switching back shows the old date's hold gone too.
	alloc, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, alloc.Status)

	_, err = svc.SwitchDate(ctx, "2024-05-01")
	require.NoError(t, err)
	back, err := svc.Allocate(ctx, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, allocA.Number, back.Number)
	assert.Equal(t, StatusNew, back.Status)
}

func TestSwitchDate_RejectsMalformed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	alloc, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)

	for _, bad := range []string{"", "01-05-2024", "2024-13-40", "tomorrow"} {
		_, err := svc.SwitchDate(ctx, bad)
		assert.Error(t, err, "date %q", bad)
	}

	// No side effects on failure: the hold survives.
	again, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, alloc.Number, again.Number)
	assert.Equal(t, StatusExisting, again.Status)
}

func TestSetRange_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	tests := []struct {
		name       string
		start, end int
		wantErr    bool
	}{
		{"valid", 1, 500, false},
		{"start equals end", 100, 100, true},
		{"start above end", 200, 100, true},
		{"span too large", 1, 20000, true},
		{"span at cap", 1, 10001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetRange(ctx, tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetRange_KeepsExistingReservations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	alloc, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	require.Equal(t, 601, alloc.Number)

	// Shrinking the range below the held number does not evict it.
	require.NoError(t, svc.SetRange(ctx, 700, 800))
	assert.True(t, svc.Release(ctx, "sess-a", 601))
}

func TestReleaseSession_FreesAllDates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	a1, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	_, err = svc.Allocate(ctx, "sess-b")
	require.NoError(t, err)

	freed := svc.ReleaseSession(ctx, "sess-a")
	assert.ElementsMatch(t, []int{a1.Number}, freed)

	// sess-b untouched.
	again, err := svc.Allocate(ctx, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, StatusExisting, again.Status)
}

func TestSettings_Snapshot(t *testing.T) {
	ctx := context.Background()
	ledger := &fakeLedger{used: map[string][]int{"2024-05-01": {601, 602, 605}}}
	svc := newTestService(t, Range{601, 700}, ledger, fixedClock("2024-05-01"))

	_, err := svc.Allocate(ctx, "sess-a") // reserves 603
	require.NoError(t, err)

	got, err := svc.Settings(ctx)
	require.NoError(t, err)

	assert.Equal(t, 601, got.StartNumber)
	assert.Equal(t, 700, got.EndNumber)
	assert.Equal(t, 606, got.CurrentNumber)
	assert.Equal(t, 605, got.MaxUsedNumber)
	assert.Equal(t, 1, got.BookedCount)
	assert.Equal(t, 95, got.RemainingNumbers)
	assert.Equal(t, "2024-05-01", got.CurrentDate)
}

func TestSettings_NothingUsedYet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	got, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 601, got.CurrentNumber)
	assert.Equal(t, 0, got.MaxUsedNumber)
	assert.Equal(t, 100, got.RemainingNumbers)
}

// Front-desk walkthrough from the design discussion: four sessions compete
// for a three-number range.
func TestScenario_ThreeNumberDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 603}, nil, fixedClock("2024-05-01"))

	a, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, 601, a.Number)
	assert.Equal(t, StatusNew, a.Status)

	b, err := svc.Allocate(ctx, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, 602, b.Number)

	aAgain, err := svc.Allocate(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, 601, aAgain.Number)
	assert.Equal(t, StatusExisting, aAgain.Status)

	c, err := svc.Allocate(ctx, "sess-c")
	require.NoError(t, err)
	assert.Equal(t, 603, c.Number)

	_, err = svc.Allocate(ctx, "sess-d")
	require.Error(t, err)
	assert.True(t, apperror.IsRangeExhausted(err))

	require.True(t, svc.Release(ctx, "sess-a", 601))

	d, err := svc.Allocate(ctx, "sess-d")
	require.NoError(t, err)
	assert.Equal(t, 601, d.Number)
	assert.Equal(t, StatusNew, d.Status)
}

// Concurrent sessions must all receive distinct numbers.
func TestAllocate_ConcurrentUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Range{601, 700}, nil, fixedClock("2024-05-01"))

	const workers = 50
	results := make(chan int, workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			alloc, err := svc.Allocate(ctx, string(rune('A'+i%26))+string(rune('0'+i/26)))
			if err != nil {
				results <- -1
				return
			}
			results <- alloc.Number
		}(i)
	}

	seen := make(map[int]bool)
	for i := 0; i < workers; i++ {
		n := <-results
		require.NotEqual(t, -1, n)
		// Distinct sessions may collide only via the idempotent path, which
		// the session-id scheme above avoids for the first 50 workers.
		assert.False(t, seen[n], "number %d issued twice", n)
		seen[n] = true
	}
}
