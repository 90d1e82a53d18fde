package quota

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"flyergen/internal/domain"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type fakeExecutor struct {
	row       simpleRow
	lastQuery string
	lastArgs  []any
}

func (f *fakeExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.lastQuery, f.lastArgs = query, args
	return pgconn.CommandTag{}, nil
}

func (f *fakeExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	f.lastQuery, f.lastArgs = query, args
	return f.row
}

func (f *fakeExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	f.lastQuery, f.lastArgs = query, args
	return nil, errors.New("not supported")
}

func quotaRow(plan string, consumed int, start time.Time, cycleDays int) simpleRow {
	return simpleRow{scan: func(dest ...any) error {
		*dest[0].(*string) = plan
		*dest[1].(*int) = consumed
		*dest[2].(*time.Time) = start
		*dest[3].(*int) = cycleDays
		return nil
	}}
}

func testLimits() domain.PlanLimits {
	return domain.PlanLimits{Free: 3, Pro: 50}
}

func TestReserveStatusThresholds(t *testing.T) {
	tests := []struct {
		name     string
		plan     string
		consumed int
		want     Status
	}{
		{name: "fresh free user", plan: "free", consumed: 0, want: StatusAllowed},
		{name: "free under threshold", plan: "free", consumed: 1, want: StatusAllowed},
		{name: "free two of three warns", plan: "free", consumed: 2, want: StatusNearLimit},
		{name: "free at limit", plan: "free", consumed: 3, want: StatusBlocked},
		{name: "free over limit", plan: "free", consumed: 4, want: StatusBlocked},
		{name: "pro under threshold", plan: "pro", consumed: 39, want: StatusAllowed},
		{name: "pro near limit", plan: "pro", consumed: 40, want: StatusNearLimit},
		{name: "pro at limit", plan: "pro", consumed: 50, want: StatusBlocked},
		{name: "unlimited never blocks", plan: "unlimited", consumed: 10000, want: StatusAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec := &fakeExecutor{row: quotaRow(tc.plan, tc.consumed, time.Now().UTC(), 30)}
			l := NewLedger(exec, testLimits(), 30)

			status, snap, err := l.Reserve(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("Reserve returned error: %v", err)
			}
			if status != tc.want {
				t.Fatalf("status = %q, want %q", status, tc.want)
			}
			if snap.Consumed != tc.consumed {
				t.Fatalf("snapshot consumed = %d, want %d", snap.Consumed, tc.consumed)
			}
			if len(exec.lastArgs) != 2 || exec.lastArgs[0] != "user-1" {
				t.Fatalf("unexpected query args: %#v", exec.lastArgs)
			}
		})
	}
}

func TestReservePropagatesStorageFailure(t *testing.T) {
	exec := &fakeExecutor{row: simpleRow{scan: func(dest ...any) error {
		return errors.New("connection reset")
	}}}
	l := NewLedger(exec, testLimits(), 30)

	_, _, err := l.Reserve(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("error lost cause: %v", err)
	}
}

func TestCommitReturnsNewCount(t *testing.T) {
	exec := &fakeExecutor{row: simpleRow{scan: func(dest ...any) error {
		*dest[0].(*int) = 2
		return nil
	}}}
	l := NewLedger(exec, testLimits(), 30)

	consumed, err := l.Commit(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
}

func TestCommitExemptPlanIsNoOp(t *testing.T) {
	// The update statement filters out exempt plans, so no row comes back.
	exec := &fakeExecutor{row: simpleRow{}}
	l := NewLedger(exec, testLimits(), 30)

	consumed, err := l.Commit(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if consumed != 0 {
		t.Fatalf("consumed = %d, want 0", consumed)
	}
}

func TestSnapshotUnknownUserReportsFreshFreeQuota(t *testing.T) {
	exec := &fakeExecutor{row: simpleRow{}}
	l := NewLedger(exec, testLimits(), 30)

	status, snap, err := l.Snapshot(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if status != StatusAllowed {
		t.Fatalf("status = %q, want ALLOWED", status)
	}
	if snap.Plan != domain.PlanFree || snap.Consumed != 0 || snap.Limit != 3 {
		t.Fatalf("snapshot = %+v, want fresh free quota", snap)
	}
}

func TestSnapshotReportsLapsedCycleAsRolledOver(t *testing.T) {
	start := time.Now().UTC().Add(-31 * 24 * time.Hour)
	exec := &fakeExecutor{row: quotaRow("free", 3, start, 30)}
	l := NewLedger(exec, testLimits(), 30)

	status, snap, err := l.Snapshot(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if status != StatusAllowed {
		t.Fatalf("status = %q, want ALLOWED after rollover", status)
	}
	if snap.Consumed != 0 {
		t.Fatalf("consumed = %d, want 0 after rollover", snap.Consumed)
	}
}

func TestSnapshotCurrentCycleIsUntouched(t *testing.T) {
	start := time.Now().UTC().Add(-10 * 24 * time.Hour)
	exec := &fakeExecutor{row: quotaRow("free", 3, start, 30)}
	l := NewLedger(exec, testLimits(), 30)

	status, snap, err := l.Snapshot(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if status != StatusBlocked {
		t.Fatalf("status = %q, want BLOCKED mid-cycle", status)
	}
	if snap.Consumed != 3 {
		t.Fatalf("consumed = %d, want 3", snap.Consumed)
	}
}
