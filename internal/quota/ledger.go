// Package quota implements the persistent per-user generation ledger. All
// mutation happens through single SQL statements so that concurrent
// orchestrator instances cannot lose updates; the application never performs
// a read-modify-write on the counter.
package quota

import (
	"context"
	"fmt"
	"time"

	"flyergen/internal/domain"
	"flyergen/internal/infra"
	"flyergen/internal/sqlinline"
)

// Status classifies the outcome of a quota check.
type Status string

const (
	StatusAllowed   Status = "ALLOWED"
	StatusNearLimit Status = "NEAR_LIMIT"
	StatusBlocked   Status = "BLOCKED"
)

// nearLimitNumerator/Denominator encode the 80% warning threshold without
// floating point. The boundary is floored so that 2 of 3 already warns.
const (
	nearLimitNumerator   = 4
	nearLimitDenominator = 5
)

// Snapshot is the ledger state observed by a Reserve or Snapshot call.
type Snapshot struct {
	Plan       domain.Plan
	Consumed   int
	Limit      int
	CycleStart time.Time
	CycleDays  int
}

// Ledger answers "may this user generate now?" and records consumption.
type Ledger struct {
	sql       infra.SQLExecutor
	limits    domain.PlanLimits
	cycleDays int
}

func NewLedger(sql infra.SQLExecutor, limits domain.PlanLimits, cycleDays int) *Ledger {
	return &Ledger{sql: sql, limits: limits, cycleDays: cycleDays}
}

// Reserve checks whether the user may generate now. The underlying statement
// lazily creates the record on first use and resets the cycle when it has
// rolled over; it never increments the counter. Two requests racing just
// under the limit may both observe an allowed status and overshoot by one
// unit; that bounded slack is the documented tradeoff of the
// commit-only-on-success model.
func (l *Ledger) Reserve(ctx context.Context, userID string) (Status, Snapshot, error) {
	row := l.sql.QueryRow(ctx, sqlinline.QReserveQuota, userID, l.cycleDays)
	var (
		plan      string
		consumed  int
		start     time.Time
		cycleDays int
	)
	if err := row.Scan(&plan, &consumed, &start, &cycleDays); err != nil {
		return "", Snapshot{}, fmt.Errorf("quota: reserve %s: %w", userID, err)
	}
	snap := l.snapshot(domain.ParsePlan(plan), consumed, start, cycleDays)
	return l.status(snap), snap, nil
}

// Commit atomically increments the user's consumption by exactly one. Exempt
// plans match zero rows and keep their counter untouched.
func (l *Ledger) Commit(ctx context.Context, userID string) (int, error) {
	row := l.sql.QueryRow(ctx, sqlinline.QCommitQuota, userID)
	var consumed int
	if err := row.Scan(&consumed); err != nil {
		if infra.IsNoRows(err) {
			// Unlimited-tier account: the exemption predicate filtered the row.
			return 0, nil
		}
		return 0, fmt.Errorf("quota: commit %s: %w", userID, err)
	}
	return consumed, nil
}

// Snapshot returns the current ledger state without mutating it. A cycle
// that has lapsed is reported as rolled over (consumed zero) even though the
// stored row is untouched; the next Reserve performs the actual reset.
func (l *Ledger) Snapshot(ctx context.Context, userID string) (Status, Snapshot, error) {
	row := l.sql.QueryRow(ctx, sqlinline.QSelectQuota, userID)
	var (
		plan      string
		consumed  int
		start     time.Time
		cycleDays int
	)
	if err := row.Scan(&plan, &consumed, &start, &cycleDays); err != nil {
		if infra.IsNoRows(err) {
			snap := l.snapshot(domain.PlanFree, 0, time.Now().UTC(), l.cycleDays)
			return l.status(snap), snap, nil
		}
		return "", Snapshot{}, fmt.Errorf("quota: snapshot %s: %w", userID, err)
	}
	if time.Since(start) >= time.Duration(cycleDays)*24*time.Hour {
		consumed = 0
		start = time.Now().UTC()
	}
	snap := l.snapshot(domain.ParsePlan(plan), consumed, start, cycleDays)
	return l.status(snap), snap, nil
}

func (l *Ledger) snapshot(plan domain.Plan, consumed int, start time.Time, cycleDays int) Snapshot {
	return Snapshot{
		Plan:       plan,
		Consumed:   consumed,
		Limit:      l.limits.Limit(plan),
		CycleStart: start,
		CycleDays:  cycleDays,
	}
}

func (l *Ledger) status(snap Snapshot) Status {
	// Policy exemption and unlimited limits are checked before any
	// arithmetic on the limit.
	if l.limits.Exempt(snap.Plan) || snap.Limit <= 0 {
		return StatusAllowed
	}
	if snap.Consumed >= snap.Limit {
		return StatusBlocked
	}
	if snap.Consumed > 0 && snap.Consumed >= snap.Limit*nearLimitNumerator/nearLimitDenominator {
		return StatusNearLimit
	}
	return StatusAllowed
}
