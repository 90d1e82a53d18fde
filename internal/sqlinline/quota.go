package sqlinline

// QReserveQuota lazily creates the quota record (lowest tier) and performs
// the cycle rollover inside a single upserting statement. The conflict branch
// takes a row lock, so concurrent Reserve calls roll the cycle over exactly
// once. The statement never increments consumed.
const QReserveQuota = `--sql 7f3b9a12-4c8e-4d61-9b2f-6a1d0e5c8f43
insert into quota_records (user_id, plan, consumed, cycle_start, cycle_days, created_at, updated_at)
values ($1::text, 'free', 0, now(), $2::int, now(), now())
on conflict (user_id) do update set
    consumed = case
        when now() - quota_records.cycle_start >= make_interval(days => quota_records.cycle_days)
        then 0
        else quota_records.consumed
    end,
    cycle_start = case
        when now() - quota_records.cycle_start >= make_interval(days => quota_records.cycle_days)
        then now()
        else quota_records.cycle_start
    end,
    updated_at = now()
returning plan, consumed, cycle_start, cycle_days;
`

// QCommitQuota increments consumption atomically at the storage layer.
// Exempt plans never accumulate usage, so the predicate skips them before
// any arithmetic happens.
const QCommitQuota = `--sql c2e4f8d0-1a5b-4e37-8c96-d40b72f1a9e5
update quota_records
set consumed = consumed + 1, updated_at = now()
where user_id = $1::text and plan <> 'unlimited'
returning consumed;
`

// QSelectQuota is a pure read of the quota record. Rollover is computed by
// the caller so this statement never mutates state.
const QSelectQuota = `--sql 9d61c3a7-5e2f-4b08-a4d1-3f87e6b0c254
select plan, consumed, cycle_start, cycle_days
from quota_records
where user_id = $1::text;
`

// QSetUserPlan assigns a plan tier, creating the record when the user has
// never generated before. Used by the operator CLI only.
const QSetUserPlan = `--sql 4a80d5f6-7b13-4c92-b6e8-29c1f4a7d3b0
insert into quota_records (user_id, plan, consumed, cycle_start, cycle_days, created_at, updated_at)
values ($1::text, $2::text, 0, now(), $3::int, now(), now())
on conflict (user_id) do update set
    plan = excluded.plan,
    updated_at = now()
returning user_id, plan, consumed, cycle_start;
`
