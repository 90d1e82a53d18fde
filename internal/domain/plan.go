package domain

import "strings"

// Plan enumerates billing tiers.
type Plan string

const (
	PlanFree      Plan = "free"
	PlanPro       Plan = "pro"
	PlanUnlimited Plan = "unlimited"
)

// ParsePlan normalizes a stored plan value, defaulting to the free tier.
func ParsePlan(raw string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanPro:
		return PlanPro
	case PlanUnlimited:
		return PlanUnlimited
	default:
		return PlanFree
	}
}

// PlanLimits carries the per-cycle generation limits for each billing tier.
// A limit of zero means unlimited.
type PlanLimits struct {
	Free int
	Pro  int
}

// Limit returns the generation limit for the given plan.
func (l PlanLimits) Limit(plan Plan) int {
	switch plan {
	case PlanPro:
		return l.Pro
	case PlanUnlimited:
		return 0
	default:
		return l.Free
	}
}

// Exempt reports whether the plan is a policy exemption from quota
// accounting entirely. Exempt accounts never consume quota; this is checked
// before any arithmetic on the limit.
func (l PlanLimits) Exempt(plan Plan) bool {
	return plan == PlanUnlimited
}
