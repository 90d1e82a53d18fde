package domain

import "strings"

// NicheTag is a closed category describing a business's visual domain.
type NicheTag string

const (
	NicheAutomotive   NicheTag = "automotive"
	NicheFoodService  NicheTag = "food-service"
	NicheBeauty       NicheTag = "beauty"
	NicheFitness      NicheTag = "fitness"
	NicheProfessional NicheTag = "professional-services"
	NicheGeneric      NicheTag = "generic-fallback"
)

// AllNiches lists every valid tag in a fixed order.
var AllNiches = []NicheTag{
	NicheAutomotive,
	NicheFoodService,
	NicheBeauty,
	NicheFitness,
	NicheProfessional,
	NicheGeneric,
}

// ParseNicheTag maps arbitrary input onto the closed enumeration. Unknown
// values resolve to the generic fallback, never to an error.
func ParseNicheTag(raw string) NicheTag {
	candidate := NicheTag(strings.ToLower(strings.TrimSpace(raw)))
	for _, tag := range AllNiches {
		if candidate == tag {
			return tag
		}
	}
	return NicheGeneric
}
