package domain

import (
	"errors"
	"strings"
	"testing"
)

func validProfile() BusinessProfile {
	return BusinessProfile{
		Name:        "Salão Bela Vista",
		Phone:       "(31) 96666-5555",
		Description: "Cortes, escova e manicure.",
	}
}

func TestValidateAcceptsMinimalProfile(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateWhatsAppSatisfiesContactRequirement(t *testing.T) {
	p := validProfile()
	p.Phone = ""
	p.WhatsApp = "+55 31 96666-5555"
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BusinessProfile)
	}{
		{name: "missing name", mutate: func(p *BusinessProfile) { p.Name = " " }},
		{name: "missing contact", mutate: func(p *BusinessProfile) { p.Phone = ""; p.WhatsApp = "" }},
		{name: "missing description", mutate: func(p *BusinessProfile) { p.Description = "" }},
		{name: "oversized name", mutate: func(p *BusinessProfile) { p.Name = strings.Repeat("a", MaxNameLength+1) }},
		{name: "oversized description", mutate: func(p *BusinessProfile) { p.Description = strings.Repeat("a", MaxDescriptionLength+1) }},
		{name: "oversized phone", mutate: func(p *BusinessProfile) { p.Phone = strings.Repeat("9", MaxContactLength+1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("Validate error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestContactFieldsSkipsEmptyValues(t *testing.T) {
	p := validProfile()
	p.Instagram = "  "
	fields := p.ContactFields()
	if _, ok := fields["instagram"]; ok {
		t.Fatal("blank instagram made it into contact fields")
	}
	if fields["name"] != p.Name || fields["phone"] != p.Phone {
		t.Fatalf("unexpected contact fields: %+v", fields)
	}
}

func TestAddressJoinsComponents(t *testing.T) {
	p := BusinessProfile{AddressStreet: "Rua A, 1", AddressCity: "Belo Horizonte"}
	if got := p.Address(); got != "Rua A, 1, Belo Horizonte" {
		t.Fatalf("Address() = %q", got)
	}
	p.AddressCity = ""
	if got := p.Address(); got != "Rua A, 1" {
		t.Fatalf("Address() = %q", got)
	}
}

func TestParseNicheTag(t *testing.T) {
	tests := []struct {
		raw  string
		want NicheTag
	}{
		{raw: "food-service", want: NicheFoodService},
		{raw: " Beauty ", want: NicheBeauty},
		{raw: "AUTOMOTIVE", want: NicheAutomotive},
		{raw: "petshop", want: NicheGeneric},
		{raw: "", want: NicheGeneric},
	}
	for _, tc := range tests {
		if got := ParseNicheTag(tc.raw); got != tc.want {
			t.Fatalf("ParseNicheTag(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestPlanLimits(t *testing.T) {
	limits := PlanLimits{Free: 3, Pro: 50}
	if got := limits.Limit(PlanFree); got != 3 {
		t.Fatalf("free limit = %d", got)
	}
	if got := limits.Limit(PlanPro); got != 50 {
		t.Fatalf("pro limit = %d", got)
	}
	if got := limits.Limit(PlanUnlimited); got != 0 {
		t.Fatalf("unlimited limit = %d, want 0", got)
	}
	if !limits.Exempt(PlanUnlimited) || limits.Exempt(PlanFree) {
		t.Fatal("exemption flags are wrong")
	}
}
