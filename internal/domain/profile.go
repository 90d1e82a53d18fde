package domain

import (
	"fmt"
	"strings"
)

// Field size bounds for incoming profiles.
const (
	MaxNameLength        = 120
	MaxContactLength     = 80
	MaxDescriptionLength = 2000
)

// BusinessProfile is the immutable input describing a business. It carries no
// identity beyond the request it belongs to.
type BusinessProfile struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	WhatsApp      string `json:"whatsapp,omitempty"`
	Instagram     string `json:"instagram,omitempty"`
	AddressStreet string `json:"address_street,omitempty"`
	AddressCity   string `json:"address_city,omitempty"`
	Description   string `json:"description"`
	LogoRef       string `json:"logo_ref,omitempty"`
}

// Validate checks mandatory fields and size bounds. Violations are wrapped in
// ErrInvalidRequest so callers can map them to a 4xx response.
func (p BusinessProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(p.Phone) == "" && strings.TrimSpace(p.WhatsApp) == "" {
		return fmt.Errorf("%w: phone or whatsapp is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}
	if len(p.Name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRequest, MaxNameLength)
	}
	if len(p.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidRequest, MaxDescriptionLength)
	}
	for field, value := range map[string]string{
		"phone":          p.Phone,
		"whatsapp":       p.WhatsApp,
		"instagram":      p.Instagram,
		"address_street": p.AddressStreet,
		"address_city":   p.AddressCity,
	} {
		if len(value) > MaxContactLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidRequest, field, MaxContactLength)
		}
	}
	return nil
}

// ContactFields returns the non-empty contact values that a generation brief
// must carry verbatim, keyed by field name. Order is not significant; callers
// only check containment.
func (p BusinessProfile) ContactFields() map[string]string {
	fields := map[string]string{}
	add := func(name, value string) {
		if v := strings.TrimSpace(value); v != "" {
			fields[name] = v
		}
	}
	add("name", p.Name)
	add("phone", p.Phone)
	add("whatsapp", p.WhatsApp)
	add("instagram", p.Instagram)
	add("address_street", p.AddressStreet)
	add("address_city", p.AddressCity)
	return fields
}

// Address joins the street and city components for display.
func (p BusinessProfile) Address() string {
	parts := make([]string, 0, 2)
	if v := strings.TrimSpace(p.AddressStreet); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(p.AddressCity); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, ", ")
}
