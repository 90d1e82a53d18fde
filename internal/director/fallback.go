package director

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"flyergen/internal/domain"
	"flyergen/internal/domain/stylecfg"
)

// templateBrief assembles a brief by direct string concatenation of the
// niche defaults and the profile fields. It performs no external calls and
// handles every partial-data case, so it cannot fail.
func templateBrief(profile domain.BusinessProfile, niche domain.NicheTag, style stylecfg.Style, locale string) domain.GenerationBrief {
	titler := cases.Title(language.Und)
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "Marketing flyer for %q, a %s business.\n", strings.TrimSpace(profile.Name), niche)
	fmt.Fprintf(sb, "Visual style: %s. Background %s, accent %s, text %s.\n", style.Tone, style.Background, style.Accent, style.TextColor)
	if len(style.Motifs) > 0 {
		fmt.Fprintf(sb, "Motifs: %s.\n", strings.Join(style.Motifs, ", "))
	}
	if desc := strings.TrimSpace(profile.Description); desc != "" {
		fmt.Fprintf(sb, "About the business: %s\n", desc)
	}

	sb.WriteString("The flyer must display, exactly as written:\n")
	fmt.Fprintf(sb, "- Business name: %s\n", strings.TrimSpace(profile.Name))
	if v := strings.TrimSpace(profile.Phone); v != "" {
		fmt.Fprintf(sb, "- %s: %s\n", titler.String(localized(locale, "telefone", "phone")), v)
	}
	if v := strings.TrimSpace(profile.WhatsApp); v != "" {
		fmt.Fprintf(sb, "- WhatsApp: %s\n", v)
	}
	if v := strings.TrimSpace(profile.Instagram); v != "" {
		fmt.Fprintf(sb, "- Instagram: %s\n", v)
	}
	if v := strings.TrimSpace(profile.AddressStreet); v != "" {
		fmt.Fprintf(sb, "- %s: %s\n", titler.String(localized(locale, "endereço", "address")), v)
	}
	if v := strings.TrimSpace(profile.AddressCity); v != "" {
		fmt.Fprintf(sb, "- %s: %s\n", titler.String(localized(locale, "cidade", "city")), v)
	}
	if v := strings.TrimSpace(profile.LogoRef); v != "" {
		fmt.Fprintf(sb, "Include the business logo (reference: %s).\n", v)
	}

	return domain.GenerationBrief{
		Text:   sb.String(),
		Niche:  niche,
		Locale: locale,
		Source: domain.BriefSourceTemplate,
	}
}

func localized(locale, pt, en string) string {
	if strings.HasPrefix(strings.ToLower(locale), "pt") {
		return pt
	}
	return en
}
