// Package director turns structured business facts plus a niche into the
// single generation brief that drives the provider chain. Contact data must
// survive verbatim: if the text backend paraphrases or drops a mandatory
// field, the director discards its output and assembles the deterministic
// template brief instead.
package director

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/domain"
	"flyergen/internal/domain/stylecfg"
)

// TextBackend produces free text from a prompt. The Gemini client satisfies
// this; tests use a local double.
type TextBackend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const defaultComposeTimeout = 20 * time.Second

type Director struct {
	backend TextBackend
	timeout time.Duration
	logger  zerolog.Logger
}

func NewDirector(backend TextBackend, logger zerolog.Logger) *Director {
	return &Director{backend: backend, timeout: defaultComposeTimeout, logger: logger}
}

// Compose produces the generation brief for one request. The returned brief
// always contains every non-empty mandatory contact field as a literal
// substring; the template fallback guarantees this even when the backend is
// down, so Compose itself never fails on a valid profile.
func (d *Director) Compose(ctx context.Context, profile domain.BusinessProfile, niche domain.NicheTag, style stylecfg.Style, locale string) (domain.GenerationBrief, error) {
	if err := profile.Validate(); err != nil {
		return domain.GenerationBrief{}, err
	}

	if d.backend != nil {
		composeCtx, cancel := context.WithTimeout(ctx, d.timeout)
		text, err := d.backend.Complete(composeCtx, buildComposePrompt(profile, niche, style, locale))
		cancel()
		if err == nil {
			if missing := missingContactFields(text, profile); len(missing) == 0 {
				return domain.GenerationBrief{
					Text:   strings.TrimSpace(text),
					Niche:  niche,
					Locale: locale,
					Source: domain.BriefSourceDirector,
				}, nil
			} else {
				d.logger.Warn().Strs("missing", missing).Msg("director: backend brief dropped contact fields, using template")
			}
		} else {
			d.logger.Warn().Err(err).Msg("director: backend failed, using template brief")
		}
	}

	return templateBrief(profile, niche, style, locale), nil
}

// missingContactFields returns the names of mandatory fields whose verbatim
// value does not appear in the candidate text.
func missingContactFields(text string, profile domain.BusinessProfile) []string {
	var missing []string
	for name, value := range profile.ContactFields() {
		if !strings.Contains(text, value) {
			missing = append(missing, name)
		}
	}
	return missing
}

func buildComposePrompt(profile domain.BusinessProfile, niche domain.NicheTag, style stylecfg.Style, locale string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are an art director writing a detailed brief for a marketing flyer image. ")
	fmt.Fprintf(sb, "Write in locale %q. The flyer is for a %s business. ", locale, niche)
	fmt.Fprintf(sb, "Visual tone: %s. Background color %s, accent color %s, text color %s.", style.Tone, style.Background, style.Accent, style.TextColor)
	if len(style.Motifs) > 0 {
		fmt.Fprintf(sb, " Suggested motifs: %s.", strings.Join(style.Motifs, ", "))
	}
	sb.WriteString("\n\nThe brief MUST reproduce each of the following values exactly as written, character for character:\n")
	for name, value := range profile.ContactFields() {
		fmt.Fprintf(sb, "- %s: %s\n", name, value)
	}
	fmt.Fprintf(sb, "\nBusiness description: %s\n", strings.TrimSpace(profile.Description))
	sb.WriteString("\nDescribe the layout, imagery, and all text that must appear on the flyer. Respond with the brief only.")
	return sb.String()
}
