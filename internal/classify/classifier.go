// Package classify maps free-text business descriptions onto the closed set
// of niche tags. The keyword pass is pure and deterministic; the model
// fallback is isolated behind a narrow interface so tests can swap it for a
// double, and any failure there degrades to the generic tag instead of an
// error.
package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/domain"
)

// Labeler performs a single model-backed classification call.
type Labeler interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const defaultLabelTimeout = 10 * time.Second

// Classifier resolves niche tags in two stages: a fixed keyword table, then
// an optional model fallback constrained to the enumeration.
type Classifier struct {
	labeler Labeler
	timeout time.Duration
	logger  zerolog.Logger
}

func NewClassifier(labeler Labeler, logger zerolog.Logger) *Classifier {
	return &Classifier{labeler: labeler, timeout: defaultLabelTimeout, logger: logger}
}

// Classify always terminates in a valid tag. The same description yields the
// same tag: the keyword stage is pure, and a model failure maps to the fixed
// generic fallback rather than propagating.
func (c *Classifier) Classify(ctx context.Context, description, extra string) domain.NicheTag {
	haystack := strings.ToLower(description + " " + extra)
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				return entry.tag
			}
		}
	}

	if c.labeler == nil {
		return domain.NicheGeneric
	}

	labelCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.labeler.Complete(labelCtx, buildLabelPrompt(description, extra))
	if err != nil {
		c.logger.Warn().Err(err).Msg("classify: model fallback failed, using generic tag")
		return domain.NicheGeneric
	}
	return validateLabel(raw)
}

// validateLabel accepts only values from the closed enumeration. Anything
// else, including prose around the answer, falls back to generic.
func validateLabel(raw string) domain.NicheTag {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, "\"'`.")
	for _, tag := range domain.AllNiches {
		if cleaned == string(tag) {
			return tag
		}
	}
	return domain.NicheGeneric
}

func buildLabelPrompt(description, extra string) string {
	names := make([]string, len(domain.AllNiches))
	for i, tag := range domain.AllNiches {
		names[i] = string(tag)
	}
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Classify the business described below into exactly one of these categories: %s. ", strings.Join(names, ", "))
	sb.WriteString("Answer with the category identifier only, no explanation.\n\nDescription: ")
	sb.WriteString(strings.TrimSpace(description))
	if v := strings.TrimSpace(extra); v != "" {
		sb.WriteString("\nAdditional context: ")
		sb.WriteString(v)
	}
	return sb.String()
}
