package domain

// BriefSource records which path produced a generation brief.
type BriefSource string

const (
	BriefSourceDirector BriefSource = "director"
	BriefSourceTemplate BriefSource = "template"
)

// GenerationBrief is the natural-language specification handed to an image
// generation backend. It is derived once per request and never mutated.
type GenerationBrief struct {
	Text   string
	Niche  NicheTag
	Locale string
	Source BriefSource
}
