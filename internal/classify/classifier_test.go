package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"flyergen/internal/domain"
)

type stubLabeler struct {
	reply string
	err   error
	calls int
}

func (s *stubLabeler) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestClassifyKeywordTable(t *testing.T) {
	tests := []struct {
		name        string
		description string
		extra       string
		want        domain.NicheTag
	}{
		{
			name:        "food service portuguese",
			description: "Pizza artesanal no forno a lenha, delivery em toda a cidade",
			want:        domain.NicheFoodService,
		},
		{
			name:        "automotive",
			description: "Oficina mecânica com troca de óleo e revisão completa",
			want:        domain.NicheAutomotive,
		},
		{
			name:        "beauty",
			description: "Salão de beleza com manicure e escova progressiva",
			want:        domain.NicheBeauty,
		},
		{
			name:        "fitness english",
			description: "Personal trainer and crossfit classes every morning",
			want:        domain.NicheFitness,
		},
		{
			name:        "professional services",
			description: "Escritório de advocacia e consultoria tributária",
			want:        domain.NicheProfessional,
		},
		{
			name:        "keyword in business name",
			description: "Atendemos toda a região",
			extra:       "Barbearia do Zé",
			want:        domain.NicheBeauty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			labeler := &stubLabeler{reply: "generic-fallback"}
			c := NewClassifier(labeler, zerolog.Nop())
			got := c.Classify(context.Background(), tc.description, tc.extra)
			if got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
			if labeler.calls != 0 {
				t.Fatalf("keyword match still called the labeler %d times", labeler.calls)
			}
		})
	}
}

func TestClassifyKeywordMatchIsDeterministic(t *testing.T) {
	c := NewClassifier(nil, zerolog.Nop())
	description := "Pizzaria e esfiharia, forno a lenha"
	first := c.Classify(context.Background(), description, "")
	for i := 0; i < 10; i++ {
		if got := c.Classify(context.Background(), description, ""); got != first {
			t.Fatalf("classification changed between runs: %q then %q", first, got)
		}
	}
	if first != domain.NicheFoodService {
		t.Fatalf("Classify() = %q, want %q", first, domain.NicheFoodService)
	}
}

func TestClassifyModelFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  domain.NicheTag
	}{
		{name: "clean label", reply: "fitness", want: domain.NicheFitness},
		{name: "label with whitespace", reply: "  automotive \n", want: domain.NicheAutomotive},
		{name: "label with quotes", reply: `"beauty"`, want: domain.NicheBeauty},
		{name: "prose answer falls back", reply: "This looks like a bakery to me", want: domain.NicheGeneric},
		{name: "unknown label falls back", reply: "petshop", want: domain.NicheGeneric},
		{name: "labeler error falls back", err: errors.New("model unavailable"), want: domain.NicheGeneric},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			labeler := &stubLabeler{reply: tc.reply, err: tc.err}
			c := NewClassifier(labeler, zerolog.Nop())
			got := c.Classify(context.Background(), "Serviços diversos para o bairro", "")
			if got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
			if labeler.calls != 1 {
				t.Fatalf("labeler called %d times, want 1", labeler.calls)
			}
		})
	}
}

func TestClassifyWithoutLabelerFallsBackToGeneric(t *testing.T) {
	c := NewClassifier(nil, zerolog.Nop())
	got := c.Classify(context.Background(), "Serviços diversos para o bairro", "")
	if got != domain.NicheGeneric {
		t.Fatalf("Classify() = %q, want %q", got, domain.NicheGeneric)
	}
}
