package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"flyergen/internal/domain"
	"flyergen/internal/domain/stylecfg"
	"flyergen/internal/pipeline"
)

func testRequest() pipeline.Request {
	return pipeline.Request{
		RequestID: "req-1",
		Profile: domain.BusinessProfile{
			Name:          "Academia Corpo em Forma",
			Phone:         "(21) 97777-6666",
			Instagram:     "@corpoemforma",
			AddressStreet: "Av. Atlântica, 500",
			AddressCity:   "Rio de Janeiro",
			Description:   "Musculação, crossfit e aulas funcionais.",
		},
		Style: stylecfg.Defaults().For(domain.NicheFitness),
	}
}

func TestGenerateProducesDecodablePNG(t *testing.T) {
	r := NewRenderer()

	result, err := r.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if result.Format != "image/png" {
		t.Fatalf("format = %q, want image/png", result.Format)
	}
	img, err := png.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != result.Width || bounds.Dy() != result.Height {
		t.Fatalf("decoded size %dx%d does not match reported %dx%d", bounds.Dx(), bounds.Dy(), result.Width, result.Height)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	r := NewRenderer()
	req := testRequest()

	first, err := r.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	second, err := r.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatal("identical requests produced different images")
	}
}

func TestGenerateInvalidProfileIsTerminal(t *testing.T) {
	r := NewRenderer()
	req := testRequest()
	req.Profile = domain.BusinessProfile{Name: "No Contacts"}

	_, err := r.Generate(context.Background(), req)
	if err == nil {
		t.Fatal("expected error")
	}
	if pipeline.KindOf(err) != pipeline.KindTerminal {
		t.Fatalf("invalid profile error is %v, want terminal", pipeline.KindOf(err))
	}
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestGenerateCanceledContextIsTransient(t *testing.T) {
	r := NewRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, testRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	if pipeline.KindOf(err) != pipeline.KindTransient {
		t.Fatalf("canceled context error is %v, want transient", pipeline.KindOf(err))
	}
}

func TestGenerateToleratesMalformedStyleColors(t *testing.T) {
	r := NewRenderer()
	req := testRequest()
	req.Style.Background = "not-a-color"
	req.Style.Accent = "#12"
	req.Style.TextColor = ""

	result, err := r.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(result.Data)); err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
}
