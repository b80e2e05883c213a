package sprite

import (
	"context"
	"testing"

	"github.com/tilegarden/spritepack/pkg/errors"
)

func TestNormalizeDimensions(t *testing.T) {
	shapes := []struct {
		name string
		w, h int
	}{
		{"square", 40, 40},
		{"very wide", 100, 50},
		{"very tall", 10, 90},
	}

	for _, tier := range Tiers {
		for _, shape := range shapes {
			t.Run(tier.Label()+"/"+shape.name, func(t *testing.T) {
				src := Source{Name: shape.name, Data: pngBytes(t, shape.w, shape.h)}
				n, err := Normalize(src, tier)
				if err != nil {
					t.Fatalf("Normalize: %v", err)
				}

				b := n.Image.Bounds()
				if b.Dx() != tier.CanvasSize || b.Dy() != tier.CanvasSize {
					t.Errorf("dims = %dx%d, want %dx%d", b.Dx(), b.Dy(), tier.CanvasSize, tier.CanvasSize)
				}
				if n.Name != tier.Qualify(shape.name) {
					t.Errorf("name = %q, want %q", n.Name, tier.Qualify(shape.name))
				}
			})
		}
	}
}

func TestNormalizeRejectsMalformedBytes(t *testing.T) {
	src := Source{Name: "broken", Data: []byte("definitely not a png")}

	_, err := Normalize(src, Tiers[0])
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Fatalf("Normalize error = %v, want DECODE_FAILED", err)
	}
}

func TestNormalizeAll(t *testing.T) {
	sources := []Source{
		{Name: "hospital", Data: pngBytes(t, 100, 50)},
		{Name: "school", Data: pngBytes(t, 40, 40)},
		{Name: "park", Data: pngBytes(t, 10, 90)},
	}

	normalized, err := NormalizeAll(context.Background(), sources, Tiers[1])
	if err != nil {
		t.Fatalf("NormalizeAll: %v", err)
	}

	if len(normalized) != len(sources) {
		t.Fatalf("len = %d, want %d", len(normalized), len(sources))
	}
	// Results keep source order despite parallel execution.
	for i, src := range sources {
		if normalized[i].Name != Tiers[1].Qualify(src.Name) {
			t.Errorf("normalized[%d].Name = %q, want %q", i, normalized[i].Name, Tiers[1].Qualify(src.Name))
		}
	}
}

func TestNormalizeAllFailsFast(t *testing.T) {
	sources := []Source{
		{Name: "good", Data: pngBytes(t, 26, 26)},
		{Name: "bad", Data: []byte("garbage")},
	}

	_, err := NormalizeAll(context.Background(), sources, Tiers[0])
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Fatalf("NormalizeAll error = %v, want DECODE_FAILED", err)
	}
}
