package palette

import (
	"math/rand"
	"testing"

	"github.com/san-kum/verlet/internal/dynamo"
)

const magenta dynamo.Color = 0xff00ff

func TestRandomIs24Bit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if c := Random(rng); c > 0xffffff {
			t.Fatalf("colour %x exceeds 24 bits", uint32(c))
		}
	}
}

func TestRainbowDistinct(t *testing.T) {
	n := 12
	seen := make(map[dynamo.Color]bool)
	for i := 0; i < n; i++ {
		seen[Rainbow(i, n)] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct colours, got %d", n, len(seen))
	}
	if Rainbow(0, n) != Rainbow(n, n) {
		t.Error("expected rainbow to wrap")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []dynamo.Color{0, 0xffffff, 0xff00ff, 0x123456} {
		if got := FromColorful(ToColorful(c)); got != c {
			t.Errorf("expected %s, got %s", c.Hex(), got.Hex())
		}
	}
}

func TestFunc(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	mono, err := Func("mono", 5, rng, magenta)
	if err != nil {
		t.Fatal(err)
	}
	if mono(3) != magenta {
		t.Errorf("expected mono colour, got %s", mono(3).Hex())
	}

	rainbow, err := Func("rainbow", 5, rng, 0)
	if err != nil {
		t.Fatal(err)
	}
	if rainbow(1) != Rainbow(1, 5) {
		t.Error("rainbow picker mismatch")
	}

	if _, err := Func("plaid", 5, rng, 0); err == nil {
		t.Error("expected error for unknown palette")
	}
}

func TestShade(t *testing.T) {
	if Shade(0xffffff, 1) != 0 {
		t.Errorf("expected full shade to be black, got %s", Shade(0xffffff, 1).Hex())
	}
	if Shade(magenta, 0) != magenta {
		t.Errorf("expected zero shade to keep colour, got %s", Shade(magenta, 0).Hex())
	}
}
