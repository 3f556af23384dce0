package geom

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/aucupo/dcelkit/pkg/geomerr"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RandomColor returns an opaque color drawn from rng.
func RandomColor(rng *rand.Rand) Color {
	return RGB(rng.Float32(), rng.Float32(), rng.Float32())
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	const op = "geom.ParseHex"
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, geomerr.InvalidArgument(op, "%q is not #rrggbb or #rrggbbaa", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, geomerr.InvalidArgument(op, "%q: %v", s, err)
	}
	if len(h) == 6 {
		n = n<<8 | 0xff
	}
	return Color{
		R: float32(n>>24&0xff) / 255,
		G: float32(n>>16&0xff) / 255,
		B: float32(n>>8&0xff) / 255,
		A: float32(n&0xff) / 255,
	}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) Hex() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}
