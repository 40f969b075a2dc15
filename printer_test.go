package makerfetch_test

import (
	"testing"

	"github.com/fwojciec/makerfetch"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalPrinter(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Bambu Lab P2S":       "p2s",
		"Bambu Lab X1 Carbon": "x1c",
		"BL-P001":             "x1c",
		"X1E":                 "x1e",
		"Bambu Lab A1 mini":   "a1mini",
		"A1":                  "a1",
		"Prusa MK4":           "prusamk4",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, makerfetch.CanonicalPrinter(in), in)
	}
}

func TestTargetAliases(t *testing.T) {
	t.Parallel()

	t.Run("expands core-XY cluster members", func(t *testing.T) {
		t.Parallel()

		aliases := makerfetch.TargetAliases("P2S")
		assert.ElementsMatch(t, []string{"x1c", "x1", "x1e", "p1s", "p1p", "p2s"}, aliases)
	})

	t.Run("keeps other printers exact", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"a1mini"}, makerfetch.TargetAliases("A1 mini"))
	})
}

func TestIsCompatiblePrinter(t *testing.T) {
	t.Parallel()

	p2s := makerfetch.TargetAliases("P2S")
	x1c := makerfetch.TargetAliases("X1C")

	assert.True(t, makerfetch.IsCompatiblePrinter("Bambu Lab P2S", p2s))
	assert.True(t, makerfetch.IsCompatiblePrinter("Bambu Lab P2S", x1c))
	assert.True(t, makerfetch.IsCompatiblePrinter("X1 Carbon", p2s))
	assert.False(t, makerfetch.IsCompatiblePrinter("Prusa MK4", p2s))
	assert.False(t, makerfetch.IsCompatiblePrinter("Bambu Lab A1 mini", p2s))
	assert.False(t, makerfetch.IsCompatiblePrinter("unknown", p2s))
	assert.False(t, makerfetch.IsCompatiblePrinter("", p2s))
	assert.True(t, makerfetch.IsCompatiblePrinter("Bambu Lab A1 mini", makerfetch.TargetAliases("A1")))
}
