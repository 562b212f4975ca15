package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"alpha", "alpha.json"},
		{"Alpha", "alpha.json"},
		{"Français Général", "francais_general.json"},
		{"España-2024", "espana2024.json"},
		{"Tëst Pörtfolio!!!", "test_portfolio.json"},
		{"Çava Ñandú", "cava_nandu.json"},
		{"My   Patterns", "my_patterns.json"},
		{"  padded  ", "padded.json"},
		{"__under__score__", "under_score.json"},
		{"already.json", "already.json"},
		{"Already.JSON", "already.json"},
		{"tab\tseparated", "tabseparated.json"},
		{"日本語", "document.json"},
		{"!!!", "document.json"},
		{"", "document.json"},
		{".json", "document.json"},
		{"v1.2 beta", "v12_beta.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalFileName(tt.name))
		})
	}
}

func TestCanonicalFileName_Deterministic(t *testing.T) {
	assert.Equal(t, CanonicalFileName("Général"), CanonicalFileName("Général"))
}

func TestCanonicalFileName_Idempotent(t *testing.T) {
	for _, n := range []string{"Français Général", "España-2024", "!!!"} {
		first := CanonicalFileName(n)
		assert.Equal(t, first, CanonicalFileName(first))
	}
}

func TestCollisions(t *testing.T) {
	groups := Collisions([]string{"Alpha", "alpha!", "Beta", "Gamma", "GAMMA"})

	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"Alpha", "alpha!"}, groups["alpha.json"])
	assert.Equal(t, []string{"Gamma", "GAMMA"}, groups["gamma.json"])
	assert.NotContains(t, groups, "beta.json")
}

func TestCollisions_None(t *testing.T) {
	assert.Empty(t, Collisions([]string{"a", "b", "c"}))
	assert.Empty(t, Collisions(nil))
}
