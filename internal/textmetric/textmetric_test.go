package textmetric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "bothEmpty", a: "", b: "", want: 0},
		{name: "leftEmpty", a: "", b: "abc", want: 3},
		{name: "rightEmpty", a: "abc", b: "", want: 3},
		{name: "equal", a: "campus", b: "campus", want: 0},
		{name: "substitution", a: "cat", b: "car", want: 1},
		{name: "insertion", a: "cat", b: "cart", want: 1},
		{name: "deletion", a: "cart", b: "cat", want: 1},
		{name: "transposition", a: "ab", b: "ba", want: 1},
		{name: "transpositionInside", a: "hello", b: "hlelo", want: 1},
		{name: "classic", a: "kitten", b: "sitting", want: 3},
		{name: "unicode", a: "héllo", b: "hello", want: 1},
		{name: "disjoint", a: "abc", b: "xyz", want: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Distance(tt.a, tt.b))
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"", ""},
		{"a", ""},
		{"typing duel", "typnig duel"},
		{"quick brown fox", "quack brown fix"},
		{"héllo wörld", "hello world"},
	}
	for _, p := range pairs {
		require.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]), "pair %q %q", p[0], p[1])
	}
}

func TestAccuracy_SelfMatchIsPerfect(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "a", "the quick brown fox", "héllo wörld"} {
		require.InDelta(t, 1.0, Accuracy(s, s), 0, "sample %q", s)
	}
}

func TestAccuracy_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample string
		typed  string
		want   float64
	}{
		{name: "bothEmpty", sample: "", typed: "", want: 1},
		{name: "nothingTyped", sample: "abcd", typed: "", want: 0},
		{name: "halfRight", sample: "abcd", typed: "abxy", want: 0.5},
		{name: "swapPenalizedOnce", sample: "ab", typed: "ba", want: 0.5},
		{name: "completelyWrong", sample: "abc", typed: "xyz", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, Accuracy(tt.sample, tt.typed), 1e-9)
		})
	}
}

func TestAccuracy_AlwaysInUnitInterval(t *testing.T) {
	t.Parallel()

	samples := []string{"", "a", "short", "a much longer reference sentence"}
	typed := []string{"", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", "short", "a"}
	for _, s := range samples {
		for _, ty := range typed {
			got := Accuracy(s, ty)
			require.GreaterOrEqual(t, got, 0.0, "sample %q typed %q", s, ty)
			require.LessOrEqual(t, got, 1.0, "sample %q typed %q", s, ty)
		}
	}
}
