package bulk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchNameExact(t *testing.T) {
	candidates := []string{"Leather Wallet", "Phone Case", "Charger"}

	idx, ok := matchName(candidates, "phone case")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	idx, ok = matchName(candidates, "  CHARGER ")
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestMatchNameContains(t *testing.T) {
	candidates := []string{"Leather Wallet", "Phone Case"}

	// Target contained in candidate.
	idx, ok := matchName(candidates, "wallet")
	require.True(t, ok)
	require.Equal(t, 0, idx)

	// Candidate contained in target.
	idx, ok = matchName(candidates, "black phone case XL")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestMatchNameDiacritics(t *testing.T) {
	// Vocalized Arabic matches its bare spelling.
	candidates := []string{"القاهرة", "الجيزة"}
	idx, ok := matchName(candidates, "الجِيزَة")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestMatchNameMisses(t *testing.T) {
	candidates := []string{"Leather Wallet"}

	_, ok := matchName(candidates, "shoes")
	require.False(t, ok)

	_, ok = matchName(candidates, "")
	require.False(t, ok)

	_, ok = matchName(nil, "anything")
	require.False(t, ok)
}

func TestMatchNamePrefersExactOverContains(t *testing.T) {
	candidates := []string{"Phone Case XL", "Phone Case"}
	idx, ok := matchName(candidates, "Phone Case")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}
