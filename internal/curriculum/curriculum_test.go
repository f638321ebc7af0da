package curriculum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	cards := Cards()
	require.NotEmpty(t, cards)
	assert.Equal(t, len(cards), Count())

	seen := map[string]bool{}
	for _, c := range cards {
		assert.NotEmpty(t, c.CardID)
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Text)
		assert.GreaterOrEqual(t, c.BaseLevel, 1)
		assert.LessOrEqual(t, c.BaseLevel, 100)
		assert.False(t, seen[c.CardID], "duplicate card id %s", c.CardID)
		seen[c.CardID] = true
	}
}

func TestCatalogDeclarationOrder(t *testing.T) {
	cards := Cards()
	assert.Equal(t, "S1-C1", cards[0].CardID)
	assert.Equal(t, "실행 흐름과 출력(print)", cards[0].Title)
	assert.Equal(t, 10, cards[0].BaseLevel)
}

func TestByIndexClamps(t *testing.T) {
	first := ByIndex(-10)
	assert.Equal(t, Cards()[0].CardID, first.CardID)

	last := ByIndex(Count() + 10)
	assert.Equal(t, Cards()[Count()-1].CardID, last.CardID)
}

func TestByID(t *testing.T) {
	card, ok := ByID("S1-C2")
	require.True(t, ok)
	assert.Equal(t, "입력(input)과 문자열", card.Title)

	_, ok = ByID("missing")
	assert.False(t, ok)
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(-1))
	assert.Equal(t, 0, ClampIndex(0))
	assert.Equal(t, Count()-1, ClampIndex(Count()))
	assert.Equal(t, Count()-1, ClampIndex(Count()+100))
}
