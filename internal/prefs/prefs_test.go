package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daybook/internal/store"
)

func TestTheme_DefaultAndRoundTrip(t *testing.T) {
	kv := store.NewMemoryKV()
	p := New(kv, nil)

	assert.Equal(t, ThemeSystem, p.Theme())
	require.NoError(t, p.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, New(kv, nil).Theme())

	assert.Error(t, p.SetTheme("neon"))
}

func TestTheme_MalformedFallsBack(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(KeyTheme, `"dark"`))
	assert.Equal(t, ThemeSystem, New(kv, nil).Theme())
}

func TestNextIndex_Rotates(t *testing.T) {
	p := New(store.NewMemoryKV(), nil)

	var got []int
	for i := 0; i < 5; i++ {
		got = append(got, p.NextIndex(KeyQuoteIndex, 3))
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1}, got)
}

func TestNextIndex_IndependentKeys(t *testing.T) {
	p := New(store.NewMemoryKV(), nil)

	p.NextIndex(KeyQuoteIndex, 10)
	p.NextIndex(KeyQuoteIndex, 10)

	assert.Equal(t, 2, p.Index(KeyQuoteIndex))
	assert.Equal(t, 0, p.Index(KeyAffirmationIndex))
	assert.Equal(t, 0, p.NextIndex(KeyAffirmationIndex, 10))
}

func TestNextIndex_MalformedAndShrunkList(t *testing.T) {
	kv := store.NewMemoryKV()
	p := New(kv, nil)

	require.NoError(t, kv.Set(KeyQuoteIndex, "banana"))
	assert.Equal(t, 0, p.NextIndex(KeyQuoteIndex, 4))

	require.NoError(t, kv.Set(KeyQuoteIndex, "9"))
	assert.Equal(t, 1, p.NextIndex(KeyQuoteIndex, 4))

	assert.Equal(t, 0, p.NextIndex(KeyQuoteIndex, 0))
}

func TestNextQuoteAndAffirmation(t *testing.T) {
	p := New(store.NewMemoryKV(), nil)

	assert.Equal(t, Quotes[0], p.NextQuote())
	assert.Equal(t, Quotes[1], p.NextQuote())
	assert.Equal(t, Affirmations[0], p.NextAffirmation())
}
