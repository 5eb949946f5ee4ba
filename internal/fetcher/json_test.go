package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonItem struct {
	Title string `json:"title"`
	Tier  int    `json:"tier"`
}

func TestDecodeArray(t *testing.T) {
	input := `[{"title":"Food Pantry","tier":1},{"title":"Crisis Line","tier":3}]`

	items, err := DecodeArray[jsonItem](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Food Pantry", items[0].Title)
	assert.Equal(t, 3, items[1].Tier)
}

func TestDecodeArrayEmpty(t *testing.T) {
	items, err := DecodeArray[jsonItem](strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeArrayEmptyInput(t *testing.T) {
	items, err := DecodeArray[jsonItem](strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestDecodeArrayNotAnArray(t *testing.T) {
	_, err := DecodeArray[jsonItem](strings.NewReader(`{"title":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected json array")
}

func TestDecodeArrayMalformedElement(t *testing.T) {
	_, err := DecodeArray[jsonItem](strings.NewReader(`[{"title":}]`))
	require.Error(t, err)
}
