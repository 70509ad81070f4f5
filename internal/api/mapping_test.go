package api

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeWire[T any](t *testing.T, body string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestArtworkFromWireVariants(t *testing.T) {
	flat := ArtworkFromWire(decodeWire[types.WireArtwork](t, `{"id":"a1","title":" Dusk ","artistName":"Iyer","artistId":"ar1","price":450,"imageUrl":"x.jpg","isForSale":false}`))
	assert.Equal(t, "Dusk", flat.Title)
	assert.Equal(t, "Iyer", flat.ArtistName)
	assert.False(t, flat.IsForSale)
	assert.Equal(t, "x.jpg", flat.ImageURL)

	nested := ArtworkFromWire(decodeWire[types.WireArtwork](t, `{"_id":"a2","title":"Tide","artist":{"id":"ar2","name":"Rao"},"price":null,"image":"t.jpg"}`))
	assert.Equal(t, "a2", nested.ID)
	assert.Equal(t, "Rao", nested.ArtistName)
	assert.Nil(t, nested.Price)
	assert.Equal(t, "t.jpg", nested.ImageURL)
	assert.False(t, nested.Purchasable())
}

func TestCartFromWireKeepsOneLinePerArtwork(t *testing.T) {
	wire := decodeWire[types.WireCart](t, `{"id":"c1","items":[
		{"id":"l1","artworkId":"a1","quantity":1,"price":100},
		{"id":"l2","artwork":{"id":"a1","title":"Dusk"},"quantity":2},
		{"id":"l3","artwork":{"id":"a2","title":"Tide","price":"250","artistName":"Rao"},"quantity":1},
		{"id":"l4","artworkId":"a3","quantity":0,"price":10},
		{"id":"l5","quantity":1,"price":10}
	]}`)

	cart := CartFromWire(wire)
	require.Len(t, cart.Lines, 2)

	first := cart.Lines[0]
	assert.Equal(t, "l1", first.LineID)
	assert.Equal(t, 3, first.Item.Quantity)
	assert.Equal(t, 100.0, first.Item.UnitPrice)

	second := cart.Lines[1]
	assert.Equal(t, "a2", second.Item.ID)
	assert.Equal(t, 250.0, second.Item.UnitPrice, "price falls back to the embedded artwork")
	assert.Equal(t, "Rao", second.Item.ArtistName)

	assert.Equal(t, []types.CartLineItem{first.Item, second.Item}, cart.Items())
	_, ok := cart.LineFor("a3")
	assert.False(t, ok)
}

func TestFavoritesFromWire(t *testing.T) {
	favs := FavoritesFromWire(decodeWire[[]types.WireFavorite](t, `[
		{"artworkId":"a1","artwork":{"id":"a1","title":"Dusk","price":100,"category":"painting"}},
		{"artwork":{"id":"a2","title":"Tide"}},
		{"artworkId":"a1"},
		{"id":"f-orphan"}
	]`))
	require.Len(t, favs, 2)
	assert.Equal(t, "Dusk", favs[0].Title)
	assert.Equal(t, "painting", favs[0].Category)
	require.NotNil(t, favs[0].Price)
	assert.Equal(t, "a2", favs[1].ArtworkID)
}

func TestUserFromWire(t *testing.T) {
	u := UserFromWire(types.WireUser{LegacyID: "u1", FirstName: "Asha", Email: " a@example.com ", Avatar: "me.png"})
	assert.Equal(t, types.User{ID: "u1", Name: "Asha", Email: "a@example.com", ProfileImage: "me.png"}, u)
}
