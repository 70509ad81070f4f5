package types

import "time"

// Artwork is the canonical artwork shape used throughout the client.
// Price is in the base currency unit; nil means the price is unknown.
type Artwork struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ArtistID    string   `json:"artistId,omitempty"`
	ArtistName  string   `json:"artistName"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Category    string   `json:"category,omitempty"`
	Medium      string   `json:"medium,omitempty"`
	Year        int      `json:"year,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`
	Description string   `json:"description,omitempty"`
	IsForSale   bool     `json:"isForSale"`
	Likes       int      `json:"likes"`
	Featured    bool     `json:"featured,omitempty"`
}

// Purchasable reports whether the artwork can go into a cart.
func (a Artwork) Purchasable() bool {
	return a.IsForSale && a.Price != nil && *a.Price > 0
}

type Artist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Bio          string `json:"bio,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Area         string `json:"area,omitempty"`
	Featured     bool   `json:"featured,omitempty"`
	ArtworkCount int    `json:"artworkCount"`
}

// CartLineItem is one line of the client cart, keyed by artwork id.
type CartLineItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ArtistName string  `json:"artistName"`
	UnitPrice  float64 `json:"price"`
	ImageRef   string  `json:"image,omitempty"`
	Quantity   int     `json:"quantity"`
}

// LineItemFromArtwork snapshots an artwork into a quantity-1 cart line.
func LineItemFromArtwork(a Artwork) CartLineItem {
	var price float64
	if a.Price != nil {
		price = *a.Price
	}
	return CartLineItem{
		ID:         a.ID,
		Title:      a.Title,
		ArtistName: a.ArtistName,
		UnitPrice:  price,
		ImageRef:   a.ImageURL,
		Quantity:   1,
	}
}

// FavoriteEntry is a favourited artwork with the snapshot taken at favourite time.
type FavoriteEntry struct {
	ArtworkID  string   `json:"artworkId"`
	Title      string   `json:"title"`
	ArtistName string   `json:"artistName"`
	ImageRef   string   `json:"image,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Category   string   `json:"category,omitempty"`
}

// FavoriteFromArtwork snapshots the denormalised fields of an artwork.
func FavoriteFromArtwork(a Artwork) FavoriteEntry {
	var price *float64
	if a.Price != nil {
		p := *a.Price
		price = &p
	}
	return FavoriteEntry{
		ArtworkID:  a.ID,
		Title:      a.Title,
		ArtistName: a.ArtistName,
		ImageRef:   a.ImageURL,
		Price:      price,
		Category:   a.Category,
	}
}

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Address is a saved shipping address.
type Address struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault,omitempty"`
}

// ShippingDetails is the shipping form as submitted with an order.
type ShippingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type Order struct {
	ID            string          `json:"id"`
	Items         []CartLineItem  `json:"items"`
	Shipping      ShippingDetails `json:"shipping"`
	PaymentMethod string          `json:"paymentMethod"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	ShippingFee   float64         `json:"shippingFee"`
	GrandTotal    float64         `json:"grandTotal"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ArtworkFilter narrows artwork listings. Zero values mean "no filter".
type ArtworkFilter struct {
	Category string
	Medium   string
	ArtistID string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	ForSale  *bool
}
