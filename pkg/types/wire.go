package types

// Wire shapes are what the REST API actually sends. They are looser than the
// canonical models: ids may arrive as "_id", artists nested or flat, prices as
// strings. internal/api normalises them; the dev API server emits them.

type WireArtistRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type WireArtwork struct {
	ID          string         `json:"id,omitempty"`
	LegacyID    string         `json:"_id,omitempty"`
	Title       string         `json:"title"`
	Artist      *WireArtistRef `json:"artist,omitempty"`
	ArtistID    string         `json:"artistId,omitempty"`
	ArtistName  string         `json:"artistName,omitempty"`
	Price       FlexNumber     `json:"price"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Image       string         `json:"image,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Category    string         `json:"category,omitempty"`
	Medium      string         `json:"medium,omitempty"`
	Year        int            `json:"year,omitempty"`
	Dimensions  string         `json:"dimensions,omitempty"`
	Description string         `json:"description,omitempty"`
	IsForSale   *bool          `json:"isForSale,omitempty"`
	Likes       int            `json:"likes,omitempty"`
	Featured    bool           `json:"featured,omitempty"`
}

type WireArtist struct {
	ID           string `json:"id,omitempty"`
	LegacyID     string `json:"_id,omitempty"`
	Name         string `json:"name"`
	Bio          string `json:"bio,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Area         string `json:"area,omitempty"`
	Location     string `json:"location,omitempty"`
	Featured     bool   `json:"featured,omitempty"`
	ArtworkCount int    `json:"artworkCount,omitempty"`
}

// WireCartItem is a server-side cart line. ID is the server's line id, not
// the artwork id.
type WireCartItem struct {
	ID        string       `json:"id"`
	ArtworkID string       `json:"artworkId,omitempty"`
	Artwork   *WireArtwork `json:"artwork,omitempty"`
	Quantity  int          `json:"quantity"`
	Price     FlexNumber   `json:"price"`
}

type WireCart struct {
	ID    string         `json:"id,omitempty"`
	Items []WireCartItem `json:"items"`
}

type WireFavorite struct {
	ID        string       `json:"id,omitempty"`
	ArtworkID string       `json:"artworkId,omitempty"`
	Artwork   *WireArtwork `json:"artwork,omitempty"`
}

type WireUser struct {
	ID           string `json:"id,omitempty"`
	LegacyID     string `json:"_id,omitempty"`
	Name         string `json:"name,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

// WireAuth is the body of login and register responses.
type WireAuth struct {
	Token       string   `json:"token,omitempty"`
	AccessToken string   `json:"accessToken,omitempty"`
	User        WireUser `json:"user"`
}

type WireLike struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
