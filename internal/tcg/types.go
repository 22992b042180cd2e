package tcg

// ProductRecord is a single product from the marketplace search or
// detail API. Listings carry per-copy offers; CustomAttributes is a
// loosely-typed bag whose fields may be absent on non-card products.
type ProductRecord struct {
	ProductID     int     `json:"productId"`
	ProductName   string  `json:"productName"`
	SetName       string  `json:"setName"`
	SetID         string  `json:"setId"`
	MarketPrice   float64 `json:"marketPrice"`
	LowestPrice   float64 `json:"lowestPrice"`
	TotalListings int     `json:"totalListings"`

	// RarityName is the display rarity; CustomAttributes may carry a
	// rarity code and Rarity a legacy value. Precedence is handled in
	// normalization, not here.
	RarityName string `json:"rarityName"`
	Rarity     string `json:"rarity,omitempty"`

	CustomAttributes *CustomAttributes `json:"customAttributes,omitempty"`
	Listings         []ListingRecord   `json:"listings,omitempty"`
}

// CustomAttributes is the marketplace's per-card attribute bag.
type CustomAttributes struct {
	RarityDbName string   `json:"rarityDbName,omitempty"`
	Number       string   `json:"number,omitempty"`
	HP           string   `json:"hp,omitempty"`
	EnergyType   []string `json:"energyType,omitempty"`
	Attack1      string   `json:"attack1,omitempty"`
	Attack2      string   `json:"attack2,omitempty"`
	Attack3      string   `json:"attack3,omitempty"`
	Attack4      string   `json:"attack4,omitempty"`
}

// ListingRecord is one per-copy marketplace offer.
type ListingRecord struct {
	ProductID int     `json:"productId"`
	Printing  string  `json:"printing"`
	Condition string  `json:"condition"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
