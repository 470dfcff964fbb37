package models

// Restaurant represents a restaurant account with its public listing fields.
type Restaurant struct {
	BaseModel
	Email        string  `gorm:"uniqueIndex" json:"email"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	Cuisine      string  `json:"cuisine"`
	Country      string  `json:"country"`
	Description  string  `json:"description"`
	Rating       float64 `json:"rating"`
	ETA          string  `json:"eta"`
	Image        string  `json:"image"`
	Thumbnail    string  `json:"thumbnail"`
	Logo         string  `json:"logo"`

	// Coin earning settings: a customer earns one coin per CoinRate spent,
	// once the order total reaches CoinThreshold. Zero CoinRate disables
	// earning for this restaurant.
	CoinRate      float64 `json:"coin_rate"`
	CoinThreshold float64 `json:"coin_threshold"`

	Foods []Food `json:"foods,omitempty"`
}
