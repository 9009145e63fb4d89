package engine

// PlayerRef is the immutable identity of a player, safe to hand to outer
// layers.
type PlayerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// OwnableCore is the part shared by every ownable square DTO.
type OwnableCore struct {
	Owner      *PlayerRef `json:"owner,omitempty"` // nil when unowned
	Name       string     `json:"name"`
	BoardIndex int        `json:"board_index"`
	Price      int        `json:"price"`
	SellValue  int        `json:"sell_value"`
}

// StreetInfo is the serializable view of a street square.
type StreetInfo struct {
	OwnableCore
	Rent     int  `json:"rent"`
	Houses   int  `json:"houses"`
	HasHotel bool `json:"has_hotel"`
}

// CompanyInfo is the serializable view of a company square.
type CompanyInfo struct {
	OwnableCore
	Multiplier int `json:"multiplier"`
}

// SavedPlayer is one player's state in a saved game.
type SavedPlayer struct {
	ID           string
	Name         string
	Color        Color
	Cash         int
	Position     int
	InJail       bool
	ReleaseCards int
	Alive        bool
}

// SavedStreet captures ownership and construction of one street square.
type SavedStreet struct {
	SquareIndex int
	OwnerID     string
	Houses      int
	HasHotel    bool
}

// SavedCompany captures ownership of one company square.
type SavedCompany struct {
	SquareIndex int
	OwnerID     string
}

// SavedGame is the complete serializable state of a running game. DeckCards
// preserves exact draw order; when absent (legacy saves), ReleaseCardsOut is
// used to pull that many release cards out of a freshly built deck.
type SavedGame struct {
	CurrentPlayerIndex int
	BankCash           int
	Players            []SavedPlayer
	Streets            []SavedStreet
	Companies          []SavedCompany
	DeckCards          []Card
	ReleaseCardsOut    int
}
