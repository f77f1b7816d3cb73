package models

// HoldingInput is the payload for creating a holding. Symbol, Quantity and
// AvgPrice are required together: a partial order is rejected.
type HoldingInput struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	PurchaseDate string  `json:"purchase_date,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// HoldingUpdate carries partial updates for an existing holding. Nil fields
// are left untouched.
type HoldingUpdate struct {
	Quantity     *float64 `json:"quantity,omitempty"`
	AvgPrice     *float64 `json:"avg_price,omitempty"`
	PurchaseDate *string  `json:"purchase_date,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

// WatchlistAddInput is the payload for adding a watchlist entry.
type WatchlistAddInput struct {
	Symbol string `json:"symbol"`
	Notes  string `json:"notes,omitempty"`
}

// WatchlistReorderInput carries the complete desired symbol ordering.
type WatchlistReorderInput struct {
	Symbols []string `json:"symbols"`
}

// WatchlistNotesInput carries a notes update for one entry.
type WatchlistNotesInput struct {
	Notes string `json:"notes"`
}
