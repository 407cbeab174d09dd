package domain

import "encoding/json"

// Product is the sole persisted marketplace entity. Ids are dense and
// strictly increasing starting at 1; a product is never edited or deleted
// after listing, and flips owner/purchased exactly once on sale.
type Product struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Price     int64  `db:"price" json:"price"` // smallest currency unit
	Seller    string `db:"seller" json:"seller"`
	Owner     string `db:"owner" json:"owner"`
	Purchased bool   `db:"purchased" json:"purchased"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Account holds the balance for a principal (wallet address or equivalent).
type Account struct {
	Address   string `db:"address" json:"address"`
	Balance   int64  `db:"balance" json:"balance"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Event is one committed entry of the append-only marketplace log.
// The payload carries the full product record as of the commit.
type Event struct {
	Seq       int64           `db:"seq" json:"seq"`
	Kind      string          `db:"kind" json:"kind"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	CreatedAt string          `db:"created_at" json:"created_at"`
}
