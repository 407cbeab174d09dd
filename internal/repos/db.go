package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed dev principals and balances (idempotent; safe to run every start)
	if err := seedAccounts(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Accounts (value-transfer collaborator state)
CREATE TABLE IF NOT EXISTS accounts(
  address TEXT PRIMARY KEY,
  balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Products (marketplace registry; append-only, ids dense from 1)
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL CHECK (length(name) > 0),
  price INTEGER NOT NULL CHECK (price > 0),
  seller TEXT NOT NULL REFERENCES accounts(address),
  owner TEXT NOT NULL REFERENCES accounts(address),
  purchased INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_owner ON products(owner);

-- Event log (append-only; seq is the global commit order)
CREATE TABLE IF NOT EXISTS events(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);

-- API tokens (identity collaborator; bearer = "<id>.<secret>")
CREATE TABLE IF NOT EXISTS api_tokens(
  id TEXT PRIMARY KEY,
  address TEXT NOT NULL REFERENCES accounts(address),
  secret_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_api_tokens_address ON api_tokens(address);
`
	_, err := db.Exec(schema)
	return err
}

// Dev principals matching the local-chain accounts the original deployment
// hands out. Two Ether-scale balances leave int64 headroom.
const (
	SeedDeployer = "0xdeb107e44a9c5b3d2e1f0a9b8c7d6e5f4a3b2c1d"
	SeedSeller   = "0x5e11e6a8c9b2457d3f01a4e8b6c2d9e0f1a2b3c4"
	SeedBuyer    = "0xb0e8a14f6c3d28b9e5a7f0c1d2e3a4b5c6d7e8f9"

	seedBalance = int64(2_000_000_000_000_000_000)
)

// seedAccounts ensures the three dev principals exist with funded balances
// and a known bearer token each (idempotent).
func seedAccounts(db *sqlx.DB) error {
	type p struct {
		Address, TokenID, Secret string
	}
	seeds := []p{
		{SeedDeployer, "tok-deployer", "dev-deployer-secret"},
		{SeedSeller, "tok-seller", "dev-seller-secret"},
		{SeedBuyer, "tok-buyer", "dev-buyer-secret"},
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM accounts`); err != nil {
		return err
	}
	if n == 0 {
		log.Println("[seed] inserting dev accounts and tokens")
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range seeds {
		if _, err := tx.Exec(`
			INSERT INTO accounts(address, balance)
			VALUES(?, ?)
			ON CONFLICT(address) DO NOTHING
		`, x.Address, seedBalance); err != nil {
			return err
		}
		h, err := bcrypt.GenerateFromPassword([]byte(x.Secret), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO api_tokens(id, address, secret_hash)
			VALUES(?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, x.TokenID, x.Address, string(h)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
