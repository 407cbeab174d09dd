package repos

import "github.com/jmoiron/sqlx"

type TokenRepo struct{ db *sqlx.DB }

func NewTokenRepo(db *sqlx.DB) *TokenRepo { return &TokenRepo{db: db} }

type TokenRow struct {
	ID         string `db:"id"`
	Address    string `db:"address"`
	SecretHash string `db:"secret_hash"`
}

func (r *TokenRepo) Insert(id, address, secretHash string) error {
	_, err := r.db.Exec(`
	  INSERT INTO api_tokens(id, address, secret_hash)
	  VALUES(?, ?, ?)
	`, id, address, secretHash)
	return err
}

func (r *TokenRepo) Get(id string) (TokenRow, error) {
	var t TokenRow
	err := r.db.Get(&t, `SELECT id, address, secret_hash FROM api_tokens WHERE id = ?`, id)
	return t, err
}

func (r *TokenRepo) Revoke(id string) error {
	_, err := r.db.Exec(`DELETE FROM api_tokens WHERE id = ?`, id)
	return err
}
