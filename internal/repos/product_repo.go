package repos

import (
	"errors"

	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, price, seller, owner, purchased, COALESCE(created_at,'') AS created_at`

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) GetTx(tx *sqlx.Tx, id int64) (domain.Product, error) {
	var p domain.Product
	err := tx.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// Count returns the number of products ever listed (ids are dense, so this
// equals the highest assigned id).
func (r *ProductRepo) Count() (int64, error) {
	var n int64
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func (r *ProductRepo) CountTx(tx *sqlx.Tx) (int64, error) {
	var n int64
	err := tx.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

// InsertTx appends a new listing with an explicit id. The caller assigns
// id = count+1 under the ledger lock.
func (r *ProductRepo) InsertTx(tx *sqlx.Tx, p domain.Product) error {
	_, err := tx.Exec(`
	  INSERT INTO products(id, name, price, seller, owner, purchased, created_at)
	  VALUES(?, ?, ?, ?, ?, 0, CURRENT_TIMESTAMP)
	`, p.ID, p.Name, p.Price, p.Seller, p.Owner)
	return err
}

// MarkPurchasedTx flips owner and purchased in one statement so no reader
// can observe one without the other. The purchased=0 guard makes the
// transition one-shot even if a caller raced past the service check.
func (r *ProductRepo) MarkPurchasedTx(tx *sqlx.Tx, id int64, newOwner string) error {
	res, err := tx.Exec(`
	  UPDATE products SET owner = ?, purchased = 1
	  WHERE id = ? AND purchased = 0
	`, newOwner, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.New("product already purchased or missing")
	}
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  ORDER BY id
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}
