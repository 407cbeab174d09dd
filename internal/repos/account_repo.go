package repos

import (
	"errors"

	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoAccount         = errors.New("unknown account")
)

type AccountRepo struct{ db *sqlx.DB }

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Get(address string) (domain.Account, error) {
	var a domain.Account
	err := r.db.Get(&a, `
	  SELECT address, balance, COALESCE(created_at,'') AS created_at
	  FROM accounts WHERE address = ?
	`, address)
	return a, err
}

func (r *AccountRepo) Balance(address string) (int64, error) {
	var b int64
	err := r.db.Get(&b, `SELECT balance FROM accounts WHERE address = ?`, address)
	return b, err
}

// Ensure creates a zero-balance account row if none exists.
func (r *AccountRepo) Ensure(address string) error {
	_, err := r.db.Exec(`
	  INSERT INTO accounts(address, balance) VALUES(?, 0)
	  ON CONFLICT(address) DO NOTHING
	`, address)
	return err
}

// Deposit credits a faucet top-up and returns the new balance.
func (r *AccountRepo) Deposit(address string, amount int64) (int64, error) {
	res, err := r.db.Exec(`UPDATE accounts SET balance = balance + ? WHERE address = ?`, amount, address)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNoAccount
	}
	return r.Balance(address)
}

// TransferTx moves exactly amount from one account to the other inside the
// caller's transaction. The balance >= amount guard rejects overdrafts
// atomically; the caller's rollback undoes a half-applied transfer.
func (r *AccountRepo) TransferTx(tx *sqlx.Tx, from, to string, amount int64) error {
	res, err := tx.Exec(`
	  UPDATE accounts SET balance = balance - ?
	  WHERE address = ? AND balance >= ?
	`, amount, from, amount)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := tx.Get(&exists, `SELECT COUNT(*) FROM accounts WHERE address = ?`, from); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNoAccount
		}
		return ErrInsufficientFunds
	}

	res, err = tx.Exec(`UPDATE accounts SET balance = balance + ? WHERE address = ?`, amount, to)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Recipient cannot accept funds; caller must roll back the debit.
		return ErrNoAccount
	}
	return nil
}
