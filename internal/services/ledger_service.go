package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"bazaar/internal/domain"
	"bazaar/internal/repos"

	"github.com/asaskevich/EventBus"
	"github.com/jmoiron/sqlx"
)

// Event topics published after each commit.
const (
	EventProductListed    = "product.listed"
	EventProductPurchased = "product.purchased"
)

var (
	ErrInvalidArgument  = errors.New("invalid name or price")
	ErrNotFound         = errors.New("product not found")
	ErrInvalidPayment   = errors.New("payment must equal listed price")
	ErrAlreadyPurchased = errors.New("product already purchased")
	ErrSelfPurchase     = errors.New("seller cannot buy own product")
	ErrTransferFailed   = errors.New("transfer failed")
)

// LedgerService is the authoritative marketplace state machine. All writes
// go through a single mutex plus one SQL transaction, so a call either
// fully commits (registry row, balance movement, event row) or leaves no
// trace. Reads go straight to the database.
type LedgerService struct {
	mu       sync.Mutex
	db       *sqlx.DB
	Products *repos.ProductRepo
	Accounts *repos.AccountRepo
	Events   *repos.EventRepo
	Bus      EventBus.Bus
}

func NewLedgerService(db *sqlx.DB, products *repos.ProductRepo, accounts *repos.AccountRepo, events *repos.EventRepo, bus EventBus.Bus) *LedgerService {
	return &LedgerService{db: db, Products: products, Accounts: accounts, Events: events, Bus: bus}
}

// List registers a new product owned by caller. Ids are assigned densely
// from 1 under the ledger lock.
func (s *LedgerService) List(caller, name string, price int64) (domain.Product, error) {
	if name == "" || price <= 0 {
		return domain.Product{}, ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	count, err := s.Products.CountTx(tx)
	if err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:     count + 1,
		Name:   name,
		Price:  price,
		Seller: caller,
		Owner:  caller,
	}
	if err := s.Products.InsertTx(tx, p); err != nil {
		return domain.Product{}, err
	}
	if _, err := s.Events.AppendTx(tx, EventProductListed, p); err != nil {
		return domain.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, err
	}

	s.publish(EventProductListed, p)
	return p, nil
}

// Purchase settles a sale: exact payment moves from caller to the current
// owner, then ownership and the purchased flag flip, all in one
// transaction. Precondition failures leave registry and balances
// untouched; first failure wins.
func (s *LedgerService) Purchase(caller string, id, payment int64) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := s.Products.GetTx(tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, err
	}
	if payment != p.Price {
		return domain.Product{}, ErrInvalidPayment
	}
	if p.Purchased {
		return domain.Product{}, ErrAlreadyPurchased
	}
	if caller == p.Owner {
		return domain.Product{}, ErrSelfPurchase
	}

	// Pay the pre-purchase owner; rollback on any failure undoes the debit.
	if err := s.Accounts.TransferTx(tx, caller, p.Owner, p.Price); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := s.Products.MarkPurchasedTx(tx, id, caller); err != nil {
		return domain.Product{}, err
	}

	p.Owner = caller
	p.Purchased = true
	if _, err := s.Events.AppendTx(tx, EventProductPurchased, p); err != nil {
		return domain.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Product{}, err
	}

	s.publish(EventProductPurchased, p)
	return p, nil
}

// Get is a pure read of one product.
func (s *LedgerService) Get(id int64) (domain.Product, error) {
	p, err := s.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

// Count returns the number of products ever listed.
func (s *LedgerService) Count() (int64, error) {
	return s.Products.Count()
}

// Browse pages through listings in id order.
func (s *LedgerService) Browse(limit, offset int) ([]domain.Product, error) {
	return s.Products.List(limit, offset)
}

func (s *LedgerService) publish(topic string, p domain.Product) {
	if s.Bus != nil {
		s.Bus.Publish(topic, p)
	}
}
