package handlers

import (
	"bazaar/internal/repos"
	"bazaar/internal/services"

	"github.com/asaskevich/EventBus"
	"github.com/jmoiron/sqlx"
)

type Deps struct {
	MarketHandler  *MarketHandler
	AccountHandler *AccountHandler
	EventsHandler  *EventsHandler
	AuthHandler    *AuthHandler
	Auth           *services.AuthService
	Feed           *services.FeedService
}

func NewDeps(db *sqlx.DB, bus EventBus.Bus) *Deps {
	prodRepo := repos.NewProductRepo(db)
	acctRepo := repos.NewAccountRepo(db)
	eventRepo := repos.NewEventRepo(db)
	tokenRepo := repos.NewTokenRepo(db)

	ledgerSvc := services.NewLedgerService(db, prodRepo, acctRepo, eventRepo, bus)
	feedSvc := services.NewFeedService(eventRepo)
	authSvc := &services.AuthService{Tokens: tokenRepo, Accounts: acctRepo}

	return &Deps{
		MarketHandler:  &MarketHandler{Ledger: ledgerSvc},
		AccountHandler: &AccountHandler{Accounts: acctRepo},
		EventsHandler:  &EventsHandler{Feed: feedSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		Auth:           authSvc,
		Feed:           feedSvc,
	}
}
