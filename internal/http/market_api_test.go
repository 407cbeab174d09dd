package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"bazaar/internal/http/handlers"
	"bazaar/internal/repos"
)

const (
	sellerToken = "tok-seller.dev-seller-secret"
	buyerToken  = "tok-buyer.dev-buyer-secret"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db, EventBus.New())

	app := fiber.New()
	app.Use(requestid.New())
	api := app.Group("/api/v1")
	api.Post("/register", deps.AuthHandler.Register)
	api.Get("/products", deps.MarketHandler.Index)
	api.Get("/products/:id", deps.MarketHandler.Detail)
	api.Post("/products", handlers.RequireCaller(deps.Auth), deps.MarketHandler.Create)
	api.Post("/products/:id/purchase", handlers.RequireCaller(deps.Auth), deps.MarketHandler.Purchase)
	api.Get("/accounts/:address", deps.AccountHandler.Balance)
	api.Post("/accounts/:address/deposit", deps.AccountHandler.Deposit)
	api.Get("/events", deps.EventsHandler.Poll)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestMarketplaceFlow(t *testing.T) {
	app := newApp(t)

	// list
	resp := doJSON(t, app, "POST", "/api/v1/products", sellerToken,
		fiber.Map{"name": "iPhone X", "price": int64(1_000_000_000_000_000_000)})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: want 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID        int64  `json:"id"`
		Owner     string `json:"owner"`
		Purchased bool   `json:"purchased"`
	}
	decode(t, resp, &created)
	if created.ID != 1 || created.Owner != repos.SeedSeller || created.Purchased {
		t.Fatalf("bad created product: %+v", created)
	}

	var sellerBefore struct {
		Balance int64 `json:"balance"`
	}
	decode(t, doJSON(t, app, "GET", "/api/v1/accounts/"+repos.SeedSeller, "", nil), &sellerBefore)

	// purchase
	resp = doJSON(t, app, "POST", "/api/v1/products/1/purchase", buyerToken,
		fiber.Map{"payment": int64(1_000_000_000_000_000_000)})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purchase: want 200, got %d", resp.StatusCode)
	}
	var sold struct {
		Owner     string `json:"owner"`
		Purchased bool   `json:"purchased"`
	}
	decode(t, resp, &sold)
	if sold.Owner != repos.SeedBuyer || !sold.Purchased {
		t.Fatalf("bad sold product: %+v", sold)
	}

	// seller got paid exactly the price
	var sellerAfter struct {
		Balance int64 `json:"balance"`
	}
	decode(t, doJSON(t, app, "GET", "/api/v1/accounts/"+repos.SeedSeller, "", nil), &sellerAfter)
	if sellerAfter.Balance != sellerBefore.Balance+1_000_000_000_000_000_000 {
		t.Fatalf("seller balance: want +1e18, got %d -> %d", sellerBefore.Balance, sellerAfter.Balance)
	}

	// index reflects the sale
	var idx struct {
		ProductCount int64 `json:"product_count"`
		Products     []struct {
			ID        int64  `json:"id"`
			Owner     string `json:"owner"`
			Purchased bool   `json:"purchased"`
		} `json:"products"`
	}
	decode(t, doJSON(t, app, "GET", "/api/v1/products", "", nil), &idx)
	if idx.ProductCount != 1 || len(idx.Products) != 1 || !idx.Products[0].Purchased {
		t.Fatalf("bad index: %+v", idx)
	}

	// event feed has both commits in order
	var feed struct {
		Events []struct {
			Seq  int64  `json:"seq"`
			Kind string `json:"kind"`
		} `json:"events"`
		Next int64 `json:"next"`
	}
	decode(t, doJSON(t, app, "GET", "/api/v1/events", "", nil), &feed)
	if len(feed.Events) != 2 || feed.Events[0].Kind != "product.listed" || feed.Events[1].Kind != "product.purchased" {
		t.Fatalf("bad feed: %+v", feed)
	}
	if feed.Next != feed.Events[1].Seq {
		t.Fatalf("bad cursor: %+v", feed)
	}
}

func TestMarketplaceErrorStatuses(t *testing.T) {
	app := newApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/products", sellerToken, fiber.Map{"name": "", "price": 100})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty name: want 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/api/v1/products", sellerToken, fiber.Map{"name": "Thing", "price": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero price: want 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/v1/products", sellerToken, fiber.Map{"name": "Thing", "price": 1000})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: want 201, got %d", resp.StatusCode)
	}

	// wrong payment
	resp = doJSON(t, app, "POST", "/api/v1/products/1/purchase", buyerToken, fiber.Map{"payment": 500})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("underpay: want 400, got %d", resp.StatusCode)
	}
	// self purchase
	resp = doJSON(t, app, "POST", "/api/v1/products/1/purchase", sellerToken, fiber.Map{"payment": 1000})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("self purchase: want 403, got %d", resp.StatusCode)
	}
	// unknown product
	resp = doJSON(t, app, "POST", "/api/v1/products/99/purchase", buyerToken, fiber.Map{"payment": 1000})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: want 404, got %d", resp.StatusCode)
	}

	// broke buyer hits 402
	var reg struct {
		Token   string `json:"token"`
		Address string `json:"address"`
	}
	decode(t, doJSON(t, app, "POST", "/api/v1/register",
		"", fiber.Map{"address": "0xcafecafecafecafecafecafecafecafecafecafe"}), &reg)
	resp = doJSON(t, app, "POST", "/api/v1/products/1/purchase", reg.Token, fiber.Map{"payment": 1000})
	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("broke buyer: want 402, got %d", resp.StatusCode)
	}

	// fund the new buyer via the faucet and succeed
	resp = doJSON(t, app, "POST", "/api/v1/accounts/"+reg.Address+"/deposit", "", fiber.Map{"amount": 1000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit: want 200, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/api/v1/products/1/purchase", reg.Token, fiber.Map{"payment": 1000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("funded purchase: want 200, got %d", resp.StatusCode)
	}

	// sold product conflicts from now on
	resp = doJSON(t, app, "POST", "/api/v1/products/1/purchase", buyerToken, fiber.Map{"payment": 1000})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("resold: want 409, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/products", "", fiber.Map{"name": "Thing", "price": 100})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "POST", "/api/v1/products", "tok-seller.wrong", fiber.Map{"name": "Thing", "price": 100})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", resp.StatusCode)
	}

	// reads stay public
	resp = doJSON(t, app, "GET", "/api/v1/products", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public read: want 200, got %d", resp.StatusCode)
	}
}
