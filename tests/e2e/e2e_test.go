//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elianismedina/restaurantposapi/internal/config"
	"github.com/elianismedina/restaurantposapi/internal/infra"
	"github.com/elianismedina/restaurantposapi/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// assertAmount compares money fields by value: the database renders
// numeric(12,2) with trailing zeros, in-memory decimals without.
func assertAmount(t *testing.T, want, got string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	g, err := decimal.NewFromString(got)
	require.NoError(t, err)
	assert.True(t, w.Equal(g), "want %s, got %s", want, got)
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server       *httptest.Server
	token        string // admin JWT
	restaurantID string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pos_test"),
		tcPostgres.WithUsername("pos"),
		tcPostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PriceCacheTTL:      60,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("pos-e2e-secret"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (username, name, email, password_hash, role)
		VALUES ('admin@e2e.test', 'Admin E2E', 'admin@e2e.test', ?, 'admin')
		ON CONFLICT (username) DO NOTHING`, string(hash)).Error)

	restaurantID := "11111111-1111-1111-1111-111111111111"
	require.NoError(t, db.Exec(`INSERT INTO restaurants (id, name)
		VALUES (?, 'Restaurante E2E') ON CONFLICT DO NOTHING`, restaurantID).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "pos-e2e-secret"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, restaurantID: restaurantID}
}

func (env *testEnv) createBranch(t *testing.T) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/branches",
		jsonBody(t, map[string]any{"restaurant_id": env.restaurantID, "name": "Sucursal Centro"}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var branch struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &branch)
	return branch.ID
}

func (env *testEnv) createProduct(t *testing.T, branchID, name string, price float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":      name,
			"price":     price,
			"stock":     stock,
			"branch_id": branchID,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	branchID := env.createBranch(t)
	prodID := env.createProduct(t, branchID, "Gaseosa 500ml", 25.50, 20)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"product_ids":     []string{prodID, prodID},
			"quantities":      []int{2, 1},
			"payment_method":  "cash",
			"amount_tendered": "100",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID          string `json:"id"`
		Total       string `json:"total"`
		ChangeGiven string `json:"change_given"`
		Lines       []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
	}
	decodeJSON(t, saleResp, &sale)
	assertAmount(t, "76.5", sale.Total)
	assertAmount(t, "23.5", sale.ChangeGiven)
	require.Len(t, sale.Lines, 1, "duplicate product ids merge into one line")
	assert.Equal(t, 3, sale.Lines[0].Quantity)

	prodResp := do(t, env.server, "GET", "/v1/products/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 17, prod.Stock)

	regResp := do(t, env.server, "GET", "/v1/cash/register", nil, env.token)
	require.Equal(t, http.StatusOK, regResp.StatusCode)
	var reg struct {
		Balance string `json:"balance"`
	}
	decodeJSON(t, regResp, &reg)
	assertAmount(t, "76.5", reg.Balance)

	listResp := do(t, env.server, "GET",
		fmt.Sprintf("/v1/sales?date=%s", time.Now().Format("2006-01-02")), nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.EqualValues(t, 1, list.Total)
}

func TestE2E_InsufficientStockRejectsWholeBatch(t *testing.T) {
	env := setupTestEnv(t)
	branchID := env.createBranch(t)
	scarce := env.createProduct(t, branchID, "Torta porcion", 40, 2)
	plenty := env.createProduct(t, branchID, "Cafe", 10, 50)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"product_ids":     []string{plenty, scarce},
			"quantities":      []int{1, 5},
			"payment_method":  "cash",
			"amount_tendered": "500",
		}), env.token)
	defer saleResp.Body.Close()
	require.Equal(t, http.StatusBadRequest, saleResp.StatusCode)

	// neither product was touched
	for id, want := range map[string]int{scarce: 2, plenty: 50} {
		resp := do(t, env.server, "GET", "/v1/products/"+id, nil, env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var prod struct {
			Stock int `json:"stock"`
		}
		decodeJSON(t, resp, &prod)
		assert.Equal(t, want, prod.Stock)
	}
}

func TestE2E_SettleTwiceConflicts(t *testing.T) {
	env := setupTestEnv(t)
	branchID := env.createBranch(t)
	prodID := env.createProduct(t, branchID, "Empanada", 15, 30)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"product_ids":     []string{prodID},
			"quantities":      []int{2},
			"payment_method":  "cash",
			"amount_tendered": "30",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)

	// the sale path already settled it, a second settlement must 409
	settleResp := do(t, env.server, "POST", "/v1/cash/transaction",
		jsonBody(t, map[string]any{"sale_id": sale.ID, "amount_tendered": "30"}), env.token)
	defer settleResp.Body.Close()
	assert.Equal(t, http.StatusConflict, settleResp.StatusCode)
}

func TestE2E_DailyClosing(t *testing.T) {
	env := setupTestEnv(t)
	branchID := env.createBranch(t)
	prodID := env.createProduct(t, branchID, "Menu ejecutivo", 150, 10)

	for i := 0; i < 3; i++ {
		resp := do(t, env.server, "POST", "/v1/sales",
			jsonBody(t, map[string]any{
				"product_ids":     []string{prodID},
				"quantities":      []int{1},
				"payment_method":  "cash",
				"amount_tendered": "150",
			}), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	closeResp := do(t, env.server, "POST", "/v1/cash/closing",
		jsonBody(t, map[string]any{"actual_cash": "440"}), env.token)
	require.Equal(t, http.StatusCreated, closeResp.StatusCode)
	var closing struct {
		ExpectedCash string `json:"expected_cash"`
		ActualCash   string `json:"actual_cash"`
		Discrepancy  string `json:"discrepancy"`
	}
	decodeJSON(t, closeResp, &closing)
	assertAmount(t, "450", closing.ExpectedCash)
	assertAmount(t, "440", closing.ActualCash)
	assertAmount(t, "-10", closing.Discrepancy)

	regResp := do(t, env.server, "GET", "/v1/cash/register", nil, env.token)
	require.Equal(t, http.StatusOK, regResp.StatusCode)
	var reg struct {
		Balance string `json:"balance"`
	}
	decodeJSON(t, regResp, &reg)
	assertAmount(t, "0", reg.Balance)

	listResp := do(t, env.server, "GET", "/v1/cash/closings", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var closings []any
	decodeJSON(t, listResp, &closings)
	assert.Len(t, closings, 1)
}

func TestE2E_PublicPriceCheck(t *testing.T) {
	env := setupTestEnv(t)
	branchID := env.createBranch(t)
	prodID := env.createProduct(t, branchID, "Agua mineral", 12.75, 100)

	// no token: price check is public
	for i := 0; i < 2; i++ { // second hit served from cache
		resp := do(t, env.server, "GET", "/v1/prices/"+prodID, nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var price struct {
			ProductID string `json:"product_id"`
			Price     string `json:"price"`
		}
		decodeJSON(t, resp, &price)
		assert.Equal(t, prodID, price.ProductID)
		assertAmount(t, "12.75", price.Price)
	}
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)
	branchID := env.createBranch(t)

	createResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username": "caja1@e2e.test",
			"password": "caja-secret",
			"name":     "Cajero Uno",
			"role":     "cashier",
		}), env.token)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	createResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "caja1@e2e.test", "password": "caja-secret"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	// cashiers cannot create products
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "X", "price": 1.0, "stock": 1, "branch_id": branchID}), login.AccessToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// bad credentials are rejected
	badResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "caja1@e2e.test", "password": "wrong"}), "")
	defer badResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, badResp.StatusCode)
}
