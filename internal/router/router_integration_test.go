//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v
//
// Flows covered:
//   - login → alta de herramienta → retiro kiosco → consulta stock → devolucion
//   - retiro rechazado por stock insuficiente (sin efecto en el libro)
//   - reconciliacion corrige contadores corruptos a partir del libro
//   - ajuste de stock (alta) refleja el nuevo total

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/config"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/infra"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/router"
	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

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

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("eines_test"),
		tcPostgres.WithUsername("eines"),
		tcPostgres.WithPassword("eines"),
		tcPostgres.BasicWaitStrategies(),
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
		AccessCodeLength:   4,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ReportStoragePath:  t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("eines2026"), 12)
	require.NoError(t, err)
	err = db.Exec(`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin.e2e', 'Admin E2E', ?, 'administrador', true, NOW(), NOW())
		ON CONFLICT (username) DO NOTHING`, string(hash)).Error
	require.NoError(t, err)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "eines2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, db: db}
}

func crearHerramienta(t *testing.T, env *testEnv, nombre string, total, minimo int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/herramientas",
		jsonBody(t, map[string]any{
			"nombre":         nombre,
			"tipo":           "comun",
			"cantidad_total": total,
			"stock_minimo":   minimo,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var h struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &h)
	return h.ID
}

func crearOperario(t *testing.T, env *testEnv, nombre string) (id, codigo string) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/operarios",
		jsonBody(t, map[string]any{"nombre": nombre}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var o struct {
		ID           string `json:"id"`
		CodigoAcceso string `json:"codigo_acceso"`
	}
	decodeJSON(t, resp, &o)
	require.Len(t, o.CodigoAcceso, 4)
	return o.ID, o.CodigoAcceso
}

func movimiento(t *testing.T, env *testEnv, tipo, herramientaID, codigo string, cantidad int) *http.Response {
	t.Helper()
	return do(t, env.server, "POST", "/v1/movimientos/"+tipo,
		jsonBody(t, map[string]any{
			"herramienta_id":  herramientaID,
			"codigo_operario": codigo,
			"cantidad":        cantidad,
		}),
		"", // kiosk endpoints carry no JWT
	)
}

func TestE2E_RetiroYDevolucion(t *testing.T) {
	env := setupTestEnv(t)

	hID := crearHerramienta(t, env, "Taladro Bosch GSB", 10, 2)
	_, codigo := crearOperario(t, env, "Marc Vidal")

	// Retiro of 3 units from the kiosk
	resp := movimiento(t, env, "retiro", hID, codigo, 3)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov struct {
		Tipo       string `json:"tipo"`
		Disponible int    `json:"disponible"`
	}
	decodeJSON(t, resp, &mov)
	assert.Equal(t, "retiro", mov.Tipo)
	assert.Equal(t, 7, mov.Disponible)

	// The public stock endpoint reflects the movement
	stockResp := do(t, env.server, "GET", "/v1/stock/"+hID, nil, "")
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var stock struct {
		Stock struct {
			Total      int `json:"cantidad_total"`
			Disponible int `json:"cantidad_disponible"`
			EnUso      int `json:"cantidad_en_uso"`
		} `json:"stock"`
	}
	decodeJSON(t, stockResp, &stock)
	assert.Equal(t, 10, stock.Stock.Total)
	assert.Equal(t, 7, stock.Stock.Disponible)
	assert.Equal(t, 3, stock.Stock.EnUso)

	// Devolucion of the 3 units restores disponible
	resp = movimiento(t, env, "devolucion", hID, codigo, 3)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &mov)
	assert.Equal(t, 10, mov.Disponible)

	// The ledger recorded both movements
	txResp := do(t, env.server, "GET", "/v1/transacciones/recientes", nil, env.token)
	require.Equal(t, http.StatusOK, txResp.StatusCode)
	var txs []map[string]any
	decodeJSON(t, txResp, &txs)
	require.GreaterOrEqual(t, len(txs), 2)
}

func TestE2E_RetiroStockInsuficiente(t *testing.T) {
	env := setupTestEnv(t)

	hID := crearHerramienta(t, env, "Amoladora Makita", 2, 0)
	_, codigo := crearOperario(t, env, "Laia Serra")

	resp := movimiento(t, env, "retiro", hID, codigo, 5)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflicto struct {
		Detail   string `json:"detail"`
		Cantidad int    `json:"cantidad"`
	}
	decodeJSON(t, resp, &conflicto)
	assert.Equal(t, 2, conflicto.Cantidad)

	// Counters stay untouched after the rejection
	stockResp := do(t, env.server, "GET", "/v1/stock/"+hID, nil, "")
	var stock struct {
		Stock struct {
			Disponible int `json:"cantidad_disponible"`
			EnUso      int `json:"cantidad_en_uso"`
		} `json:"stock"`
	}
	decodeJSON(t, stockResp, &stock)
	assert.Equal(t, 2, stock.Stock.Disponible)
	assert.Equal(t, 0, stock.Stock.EnUso)
}

func TestE2E_ReconciliacionCorrigeContadores(t *testing.T) {
	env := setupTestEnv(t)

	hID := crearHerramienta(t, env, "Martillo percutor", 20, 0)
	_, codigo := crearOperario(t, env, "Pau Roca")

	require.Equal(t, http.StatusCreated, movimiento(t, env, "retiro", hID, codigo, 8).StatusCode)
	require.Equal(t, http.StatusCreated, movimiento(t, env, "devolucion", hID, codigo, 2).StatusCode)

	// Corrupt the counters directly, simulating drift from a manual edit
	err := env.db.Exec(
		`UPDATE herramientas SET cantidad_disponible = ?, cantidad_en_uso = ? WHERE id = ?`,
		17, 3, hID,
	).Error
	require.NoError(t, err)

	resp := do(t, env.server, "POST", fmt.Sprintf("/v1/herramientas/%s/reconciliar", hID), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec struct {
		Antes struct {
			Disponible int `json:"cantidad_disponible"`
			EnUso      int `json:"cantidad_en_uso"`
		} `json:"antes"`
		Despues struct {
			Disponible int `json:"cantidad_disponible"`
			EnUso      int `json:"cantidad_en_uso"`
		} `json:"despues"`
		Corregida bool `json:"corregida"`
	}
	decodeJSON(t, resp, &rec)
	assert.True(t, rec.Corregida)
	assert.Equal(t, 17, rec.Antes.Disponible)
	// Ledger says 8 retiros − 2 devoluciones = 6 en uso, 14 disponibles
	assert.Equal(t, 6, rec.Despues.EnUso)
	assert.Equal(t, 14, rec.Despues.Disponible)

	// A second pass finds nothing to fix
	resp = do(t, env.server, "POST", fmt.Sprintf("/v1/herramientas/%s/reconciliar", hID), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &rec)
	assert.False(t, rec.Corregida)
}

func TestE2E_AjusteDeStock(t *testing.T) {
	env := setupTestEnv(t)

	hID := crearHerramienta(t, env, "Nivel laser", 4, 1)

	resp := do(t, env.server, "PATCH", fmt.Sprintf("/v1/herramientas/%s/stock", hID),
		jsonBody(t, map[string]any{"tipo": "alta", "cantidad": 6, "motivo": "compra lote agosto"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h struct {
		CantidadTotal      int `json:"cantidad_total"`
		CantidadDisponible int `json:"cantidad_disponible"`
	}
	decodeJSON(t, resp, &h)
	assert.Equal(t, 10, h.CantidadTotal)
	assert.Equal(t, 10, h.CantidadDisponible)

	// Adjustments show up in the ledger as alta_stock
	txResp := do(t, env.server, "GET", "/v1/transacciones?tipo=alta_stock", nil, env.token)
	require.Equal(t, http.StatusOK, txResp.StatusCode)
}

func TestE2E_KioscoRequiereCodigoValido(t *testing.T) {
	env := setupTestEnv(t)

	hID := crearHerramienta(t, env, "Sierra circular", 5, 0)

	resp := movimiento(t, env, "retiro", hID, "0000", 1)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
