//go:build integration

package router

// Integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"facturapos/internal/config"
	"facturapos/internal/identity"
	"facturapos/internal/infra"
	"facturapos/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const testSecret = "integration-test-secret-key"

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

func mintToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("facturapos_test"),
		tcPostgres.WithUsername("facturapos"),
		tcPostgres.WithPassword("facturapos"),
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
		Port:           8000,
		Env:            "test",
		JWTSecret:      testSecret,
		DatabaseURL:    pgURL,
		RedisURL:       rdURL,
		WorkerPoolSize: 1,
		PDFStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	verifier, err := identity.NewVerifier(cfg.JWTSecret)
	require.NoError(t, err)

	dispatcher := worker.NewDispatcher(rdb)

	r := New(cfg, db, rdb, verifier, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegration_CicloCompletoDeVenta(t *testing.T) {
	srv := setupTestEnv(t)
	token := mintToken(t, "tenant-1")

	// 1. Create producto
	prodResp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo":        "GAS-500",
			"nombre":        "Gaseosa 500ml",
			"precio_compra": 1500,
			"precio_venta":  2500,
			"stock":         20,
			"stock_minimo":  5,
		}), token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	// 2. Create cliente
	cliResp := do(t, srv, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{
			"tipo_documento":   "CC",
			"numero_documento": "1020304050",
			"nombre":           "Laura Restrepo",
		}), token)
	require.Equal(t, http.StatusCreated, cliResp.StatusCode)
	var cli struct {
		ID string `json:"id"`
	}
	decodeJSON(t, cliResp, &cli)

	// 3. Register venta
	ventaResp := do(t, srv, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"cliente_id": cli.ID,
			"descuento":  0,
			"detalles": []map[string]any{
				{"producto_id": prod.ID, "cantidad": 3, "precio_unitario": 2500, "subtotal": 7500},
			},
		}), token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID            string `json:"id"`
		NumeroFactura string `json:"numero_factura"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, "FAC000001", venta.NumeroFactura)

	// 4. Stock decremented
	getProd := do(t, srv, "GET", "/v1/productos/"+prod.ID, nil, token)
	require.Equal(t, http.StatusOK, getProd.StatusCode)
	var prodAfter struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, getProd, &prodAfter)
	assert.Equal(t, 17, prodAfter.Stock)

	// 5. Counter advanced
	cfgResp := do(t, srv, "GET", "/v1/configuracion", nil, token)
	require.Equal(t, http.StatusOK, cfgResp.StatusCode)
	var cfgBody struct {
		NumeroFacturaActual string `json:"numero_factura_actual"`
	}
	decodeJSON(t, cfgResp, &cfgBody)
	assert.Equal(t, "1", cfgBody.NumeroFacturaActual)

	// 6. Listing shows the sale with the customer's name
	listResp := do(t, srv, "GET", "/v1/ventas", nil, token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var items []struct {
		NumeroFactura string `json:"numero_factura"`
		ClienteNombre string `json:"cliente_nombre"`
	}
	decodeJSON(t, listResp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Laura Restrepo", items[0].ClienteNombre)

	// 7. PDF downloads
	pdfResp := do(t, srv, "GET", "/v1/ventas/"+venta.ID+"/pdf", nil, token)
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	pdfResp.Body.Close()
}

func TestIntegration_SobreventaRechazada(t *testing.T) {
	srv := setupTestEnv(t)
	token := mintToken(t, "tenant-1")

	prodResp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": "AGU-001", "nombre": "Agua Mineral",
			"precio_compra": 500, "precio_venta": 1000, "stock": 2, "stock_minimo": 1,
		}), token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	ventaResp := do(t, srv, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"detalles": []map[string]any{
				{"producto_id": prod.ID, "cantidad": 5, "precio_unitario": 1000, "subtotal": 5000},
			},
		}), token)
	require.Equal(t, http.StatusConflict, ventaResp.StatusCode)
	ventaResp.Body.Close()

	// Nothing changed: stock intact, counter untouched, no sales listed.
	getProd := do(t, srv, "GET", "/v1/productos/"+prod.ID, nil, token)
	var prodAfter struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, getProd, &prodAfter)
	assert.Equal(t, 2, prodAfter.Stock)

	cfgResp := do(t, srv, "GET", "/v1/configuracion", nil, token)
	var cfgBody struct {
		NumeroFacturaActual string `json:"numero_factura_actual"`
	}
	decodeJSON(t, cfgResp, &cfgBody)
	assert.Equal(t, "0", cfgBody.NumeroFacturaActual)

	listResp := do(t, srv, "GET", "/v1/ventas", nil, token)
	var items []any
	decodeJSON(t, listResp, &items)
	assert.Empty(t, items)
}

func TestIntegration_SoftDeleteProducto(t *testing.T) {
	srv := setupTestEnv(t)
	token := mintToken(t, "tenant-1")

	prodResp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": "CAM-001", "nombre": "Camiseta",
			"precio_compra": 10000, "precio_venta": 20000, "stock": 5, "stock_minimo": 1,
		}), token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	delResp := do(t, srv, "DELETE", "/v1/productos/"+prod.ID, nil, token)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	// Gone from the active listing
	listResp := do(t, srv, "GET", "/v1/productos", nil, token)
	var items []any
	decodeJSON(t, listResp, &items)
	assert.Empty(t, items)

	// Still retrievable by ID, flagged inactive
	getResp := do(t, srv, "GET", "/v1/productos/"+prod.ID, nil, token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var prodAfter struct {
		Activo bool `json:"activo"`
	}
	decodeJSON(t, getResp, &prodAfter)
	assert.False(t, prodAfter.Activo)
}

func TestIntegration_AislamientoEntreTenants(t *testing.T) {
	srv := setupTestEnv(t)
	tokenA := mintToken(t, "tenant-a")
	tokenB := mintToken(t, "tenant-b")

	prodResp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": "SEC-001", "nombre": "Secreto",
			"precio_compra": 100, "precio_venta": 200, "stock": 1, "stock_minimo": 0,
		}), tokenA)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	getResp := do(t, srv, "GET", "/v1/productos/"+prod.ID, nil, tokenB)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()

	listResp := do(t, srv, "GET", "/v1/productos", nil, tokenB)
	var items []any
	decodeJSON(t, listResp, &items)
	assert.Empty(t, items)
}

func TestIntegration_PrimerasVentasConcurrentes(t *testing.T) {
	srv := setupTestEnv(t)
	token := mintToken(t, "tenant-1")

	prodResp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": "PAN-001", "nombre": "Pan Frances",
			"precio_compra": 200, "precio_venta": 500, "stock": 100, "stock_minimo": 10,
		}), token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	// Two first sales race on a tenant that never saved a configuracion.
	// Both must get an invoice number, and the numbers must differ.
	const carreras = 2
	numeros := make([]string, carreras)
	var wg sync.WaitGroup
	for i := 0; i < carreras; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, srv, "POST", "/v1/ventas",
				jsonBody(t, map[string]any{
					"detalles": []map[string]any{
						{"producto_id": prod.ID, "cantidad": 1, "precio_unitario": 500, "subtotal": 500},
					},
				}), token)
			if !assert.Equal(t, http.StatusCreated, resp.StatusCode) {
				resp.Body.Close()
				return
			}
			var venta struct {
				NumeroFactura string `json:"numero_factura"`
			}
			decodeJSON(t, resp, &venta)
			numeros[i] = venta.NumeroFactura
		}(i)
	}
	wg.Wait()

	assert.NotEqual(t, numeros[0], numeros[1])
	assert.ElementsMatch(t, []string{"FAC000001", "FAC000002"}, numeros)

	cfgResp := do(t, srv, "GET", "/v1/configuracion", nil, token)
	var cfgBody struct {
		NumeroFacturaActual string `json:"numero_factura_actual"`
	}
	decodeJSON(t, cfgResp, &cfgBody)
	assert.Equal(t, "2", cfgBody.NumeroFacturaActual)
}

func TestIntegration_VentaConProductoDesaparecido(t *testing.T) {
	srv := setupTestEnv(t)
	token := mintToken(t, "tenant-1")

	prodResp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": "CAF-001", "nombre": "Cafe Molido",
			"precio_compra": 8000, "precio_venta": 10000, "stock": 10, "stock_minimo": 2,
		}), token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	// One line references a product that no longer exists. The sale still
	// goes through with both lines on the invoice; only the real product
	// loses stock.
	desaparecido := uuid.NewString()
	ventaResp := do(t, srv, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"detalles": []map[string]any{
				{"producto_id": prod.ID, "cantidad": 1, "precio_unitario": 10000, "subtotal": 10000},
				{"producto_id": desaparecido, "cantidad": 3, "precio_unitario": 5000, "subtotal": 15000},
			},
		}), token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)

	listResp := do(t, srv, "GET", "/v1/ventas", nil, token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var items []struct {
		Subtotal string `json:"subtotal"`
		Total    string `json:"total"`
	}
	decodeJSON(t, listResp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "25000", items[0].Subtotal)
	assert.Equal(t, "29750", items[0].Total)

	getProd := do(t, srv, "GET", "/v1/productos/"+prod.ID, nil, token)
	var prodAfter struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, getProd, &prodAfter)
	assert.Equal(t, 9, prodAfter.Stock)
}
