package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pharma-stock/internal/domain"
)

// appConError monta una ruta que responde con el error dado, tal como lo
// harían los handlers reales.
func appConError(err error) *fiber.App {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})
	return app
}

func bodyDe(t *testing.T, app *fiber.App) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

// Un error de infraestructura envuelto (SQL, SQLSTATE, contexto del wrap)
// nunca debe llegar al cliente: solo un 500 con mensaje genérico.
func TestRespondError_ErrorNoMapeadoNoFiltraDetalle(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "42P01",
		Message: `relation "lots" does not exist`,
	}
	status, body := bodyDe(t, appConError(fmt.Errorf("insert lot: %w", pgErr)))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "error interno", body["message"])
	assert.NotContains(t, body["message"], "SQLSTATE")
	assert.NotContains(t, body["message"], "insert lot")
}

func TestRespondError_StockInsuficienteLlevaDisponible(t *testing.T) {
	status, body := bodyDe(t, appConError(domain.NewInsufficientStock(7)))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "stock insuficiente", body["message"])
	assert.Equal(t, float64(7), body["available"])
}

func TestRespondError_SentinelesDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidInput, fiber.StatusBadRequest},
		{domain.ErrNotFound, fiber.StatusNotFound},
		{domain.ErrDuplicate, fiber.StatusBadRequest},
		{domain.ErrTxConflict, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, body := bodyDe(t, appConError(tc.err))
		assert.Equal(t, tc.status, status, "error %v", tc.err)
		assert.Equal(t, false, body["success"])
	}
}
