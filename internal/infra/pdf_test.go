package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facturaDatosPrueba(detalles int) *FacturaDatos {
	d := &FacturaDatos{
		NumeroFactura:          "FAC000042",
		FechaVenta:             time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		Subtotal:               decimal.NewFromInt(35000),
		IVA:                    decimal.NewFromInt(6460),
		Descuento:              decimal.NewFromInt(1000),
		Total:                  decimal.NewFromInt(40460),
		EmpresaNombre:          "Tienda Prueba",
		EmpresaNIT:             "900123456-7",
		EmpresaDireccion:       "Calle 1 # 2-3",
		EmpresaTelefono:        "3001234567",
		EmpresaEmail:           "tienda@example.com",
		ClienteNombre:          "Cliente General",
		ClienteTipoDocumento:   "CC",
		ClienteNumeroDocumento: "0",
	}
	for i := 0; i < detalles; i++ {
		d.Detalles = append(d.Detalles, FacturaDetalle{
			Codigo:         "P001",
			Nombre:         "Producto de prueba",
			Cantidad:       2,
			PrecioUnitario: decimal.NewFromInt(5000),
			Subtotal:       decimal.NewFromInt(10000),
		})
	}
	return d
}

func TestGenerarFacturaPDF(t *testing.T) {
	raw, err := GenerarFacturaPDF(facturaDatosPrueba(3))
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestGenerarFacturaPDF_Paginacion(t *testing.T) {
	// Enough rows to overflow one Letter page.
	corta, err := GenerarFacturaPDF(facturaDatosPrueba(3))
	require.NoError(t, err)
	larga, err := GenerarFacturaPDF(facturaDatosPrueba(80))
	require.NoError(t, err)
	assert.Greater(t, len(larga), len(corta))
}

func TestGenerarFacturaPDF_ProductoEliminado(t *testing.T) {
	// Lines whose product was deleted after the sale render with fallbacks.
	datos := facturaDatosPrueba(1)
	datos.Detalles[0].Codigo = ""
	datos.Detalles[0].Nombre = ""
	_, err := GenerarFacturaPDF(datos)
	assert.NoError(t, err)
}

func TestGuardarFacturaPDF(t *testing.T) {
	dir := t.TempDir()
	path, err := GuardarFacturaPDF(facturaDatosPrueba(2), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Factura_FAC000042.pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
