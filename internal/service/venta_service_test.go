package service

import (
	"context"
	"testing"
	"time"

	"facturapos/internal/dto"
	"facturapos/internal/model"
	"facturapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── stubs ────────────────────────────────────────────────────────────────────

// stubTxManager runs the function directly; rollback is simulated by the
// caller checking the returned error.
type stubTxManager struct{}

func (stubTxManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubVentaRepo struct {
	created *model.Venta
	ventas  []model.Venta
}

func (s *stubVentaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	v.ID = uuid.New()
	s.created = v
	return nil
}
func (s *stubVentaRepo) FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Venta, error) {
	for i := range s.ventas {
		if s.ventas[i].ID == id && s.ventas[i].UserID == userID {
			return &s.ventas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubVentaRepo) ListRecientes(ctx context.Context, userID string) ([]model.Venta, error) {
	return s.ventas, nil
}
func (s *stubVentaRepo) CountHoy(ctx context.Context, userID string) (int64, []model.Venta, error) {
	return int64(len(s.ventas)), s.ventas, nil
}

// stubProductoRepo tracks stock in memory with the same contract as the
// conditional UPDATE: missing product → (false, nil), short stock → error.
type stubProductoRepo struct {
	stock map[uuid.UUID]int
}

func (s *stubProductoRepo) DescontarStockTx(tx *gorm.DB, userID string, id uuid.UUID, cantidad int) (bool, error) {
	actual, ok := s.stock[id]
	if !ok {
		return false, nil
	}
	if actual < cantidad {
		return false, repository.ErrStockInsuficiente
	}
	s.stock[id] = actual - cantidad
	return true, nil
}
func (s *stubProductoRepo) Create(ctx context.Context, p *model.Producto) error { return nil }
func (s *stubProductoRepo) FindByID(ctx context.Context, userID string, id uuid.UUID) (*model.Producto, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubProductoRepo) List(ctx context.Context, userID string, f dto.ProductoFilter) ([]model.Producto, error) {
	return nil, nil
}
func (s *stubProductoRepo) Update(ctx context.Context, p *model.Producto) error { return nil }
func (s *stubProductoRepo) SoftDelete(ctx context.Context, userID string, id uuid.UUID) error {
	return nil
}
func (s *stubProductoRepo) Reactivar(ctx context.Context, userID string, id uuid.UUID) error {
	return nil
}
func (s *stubProductoRepo) Count(ctx context.Context, userID string) (int64, error) { return 0, nil }
func (s *stubProductoRepo) CountStockBajo(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

type stubConfigRepo struct {
	cfg      *model.Configuracion
	contador string
}

func (s *stubConfigRepo) Find(ctx context.Context, userID string) (*model.Configuracion, error) {
	if s.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cfg, nil
}
// FindForUpdateTx seeds a default row for a fresh tenant, mirroring the
// repository contract.
func (s *stubConfigRepo) FindForUpdateTx(tx *gorm.DB, userID string) (*model.Configuracion, error) {
	if s.cfg == nil {
		s.cfg = &model.Configuracion{UserID: userID}
	}
	return s.cfg, nil
}
func (s *stubConfigRepo) Upsert(ctx context.Context, cfg *model.Configuracion, cols []string) error {
	return nil
}
func (s *stubConfigRepo) UpdateContadorTx(tx *gorm.DB, userID string, contador string) error {
	s.contador = contador
	return nil
}

// ── fixtures ─────────────────────────────────────────────────────────────────

func lineaReq(productoID uuid.UUID, cantidad int, precio int64) dto.DetalleVentaRequest {
	p := decimal.NewFromInt(precio)
	return dto.DetalleVentaRequest{
		ProductoID:     productoID.String(),
		Cantidad:       cantidad,
		PrecioUnitario: p,
		Subtotal:       p.Mul(decimal.NewFromInt(int64(cantidad))),
	}
}

func newVentaService(ventas *stubVentaRepo, productos *stubProductoRepo, cfg *stubConfigRepo) VentaService {
	return NewVentaService(stubTxManager{}, ventas, productos, cfg, nil)
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_EmiteFactura(t *testing.T) {
	productoID := uuid.New()
	ventas := &stubVentaRepo{}
	productos := &stubProductoRepo{stock: map[uuid.UUID]int{productoID: 10}}
	cfg := &stubConfigRepo{cfg: &model.Configuracion{
		UserID:              "user-1",
		PrefijoFactura:      "FAC",
		PorcentajeIVA:       "19",
		NumeroFacturaActual: "41",
	}}
	svc := newVentaService(ventas, productos, cfg)

	resp, err := svc.RegistrarVenta(context.Background(), "user-1", dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{lineaReq(productoID, 2, 17500)},
	})
	require.NoError(t, err)

	assert.Equal(t, "FAC000042", resp.NumeroFactura)
	assert.Equal(t, "42", cfg.contador)
	assert.Equal(t, 8, productos.stock[productoID])

	require.NotNil(t, ventas.created)
	v := ventas.created
	assert.True(t, v.Subtotal.Equal(decimal.NewFromInt(35000)))
	assert.True(t, v.IVA.Equal(decimal.NewFromInt(6650)))
	assert.True(t, v.Total.Equal(decimal.NewFromInt(41650)))
	require.Len(t, v.Detalles, 1)
}

func TestRegistrarVenta_PrimeraFacturaSinConfiguracion(t *testing.T) {
	productoID := uuid.New()
	ventas := &stubVentaRepo{}
	productos := &stubProductoRepo{stock: map[uuid.UUID]int{productoID: 5}}
	cfg := &stubConfigRepo{} // fresh tenant, no configuracion row
	svc := newVentaService(ventas, productos, cfg)

	resp, err := svc.RegistrarVenta(context.Background(), "user-1", dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{lineaReq(productoID, 1, 10000)},
	})
	require.NoError(t, err)

	assert.Equal(t, "FAC000001", resp.NumeroFactura)
	assert.Equal(t, "1", cfg.contador)
}

func TestRegistrarVenta_ProductoInexistenteConservaLinea(t *testing.T) {
	existente := uuid.New()
	borrado := uuid.New()
	ventas := &stubVentaRepo{}
	productos := &stubProductoRepo{stock: map[uuid.UUID]int{existente: 5}}
	cfg := &stubConfigRepo{}
	svc := newVentaService(ventas, productos, cfg)

	_, err := svc.RegistrarVenta(context.Background(), "user-1", dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{
			lineaReq(existente, 1, 10000),
			lineaReq(borrado, 3, 5000),
		},
	})
	require.NoError(t, err)

	// The vanished product keeps its line and its money; only the stock
	// decrement is skipped.
	require.Len(t, ventas.created.Detalles, 2)
	assert.Equal(t, existente, ventas.created.Detalles[0].ProductoID)
	assert.Equal(t, borrado, ventas.created.Detalles[1].ProductoID)
	assert.True(t, ventas.created.Subtotal.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, 4, productos.stock[existente])
}

func TestRegistrarVenta_TodosLosProductosInexistentes(t *testing.T) {
	ventas := &stubVentaRepo{}
	productos := &stubProductoRepo{stock: map[uuid.UUID]int{}}
	cfg := &stubConfigRepo{}
	svc := newVentaService(ventas, productos, cfg)

	resp, err := svc.RegistrarVenta(context.Background(), "user-1", dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{lineaReq(uuid.New(), 1, 10000)},
	})
	require.NoError(t, err)

	// The invoice still issues with every requested line on it.
	assert.Equal(t, "FAC000001", resp.NumeroFactura)
	require.NotNil(t, ventas.created)
	require.Len(t, ventas.created.Detalles, 1)
	assert.True(t, ventas.created.Subtotal.Equal(decimal.NewFromInt(10000)))
}

func TestRegistrarVenta_RechazaSobreventa(t *testing.T) {
	productoID := uuid.New()
	ventas := &stubVentaRepo{}
	productos := &stubProductoRepo{stock: map[uuid.UUID]int{productoID: 1}}
	cfg := &stubConfigRepo{}
	svc := newVentaService(ventas, productos, cfg)

	_, err := svc.RegistrarVenta(context.Background(), "user-1", dto.RegistrarVentaRequest{
		Detalles: []dto.DetalleVentaRequest{lineaReq(productoID, 3, 10000)},
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Nil(t, ventas.created)
	assert.Empty(t, cfg.contador) // counter never advanced
}

func TestRegistrarVenta_DescuentoMayorQueSubtotal(t *testing.T) {
	productoID := uuid.New()
	ventas := &stubVentaRepo{}
	productos := &stubProductoRepo{stock: map[uuid.UUID]int{productoID: 5}}
	svc := newVentaService(ventas, productos, &stubConfigRepo{})

	_, err := svc.RegistrarVenta(context.Background(), "user-1", dto.RegistrarVentaRequest{
		Descuento: decimal.NewFromInt(20000),
		Detalles:  []dto.DetalleVentaRequest{lineaReq(productoID, 1, 10000)},
	})
	require.NoError(t, err)

	// Negative totals are stored as computed, not clamped.
	assert.True(t, ventas.created.Total.IsNegative())
}

func TestListVentas_NombreClienteGeneral(t *testing.T) {
	clienteID := uuid.New()
	ventas := &stubVentaRepo{ventas: []model.Venta{
		{
			ID:            uuid.New(),
			UserID:        "user-1",
			NumeroFactura: "FAC000001",
			FechaVenta:    time.Now(),
			Estado:        "COMPLETADA",
		},
		{
			ID:            uuid.New(),
			UserID:        "user-1",
			NumeroFactura: "FAC000002",
			ClienteID:     &clienteID,
			FechaVenta:    time.Now(),
			Estado:        "COMPLETADA",
			Cliente:       &model.Cliente{ID: clienteID, Nombre: "Laura Restrepo"},
		},
	}}
	svc := newVentaService(ventas, &stubProductoRepo{}, &stubConfigRepo{})

	items, err := svc.ListVentas(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cliente General", items[0].ClienteNombre)
	assert.Nil(t, items[0].ClienteID)
	assert.Equal(t, "Laura Restrepo", items[1].ClienteNombre)
}

func TestObtenerFacturaPDF(t *testing.T) {
	venta := model.Venta{
		ID:            uuid.New(),
		UserID:        "user-1",
		NumeroFactura: "FAC000007",
		FechaVenta:    time.Now(),
		Subtotal:      decimal.NewFromInt(10000),
		IVA:           decimal.NewFromInt(1900),
		Total:         decimal.NewFromInt(11900),
	}
	ventas := &stubVentaRepo{ventas: []model.Venta{venta}}
	svc := newVentaService(ventas, &stubProductoRepo{}, &stubConfigRepo{})

	raw, numero, err := svc.ObtenerFacturaPDF(context.Background(), "user-1", venta.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC000007", numero)
	assert.Equal(t, "%PDF", string(raw[:4]))

	// Another tenant cannot fetch it.
	_, _, err = svc.ObtenerFacturaPDF(context.Background(), "user-2", venta.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
