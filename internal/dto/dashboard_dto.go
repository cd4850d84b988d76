package dto

import "github.com/shopspring/decimal"

// DashboardResponse is the GET /v1/dashboard body.
type DashboardResponse struct {
	TotalProductos int64           `json:"total_productos"`
	StockBajo      int64           `json:"stock_bajo"`
	VentasHoy      int64           `json:"ventas_hoy"`
	IngresosHoy    decimal.Decimal `json:"ingresos_hoy"`
}
