package handler

import (
	"errors"
	"fmt"
	"net/http"

	"facturapos/internal/apierror"
	"facturapos/internal/dto"
	"facturapos/internal/middleware"
	"facturapos/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Emite una factura: asigna el numero, descuenta stock y encola el envio por email. Todo o nada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.RegistrarVentaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID := middleware.GetUserID(c)

	resp, err := h.svc.RegistrarVenta(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrStockInsuficiente) {
			c.JSON(http.StatusConflict, apierror.New("Stock insuficiente"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna las ventas mas recientes del tenant, con el nombre del cliente resuelto.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.VentaListItem
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	userID := middleware.GetUserID(c)
	resp, err := h.svc.ListVentas(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarFacturaPDF godoc
// @Summary      Descargar la factura en PDF
// @Description  Renderiza la factura de una venta bajo demanda.
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/pdf [get]
func (h *VentasHandler) DescargarFacturaPDF(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	raw, numero, err := h.svc.ObtenerFacturaPDF(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "Venta")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=Factura_%s.pdf", numero))
	c.Data(http.StatusOK, "application/pdf", raw)
}
