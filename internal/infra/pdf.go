package infra

// pdf.go — invoice PDF generation using go-pdf/fpdf.
// Letter-size document with company header, customer block, paginated
// line-item table and totals block (subtotal, optional discount, IVA, bold
// total). Deterministic for identical inputs except the generation timestamp
// in the footer.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"facturapos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FacturaDatos carries everything the renderer needs, already resolved:
// no repository access happens here.
type FacturaDatos struct {
	NumeroFactura string
	FechaVenta    time.Time
	Subtotal      decimal.Decimal
	IVA           decimal.Decimal
	Descuento     decimal.Decimal
	Total         decimal.Decimal

	EmpresaNombre    string
	EmpresaNIT       string
	EmpresaDireccion string
	EmpresaTelefono  string
	EmpresaEmail     string

	ClienteNombre          string
	ClienteTipoDocumento   string
	ClienteNumeroDocumento string
	ClienteDireccion       string
	ClienteTelefono        string
	ClienteEmail           string

	Detalles []FacturaDetalle
}

// FacturaDetalle is one table row. Codigo/Nombre may be empty when the
// product was deleted after the sale.
type FacturaDetalle struct {
	Codigo         string
	Nombre         string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

const (
	pageMargin  = 15.0  // mm
	tableBottom = 250.0 // start a new page past this y
)

// GenerarFacturaPDF renders the invoice and returns the raw PDF bytes.
func GenerarFacturaPDF(datos *FacturaDatos) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	// ── Company header ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 9, datos.EmpresaNombre, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("NIT: %s", datos.EmpresaNIT), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, datos.EmpresaDireccion, "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Tel: %s", datos.EmpresaTelefono), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Email: %s", datos.EmpresaEmail), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(3)

	// ── Title and invoice info ───────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "FACTURA ELECTRONICA", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Numero de Factura: %s", datos.NumeroFactura), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Fecha: %s", datos.FechaVenta.Format("02/01/2006")), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Customer block ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, "DATOS DEL CLIENTE", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Nombre: %s", datos.ClienteNombre), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5,
		fmt.Sprintf("Documento: %s %s", datos.ClienteTipoDocumento, datos.ClienteNumeroDocumento),
		"", 1, "L", false, 0, "")
	if datos.ClienteDireccion != "" {
		pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Direccion: %s", datos.ClienteDireccion), "", 0, "L", false, 0, "")
	}
	if datos.ClienteTelefono != "" {
		pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Telefono: %s", datos.ClienteTelefono), "", 0, "L", false, 0, "")
	}
	if datos.ClienteDireccion != "" || datos.ClienteTelefono != "" {
		pdf.Ln(5)
	}
	if datos.ClienteEmail != "" {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Email: %s", datos.ClienteEmail), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Line-item table ──────────────────────────────────────────────────────
	col1 := contentW * 0.14 // codigo
	col2 := contentW * 0.42 // nombre
	col3 := contentW * 0.10 // cantidad
	col4 := contentW * 0.17 // precio unitario
	col5 := contentW * 0.17 // subtotal

	writeTableHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1, 6, "Codigo", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Descripcion", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, "Cant.", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "Precio Unit.", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "Subtotal", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, "DETALLE DE PRODUCTOS", "", 1, "L", false, 0, "")
	writeTableHeader()

	for _, det := range datos.Detalles {
		if pdf.GetY() > tableBottom {
			pdf.AddPage()
			writeTableHeader()
		}

		codigo := det.Codigo
		if codigo == "" {
			codigo = "N/A"
		}
		nombre := det.Nombre
		if nombre == "" {
			nombre = "Producto sin nombre"
		}
		if len([]rune(nombre)) > 40 {
			nombre = string([]rune(nombre)[:37]) + "..."
		}

		pdf.CellFormat(col1, 6, codigo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("%d", det.Cantidad), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+det.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "$"+det.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelW, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "$"+datos.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	if !datos.Descuento.IsZero() {
		pdf.CellFormat(labelW, 6, "Descuento:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "-$"+datos.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.CellFormat(labelW, 6, "IVA:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "$"+datos.IVA.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelW, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, "$"+datos.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("Generada el %s", time.Now().Format("02/01/2006 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// FacturaDatosDesdeVenta flattens a loaded sale aggregate for the renderer.
// A sale without a customer reference renders for the generic walk-in
// customer; lines whose product was deleted keep their figures with blank
// identifiers.
func FacturaDatosDesdeVenta(venta *model.Venta, cfg *model.Configuracion) *FacturaDatos {
	datos := &FacturaDatos{
		NumeroFactura:    venta.NumeroFactura,
		FechaVenta:       venta.FechaVenta,
		Subtotal:         venta.Subtotal,
		IVA:              venta.IVA,
		Descuento:        venta.Descuento,
		Total:            venta.Total,
		EmpresaNombre:    cfg.EmpresaNombre,
		EmpresaNIT:       cfg.EmpresaNIT,
		EmpresaDireccion: cfg.EmpresaDireccion,
		EmpresaTelefono:  cfg.EmpresaTelefono,
		EmpresaEmail:     cfg.EmpresaEmail,

		ClienteNombre:          "Cliente General",
		ClienteTipoDocumento:   "CC",
		ClienteNumeroDocumento: "0",
	}

	if c := venta.Cliente; c != nil {
		datos.ClienteNombre = c.Nombre
		datos.ClienteTipoDocumento = c.TipoDocumento
		datos.ClienteNumeroDocumento = c.NumeroDocumento
		if c.Direccion != nil {
			datos.ClienteDireccion = *c.Direccion
		}
		if c.Telefono != nil {
			datos.ClienteTelefono = *c.Telefono
		}
		if c.Email != nil {
			datos.ClienteEmail = *c.Email
		}
	}

	for _, det := range venta.Detalles {
		fd := FacturaDetalle{
			Cantidad:       det.Cantidad,
			PrecioUnitario: det.PrecioUnitario,
			Subtotal:       det.Subtotal,
		}
		if det.Producto != nil {
			fd.Codigo = det.Producto.Codigo
			fd.Nombre = det.Producto.Nombre
		}
		datos.Detalles = append(datos.Detalles, fd)
	}
	return datos
}

// GuardarFacturaPDF renders the invoice and writes it under storagePath as
// Factura_<numero>.pdf, returning the absolute path.
func GuardarFacturaPDF(datos *FacturaDatos, storagePath string) (string, error) {
	raw, err := GenerarFacturaPDF(datos)
	if err != nil {
		return "", err
	}
	return EscribirFacturaPDF(raw, datos.NumeroFactura, storagePath)
}

// EscribirFacturaPDF writes already-rendered invoice bytes to the archive.
func EscribirFacturaPDF(raw []byte, numeroFactura, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("Factura_%s.pdf", numeroFactura))
	if err := os.WriteFile(filePath, raw, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
