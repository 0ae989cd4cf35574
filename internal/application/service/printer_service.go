package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/money"
	"github.com/sangkips/pasvilla-invoicing/pkg/printer"
)

const receiptDateLayout = "2006-01-02 15:04"

var statusLabels = map[enum.InvoiceStatus]string{
	enum.InvoiceStatusPending:   "PENDIENTE",
	enum.InvoiceStatusPartial:   "ABONO PARCIAL",
	enum.InvoiceStatusCompleted: "PAGADA",
	enum.InvoiceStatusCancelled: "ANULADA",
}

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	invoiceRepo repository.InvoiceRepository
	config      printer.Config
	header      entity.ReceiptHeader
	charWidth   int
	log         zerolog.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoiceRepo repository.InvoiceRepository,
	cfg printer.Config,
	header entity.ReceiptHeader,
	charWidth int,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		invoiceRepo: invoiceRepo,
		config:      cfg,
		header:      header,
		charWidth:   charWidth,
		log:         logger.WithComponent("printer-service"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.config.Configured(),
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.config.Type,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:    s.header,
		InvoiceNo: "PRUEBA",
		Date:      time.Now().Format(receiptDateLayout),
		Status:    "PRUEBA DE IMPRESION",
		Items: []entity.ReceiptItem{
			{Name: "Pastel de prueba", Quantity: 1, Portions: 8, UnitPrice: 160.00, Total: 160.00},
			{Name: "Galletas de prueba", Quantity: 2, UnitLabel: "12 unidades", UnitPrice: 45.00, Total: 90.00},
		},
		Total: 250.00,
		Paid:  250.00,
	}

	data := FormatReceipt(receipt, s.charWidth)
	if err := s.printer.Print(ctx, data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintInvoiceReceipt fetches an invoice and prints its receipt.
func (s *PrinterService) PrintInvoiceReceipt(ctx context.Context, invoiceID string) (*entity.Receipt, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	receipt := BuildReceipt(invoice, s.header)

	data := FormatReceipt(receipt, s.charWidth)
	if err := s.printer.Print(ctx, data); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// BuildReceipt composes the printable receipt of an invoice.
func BuildReceipt(invoice *entity.Invoice, header entity.ReceiptHeader) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:             header,
		InvoiceNo:          invoice.ID,
		Date:               invoice.CreatedAt.Format(receiptDateLayout),
		Customer:           invoice.CustomerName,
		CustomerNIT:        invoice.CustomerNIT,
		CustomerPhone:      invoice.CustomerPhone,
		Status:             statusLabels[invoice.Status],
		Total:              money.Float(invoice.Total),
		Paid:               money.Float(invoice.Paid()),
		Due:                money.Float(invoice.Balance()),
		CancellationReason: invoice.CancellationReason,
		Comment:            invoice.Comment,
	}

	for _, it := range invoice.Items {
		item := entity.ReceiptItem{
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitLabel: it.UnitLabel,
			UnitPrice: money.Float(it.UnitPrice),
			Total:     money.Float(it.Subtotal),
		}
		if it.Portions != nil {
			item.Portions = *it.Portions
		}
		receipt.Items = append(receipt.Items, item)
	}

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, charWidth int) []byte {
	doc := printer.NewDocument(charWidth)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("Tel. %s", r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Factura:", r.InvoiceNo).
		KeyValue("Fecha:", r.Date)

	if r.Customer != "" {
		doc.KeyValue("Cliente:", r.Customer)
	}
	if r.CustomerNIT != "" {
		doc.KeyValue("NIT:", r.CustomerNIT)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Telefono:", r.CustomerPhone)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		var detail []string
		if item.Portions > 0 {
			detail = append(detail, fmt.Sprintf("%d porciones", item.Portions))
		}
		if item.UnitLabel != "" {
			detail = append(detail, item.UnitLabel)
		}
		if item.Quantity > 1 {
			detail = append(detail, fmt.Sprintf("@ %.2f c/u", item.UnitPrice))
		}
		if len(detail) > 0 {
			doc.Text("   " + strings.Join(detail, ", "))
		}
	}

	doc.Separator('-')

	// Totals
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Pagado:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Due > 0 {
		doc.KeyValue("Saldo:", fmt.Sprintf("%.2f", r.Due))
	}
	if r.Status != "" {
		doc.KeyValue("Estado:", r.Status)
	}
	if r.CancellationReason != "" {
		doc.Text("Motivo: " + r.CancellationReason)
	}
	if r.Comment != "" {
		doc.Text("Nota: " + r.Comment)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Gracias por su compra!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
