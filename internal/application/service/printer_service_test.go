package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = entity.ReceiptHeader{StoreName: "Pasvilla", Address: "Zona 10", Phone: "2222-3333"}

func TestPrintInvoiceReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := f.cartInput(enum.InvoiceStatusPartial)
	input.PartialPayment = amount(9000)
	inv, err := f.invoices.CreateInvoice(ctx, input)
	require.NoError(t, err)

	rec := &printer.Recorder{}
	svc := NewPrinterService(rec, f.store.Invoices(), printer.Config{Type: "none"}, testHeader, printer.Width58mm)

	receipt, err := svc.PrintInvoiceReceipt(ctx, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, inv.ID, receipt.InvoiceNo)
	assert.Equal(t, "Ana López", receipt.Customer)
	assert.Equal(t, "ABONO PARCIAL", receipt.Status)
	assert.Equal(t, 290.0, receipt.Total)
	assert.Equal(t, 90.0, receipt.Paid)
	assert.Equal(t, 200.0, receipt.Due)
	require.Len(t, receipt.Items, 2)
	assert.Equal(t, 10, receipt.Items[0].Portions)

	jobs := rec.Jobs()
	require.Len(t, jobs, 1)
	assert.True(t, bytes.Contains(jobs[0], []byte(inv.ID)))
	assert.True(t, bytes.Contains(jobs[0], []byte("Ana Lopez")))
	assert.True(t, bytes.Contains(jobs[0], []byte("10 porciones")))
}

func TestPrintInvoiceReceiptNotFound(t *testing.T) {
	f := newFixture(t)
	rec := &printer.Recorder{}
	svc := NewPrinterService(rec, f.store.Invoices(), printer.Config{Type: "none"}, testHeader, printer.Width58mm)

	_, err := svc.PrintInvoiceReceipt(context.Background(), "pasvilla404")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Empty(t, rec.Jobs())
}

func TestBuildReceiptCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.CreateInvoice(ctx, f.cartInput(enum.InvoiceStatusPending))
	require.NoError(t, err)
	inv, err = f.invoices.UpdateInvoiceStatus(ctx, inv.ID, enum.InvoiceStatusCancelled,
		invoicing.StatusPayload{CancellationReason: "Pedido duplicado"})
	require.NoError(t, err)

	receipt := BuildReceipt(inv, testHeader)
	assert.Equal(t, "ANULADA", receipt.Status)
	assert.Zero(t, receipt.Paid)
	assert.Zero(t, receipt.Due)
	assert.Equal(t, "Pedido duplicado", receipt.CancellationReason)
}

func TestPrinterStatusAndTestPrint(t *testing.T) {
	rec := &printer.Recorder{}
	svc := NewPrinterService(rec, nil, printer.Config{Type: "none"}, testHeader, printer.Width80mm)

	status := svc.GetStatus(context.Background())
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Type)

	receipt, err := svc.TestPrint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PRUEBA", receipt.InvoiceNo)
	assert.Len(t, rec.Jobs(), 1)
}
