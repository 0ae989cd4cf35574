package invoicing

import (
	"math"
	"testing"

	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	return NewBuilder(NewIDGenerator("pasvilla", 3, "pasvilla000"), fixedClock)
}

func validRequest() BuildRequest {
	return BuildRequest{
		Lines: []CartLine{
			{Product: cakeProduct(), Quantity: 2, Portions: 10},
			{Product: cupcakeProduct(), Quantity: 1},
		},
		CustomerName:  "  María García ",
		CustomerNIT:   "1234567-8",
		CustomerPhone: "5555-0101",
		Status:        enum.InvoiceStatusPending,
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperror.IsKind(err, apperror.KindValidation), "expected validation error, got %v", err)
	var fields []string
	for _, fe := range apperror.GetAppError(err).Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestBuildPendingInvoice(t *testing.T) {
	inv, err := newTestBuilder().Build("pasvilla041", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "pasvilla042", inv.ID)
	assert.Equal(t, int64(41500), inv.Total)
	assert.Equal(t, inv.ItemsTotal(), inv.Total)
	assert.Equal(t, "María García", inv.CustomerName)
	assert.Equal(t, enum.InvoiceStatusPending, inv.Status)
	assert.Nil(t, inv.PartialPayment)
	assert.Empty(t, inv.CancellationReason)
	assert.Equal(t, fixedNow, inv.CreatedAt)
	assert.Equal(t, fixedNow, inv.LastModified)

	require.Len(t, inv.Items, 2)
	for i, item := range inv.Items {
		assert.Equal(t, i, item.Position)
		assert.Equal(t, inv.ID, item.InvoiceID)
	}
	assert.Equal(t, int64(40000), inv.Items[0].Subtotal)
}

func TestBuildFirstInvoiceUsesSeed(t *testing.T) {
	inv, err := newTestBuilder().Build("", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "pasvilla001", inv.ID)
}

func TestBuildPartialInvoice(t *testing.T) {
	req := validRequest()
	req.Status = enum.InvoiceStatusPartial
	req.PartialPayment = cents(10000)

	inv, err := newTestBuilder().Build("", req)
	require.NoError(t, err)
	require.NotNil(t, inv.PartialPayment)
	assert.Equal(t, int64(10000), *inv.PartialPayment)
	assert.Equal(t, int64(31500), inv.Balance())

	*req.PartialPayment = 1
	assert.Equal(t, int64(10000), *inv.PartialPayment, "invoice must not alias the request")
}

func TestBuildRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BuildRequest)
		want   []string
	}{
		{"empty cart", func(r *BuildRequest) { r.Lines = nil }, []string{"items"}},
		{"blank customer name", func(r *BuildRequest) { r.CustomerName = "   " }, []string{"customer_name"}},
		{"blank nit and phone", func(r *BuildRequest) { r.CustomerNIT = ""; r.CustomerPhone = "" }, []string{"customer_nit", "customer_phone"}},
		{"completed is not an initial status", func(r *BuildRequest) { r.Status = enum.InvoiceStatusCompleted }, []string{"status"}},
		{"partial without payment", func(r *BuildRequest) { r.Status = enum.InvoiceStatusPartial }, []string{"partial_payment"}},
		{"partial with zero payment", func(r *BuildRequest) {
			r.Status = enum.InvoiceStatusPartial
			r.PartialPayment = cents(0)
		}, []string{"partial_payment"}},
		{"payment above total", func(r *BuildRequest) {
			r.Status = enum.InvoiceStatusPartial
			r.PartialPayment = cents(41501)
		}, []string{"partial_payment"}},
		{"portions out of range", func(r *BuildRequest) { r.Lines[0].Portions = 30 }, []string{"items[0].portions"}},
		{"everything at once", func(r *BuildRequest) {
			r.Lines = nil
			r.CustomerName = ""
			r.Status = enum.InvoiceStatusCancelled
		}, []string{"items", "customer_name", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			b := newTestBuilder()
			inv, err := b.Build("pasvilla001", req)
			assert.Nil(t, inv)
			assert.Equal(t, tt.want, fieldsOf(t, err))
			assert.Equal(t, tt.want, fieldsOf(t, b.Validate(req)))
		})
	}
}

func TestBuildPartialPaymentBoundaries(t *testing.T) {
	req := validRequest()
	req.Lines = []CartLine{{Product: cupcakeProduct(), Quantity: 1}}
	req.Status = enum.InvoiceStatusPartial

	req.PartialPayment = cents(1500)
	_, err := newTestBuilder().Build("", req)
	assert.NoError(t, err, "payment equal to total is allowed")

	req.PartialPayment = cents(-5)
	_, err = newTestBuilder().Build("", req)
	assert.Equal(t, []string{"partial_payment"}, fieldsOf(t, err))
}

func TestBuildRejectsAmountsBeyondCentsRange(t *testing.T) {
	t.Run("line subtotal", func(t *testing.T) {
		req := validRequest()
		req.Lines = []CartLine{{Product: cupcakeProduct(), Quantity: 1 << 60}}

		inv, err := newTestBuilder().Build("", req)
		assert.Nil(t, inv)
		assert.Equal(t, []string{"items[0].quantity"}, fieldsOf(t, err))
	})

	t.Run("invoice total", func(t *testing.T) {
		line := CartLine{Product: cupcakeProduct(), Quantity: math.MaxInt64 / 1500}
		req := validRequest()
		req.Lines = []CartLine{line, line}
		req.Status = enum.InvoiceStatusPartial
		req.PartialPayment = cents(100)

		inv, err := newTestBuilder().Build("", req)
		assert.Nil(t, inv)
		assert.Equal(t, []string{"items"}, fieldsOf(t, err))
	})
}
