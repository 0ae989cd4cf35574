package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pasvilla-invoicing/internal/application/service"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/enum"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/repository"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/dto/request"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/dto/response"
	"github.com/sangkips/pasvilla-invoicing/pkg/apperror"
	"github.com/sangkips/pasvilla-invoicing/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var status *enum.InvoiceStatus
	if filter.Status != "" {
		parsed, err := enum.ParseInvoiceStatus(filter.Status)
		if err != nil {
			respondError(c, apperror.NewFieldValidationError("status", err.Error()))
			return
		}
		status = &parsed
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Filter: invoicing.BuildFilter(status, filter.Search),
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithPagination(c, "Invoices retrieved successfully", result)
}

// Create handles creating an invoice from a cart
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// an omitted status opens the invoice as pending
	status := enum.InvoiceStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = enum.InvoiceStatusPending
	}

	partialPayment, err := centsOf("partial_payment", req.PartialPayment)
	if err != nil {
		respondError(c, err)
		return
	}

	input := &service.CreateInvoiceInput{
		CustomerName:   req.CustomerName,
		CustomerNIT:    req.CustomerNIT,
		CustomerPhone:  req.CustomerPhone,
		Status:         status,
		Comment:        req.Comment,
		PartialPayment: partialPayment,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.InvoiceItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Portions:  item.Portions,
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Summary handles getting the scannable summary of an invoice
func (h *InvoiceHandler) Summary(c *gin.Context) {
	summary, err := h.invoiceService.GetInvoiceSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Invoice summary retrieved successfully", summary)
}

// UpdateStatus handles a lifecycle transition
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, err := enum.ParseInvoiceStatus(req.Status)
	if err != nil {
		respondError(c, apperror.NewFieldValidationError("status", err.Error()))
		return
	}

	partialPayment, err := centsOf("partial_payment", req.PartialPayment)
	if err != nil {
		respondError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), c.Param("id"), status, invoicing.StatusPayload{
		PartialPayment:     partialPayment,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Invoice status updated successfully", invoice)
}

// Update handles a general edit of customer data, comment and partial payment
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if forbidden := req.ForbiddenFields(); len(forbidden) > 0 {
		errs := make([]apperror.FieldError, 0, len(forbidden))
		for _, field := range forbidden {
			errs = append(errs, apperror.FieldError{Field: field, Message: field + " cannot be changed by an edit"})
		}
		respondError(c, apperror.NewValidationError(errs))
		return
	}

	partialPayment, err := centsOf("partial_payment", req.PartialPayment)
	if err != nil {
		respondError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), invoicing.EditPatch{
		CustomerName:   req.CustomerName,
		CustomerNIT:    req.CustomerNIT,
		CustomerPhone:  req.CustomerPhone,
		Comment:        req.Comment,
		PartialPayment: partialPayment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}
