package entity

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Portions  int     `json:"portions,omitempty"`
	UnitLabel string  `json:"unit_label,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from invoice data at print time.
type Receipt struct {
	Header             ReceiptHeader `json:"header"`
	InvoiceNo          string        `json:"invoice_no"`
	Date               string        `json:"date"`
	Customer           string        `json:"customer,omitempty"`
	CustomerNIT        string        `json:"customer_nit,omitempty"`
	CustomerPhone      string        `json:"customer_phone,omitempty"`
	Status             string        `json:"status"`
	Items              []ReceiptItem `json:"items"`
	Total              float64       `json:"total"`
	Paid               float64       `json:"paid"`
	Due                float64       `json:"due"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	Comment            string        `json:"comment,omitempty"`
}
