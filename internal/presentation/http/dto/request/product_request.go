package request

// ProductFilterRequest represents product filter parameters. Prices are
// decimal strings so "12.50" keeps its exact value.
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
