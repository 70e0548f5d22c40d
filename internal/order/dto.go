package order

// LineView is one order-history row line with display data.
type LineView struct {
	ItemName       string `json:"item_name"`
	Quantity       int    `json:"quantity"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"price_formatted"`
	ImageURL       string `json:"image_url"`
}

// History is one order in the member's purchase history.
type History struct {
	OrderID        string     `json:"order_id"`
	OrderDate      string     `json:"order_date"` // yyyy-MM-dd HH:mm
	Status         Status     `json:"status"`
	Total          int64      `json:"total"`
	TotalFormatted string     `json:"total_formatted"`
	Lines          []LineView `json:"lines"`
}

type HistoryPage struct {
	Orders   []History `json:"orders"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int64     `json:"total"`
}
