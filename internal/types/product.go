package types

// Product is one item from the product-search carousel.
type Product struct {
	ItemName      string  `json:"itemName"`
	ItemPrice     int     `json:"itemPrice"`
	ItemURL       string  `json:"itemUrl"`
	ImageURL      string  `json:"imageUrl"`
	ShopName      string  `json:"shopName"`
	ReviewAverage float64 `json:"reviewAverage"`
}

// ProductSearchResponse is the searchRelatedItems reply.
type ProductSearchResponse struct {
	Items []Product `json:"items"`
	Error string    `json:"error,omitempty"`
}
