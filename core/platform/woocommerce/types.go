package woocommerce

import "encoding/json"

// Wire shapes of the WooCommerce REST API (wc/v3) and the WordPress posts API (wp/v2).

type wcTag struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

type wcProduct struct {
	ID            int     `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	SKU           string  `json:"sku"`
	Price         string  `json:"price"`
	RegularPrice  string  `json:"regular_price"`
	SalePrice     string  `json:"sale_price"`
	StockQuantity *int    `json:"stock_quantity"`
	Tags          []wcTag `json:"tags"`
}

type wcCategory struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type wcReview struct {
	ID            int    `json:"id"`
	ProductID     int    `json:"product_id"`
	Reviewer      string `json:"reviewer"`
	ReviewerEmail string `json:"reviewer_email"`
	Review        string `json:"review"`
	Rating        int    `json:"rating"`
	Verified      bool   `json:"verified"`
}

type wcCustomer struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Billing   struct {
		Phone string `json:"phone"`
	} `json:"billing"`
}

type wcZone struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wcZoneLocation struct {
	Code string `json:"code"`
	Type string `json:"type"`
}

type wcZoneMethod struct {
	Title    string `json:"title"`
	Enabled  bool   `json:"enabled"`
	Settings map[string]struct {
		Value string `json:"value"`
	} `json:"settings"`
}

type wpRendered struct {
	Rendered string `json:"rendered"`
}

type wpPost struct {
	ID      int        `json:"id"`
	Slug    string     `json:"slug"`
	Status  string     `json:"status"`
	Title   wpRendered `json:"title"`
	Content wpRendered `json:"content"`
}

type wcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wcCreated struct {
	ID json.Number `json:"id"`
}
