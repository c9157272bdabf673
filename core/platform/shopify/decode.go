package shopify

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-sync/core/platform"
	"catalog-sync/core/utils"
)

// sortOrders maps CollectionSortOrder values onto canonical sort orders.
var sortOrders = map[string]string{
	"MANUAL":       "manual",
	"ALPHA_ASC":    "alpha-asc",
	"ALPHA_DESC":   "alpha-desc",
	"BEST_SELLING": "best-selling",
	"CREATED":      "created",
	"CREATED_DESC": "created-desc",
	"PRICE_ASC":    "price-asc",
	"PRICE_DESC":   "price-desc",
}

type spVariant struct {
	ID                string  `json:"id"`
	SKU               string  `json:"sku"`
	Price             string  `json:"price"`
	CompareAtPrice    *string `json:"compareAtPrice"`
	InventoryQuantity *int    `json:"inventoryQuantity"`
}

type spProduct struct {
	ID              string   `json:"id"`
	Handle          string   `json:"handle"`
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Status          string   `json:"status"`
	Tags            []string `json:"tags"`
	Variants        struct {
		Nodes []spVariant `json:"nodes"`
	} `json:"variants"`
}

type spCollection struct {
	ID              string `json:"id"`
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
	SortOrder       string `json:"sortOrder"`
}

type spCustomer struct {
	ID                    string   `json:"id"`
	Email                 string   `json:"email"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	Phone                 string   `json:"phone"`
	Tags                  []string `json:"tags"`
	EmailMarketingConsent *struct {
		MarketingState string `json:"marketingState"`
	} `json:"emailMarketingConsent"`
}

type spArticle struct {
	ID          string   `json:"id"`
	Handle      string   `json:"handle"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
	Author      *struct {
		Name string `json:"name"`
	} `json:"author"`
}

// decode normalises one GraphQL node into a canonical entity.
func decode(kind platform.Kind, raw json.RawMessage) (platform.Entity, error) {
	switch kind {
	case platform.KindProduct:
		var p spProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			return platform.Entity{}, fmt.Errorf("decode product: %w", err)
		}
		attrs := &platform.Product{
			Slug:        p.Handle,
			Name:        p.Title,
			Description: p.DescriptionHTML,
			Vendor:      p.Vendor,
			ProductType: p.ProductType,
			Status:      platform.ProductStatus(strings.ToLower(p.Status)),
			Tags:        p.Tags,
		}
		if len(p.Variants.Nodes) > 0 {
			v := p.Variants.Nodes[0]
			attrs.SKU = v.SKU
			attrs.Price = utils.ToDecimal(v.Price)
			if v.CompareAtPrice != nil {
				attrs.CompareAtPrice = utils.ToDecimal(*v.CompareAtPrice)
			}
			if v.InventoryQuantity != nil {
				attrs.Inventory = *v.InventoryQuantity
			}
		}
		return platform.Entity{Kind: kind, ID: p.ID, Attrs: attrs}, nil
	case platform.KindCollection:
		var c spCollection
		if err := json.Unmarshal(raw, &c); err != nil {
			return platform.Entity{}, fmt.Errorf("decode collection: %w", err)
		}
		return platform.Entity{Kind: kind, ID: c.ID, Attrs: &platform.Collection{
			Slug:        c.Handle,
			Name:        c.Title,
			Description: c.DescriptionHTML,
			SortOrder:   sortOrders[c.SortOrder],
		}}, nil
	case platform.KindCustomer:
		var c spCustomer
		if err := json.Unmarshal(raw, &c); err != nil {
			return platform.Entity{}, fmt.Errorf("decode customer: %w", err)
		}
		attrs := &platform.Customer{
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Phone:     c.Phone,
			Tags:      c.Tags,
		}
		if c.EmailMarketingConsent != nil {
			attrs.AcceptsMarketing = c.EmailMarketingConsent.MarketingState == "SUBSCRIBED"
		}
		return platform.Entity{Kind: kind, ID: c.ID, Attrs: attrs}, nil
	case platform.KindBlogPost:
		var a spArticle
		if err := json.Unmarshal(raw, &a); err != nil {
			return platform.Entity{}, fmt.Errorf("decode article: %w", err)
		}
		attrs := &platform.BlogPost{
			Slug:      a.Handle,
			Name:      a.Title,
			Body:      a.Body,
			Tags:      a.Tags,
			Published: a.IsPublished,
		}
		if a.Author != nil {
			attrs.Author = a.Author.Name
		}
		return platform.Entity{Kind: kind, ID: a.ID, Attrs: attrs}, nil
	default:
		return platform.Entity{}, fmt.Errorf("%w: %s", platform.ErrUnsupportedKind, kind)
	}
}
