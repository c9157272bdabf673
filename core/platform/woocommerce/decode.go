package woocommerce

import (
	"encoding/json"
	"fmt"
	"strconv"

	"catalog-sync/core/platform"
	"catalog-sync/core/utils"

	"github.com/shopspring/decimal"
)

// productStatus maps WooCommerce post statuses onto canonical product statuses.
var productStatus = map[string]platform.ProductStatus{
	"publish": platform.ProductActive,
	"draft":   platform.ProductDraft,
	"pending": platform.ProductDraft,
	"future":  platform.ProductDraft,
	"private": platform.ProductArchived,
}

// decode normalises one REST item into a canonical entity.
func decode(kind platform.Kind, raw json.RawMessage) (platform.Entity, error) {
	switch kind {
	case platform.KindProduct:
		var p wcProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			return platform.Entity{}, fmt.Errorf("decode product: %w", err)
		}
		return productEntity(p), nil
	case platform.KindCollection:
		var c wcCategory
		if err := json.Unmarshal(raw, &c); err != nil {
			return platform.Entity{}, fmt.Errorf("decode category: %w", err)
		}
		return platform.Entity{Kind: kind, ID: strconv.Itoa(c.ID), Attrs: &platform.Collection{
			Slug:        c.Slug,
			Name:        c.Name,
			Description: c.Description,
		}}, nil
	case platform.KindReview:
		var r wcReview
		if err := json.Unmarshal(raw, &r); err != nil {
			return platform.Entity{}, fmt.Errorf("decode review: %w", err)
		}
		return platform.Entity{Kind: kind, ID: strconv.Itoa(r.ID), Attrs: &platform.Review{
			ExternalID:    "wc-review-" + strconv.Itoa(r.ID),
			ProductHandle: strconv.Itoa(r.ProductID),
			Author:        r.Reviewer,
			Email:         r.ReviewerEmail,
			Rating:        r.Rating,
			Body:          r.Review,
			Verified:      r.Verified,
		}}, nil
	case platform.KindCustomer:
		var c wcCustomer
		if err := json.Unmarshal(raw, &c); err != nil {
			return platform.Entity{}, fmt.Errorf("decode customer: %w", err)
		}
		return platform.Entity{Kind: kind, ID: strconv.Itoa(c.ID), Attrs: &platform.Customer{
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Phone:     c.Billing.Phone,
		}}, nil
	case platform.KindBlogPost:
		var p wpPost
		if err := json.Unmarshal(raw, &p); err != nil {
			return platform.Entity{}, fmt.Errorf("decode post: %w", err)
		}
		return platform.Entity{Kind: kind, ID: strconv.Itoa(p.ID), Attrs: &platform.BlogPost{
			Slug:      p.Slug,
			Name:      p.Title.Rendered,
			Body:      p.Content.Rendered,
			Published: p.Status == "publish",
		}}, nil
	default:
		return platform.Entity{}, fmt.Errorf("%w: %s", platform.ErrUnsupportedKind, kind)
	}
}

// productEntity reads prices the way they are written: a product on sale has
// its undiscounted price in regular_price, which becomes compare_at_price.
func productEntity(p wcProduct) platform.Entity {
	attrs := &platform.Product{
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Status:      productStatus[p.Status],
		SKU:         p.SKU,
		Price:       utils.ToDecimal(p.RegularPrice),
	}
	if p.SalePrice != "" {
		attrs.Price = utils.ToDecimal(p.SalePrice)
		attrs.CompareAtPrice = utils.ToDecimal(p.RegularPrice)
	}
	if p.StockQuantity != nil {
		attrs.Inventory = *p.StockQuantity
	}
	for _, tag := range p.Tags {
		attrs.Tags = append(attrs.Tags, tag.Name)
	}
	return platform.Entity{Kind: platform.KindProduct, ID: strconv.Itoa(p.ID), Attrs: attrs}
}

func zoneEntity(z wcZone, locations []wcZoneLocation, methods []wcZoneMethod) platform.Entity {
	zone := &platform.ShippingZone{Name: z.Name}
	for _, l := range locations {
		if l.Type == "country" {
			zone.Countries = append(zone.Countries, l.Code)
		}
	}
	for _, m := range methods {
		if !m.Enabled {
			continue
		}
		price := decimal.Zero
		if cost, ok := m.Settings["cost"]; ok {
			price = utils.ToDecimal(cost.Value)
		}
		zone.Rates = append(zone.Rates, platform.ShippingRate{Name: m.Title, Price: price})
	}
	return platform.Entity{Kind: platform.KindShippingZone, ID: strconv.Itoa(z.ID), Attrs: zone}
}
