package platform

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-sync/core/utils"

	"github.com/shopspring/decimal"
)

// Fields is an entity's attributes keyed by canonical field name.
type Fields map[string]any

// Attributes is the strongly typed field set of one entity kind.
type Attributes interface {
	// Kind returns the entity kind the attributes belong to.
	Kind() Kind
	// Handle returns the human-facing slug (or its equivalent) used for display.
	Handle() string
	// Title returns a display title.
	Title() string
	// Fields returns the canonical field map used for comparison and translation.
	Fields() Fields
}

// Entity is an immutable snapshot of one record on one platform.
type Entity struct {
	Kind  Kind
	ID    string
	Attrs Attributes
}

// Field returns the canonical field value, or nil when absent.
func (e Entity) Field(name string) any {
	if e.Attrs == nil {
		return nil
	}
	return e.Attrs.Fields()[name]
}

// Title returns the entity's display title.
func (e Entity) Title() string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs.Title()
}

// Handle returns the entity's display slug.
func (e Entity) Handle() string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs.Handle()
}

// ProductStatus is the canonical publication state of a product.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductDraft    ProductStatus = "draft"
	ProductArchived ProductStatus = "archived"
)

// Product is a sellable catalog item.
type Product struct {
	Slug           string
	Name           string
	Description    string
	Vendor         string
	ProductType    string
	Status         ProductStatus
	Tags           []string
	SKU            string
	Price          decimal.Decimal
	CompareAtPrice decimal.Decimal
	Inventory      int
}

func (p *Product) Kind() Kind     { return KindProduct }
func (p *Product) Handle() string { return p.Slug }
func (p *Product) Title() string  { return p.Name }

func (p *Product) Fields() Fields {
	return Fields{
		"handle":           p.Slug,
		"title":            p.Name,
		"description":      p.Description,
		"vendor":           p.Vendor,
		"product_type":     p.ProductType,
		"status":           string(p.Status),
		"tags":             p.Tags,
		"sku":              p.SKU,
		"price":            p.Price,
		"compare_at_price": p.CompareAtPrice,
		"inventory":        p.Inventory,
	}
}

// Collection groups products.
type Collection struct {
	Slug        string
	Name        string
	Description string
	SortOrder   string
}

func (c *Collection) Kind() Kind     { return KindCollection }
func (c *Collection) Handle() string { return c.Slug }
func (c *Collection) Title() string  { return c.Name }

func (c *Collection) Fields() Fields {
	return Fields{
		"handle":      c.Slug,
		"title":       c.Name,
		"description": c.Description,
		"sort_order":  c.SortOrder,
	}
}

// BlogPost is an article on the store blog.
type BlogPost struct {
	Slug      string
	Name      string
	Body      string
	Author    string
	Tags      []string
	Published bool
}

func (b *BlogPost) Kind() Kind     { return KindBlogPost }
func (b *BlogPost) Handle() string { return b.Slug }
func (b *BlogPost) Title() string  { return b.Name }

func (b *BlogPost) Fields() Fields {
	return Fields{
		"handle":    b.Slug,
		"title":     b.Name,
		"body":      b.Body,
		"author":    b.Author,
		"tags":      b.Tags,
		"published": b.Published,
	}
}

// Review is a customer product review.
type Review struct {
	ExternalID    string
	ProductHandle string
	Author        string
	Email         string
	Rating        int
	Body          string
	Verified      bool
}

func (r *Review) Kind() Kind     { return KindReview }
func (r *Review) Handle() string { return r.ExternalID }

func (r *Review) Title() string {
	return fmt.Sprintf("%d★ by %s on %s", r.Rating, r.Author, r.ProductHandle)
}

func (r *Review) Fields() Fields {
	return Fields{
		"external_id":    r.ExternalID,
		"product_handle": r.ProductHandle,
		"author":         r.Author,
		"email":          r.Email,
		"rating":         r.Rating,
		"body":           r.Body,
		"verified":       r.Verified,
	}
}

// Customer is a store account.
type Customer struct {
	Email            string
	FirstName        string
	LastName         string
	Phone            string
	AcceptsMarketing bool
	Tags             []string
}

func (c *Customer) Kind() Kind     { return KindCustomer }
func (c *Customer) Handle() string { return c.Email }

func (c *Customer) Title() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) Fields() Fields {
	return Fields{
		"email":             c.Email,
		"first_name":        c.FirstName,
		"last_name":         c.LastName,
		"phone":             c.Phone,
		"accepts_marketing": c.AcceptsMarketing,
		"tags":              c.Tags,
	}
}

// ShippingRate is a flat rate inside a shipping zone.
type ShippingRate struct {
	Name  string
	Price decimal.Decimal
}

// String renders the rate as "name=price".
func (r ShippingRate) String() string {
	return r.Name + "=" + r.Price.String()
}

// ShippingZone is a set of destination countries with flat rates.
type ShippingZone struct {
	Name      string
	Countries []string
	Rates     []ShippingRate
}

func (z *ShippingZone) Kind() Kind     { return KindShippingZone }
func (z *ShippingZone) Handle() string { return z.Name }
func (z *ShippingZone) Title() string  { return z.Name }

func (z *ShippingZone) Fields() Fields {
	rates := make([]string, 0, len(z.Rates))
	for _, r := range z.Rates {
		rates = append(rates, r.String())
	}
	return Fields{
		"name":      z.Name,
		"countries": z.Countries,
		"rates":     rates,
	}
}

// ParseShippingRate parses the "name=price" form produced by ShippingRate.String.
func ParseShippingRate(s string) ShippingRate {
	name, price, _ := strings.Cut(s, "=")
	return ShippingRate{Name: strings.TrimSpace(name), Price: utils.ToDecimal(price)}
}

// DecodeFields builds the typed attributes of kind from canonical fields.
func DecodeFields(kind Kind, f Fields) (Attributes, error) {
	switch kind {
	case KindProduct:
		return &Product{
			Slug:           utils.ToString(f["handle"]),
			Name:           utils.ToString(f["title"]),
			Description:    utils.ToString(f["description"]),
			Vendor:         utils.ToString(f["vendor"]),
			ProductType:    utils.ToString(f["product_type"]),
			Status:         ProductStatus(utils.ToString(f["status"])),
			Tags:           utils.ToStrings(f["tags"]),
			SKU:            utils.ToString(f["sku"]),
			Price:          utils.ToDecimal(f["price"]),
			CompareAtPrice: utils.ToDecimal(f["compare_at_price"]),
			Inventory:      utils.ToInt(f["inventory"]),
		}, nil
	case KindCollection:
		return &Collection{
			Slug:        utils.ToString(f["handle"]),
			Name:        utils.ToString(f["title"]),
			Description: utils.ToString(f["description"]),
			SortOrder:   utils.ToString(f["sort_order"]),
		}, nil
	case KindBlogPost:
		return &BlogPost{
			Slug:      utils.ToString(f["handle"]),
			Name:      utils.ToString(f["title"]),
			Body:      utils.ToString(f["body"]),
			Author:    utils.ToString(f["author"]),
			Tags:      utils.ToStrings(f["tags"]),
			Published: utils.ToBool(f["published"]),
		}, nil
	case KindReview:
		return &Review{
			ExternalID:    utils.ToString(f["external_id"]),
			ProductHandle: utils.ToString(f["product_handle"]),
			Author:        utils.ToString(f["author"]),
			Email:         utils.ToString(f["email"]),
			Rating:        utils.ToInt(f["rating"]),
			Body:          utils.ToString(f["body"]),
			Verified:      utils.ToBool(f["verified"]),
		}, nil
	case KindCustomer:
		return &Customer{
			Email:            utils.ToString(f["email"]),
			FirstName:        utils.ToString(f["first_name"]),
			LastName:         utils.ToString(f["last_name"]),
			Phone:            utils.ToString(f["phone"]),
			AcceptsMarketing: utils.ToBool(f["accepts_marketing"]),
			Tags:             utils.ToStrings(f["tags"]),
		}, nil
	case KindShippingZone:
		zone := &ShippingZone{
			Name:      utils.ToString(f["name"]),
			Countries: utils.ToStrings(f["countries"]),
		}
		for _, r := range utils.ToStrings(f["rates"]) {
			zone.Rates = append(zone.Rates, ParseShippingRate(r))
		}
		return zone, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

type entityJSON struct {
	Kind   Kind   `json:"kind"`
	ID     string `json:"id,omitempty"`
	Fields Fields `json:"fields"`
}

// MarshalJSON encodes the entity as its kind, id and canonical fields.
func (e Entity) MarshalJSON() ([]byte, error) {
	var fields Fields
	if e.Attrs != nil {
		fields = e.Attrs.Fields()
	}
	return json.Marshal(entityJSON{Kind: e.Kind, ID: e.ID, Fields: fields})
}

// UnmarshalJSON decodes the form written by MarshalJSON into typed attributes.
// An entity given only by kind and id keeps nil attributes.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw entityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, raw.Kind)
	}
	// A reference without fields is resolved from its platform later.
	if raw.Fields == nil {
		*e = Entity{Kind: raw.Kind, ID: raw.ID}
		return nil
	}
	attrs, err := DecodeFields(raw.Kind, raw.Fields)
	if err != nil {
		return err
	}
	*e = Entity{Kind: raw.Kind, ID: raw.ID, Attrs: attrs}
	return nil
}
