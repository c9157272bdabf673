package executor

import (
	"fmt"
	"strings"

	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"

	"github.com/shopspring/decimal"
)

// FormatFunc converts a canonical value into its destination representation.
// all holds every canonical field of the source entity.
type FormatFunc func(value any, all platform.Fields) any

// FieldRule maps one canonical field onto the destination payload.
type FieldRule struct {
	// To is the destination field name. Dotted names address nested objects.
	To string

	// Values maps canonical enumerated values to destination values.
	Values map[string]string

	// Format converts the value after Values has been applied.
	Format FormatFunc

	// With lists canonical fields that must be written together with this one.
	With []string

	// Drop excludes the field; the destination cannot store it.
	Drop bool
}

// Mapping is the field table of one kind for one platform pair.
type Mapping map[string]FieldRule

// Pair is a source/destination platform combination.
type Pair struct {
	From platform.Platform
	To   platform.Platform
}

// Translator converts source snapshots into destination payloads using
// per-pair, per-kind tables. Pairs without a table translate by identity,
// which is what the in-memory platform expects.
type Translator struct {
	tables map[Pair]map[platform.Kind]Mapping
}

// NewTranslator creates a translator with the built-in tables.
func NewTranslator() *Translator {
	t := &Translator{tables: make(map[Pair]map[platform.Kind]Mapping)}
	t.Register(Pair{From: platform.WooCommerce, To: platform.Shopify}, shopifyTables)
	t.Register(Pair{From: platform.Shopify, To: platform.WooCommerce}, wooTables)
	return t
}

// NewIdentityTranslator creates a translator without tables: every pair
// translates by identity. In-memory platforms standing in for real stores use it.
func NewIdentityTranslator() *Translator {
	return &Translator{tables: make(map[Pair]map[platform.Kind]Mapping)}
}

// Register installs or replaces the tables for a pair.
func (t *Translator) Register(pair Pair, tables map[platform.Kind]Mapping) {
	t.tables[pair] = tables
}

func (t *Translator) mapping(pair Pair, kind platform.Kind) (Mapping, bool) {
	tables, ok := t.tables[pair]
	if !ok {
		return nil, false
	}
	m, ok := tables[kind]
	return m, ok
}

// Dropped lists the canonical fields the destination of pair cannot store for kind.
// They are excluded from comparison so they never show up as permanent drift.
func (t *Translator) Dropped(pair Pair, kind platform.Kind) []string {
	m, ok := t.mapping(pair, kind)
	if !ok {
		return nil
	}
	var out []string
	for name, rule := range m {
		if rule.Drop {
			out = append(out, name)
		}
	}
	return utils.SortedSet(out)
}

// Translate builds the destination payload for diff. Creations carry every
// field; updates carry the changed fields plus their companions.
func (t *Translator) Translate(diff reconcile.Difference) (platform.Payload, error) {
	if diff.Source.Attrs == nil {
		return nil, fmt.Errorf("%w: difference %q has no source snapshot", ErrInvalidDifference, diff.MatchingKey)
	}
	all := diff.Source.Attrs.Fields()

	pair := Pair{From: diff.SourcePlatform, To: diff.DestinationPlatform}
	m, ok := t.mapping(pair, diff.Kind)
	if !ok {
		return identity(diff, all), nil
	}

	payload := make(platform.Payload)
	for _, name := range selected(diff, all, m) {
		rule, ok := m[name]
		if !ok || rule.Drop {
			continue
		}
		value := all[name]
		if rule.Values != nil {
			s := utils.ToString(value)
			mapped, ok := rule.Values[s]
			if !ok {
				return nil, fmt.Errorf("%w: %s %q has no %s equivalent", ErrUntranslatable, name, s, pair.To)
			}
			value = mapped
		}
		if rule.Format != nil {
			value = rule.Format(value, all)
		}
		setPath(payload, rule.To, value)
	}
	return payload, nil
}

func identity(diff reconcile.Difference, all platform.Fields) platform.Payload {
	payload := make(platform.Payload, len(all))
	if diff.IsCreation() {
		for k, v := range all {
			payload[k] = v
		}
		return payload
	}
	for _, name := range diff.FieldsChanged {
		payload[name] = all[name]
	}
	return payload
}

// selected returns the canonical fields to write, sorted for stable payloads.
func selected(diff reconcile.Difference, all platform.Fields, m Mapping) []string {
	var names []string
	if diff.IsCreation() {
		for name := range all {
			names = append(names, name)
		}
		return utils.SortedSet(names)
	}
	for _, name := range diff.FieldsChanged {
		names = append(names, name)
		names = append(names, m[name].With...)
	}
	return utils.SortedSet(names)
}

// setPath assigns value at a dotted path, creating nested objects as needed.
func setPath(payload platform.Payload, path string, value any) {
	parts := strings.Split(path, ".")
	cur := map[string]any(payload)
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func decimalString(v any, _ platform.Fields) any {
	return utils.ToDecimal(v).StringFixed(2)
}

// wooRegularPrice is the undiscounted price: compare_at_price when set, else price.
func wooRegularPrice(_ any, all platform.Fields) any {
	if cmp := utils.ToDecimal(all["compare_at_price"]); cmp.GreaterThan(decimal.Zero) {
		return cmp.StringFixed(2)
	}
	return utils.ToDecimal(all["price"]).StringFixed(2)
}

// wooSalePrice is the discounted price, or "" to clear a sale.
func wooSalePrice(_ any, all platform.Fields) any {
	if cmp := utils.ToDecimal(all["compare_at_price"]); cmp.GreaterThan(decimal.Zero) {
		return utils.ToDecimal(all["price"]).StringFixed(2)
	}
	return ""
}

func wooTags(v any, _ platform.Fields) any {
	tags := utils.ToStrings(v)
	out := make([]map[string]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, map[string]string{"name": tag})
	}
	return out
}

func marketingState(v any, _ platform.Fields) any {
	if utils.ToBool(v) {
		return "SUBSCRIBED"
	}
	return "UNSUBSCRIBED"
}

func stringList(v any, _ platform.Fields) any {
	return utils.ToStrings(v)
}

var shopifyTables = map[platform.Kind]Mapping{
	platform.KindProduct: {
		"handle":       {To: "handle"},
		"title":        {To: "title"},
		"description":  {To: "descriptionHtml"},
		"vendor":       {To: "vendor"},
		"product_type": {To: "productType"},
		"status": {To: "status", Values: map[string]string{
			"":                               "DRAFT",
			string(platform.ProductActive):   "ACTIVE",
			string(platform.ProductDraft):    "DRAFT",
			string(platform.ProductArchived): "ARCHIVED",
		}},
		"tags":             {To: "tags", Format: stringList},
		"sku":              {To: "variant.sku"},
		"price":            {To: "variant.price", Format: decimalString},
		"compare_at_price": {To: "variant.compareAtPrice", Format: decimalString},
		"inventory":        {Drop: true},
	},
	platform.KindCollection: {
		"handle":      {To: "handle"},
		"title":       {To: "title"},
		"description": {To: "descriptionHtml"},
		"sort_order": {To: "sortOrder", Values: map[string]string{
			"":             "MANUAL",
			"manual":       "MANUAL",
			"alpha-asc":    "ALPHA_ASC",
			"alpha-desc":   "ALPHA_DESC",
			"best-selling": "BEST_SELLING",
			"created-desc": "CREATED_DESC",
			"created":      "CREATED",
			"price-asc":    "PRICE_ASC",
			"price-desc":   "PRICE_DESC",
		}},
	},
	platform.KindBlogPost: {
		"handle":    {To: "handle"},
		"title":     {To: "title"},
		"body":      {To: "body"},
		"author":    {To: "author.name"},
		"tags":      {To: "tags", Format: stringList},
		"published": {To: "isPublished"},
	},
	platform.KindCustomer: {
		"email":             {To: "email"},
		"first_name":        {To: "firstName"},
		"last_name":         {To: "lastName"},
		"phone":             {To: "phone"},
		"accepts_marketing": {To: "emailMarketingConsent.marketingState", Format: marketingState},
		"tags":              {To: "tags", Format: stringList},
	},
}

var wooTables = map[platform.Kind]Mapping{
	platform.KindProduct: {
		"handle":       {To: "slug"},
		"title":        {To: "name"},
		"description":  {To: "description"},
		"vendor":       {Drop: true},
		"product_type": {Drop: true},
		"status": {To: "status", Values: map[string]string{
			"":                               "draft",
			string(platform.ProductActive):   "publish",
			string(platform.ProductDraft):    "draft",
			string(platform.ProductArchived): "private",
		}},
		"tags":             {To: "tags", Format: wooTags},
		"sku":              {To: "sku"},
		"price":            {To: "regular_price", Format: wooRegularPrice, With: []string{"compare_at_price"}},
		"compare_at_price": {To: "sale_price", Format: wooSalePrice, With: []string{"price"}},
		"inventory":        {To: "stock_quantity"},
	},
	platform.KindCollection: {
		"handle":      {To: "slug"},
		"title":       {To: "name"},
		"description": {To: "description"},
		"sort_order":  {Drop: true},
	},
	platform.KindBlogPost: {
		"handle": {To: "slug"},
		"title":  {To: "title"},
		"body":   {To: "content"},
		"author": {Drop: true},
		"tags":   {Drop: true},
		"published": {To: "status", Format: func(v any, _ platform.Fields) any {
			if utils.ToBool(v) {
				return "publish"
			}
			return "draft"
		}},
	},
	platform.KindCustomer: {
		"email":             {To: "email"},
		"first_name":        {To: "first_name"},
		"last_name":         {To: "last_name"},
		"phone":             {To: "billing.phone"},
		"accepts_marketing": {Drop: true},
		"tags":              {Drop: true},
	},
}
