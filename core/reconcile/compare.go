package reconcile

import (
	"reflect"
	"sort"
	"strings"

	"catalog-sync/core/platform"
	"catalog-sync/core/utils"

	"github.com/shopspring/decimal"
)

// KeyFunc extracts the cross-platform matching key of an entity.
type KeyFunc func(platform.Entity) string

// DefaultKeyFields is the canonical field used as matching key per kind.
var DefaultKeyFields = map[platform.Kind]string{
	platform.KindProduct:      "handle",
	platform.KindCollection:   "handle",
	platform.KindBlogPost:     "handle",
	platform.KindReview:       "external_id",
	platform.KindCustomer:     "email",
	platform.KindShippingZone: "name",
}

// KeyByField builds a KeyFunc reading a canonical field, trimmed and lower-cased.
func KeyByField(field string) KeyFunc {
	return func(e platform.Entity) string {
		return strings.ToLower(strings.TrimSpace(utils.ToString(e.Field(field))))
	}
}

// DefaultKey returns the default KeyFunc for kind.
func DefaultKey(kind platform.Kind) KeyFunc {
	field, ok := DefaultKeyFields[kind]
	if !ok {
		field = "handle"
	}
	return KeyByField(field)
}

// Comparator returns the names of the fields that differ between a source and a
// destination entity. An empty result means the entity is in sync.
type Comparator interface {
	Compare(source, destination platform.Entity) []string
}

// TrackedFields lists the canonical fields compared per kind, in report order.
var TrackedFields = map[platform.Kind][]string{
	platform.KindProduct: {
		"title", "description", "vendor", "product_type", "status", "tags",
		"sku", "price", "compare_at_price", "inventory",
	},
	platform.KindCollection:   {"title", "description", "sort_order"},
	platform.KindBlogPost:     {"title", "body", "author", "tags", "published"},
	platform.KindReview:       {"product_handle", "author", "email", "rating", "body", "verified"},
	platform.KindCustomer:     {"first_name", "last_name", "phone", "accepts_marketing", "tags"},
	platform.KindShippingZone: {"countries", "rates"},
}

// FieldComparator compares a fixed list of canonical fields.
type FieldComparator struct {
	Fields []string
}

// Compare implements Comparator. Changed names are returned sorted.
func (c FieldComparator) Compare(source, destination platform.Entity) []string {
	src := source.Attrs.Fields()
	dst := destination.Attrs.Fields()

	var changed []string
	for _, name := range c.Fields {
		if !Equal(src[name], dst[name]) {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// ComparatorFor returns the table-driven comparator for kind.
func ComparatorFor(kind platform.Kind) Comparator {
	return FieldComparator{Fields: TrackedFields[kind]}
}

// Equal compares two canonical field values after normalisation: strings are
// trimmed, decimals compared numerically, string lists compared as sets.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return isZero(b)
	case string:
		if b == nil {
			return strings.TrimSpace(av) == ""
		}
		return strings.TrimSpace(av) == strings.TrimSpace(utils.ToString(b))
	case decimal.Decimal:
		return av.Equal(utils.ToDecimal(b))
	case []string:
		return reflect.DeepEqual(utils.SortedSet(av), utils.SortedSet(utils.ToStrings(b)))
	case int:
		return av == utils.ToInt(b)
	case bool:
		return av == utils.ToBool(b)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func isZero(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(tv) == ""
	case []string:
		return len(utils.SortedSet(tv)) == 0
	case decimal.Decimal:
		return tv.IsZero()
	case int:
		return tv == 0
	case bool:
		return !tv
	default:
		return false
	}
}
