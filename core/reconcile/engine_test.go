package reconcile

import (
	"testing"

	"catalog-sync/core/platform"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productEntity(id, slug, title string, price string) platform.Entity {
	return platform.Entity{
		Kind: platform.KindProduct,
		ID:   id,
		Attrs: &platform.Product{
			Slug:   slug,
			Name:   title,
			Status: platform.ProductActive,
			Price:  decimal.RequireFromString(price),
		},
	}
}

var productOpts = Options{
	Kind:        platform.KindProduct,
	Source:      platform.WooCommerce,
	Destination: platform.Shopify,
}

// summarize strips snapshots so differences can be compared structurally.
type diffView struct {
	Key           string
	DestinationID string
	Fields        []string
}

func views(diffs []Difference) []diffView {
	out := make([]diffView, 0, len(diffs))
	for _, d := range diffs {
		out = append(out, diffView{Key: d.MatchingKey, DestinationID: d.DestinationID, Fields: d.FieldsChanged})
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		source      []platform.Entity
		destination []platform.Entity
		want        []diffView
	}{
		{
			name:        "in sync yields nothing",
			source:      []platform.Entity{productEntity("1", "shirt", "Shirt", "10.00")},
			destination: []platform.Entity{productEntity("gid-1", "shirt", "Shirt", "10")},
			want:        []diffView{},
		},
		{
			name:        "missing on destination is a creation",
			source:      []platform.Entity{productEntity("1", "shirt", "Shirt", "10")},
			destination: nil,
			want:        []diffView{{Key: "shirt", Fields: []string{AllFields}}},
		},
		{
			name:        "changed fields are listed sorted",
			source:      []platform.Entity{productEntity("1", "shirt", "Blue Shirt", "12")},
			destination: []platform.Entity{productEntity("gid-1", "shirt", "Shirt", "10")},
			want:        []diffView{{Key: "shirt", DestinationID: "gid-1", Fields: []string{"price", "title"}}},
		},
		{
			name:        "destination-only entities are ignored",
			source:      nil,
			destination: []platform.Entity{productEntity("gid-1", "orphan", "Orphan", "1")},
			want:        []diffView{},
		},
		{
			name: "keys are case-insensitive and trimmed",
			source: []platform.Entity{
				productEntity("1", " Shirt ", "Shirt", "10"),
			},
			destination: []platform.Entity{productEntity("gid-1", "shirt", "Shirt", "10")},
			want:        []diffView{},
		},
		{
			name: "source order is preserved",
			source: []platform.Entity{
				productEntity("1", "c", "C", "1"),
				productEntity("2", "a", "A", "1"),
				productEntity("3", "b", "B", "1"),
			},
			destination: []platform.Entity{productEntity("gid-2", "a", "A", "2")},
			want: []diffView{
				{Key: "c", Fields: []string{AllFields}},
				{Key: "a", DestinationID: "gid-2", Fields: []string{"price"}},
				{Key: "b", Fields: []string{AllFields}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Detect(tt.source, tt.destination, productOpts)
			if diff := cmp.Diff(tt.want, views(report.Differences), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("differences mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDifference_IsCreation(t *testing.T) {
	tests := []struct {
		name string
		diff Difference
		want bool
	}{
		{"all fields", Difference{FieldsChanged: []string{AllFields}}, true},
		{"all fields with stale id", Difference{FieldsChanged: []string{AllFields}, DestinationID: "9"}, true},
		{"update", Difference{FieldsChanged: []string{"title"}, DestinationID: "9"}, false},
		{"update without destination id", Difference{FieldsChanged: []string{"title"}}, false},
		{"no fields", Difference{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diff.IsCreation())
		})
	}
}

func TestDetect_DifferenceCarriesSnapshot(t *testing.T) {
	src := productEntity("1", "shirt", "Shirt", "10")
	report := Detect([]platform.Entity{src}, nil, productOpts)

	require.Len(t, report.Differences, 1)
	d := report.Differences[0]
	assert.True(t, d.IsCreation())
	assert.Equal(t, platform.WooCommerce, d.SourcePlatform)
	assert.Equal(t, platform.Shopify, d.DestinationPlatform)
	assert.Equal(t, "Shirt", d.Title)
	assert.Equal(t, "shirt", d.Handle)
	assert.Equal(t, src, d.Source)
	assert.Equal(t, 1, report.Summary.Creations)
}

func TestDetect_DuplicateDestinationLastWins(t *testing.T) {
	source := []platform.Entity{productEntity("1", "shirt", "Shirt", "10")}
	destination := []platform.Entity{
		productEntity("gid-1", "shirt", "Old", "10"),
		productEntity("gid-2", "shirt", "Shirt", "10"),
	}

	report := Detect(source, destination, productOpts)

	assert.Empty(t, report.Differences)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, WarningDuplicateDestination, report.Warnings[0].Type)
	assert.Equal(t, "gid-2", report.Warnings[0].EntityID)
	assert.Equal(t, 1, report.Summary.InSync)
}

func TestDetect_DuplicateAndBlankSourceKeys(t *testing.T) {
	source := []platform.Entity{
		productEntity("1", "shirt", "First", "10"),
		productEntity("2", "shirt", "Second", "10"),
		productEntity("3", "", "Nameless", "10"),
	}

	report := Detect(source, nil, productOpts)

	require.Len(t, report.Differences, 1)
	assert.Equal(t, "First", report.Differences[0].Title)
	require.Len(t, report.Warnings, 2)
	assert.Equal(t, WarningDuplicateSource, report.Warnings[0].Type)
	assert.Equal(t, WarningBlankKey, report.Warnings[1].Type)
	assert.Equal(t, 2, report.Summary.Warnings)
}

func TestDetect_IsDeterministic(t *testing.T) {
	source := []platform.Entity{
		productEntity("1", "a", "A", "1"),
		productEntity("2", "b", "B", "2"),
	}
	destination := []platform.Entity{productEntity("x", "b", "B", "3")}

	first := Detect(source, destination, productOpts)
	second := Detect(source, destination, productOpts)

	assert.Equal(t, views(first.Differences), views(second.Differences))
}

func TestDetect_CustomerKeyIsEmail(t *testing.T) {
	source := []platform.Entity{{
		Kind:  platform.KindCustomer,
		ID:    "7",
		Attrs: &platform.Customer{Email: "Ann@Example.com", FirstName: "Ann", Tags: []string{"vip", "b2b"}},
	}}
	destination := []platform.Entity{{
		Kind:  platform.KindCustomer,
		ID:    "gid-7",
		Attrs: &platform.Customer{Email: "ann@example.com", FirstName: "Ann", Tags: []string{"b2b", "vip"}},
	}}

	report := Detect(source, destination, Options{
		Kind:        platform.KindCustomer,
		Source:      platform.Shopify,
		Destination: platform.WooCommerce,
	})

	assert.Empty(t, report.Differences)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(" a ", "a"))
	assert.True(t, Equal(nil, ""))
	assert.True(t, Equal("", nil))
	assert.True(t, Equal(decimal.RequireFromString("1.50"), "1.5"))
	assert.True(t, Equal([]string{"x", "y"}, []string{"y", "x", "x"}))
	assert.True(t, Equal(3, "3"))
	assert.False(t, Equal(true, false))
	assert.False(t, Equal("a", "b"))
}
