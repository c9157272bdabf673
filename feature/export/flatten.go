package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"catalog-sync/core/platform"
	"catalog-sync/core/utils"

	"github.com/goccy/go-json"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Columns returns the CSV header of kind: the entity id followed by the
// canonical field names in alphabetical order.
func Columns(kind platform.Kind) ([]string, error) {
	attrs, err := platform.DecodeFields(kind, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(attrs.Fields()))
	for name := range attrs.Fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{"id"}, names...), nil
}

// cell renders one canonical value. Lists are comma separated, which
// utils.ToStrings splits back.
func cell(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return utils.ToString(v)
}

// CSV flattens entities of one kind into a denormalized table.
func CSV(kind platform.Kind, entities []platform.Entity) ([]byte, error) {
	cols, err := Columns(kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	row := make([]string, len(cols))
	for _, e := range entities {
		if e.Attrs == nil {
			return nil, fmt.Errorf("entity %s has no attributes", e.ID)
		}
		fields := e.Attrs.Fields()
		row[0] = e.ID
		for i, col := range cols[1:] {
			row[i+1] = cell(fields[col])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON encodes entities as an array of {kind, id, fields} objects.
func JSON(entities []platform.Entity) ([]byte, error) {
	if entities == nil {
		entities = []platform.Entity{}
	}
	return json.MarshalIndent(entities, "", "  ")
}
