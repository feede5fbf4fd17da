package contract

import (
	"reflect"
	"strings"

	"data-france/feature/contract/models"
)

// Column is one artifact column as declared by a model.
type Column struct {
	Name     string
	Type     string // empty when the model does not pin a type
	Nullable bool
}

// Columns returns the columns of model, in artifact order. Embedded structs are
// flattened in place.
func Columns(model models.Model) []Column {
	return columnsOf(reflect.TypeOf(model))
}

func columnsOf(t reflect.Type) []Column {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var out []Column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("gorm")

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			out = append(out, columnsOf(field.Type)...)
			continue
		}

		name := parseGormSetting(tag, "column")
		if name == "" {
			continue
		}
		out = append(out, Column{
			Name:     name,
			Type:     strings.ToLower(parseGormSetting(tag, "type")),
			Nullable: field.Type.Kind() == reflect.Pointer,
		})
	}
	return out
}

// Names returns the column names, in order.
func Names(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// parseGormSetting returns the value of a key:value setting of a gorm tag.
func parseGormSetting(tag, key string) string {
	for _, p := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(p, key+":"); ok {
			return v
		}
	}
	return ""
}
