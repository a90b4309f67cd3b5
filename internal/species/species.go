// Package species rebuilds billing line items spread over ESPECIE_<FIELD>_<CODE> columns.
package species

import (
	"strings"

	"github.com/farxc/consulta-energia/internal/records"
)

const (
	prefix    = "ESPECIE_"
	separator = "_"
)

type Field int

const (
	FieldCodigo Field = iota
	FieldDescricao
	FieldValor
)

var fieldNames = map[string]Field{
	"codigo":    FieldCodigo,
	"descricao": FieldDescricao,
	"valor":     FieldValor,
}

// Column is a classified ESPECIE_<FIELD>_<CODE> column name.
type Column struct {
	Field Field
	Code  string
}

// Item is one line item. An empty Description or Amount means absent.
type Item struct {
	Code        string
	Description string
	Amount      string
}

// Classify parses a column name. The prefix is case-sensitive, the field is
// not, and the code is everything after the second separator.
func Classify(column string) (Column, bool) {
	if !strings.HasPrefix(column, prefix) {
		return Column{}, false
	}
	parts := strings.SplitN(column, separator, 3)
	if len(parts) < 3 {
		return Column{}, false
	}
	field, ok := fieldNames[strings.ToLower(parts[1])]
	if !ok {
		return Column{}, false
	}
	return Column{Field: field, Code: parts[2]}, true
}

func skipValue(v string) bool {
	return v == "" || v == "nan"
}

// Extract walks rec's columns in order and returns its line items in order of
// first appearance.
//
// A codigo column writes its value into Description and moves the previous
// Description into Amount.
func Extract(rec records.Record) []Item {
	var items []Item
	index := make(map[string]int)

	rec.Range(func(col, val string) bool {
		if skipValue(val) {
			return true
		}
		c, ok := Classify(col)
		if !ok {
			return true
		}

		i, seen := index[c.Code]
		if !seen {
			i = len(items)
			index[c.Code] = i
			items = append(items, Item{Code: c.Code})
		}

		it := &items[i]
		switch c.Field {
		case FieldCodigo:
			it.Amount = it.Description
			it.Description = val
		case FieldDescricao:
			it.Description = val
		case FieldValor:
			it.Amount = val
		}
		return true
	})

	return items
}
