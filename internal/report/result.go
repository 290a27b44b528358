// Package report carries task results tagged with their structural shape and
// serializes them to CSV, JSON or the terminal.
package report

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ErrUnsupportedShape is returned when a result cannot be serialized in the
// requested format.
var ErrUnsupportedShape = eris.New("report: unsupported result shape")

// Shape is the structural kind of a Result.
type Shape int

const (
	ShapeList    Shape = iota + 1 // ordered titles
	ShapeMapping                  // key to list of values
	ShapeTable                    // slice of structs with csv tags
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeMapping:
		return "mapping"
	case ShapeTable:
		return "table"
	default:
		return "unknown"
	}
}

// Result is the output of one analysis task.
type Result struct {
	Task    string              `json:"task"`
	Shape   Shape               `json:"-"`
	Items   []string            `json:"items,omitempty"`
	Mapping map[string][]string `json:"mapping,omitempty"`
	Rows    any                 `json:"rows,omitempty"`
}

// List builds a list-shaped result.
func List(task string, items []string) Result {
	if items == nil {
		items = []string{}
	}
	return Result{Task: task, Shape: ShapeList, Items: items}
}

// Mapping builds a mapping-shaped result.
func Mapping(task string, m map[string][]string) Result {
	if m == nil {
		m = map[string][]string{}
	}
	return Result{Task: task, Shape: ShapeMapping, Mapping: m}
}

// Table builds a table-shaped result. rows must be a slice of structs.
func Table(task string, rows any) (Result, error) {
	v := reflect.ValueOf(rows)
	if v.Kind() != reflect.Slice {
		return Result{}, eris.Wrapf(ErrUnsupportedShape, "table %s: rows are %T, not a slice", task, rows)
	}
	elem := v.Type().Elem()
	if elem.Kind() != reflect.Struct {
		return Result{}, eris.Wrapf(ErrUnsupportedShape, "table %s: rows hold %s, not structs", task, elem.Kind())
	}
	return Result{Task: task, Shape: ShapeTable, Rows: rows}, nil
}

// Len returns the number of items, keys or rows in r.
func (r Result) Len() int {
	switch r.Shape {
	case ShapeList:
		return len(r.Items)
	case ShapeMapping:
		return len(r.Mapping)
	case ShapeTable:
		if r.Rows == nil {
			return 0
		}
		return reflect.ValueOf(r.Rows).Len()
	default:
		return 0
	}
}
