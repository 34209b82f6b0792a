// Package datasets implements the tables FunDNN reads and writes and the
// loader that cuts them into batches.
package datasets

import "sort"
import "strconv"
import "strings"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// ErrShape is returned when index, columns and data disagree.
var ErrShape = errors.New("datasets: shape mismatch")

// Table is a numeric matrix with a row index and column labels, the Go
// counterpart of the feature and GECs frames.
type Table struct {
	IndexName string
	Index     []string
	Columns   []string
	Data      *mat.Dense
}

// NewTable checks that index and columns match data and that index labels
// are unique. Nil columns are replaced by "0", "1", ...
func NewTable(index, columns []string, data *mat.Dense) (Table, error) {
	r, c := data.Dims()
	if len(index) != r {
		return Table{}, errors.Wrapf(ErrShape, "%d index labels for %d rows", len(index), r)
	}
	if columns == nil {
		columns = make([]string, c)
		for i := range columns {
			columns[i] = strconv.Itoa(i)
		}
	}
	if len(columns) != c {
		return Table{}, errors.Wrapf(ErrShape, "%d column labels for %d columns", len(columns), c)
	}
	seen := make(map[string]struct{}, len(index))
	for _, k := range index {
		if _, dup := seen[k]; dup {
			return Table{}, errors.Errorf("duplicate index label %q", k)
		}
		seen[k] = struct{}{}
	}
	return Table{Index: index, Columns: columns, Data: data}, nil
}

// Shape returns rows and columns.
func (t Table) Shape() (int, int) {
	return t.Data.Dims()
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Index)
}

// Select returns a new table holding the given rows in the given order.
func (t Table) Select(rows []int) Table {
	_, c := t.Data.Dims()
	index := make([]string, len(rows))
	data := &mat.Dense{}
	if len(rows) > 0 {
		data = mat.NewDense(len(rows), c, nil)
	}
	for i, r := range rows {
		index[i] = t.Index[r]
		data.SetRow(i, t.Data.RawRowView(r))
	}
	return Table{IndexName: t.IndexName, Index: index, Columns: t.Columns, Data: data}
}

// Sorted returns the table with rows ordered by index label ascending.
// When every label is an integer, or else every label is a number, labels
// compare numerically, otherwise as strings.
func (t Table) Sorted() Table {
	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	less := func(a, b int) bool { return t.Index[a] < t.Index[b] }
	if ints, ok := parseIndex(t.Index, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }); ok {
		less = func(a, b int) bool { return ints[a] < ints[b] }
	} else if floats, ok := parseIndex(t.Index, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }); ok {
		less = func(a, b int) bool { return floats[a] < floats[b] }
	}
	sort.SliceStable(order, func(i, j int) bool {
		return less(order[i], order[j])
	})
	return t.Select(order)
}

func parseIndex[T int64 | float64](index []string, parse func(string) (T, error)) ([]T, bool) {
	out := make([]T, len(index))
	for i, k := range index {
		v, err := parse(strings.TrimSpace(k))
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, len(index) > 0
}

// Align restricts features and gecs to their common index labels, in the
// order they appear in gecs.
func Align(features, gecs Table) (Table, Table, error) {
	pos := make(map[string]int, features.Len())
	for i, k := range features.Index {
		pos[k] = i
	}
	var fr, gr []int
	for i, k := range gecs.Index {
		if j, ok := pos[k]; ok {
			fr = append(fr, j)
			gr = append(gr, i)
		}
	}
	if len(fr) == 0 {
		return Table{}, Table{}, errors.New("features and GECs share no index labels")
	}
	return features.Select(fr), gecs.Select(gr), nil
}
