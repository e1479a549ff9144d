package nba

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type response struct {
	ResultSets []resultSet `json:"resultSets"`
}

// resultSet is the tabular payload every stats endpoint returns: a header
// row plus rows of mixed strings and numbers.
type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (r *response) table(name string) (*table, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return newTable(&r.ResultSets[i]), nil
		}
	}
	return nil, fmt.Errorf("result set %q missing", name)
}

type table struct {
	set     *resultSet
	columns map[string]int
}

func newTable(set *resultSet) *table {
	columns := make(map[string]int, len(set.Headers))
	for i, h := range set.Headers {
		columns[h] = i
	}
	return &table{set: set, columns: columns}
}

// require checks that all named columns are present
func (t *table) require(names ...string) error {
	for _, n := range names {
		if _, ok := t.columns[n]; !ok {
			return fmt.Errorf("result set %q has no column %s", t.set.Name, n)
		}
	}
	return nil
}

func (t *table) cell(row int, column string) (any, error) {
	idx := t.columns[column]
	if idx >= len(t.set.RowSet[row]) {
		return nil, fmt.Errorf("row %d is missing column %s", row, column)
	}
	return t.set.RowSet[row][idx], nil
}

func (t *table) str(row int, column string) (string, error) {
	v, err := t.cell(row, column)
	if err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("row %d column %s: unexpected %T", row, column, v)
}

// int reads a counting stat. Missing values (null) count as zero.
func (t *table) int(row int, column string) (int, error) {
	v, err := t.cell(row, column)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("row %d column %s: %w", row, column, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, fmt.Errorf("row %d column %s: %w", row, column, err)
		}
		return n, nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("row %d column %s: unexpected %T", row, column, v)
}

func (t *table) rows() int {
	return len(t.set.RowSet)
}
