package stats

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/pgdash/internal/errors"
)

// DetailKind selects a drill-down listing of one object kind.
type DetailKind string

const (
	DetailTables    DetailKind = "tables"
	DetailViews     DetailKind = "views"
	DetailFunctions DetailKind = "functions"
)

// Detail is the full, non-summarized listing for one object kind. Every
// cell is pre-rendered text.
type Detail struct {
	Kind    DetailKind
	Columns []string
	Rows    [][]string
}

// Detail fetches the complete listing for the given kind. An unknown
// kind is a programming error and fails immediately without touching
// the connection.
func (c *Collector) Detail(ctx context.Context, q Querier, kind DetailKind) (*Detail, error) {
	var (
		query   string
		columns []string
	)
	switch kind {
	case DetailTables:
		query = queryDetailTables
		columns = []string{"Schema", "Name", "Owner", "Size"}
	case DetailViews:
		query = queryDetailViews
		columns = []string{"Schema", "Name"}
	case DetailFunctions:
		query = queryDetailFunctions
		columns = []string{"Schema", "Name", "Returns"}
	default:
		return nil, errors.New(errors.ErrCollect,
			fmt.Sprintf("Unknown detail kind %q", kind), "")
	}

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCollect,
			fmt.Sprintf("Cannot list %s", kind), "")
	}
	defer rows.Close()

	detail := &Detail{Kind: kind, Columns: columns}
	for rows.Next() {
		cells := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCollect,
				fmt.Sprintf("Cannot list %s", kind), "")
		}
		detail.Rows = append(detail.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCollect,
			fmt.Sprintf("Cannot list %s", kind), "")
	}

	return detail, nil
}
