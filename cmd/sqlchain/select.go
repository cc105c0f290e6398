package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sqlchain "github.com/biyonik/go-sqlchain"
	"github.com/biyonik/go-sqlchain/internal/validation"
)

type selectOptions struct {
	columns []string
	where   []string
	order   []string
	limit   int
	offset  int
	dryRun  bool
}

func newSelectCmd(g *globalOptions) *cobra.Command {
	opts := &selectOptions{}

	cmd := &cobra.Command{
		Use:   "select TABLE",
		Short: "Build a SELECT statement from flags and print the rows",
		Example: `  sqlchain select users --columns id,name --where "age > 18" --order name:desc --limit 10
  sqlchain select users --where "deleted_at IS NULL" --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if opts.dryRun {
				d, err := g.dialect()
				if err != nil {
					return err
				}
				b, err := opts.build(sqlchain.New(sqlchain.WithDialect(d)), args[0])
				if err != nil {
					return err
				}
				query, params, err := b.SQL()
				if err != nil {
					return err
				}
				return writeValues(cmd.OutOrStdout(), g.output, []string{"sql", "args"}, []any{query, fmt.Sprint(params)})
			}

			db, err := g.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			b, err := opts.build(db.Query(), args[0])
			if err != nil {
				return err
			}
			set, err := b.FetchRecordsContext(ctx)
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), g.output, set)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.columns, "columns", nil, "columns to select (comma separated, default *)")
	flags.StringArrayVar(&opts.where, "where", nil,
		`condition "column operator value", can be repeated; operators: `+strings.Join(validation.AllowedOperators(), " "))
	flags.StringArrayVar(&opts.order, "order", nil, "order column, optionally column:desc, can be repeated")
	flags.IntVar(&opts.limit, "limit", 0, "maximum number of rows (0 = no limit)")
	flags.IntVar(&opts.offset, "offset", 0, "rows to skip")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the statement and arguments without running it")

	return cmd
}

// build, bayraklardan ifadeyi b'ye yazar.
func (o *selectOptions) build(b *sqlchain.Builder, table string) (*sqlchain.Builder, error) {
	b.Select(o.columns...).From(table)

	for _, w := range o.where {
		column, operator, value, err := parseCondition(w)
		if err != nil {
			return nil, err
		}
		b.Where(column, operator, value)
	}

	for _, ord := range o.order {
		column, dir, _ := strings.Cut(ord, ":")
		b.OrderBy(column, dir)
	}

	if o.limit > 0 {
		b.Limit(o.limit)
	}
	if o.offset > 0 {
		b.Offset(o.offset)
	}

	return b, b.Err()
}

// parseCondition, "column operator value" biçimini ayrıştırır. Operatör birden
// fazla kelime olabilir ("NOT LIKE", "IS NOT"); değer son kelimedir. NULL
// değeri nil olur.
func parseCondition(s string) (column, operator string, value any, err error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return "", "", nil, fmt.Errorf("invalid condition %q: expected \"column operator value\"", s)
	}

	column = fields[0]
	operator = strings.Join(fields[1:len(fields)-1], " ")
	raw := fields[len(fields)-1]
	if strings.EqualFold(raw, "null") {
		return column, operator, nil, nil
	}
	return column, operator, raw, nil
}
