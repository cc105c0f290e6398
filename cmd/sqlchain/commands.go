package main

import (
	"github.com/spf13/cobra"
)

func newQueryCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "query SQL [ARGS...]",
		Short:   "Run a statement that returns rows",
		Example: `  sqlchain query "SELECT id, name FROM users WHERE age > ?" 18`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := g.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			set, err := db.Raw(args[0], bindings(args[1:])...).FetchRecordsContext(ctx)
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), g.output, set)
		},
	}
}

func newExecCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "exec SQL [ARGS...]",
		Short:   "Run a statement that does not return rows",
		Example: `  sqlchain exec "UPDATE users SET status = ? WHERE id = ?" banned 7`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := g.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := db.Raw(args[0], bindings(args[1:])...).ExecuteContext(ctx)
			if err != nil {
				return err
			}

			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			// PostgreSQL sürücüleri LastInsertId desteklemez.
			var lastID any
			if id, err := res.LastInsertID(); err == nil {
				lastID = id
			}
			return writeValues(cmd.OutOrStdout(), g.output,
				[]string{"rows_affected", "last_insert_id"}, []any{affected, lastID})
		},
	}
}

func newPingCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := g.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Ping(ctx); err != nil {
				return err
			}
			return writeValues(cmd.OutOrStdout(), g.output,
				[]string{"status", "dialect"}, []any{"ok", db.Dialect().Name()})
		},
	}
}

// bindings, komut satırı argümanlarını sürücüye string olarak bağlar.
func bindings(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
