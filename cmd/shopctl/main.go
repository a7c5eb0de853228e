// Command shopctl runs maintenance tasks against the shop database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/clothing_shop/pkg/db"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		dsn     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:          "shopctl",
		Short:        "Maintenance tasks for the clothing shop database",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "database DSN (postgres URL or sqlite:<path>)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")

	open := func(cmd *cobra.Command) (context.Context, func(), *gorm.DB, error) {
		if dsn == "" {
			return nil, nil, nil, fmt.Errorf("--dsn or DATABASE_URL required")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

		db, err := pkgdb.Open(ctx, dsn)
		if err != nil {
			stop()
			cancel()
			return nil, nil, nil, err
		}
		return ctx, func() {
			_ = pkgdb.Close(db)
			stop()
			cancel()
		}, db, nil
	}

	cmd.AddCommand(migrateCmd(open), recomputeCmd(open))
	return cmd
}

type opener func(cmd *cobra.Command) (context.Context, func(), *gorm.DB, error)

func migrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, done, db, err := open(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := repo.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func recomputeCmd(open opener) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "recompute-totals",
		Short: "Reprice every open order and report stored totals that drifted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done, db, err := open(cmd)
			if err != nil {
				return err
			}
			defer done()

			drifted, err := recomputeTotals(ctx, &repo.GormRepo{DB: db}, cmd.OutOrStdout(), dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d order(s) drifted\n", drifted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without writing")
	return cmd
}

// recomputeTotals reprices each open order in its own transaction and writes
// one line per order whose stored total differed.
func recomputeTotals(ctx context.Context, r *repo.GormRepo, w io.Writer, dryRun bool) (int, error) {
	var nums []uint64
	err := r.InTx(ctx, func(tx *repo.Tx) error {
		var err error
		nums, err = tx.OpenOrderNums(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("list open orders: %w", err)
	}

	drifted := 0
	for _, n := range nums {
		err := r.InTx(ctx, func(tx *repo.Tx) error {
			order, err := tx.GetOrder(ctx, n)
			if err != nil {
				return err
			}
			if order.Status != models.OrderStatusOpen {
				return nil
			}

			var src pricing.LineItemSource = tx
			if dryRun {
				src = readOnly{tx}
			}
			total, err := pricing.Recompute(ctx, src, n)
			if err != nil {
				return err
			}
			if !total.Equal(order.TotalPrice) {
				drifted++
				fmt.Fprintf(w, "order %d: stored %s, computed %s\n", n, order.TotalPrice.StringFixed(2), total.StringFixed(2))
			}
			return nil
		})
		if err != nil {
			return drifted, fmt.Errorf("order %d: %w", n, err)
		}
	}
	return drifted, nil
}

type readOnly struct{ *repo.Tx }

func (readOnly) SetTotal(context.Context, uint64, decimal.Decimal) error { return nil }
