package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/rickgao/treasury-data/internal/analytics"
	"github.com/rickgao/treasury-data/internal/model"
)

type pricesCmd struct {
	date string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print stored prices of a date with their references" }
func (*pricesCmd) Usage() string {
	return `ust prices [-date <date>]

  Prints every stored price row of the date, joined with the security
  reference when one has been resolved.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "price date (YYYY-MM-DD, default today)")
}

func (c *pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	rows, err := a.reads.RetrieveAsOf(ctx, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	writePrices(os.Stdout, rows)
	return subcommands.ExitSuccess
}

type curveCmd struct {
	date string
}

func (*curveCmd) Name() string     { return "curve" }
func (*curveCmd) Synopsis() string { return "print the yield of every note and bond priced on a date" }
func (*curveCmd) Usage() string {
	return `ust curve [-date <date>]

  Computes yields from end-of-day prices, using the price date as the
  evaluation date. Rows without a usable price show NaN.
`
}

func (c *curveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "price date (YYYY-MM-DD, default today)")
}

func (c *curveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := setup(ctx, c.Name())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	table, err := a.reads.YieldTable(ctx, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	writeCurve(os.Stdout, table)
	return subcommands.ExitSuccess
}

func writePrices(w io.Writer, rows []model.JoinedRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUSIP\tTYPE\tCOUPON\tMATURITY\tBUY\tSELL\tEND OF DAY")
	for _, r := range rows {
		kind, coupon, maturity := "-", "-", "-"
		if ref := r.Reference; ref != nil {
			kind = string(ref.SecurityType)
			coupon = analytics.CouponLabel(ref.CouponRate)
			maturity = ref.MaturityDate.Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CUSIP, kind, coupon, maturity, formatPrice(r.Buy), formatPrice(r.Sell), formatPrice(r.EndOfDay))
	}
	tw.Flush()
}

func writeCurve(w io.Writer, table []analytics.YieldRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUSIP\tTYPE\tCOUPON\tMATURITY\tTTM\tTERM\tPRICE\tYIELD")
	for _, r := range table {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.3f\t%.3f\t%s\t%s\n",
			r.CUSIP, r.SecurityType, r.CouponLabel, r.MaturityDate.Format(time.DateOnly),
			r.TimeToMaturity, r.Term, formatPrice(r.Price), formatYield(r.Yield))
	}
	tw.Flush()
}

func formatPrice(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(6)
}

func formatYield(y float64) string {
	if math.IsNaN(y) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f%%", y*100)
}
