package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/rickgao/treasury-data/internal/bond"
	"github.com/rickgao/treasury-data/internal/model"
)

type yieldCmd struct {
	kind     string
	issue    string
	maturity string
	coupon   float64
	asOf     string
	price    float64
}

func (*yieldCmd) Name() string { return "yield" }
func (*yieldCmd) Synopsis() string {
	return "compute the yield of one note or bond from its clean price"
}
func (*yieldCmd) Usage() string {
	return `ust yield -issue <date> -maturity <date> -coupon <rate> -price <clean> [-type Note] [-asof <date>]

  Solves the yield of a fixed-rate Treasury note or bond. The coupon is a
  decimal fraction (0.02 for 2%). Does not touch the database.
`
}

func (c *yieldCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "type", "Note", "security type (Note, Bond)")
	f.StringVar(&c.issue, "issue", "", "issue date (YYYY-MM-DD)")
	f.StringVar(&c.maturity, "maturity", "", "maturity date (YYYY-MM-DD)")
	f.Float64Var(&c.coupon, "coupon", 0, "annual coupon rate as a decimal fraction")
	f.StringVar(&c.asOf, "asof", "", "evaluation date (YYYY-MM-DD, default today)")
	f.Float64Var(&c.price, "price", 0, "clean price per 100 face")
}

func (c *yieldCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := model.ParseSecurityType(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.issue == "" || c.maturity == "" {
		fmt.Fprintln(os.Stderr, "Error: -issue and -maturity are required")
		return subcommands.ExitUsageError
	}
	var issue, maturity, asOf time.Time
	for _, p := range []struct {
		dst *time.Time
		src string
	}{{&issue, c.issue}, {&maturity, c.maturity}, {&asOf, c.asOf}} {
		if *p.dst, err = parseDate(p.src); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	y, err := bond.ComputeYield(kind, issue, maturity, c.coupon, asOf, c.price)
	if errors.Is(err, bond.ErrUnsupportedSecurityType) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(formatYield(y))
	return subcommands.ExitSuccess
}
