package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robotomize/gocyconv"
	"github.com/robotomize/gocyconv/internal/config"
	"github.com/robotomize/gocyconv/internal/logging"
	"github.com/robotomize/gocyconv/label"
	"golang.org/x/text/language"
)

var errUsage = errors.New("use -amount <value> -from <code> -to <code> or -list")

func main() {
	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logging.WithLogger(ctx, logging.NewLogger("Gocyconv: ", log.Lmsgprefix))
	logger := logging.FromContext(ctx)

	err := realMain(ctx, os.Args[1:], os.Stdout)
	done()

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Print(err)
		os.Exit(1)
	}
}

func realMain(ctx context.Context, args []string, stdout io.Writer) error {
	flagSet := flag.NewFlagSet("gocyconv", flag.ContinueOnError)

	var (
		amount = flagSet.Float64("amount", 0, "amount of the source currency")
		from   = flagSet.String("from", "", "source currency code")
		to     = flagSet.String("to", "", "target currency code")
		base   = flagSet.String("base", "", "base currency of the fetched rates, overrides "+config.KeyBase)
		list   = flagSet.Bool("list", false, "print the currencies of the latest rates")
		lang   = flagSet.String("lang", "", "language of the number format, e.g. en or de")
		env    = flagSet.String("env", "", "path to an env file, .env by default")
	)

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	var files []string
	if *env != "" {
		files = append(files, *env)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *base != "" {
		cfg.Base, err = label.Parse(*base)
		if err != nil {
			return fmt.Errorf("base: %w", err)
		}
	}

	store := gocyconv.New(http.DefaultClient, cfg.Options()...)

	if *list {
		if _, err := store.Latest(ctx); err != nil {
			return fmt.Errorf("latest rates: %w", err)
		}

		for _, c := range store.Currencies() {
			if _, err := fmt.Fprintf(stdout, "%s\t%s\n", c.Symbol, c.Name); err != nil {
				return err
			}
		}

		return nil
	}

	if *from == "" || *to == "" {
		return errUsage
	}

	if math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount < 0 {
		return fmt.Errorf("amount must be a non-negative number, got %v", *amount)
	}

	fromSymbol, err := label.Parse(*from)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}

	toSymbol, err := label.Parse(*to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	resp, err := store.Convert(ctx, gocyconv.ConvOpt{From: fromSymbol, To: toSymbol, Value: *amount})
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	line := resp.String()
	if *lang != "" {
		tag, err := language.Parse(*lang)
		if err != nil {
			return fmt.Errorf("lang: %w", err)
		}
		line = resp.Format(tag)
	}

	_, err = fmt.Fprintln(stdout, line)

	return err
}
