package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/tuanvumaihuynh/storefront/internal/client"
	"github.com/tuanvumaihuynh/storefront/internal/config"
	"github.com/tuanvumaihuynh/storefront/internal/log"
	"github.com/tuanvumaihuynh/storefront/pkg/cmdutil"
	"github.com/tuanvumaihuynh/storefront/pkg/correlationid"
)

const usage = `usage: sf-client [flags] <command> [command flags]

commands:
  products [-q query] [-i]    list products, optionally searching
  brands [-q query]           list brands with their products
  categories                  list categories
  category <id> [-q query]    list the products of one category
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error running client: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type Config struct {
		Log    config.Log
		Client config.Client
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	global := pflag.NewFlagSet("sf-client", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	apiURL := global.String("api-url", cfg.Client.BaseURL, "storefront API base URL")
	timeout := global.Duration("timeout", cfg.Client.Timeout, "per request timeout")
	noColor := global.Bool("no-color", false, "disable brand colours")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}
	cfg.Client.BaseURL = *apiURL
	cfg.Client.Timeout = *timeout

	logger := log.NewSlogLoggerTo(os.Stderr, cfg.Log)

	api, err := client.NewAPIClient(cfg.Client, logger)
	if err != nil {
		return fmt.Errorf("error creating api client: %w", err)
	}

	go func() {
		<-cmdutil.InterruptChan()
		cancel()
	}()
	ctx = correlationid.NewContext(ctx, correlationid.New())

	renderer := client.NewRenderer(os.Stdout, client.NewPalette(cfg.Client, !*noColor))

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "products":
		return runProducts(ctx, rest, api, renderer)
	case "category":
		return runCategory(ctx, rest, api, renderer)
	case "brands":
		return runBrands(ctx, rest, api, renderer)
	case "categories":
		categories, err := api.Categories(ctx)
		if err != nil {
			return err
		}
		renderer.Categories(categories)
		return nil
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runProducts(ctx context.Context, args []string, api *client.APIClient, r *client.Renderer) error {
	fs := pflag.NewFlagSet("products", pflag.ContinueOnError)
	query := fs.StringP("query", "q", "", "search by product or brand name")
	interactive := fs.BoolP("interactive", "i", false, "read search queries from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := client.NewView(func(ctx context.Context) ([]client.Product, error) {
		res, err := api.Products(ctx)
		return res.Products, err
	})
	if *interactive {
		return interact(ctx, view, r, os.Stdin)
	}
	return show(ctx, view, r, *query)
}

func runCategory(ctx context.Context, args []string, api *client.APIClient, r *client.Renderer) error {
	fs := pflag.NewFlagSet("category", pflag.ContinueOnError)
	query := fs.StringP("query", "q", "", "search inside the category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("category needs exactly one category id")
	}
	categoryID := fs.Arg(0)

	view := client.NewView(func(ctx context.Context) ([]client.Product, error) {
		res, err := api.ProductsByCategory(ctx, categoryID)
		return res.Products, err
	}, client.WithEmptyMessage(client.EmptyCategoryMessage))
	return show(ctx, view, r, *query)
}

func runBrands(ctx context.Context, args []string, api *client.APIClient, r *client.Renderer) error {
	fs := pflag.NewFlagSet("brands", pflag.ContinueOnError)
	query := fs.StringP("query", "q", "", "search by brand name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	brands, err := api.Brands(ctx)
	if err != nil {
		return err
	}
	r.Brands(client.FilterBrands(brands, *query))
	return nil
}

// show loads the view once, applies query and prints the outcome.
func show(ctx context.Context, view *client.View, r *client.Renderer, query string) error {
	view.Mount(ctx)
	defer view.Unmount()
	view.Wait()

	snap := view.Search(query)
	r.Snapshot(snap)
	if snap.State == client.StateFailed {
		return errors.New(snap.Message)
	}
	return nil
}

// interact treats every input line as a new search. ":r" retries a failed
// load and ":q" quits.
func interact(ctx context.Context, view *client.View, r *client.Renderer, in io.Reader) error {
	view.Mount(ctx)
	defer view.Unmount()
	view.Wait()
	r.Snapshot(view.Snapshot())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case ":q":
			return nil
		case ":r":
			if view.Retry(ctx) {
				start := time.Now()
				view.Wait()
				slog.DebugContext(ctx, "reloaded products", slog.Duration("took", time.Since(start)))
			}
			r.Snapshot(view.Snapshot())
		default:
			r.Snapshot(view.Search(line))
		}
	}
}
