// storefront は medkit ストアの REST API を端末から操作する CLI。
//
// 	storefront [global flags] <group> <command> [flags] [args]
//
// group は auth, products, cart, checkout, delivery, admin。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"medkit/internal/apiclient"
	"medkit/internal/config"
	"medkit/internal/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type app struct {
	cfg    config.ClientConfig
	client *apiclient.Client
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	cfgPath := fs.String("config", "", "path to storefront.yaml")
	fs.String("base-url", "", "API base URL including /api")
	fs.String("token", "", "bearer token")
	fs.String("customer-id", "", "customer id used by cart/checkout/delivery")
	fs.Duration("timeout", 0, "HTTP timeout")
	fs.String("log-level", "", "debug / info / warn / error")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	cfg, err := config.LoadClient(*cfgPath, fs)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: "stderr"})
	defer func() { _ = log.Sync() }()

	a := &app{
		cfg: cfg,
		client: apiclient.New(cfg.BaseURL,
			apiclient.WithTimeout(cfg.Timeout),
			apiclient.WithToken(cfg.Token),
			apiclient.WithLogger(log),
		),
		log:    log,
		out:    stdout,
		errOut: stderr,
	}

	args := fs.Args()
	if len(args) < 2 {
		usage(stderr)
		return errUsage
	}
	cmds, ok := groups()[args[0]]
	if !ok {
		usage(stderr)
		return errUsage
	}
	for _, c := range cmds {
		if c.name == args[1] {
			return c.run(ctx, a, args[2:])
		}
	}
	groupUsage(stderr, args[0], cmds)
	return errUsage
}

func groups() map[string][]command {
	return map[string][]command{
		"auth":     authCommands(),
		"products": productCommands(),
		"cart":     cartCommands(),
		"checkout": checkoutCommands(),
		"delivery": deliveryCommands(),
		"admin":    adminCommands(),
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: storefront [--config f] [--base-url u] [--token t] [--customer-id id] <group> <command> [flags]")
	names := make([]string, 0)
	for name := range groups() {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "groups:", strings.Join(names, ", "))
}

func groupUsage(w io.Writer, group string, cmds []command) {
	fmt.Fprintf(w, "usage: storefront %s <command>\n", group)
	for _, c := range cmds {
		fmt.Fprintf(w, "  %-14s %s\n", c.name, c.usage)
	}
}

// コマンドごとのフラグ。-h は errUsage 扱い。
func (a *app) newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) parse(fs *pflag.FlagSet, args []string, min int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if fs.NArg() < min {
		fmt.Fprintf(a.errOut, "%s: expected %d argument(s)\n", fs.Name(), min)
		fs.PrintDefaults()
		return nil, errUsage
	}
	return fs.Args(), nil
}

func (a *app) customerID() (string, error) {
	if a.cfg.CustomerID == "" {
		return "", errors.New("customer id is required (--customer-id or MEDKIT_CUSTOMER_ID)")
	}
	return a.cfg.CustomerID, nil
}
