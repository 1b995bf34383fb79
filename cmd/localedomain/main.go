package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pitabwire/util"

	"github.com/pitabwire/localedomain/config"
	"github.com/pitabwire/localedomain/localization"
	"github.com/pitabwire/localedomain/version"
)

const minArgsCommand = 2

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < minArgsCommand {
		usage(os.Stderr)
		os.Exit(1)
	}

	err := run(context.Background(), os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		os.Exit(1)
	}
	exitOnErr(err)
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "localedomain <command> [flags] [args]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  tld <url>                 print the tld the url is served from")
	_, _ = fmt.Fprintln(w, "  localize <url> [locale]   rewrite the url to the domain of locale (default locale when omitted)")
	_, _ = fmt.Fprintln(w, "  locales                   list the supported locales")
	_, _ = fmt.Fprintln(w, "  translate <url> <id>      translate message id into the locale of the url's domain")
	_, _ = fmt.Fprintln(w, "  version                   print build information")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Flags:")
	_, _ = fmt.Fprintln(w, "  --locales FILE   locales file, overrides LOCALES_FILE")
	_, _ = fmt.Fprintln(w, "  --default KEY    default locale, overrides DEFAULT_LOCALE")
	_, _ = fmt.Fprintln(w, "  --translations DIR   messages folder, overrides TRANSLATIONS_FOLDER")
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "tld":
		return cmdTLD(ctx, args[1:], out)
	case "localize":
		return cmdLocalize(ctx, args[1:], out)
	case "locales":
		return cmdLocales(ctx, args[1:], out)
	case "translate":
		return cmdTranslate(ctx, args[1:], out)
	case "version":
		_, err := fmt.Fprintf(out, "localedomain %s (commit %s, built %s) %s\n",
			orUnknown(version.Version), orUnknown(version.Commit), orUnknown(version.Date),
			orUnknown(version.Repository))
		return err
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// setup parses the shared flags and builds a resolver from the environment configuration.
func setup(ctx context.Context, name string, args []string) (context.Context, *localization.Resolver, []string, func(), error) {
	cfg, err := config.FromEnv[config.ConfigurationDefault]()
	if err != nil {
		return ctx, nil, nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.LocalesFileValue, "locales", cfg.LocalesFileValue, "locales file")
	fs.StringVar(&cfg.DefaultLocaleValue, "default", cfg.DefaultLocaleValue, "default locale")
	fs.StringVar(&cfg.TranslationsPath, "translations", cfg.TranslationsPath, "messages folder")
	if err = fs.Parse(args); err != nil {
		return ctx, nil, nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	ctx = util.ContextWithLogger(ctx, newLogger(ctx, &cfg))
	ctx = config.ToContext(ctx, &cfg)

	resolver, cleanup, err := config.NewResolver(ctx, &cfg)
	if err != nil {
		return ctx, nil, nil, nil, err
	}

	return ctx, resolver, fs.Args(), cleanup, nil
}

func newLogger(ctx context.Context, cfg config.ConfigurationLogLevel) *util.LogEntry {
	var opts []util.Option

	if logLevel, err := util.ParseLevel(cfg.LoggingLevel()); err == nil {
		opts = append(opts, util.WithLogLevel(logLevel))
	}
	opts = append(opts,
		util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
		util.WithLogNoColor(!cfg.LoggingColored()),
		util.WithLogOutput(os.Stderr))
	if cfg.LoggingShowStackTrace() {
		opts = append(opts, util.WithLogStackTrace())
	}

	return util.NewLogger(ctx, opts...)
}

func cmdTLD(ctx context.Context, args []string, out io.Writer) error {
	ctx, resolver, rest, cleanup, err := setup(ctx, "tld", args)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(rest) < 1 {
		return errors.New("tld: url is required")
	}

	tld, err := resolver.TLDFromURL(ctx, rest[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, tld)
	return err
}

func cmdLocalize(ctx context.Context, args []string, out io.Writer) error {
	ctx, resolver, rest, cleanup, err := setup(ctx, "localize", args)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(rest) < 1 {
		return errors.New("localize: url is required")
	}

	key := ""
	if len(rest) > 1 {
		key = rest[1]
	}

	localized, err := resolver.LocalizedURL(ctx, rest[0], key)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, localized)
	return err
}

func cmdLocales(ctx context.Context, args []string, out io.Writer) error {
	_, resolver, _, cleanup, err := setup(ctx, "locales", args)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, l := range resolver.SupportedLocales() {
		marker := " "
		if l.Key == resolver.DefaultLocale() {
			marker = "*"
		}

		fields := []string{marker, l.Key, orDash(l.TLD), orDash(l.Name)}
		if _, err = fmt.Fprintln(out, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func cmdTranslate(ctx context.Context, args []string, out io.Writer) error {
	ctx, resolver, rest, cleanup, err := setup(ctx, "translate", args)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(rest) < 2 { //nolint:mnd // url and message id
		return errors.New("translate: url and message id are required")
	}

	cfg := config.FromContext[*config.ConfigurationDefault](ctx)
	manager, err := localization.NewManager(ctx, resolver, cfg.TranslationsFolder())
	if err != nil {
		return err
	}

	locale, err := resolver.LocaleForURL(ctx, rest[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, manager.Translate(localization.ToContext(ctx, locale), rest[1]))
	return err
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
