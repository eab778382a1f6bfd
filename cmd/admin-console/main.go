// admin-console is the operator console for the company and driver registry.
//
// It keeps one session per operator account (the stored credential) and
// exposes it through one-shot commands or a local HTTP surface:
//
//	admin-console login -u alice
//	admin-console companies search "Acme"
//	admin-console serve
//
// @title                       Admin Console API
// @version                     1.0
// @description                 Role-gated administration of companies, drivers and user accounts.
// @host                        localhost:8081
// @BasePath                    /
// @schemes                     http
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	_ "github.com/cdportal/admin-console/docs" // swagger docs
	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/pkg/config"
	"github.com/cdportal/admin-console/pkg/logger"
)

// exitError carries a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// globalFlags override configuration for a single invocation.
type globalFlags struct {
	backend  string
	page     int
	size     int
	logLevel string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.backend, "backend", "", "backend base URL (overrides BACKEND_URL)")
	fs.IntVar(&g.page, "page", 1, "1-based result page for search commands")
	fs.IntVar(&g.size, "size", 0, "page size for search commands (overrides PAGE_SIZE)")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
}

func (g *globalFlags) apply(cfg *config.Config) error {
	if g.backend != "" {
		cfg.Backend.URL = g.backend
	}
	if g.size != 0 {
		cfg.PageSize = g.size
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.page < 1 {
		return fmt.Errorf("--page must be at least 1")
	}
	return cfg.Validate()
}

func (g *globalFlags) pageRequest(cfg *config.Config) domain.Page {
	return domain.Page{Index: g.page - 1, Size: cfg.PageSize}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var flags globalFlags
	fs := pflag.NewFlagSet("admin-console", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(true)
	flags.register(fs)
	fs.Usage = func() { printUsage(stderr, fs) }

	var username, passwordFile string
	fs.StringVarP(&username, "username", "u", "", "username for login")
	fs.StringVar(&passwordFile, "password-file", "", "read the login password from this file (\"-\" prompts)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr, fs)
		return &exitError{code: 2, err: errors.New("no command given")}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: stderr,
		Fields: map[string]string{"env": cfg.Env},
	})

	cmd, err := lookupCommand(rest)
	if err != nil {
		printUsage(stderr, fs)
		return &exitError{code: 2, err: err}
	}

	a, err := newApp(ctx, cfg, log, cmd.name == "serve")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(context.Background()); cerr != nil {
			log.Warn().Err(cerr).Msg("shutdown")
		}
	}()

	return cmd.run(ctx, a, invocation{
		args:         rest[cmd.words:],
		page:         flags.pageRequest(cfg),
		username:     username,
		passwordFile: passwordFile,
		stdout:       stdout,
		stderr:       stderr,
	})
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: admin-console [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-22s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
