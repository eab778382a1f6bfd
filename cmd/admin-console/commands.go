package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/session"
)

// invocation is what a command receives after global parsing.
type invocation struct {
	args         []string
	page         domain.Page
	username     string
	passwordFile string
	stdout       io.Writer
	stderr       io.Writer
}

type command struct {
	name    string
	words   int
	summary string
	run     func(ctx context.Context, a *app, inv invocation) error
}

var commands = []command{
	{"serve", 1, "run the local HTTP console", runServe},
	{"login", 1, "authenticate and store the credential", runLogin},
	{"logout", 1, "forget the stored credential", runLogout},
	{"whoami", 1, "show the current session", runWhoami},
	{"companies search", 2, "search companies by free text", runCompanySearch},
	{"drivers search", 2, "search drivers by free text", runDriverSearch},
	{"users list", 2, "list user accounts", runUserList},
}

func lookupCommand(args []string) (command, error) {
	for _, c := range commands {
		words := strings.Fields(c.name)
		if len(args) < len(words) {
			continue
		}
		if strings.Join(args[:len(words)], " ") == c.name {
			return c, nil
		}
	}
	return command{}, fmt.Errorf("unknown command %q", strings.Join(args, " "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLogin(ctx context.Context, a *app, inv invocation) error {
	username := inv.username
	if username == "" && len(inv.args) > 0 {
		username = inv.args[0]
	}
	if username == "" {
		return errors.New("login needs a username (-u)")
	}
	password, err := readPassword(inv.passwordFile, inv.stderr)
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, username, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return errors.New("invalid username or password")
		}
		return err
	}
	return writeJSON(inv.stdout, a.session.Snapshot())
}

func runLogout(ctx context.Context, a *app, inv invocation) error {
	a.session.Logout(ctx)
	return writeJSON(inv.stdout, a.session.Snapshot())
}

func runWhoami(_ context.Context, a *app, inv invocation) error {
	return writeJSON(inv.stdout, a.session.Snapshot())
}

// rejected drops the session when the backend refused the stored credential,
// so the next command starts logged out.
func rejected(ctx context.Context, a *app, err error) error {
	if !session.IsRejection(err) {
		return err
	}
	a.session.Reject(ctx, err)
	return fmt.Errorf("%w: run `admin-console login`", err)
}

func runCompanySearch(ctx context.Context, a *app, inv invocation) error {
	res, trace, err := a.companies.Search(ctx, strings.Join(inv.args, " "), inv.page)
	if err != nil {
		return rejected(ctx, a, err)
	}
	return writeJSON(inv.stdout, map[string]any{
		"items":         res.Items,
		"page":          inv.page.Index + 1,
		"totalPages":    res.TotalPages,
		"totalElements": res.TotalElements,
		"matchedBy":     trace.Winner,
	})
}

func runDriverSearch(ctx context.Context, a *app, inv invocation) error {
	res, trace, err := a.drivers.Search(ctx, strings.Join(inv.args, " "), inv.page)
	if err != nil {
		return rejected(ctx, a, err)
	}
	return writeJSON(inv.stdout, map[string]any{
		"items":         res.Items,
		"page":          inv.page.Index + 1,
		"totalPages":    res.TotalPages,
		"totalElements": res.TotalElements,
		"matchedBy":     trace.Winner,
	})
}

func runUserList(ctx context.Context, a *app, inv invocation) error {
	users, err := a.users.List(ctx)
	if err != nil {
		return rejected(ctx, a, err)
	}
	return writeJSON(inv.stdout, users)
}

// readPassword reads the login password from passwordFile, or prompts on
// the terminal with echo disabled when it is empty or "-".
func readPassword(passwordFile string, prompt io.Writer) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for the password prompt (use --password-file)")
	}
	fmt.Fprint(prompt, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
