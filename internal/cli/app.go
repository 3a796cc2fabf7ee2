// Package cli is the command line front end of the presensi client.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"presensi.client/internal/api"
	"presensi.client/internal/core"
	"presensi.client/internal/geolocation"
	"presensi.client/internal/session"
)

// ErrUsage is returned for unknown commands and malformed arguments.
var ErrUsage = errors.New("usage error")

// Deps are the collaborators the commands drive.
type Deps struct {
	Session    *session.Store
	Client     *api.Client
	Geo        *geolocation.Store
	Attendance *core.AttendanceService
	// Stderr receives flag diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

// App dispatches command lines to the presensi APIs.
type App struct {
	session    *session.Store
	auth       *api.AuthAPI
	users      *api.UsersAPI
	presensi   *api.PresensiAPI
	analytics  *api.AnalyticsAPI
	geo        *geolocation.Store
	attendance *core.AttendanceService
	stderr     io.Writer

	commands map[string]command
}

type command struct {
	summary string
	run     func(ctx context.Context, args []string, out io.Writer) error
}

func New(d Deps) *App {
	a := &App{
		session:    d.Session,
		auth:       api.NewAuthAPI(d.Client),
		users:      api.NewUsersAPI(d.Client),
		presensi:   api.NewPresensiAPI(d.Client),
		analytics:  api.NewAnalyticsAPI(d.Client),
		geo:        d.Geo,
		attendance: d.Attendance,
		stderr:     d.Stderr,
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}
	a.commands = map[string]command{
		"login":           {"sign in and store the session", a.login},
		"logout":          {"forget the stored session", a.logout},
		"register":        {"create an account", a.register},
		"whoami":          {"show and refresh the signed-in user", a.whoami},
		"change-password": {"change the password of the signed-in user", a.changePassword},
		"users":           {"list|get|status", a.usersCmd},
		"presensi":        {"list|get|create|update|delete|checkin|checkout", a.presensiCmd},
		"analytics":       {"summary|daily|monthly|user|status", a.analyticsCmd},
		"locate":          {"print the current device position", a.locate},
	}
	return a
}

// Run executes one command line, args excluding the program name.
func (a *App) Run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage(out)
		return nil
	}
	cmd, ok := a.commands[args[0]]
	if !ok {
		a.usage(out)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(ctx, args[1:], out)
}

func (a *App) usage(out io.Writer) {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "usage: presensi <command> [flags]")
	fmt.Fprintln(out)
	for _, name := range names {
		fmt.Fprintf(out, "  %-16s %s\n", name, a.commands[name].summary)
	}
}

// subcommand picks the sub-command of a command group.
func subcommand(group string, args []string, table map[string]func([]string) error) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s needs a sub-command", ErrUsage, group)
	}
	run, ok := table[args[0]]
	if !ok {
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("%w: unknown %s sub-command %q (want %s)", ErrUsage, group, args[0], strings.Join(names, "|"))
	}
	return run(args[1:])
}

// flags creates a flag set whose diagnostics stay off stdout.
func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse parses args and requires one positional argument per name.
func parse(fs *flag.FlagSet, args []string, positional ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != len(positional) {
		return nil, fmt.Errorf("%w: %s expects <%s>", ErrUsage, fs.Name(), strings.Join(positional, "> <"))
	}
	return fs.Args(), nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Navigator prints a sign-in prompt when the API rejects the session.
func Navigator(w io.Writer) api.Navigator {
	return api.NavigatorFunc(func(_ context.Context, route string) {
		if route == api.LoginRoute {
			fmt.Fprintln(w, "Session expired. Run `presensi login` to sign in again.")
			return
		}
		fmt.Fprintf(w, "Navigate to %s\n", route)
	})
}
