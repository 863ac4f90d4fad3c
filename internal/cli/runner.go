package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/api"
	"github.com/idilsaglam/tasks/internal/auth"
	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/tasklist"
	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options carries what the root command resolved.
type Options struct {
	Config *config.Config
	Stdin  io.Reader

	// Logger overrides the one built from Config (tests use this).
	Logger *log.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		if len(a) != 0 {
			ui.Fail("usage: tasks ls")
			return 2
		}
		return doList(ctx, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tasks add <text...>")
			return 2
		}
		return doAdd(ctx, opt, strings.Join(a, " "))

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: tasks rm <id>")
			return 2
		}
		id, err := strconv.ParseInt(a[0], 10, 64)
		if err != nil {
			ui.Fail("rm: not a task id: " + a[0])
			return 2
		}
		return doRemove(ctx, opt, id)

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: tasks auth <login|logout|status>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin(opt, a[1:])
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		default:
			ui.Fail("usage: tasks auth <login|logout|status>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tasks - a terminal client for a remote task list

Usage:
  tasks [flags] <subcommand> [args]

Subcommands:
  ls                 Show tasks (interactive TUI; --plain prints them)
  add <text...>      Create a task (text can be multiple words)
  rm <id>            Delete the task with this id
  auth <login|logout|status>   Credential forwarded to the server

Flags:
  --url URL          Task API base URL (env TASKS_URL)
  --config FILE      Config file (.toml or .yaml)
  --plain            Print the list instead of opening the TUI
  --theme NAME       classic|neon|mono
  --log-level LEVEL  debug|info|warn|error
  --log-file FILE    Append logs to FILE

Examples:
  tasks add "Buy milk"
  tasks ls
  tasks --plain ls
  tasks rm 3
`)
}

// ---------------------------------------------------
// Task subcommands
// ---------------------------------------------------

func newController(ctx context.Context, opt Options, logger *log.Logger) (*tasklist.Controller, error) {
	cred, err := auth.Get()
	if err != nil {
		return nil, err
	}
	client, err := api.New(ctx, opt.Config.BaseURL,
		api.WithLogger(logger),
		api.WithCredential(cred),
	)
	if err != nil {
		return nil, err
	}
	return tasklist.New(client, logger), nil
}

// openLogger builds the logger for one command. The TUI owns the terminal,
// so it logs to a file; plain commands log to stderr.
func openLogger(opt Options, interactive bool) (*log.Logger, func(), error) {
	if opt.Logger != nil {
		return opt.Logger, func() {}, nil
	}
	cfg := opt.Config
	lo := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile, Prefix: "tasks"}
	if interactive && lo.File == "" {
		lo.File = config.DefaultLogFile()
	}
	logger, closer, err := logging.Open(lo, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closer.Close() }, nil
}

func doList(ctx context.Context, opt Options) int {
	interactive := !opt.Config.Plain && ui.IsTTY(os.Stdout)
	logger, closeLog, err := openLogger(opt, interactive)
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctl, err := newController(ctx, opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	if interactive {
		if err := tui.Run(ctx, ctl); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}
	return printList(ctx, ctl)
}

// printList renders one load. A failed load has already been logged.
func printList(ctx context.Context, ctl *tasklist.Controller) int {
	out := ctl.Load(ctx)
	if !out.Render {
		return 1
	}
	ui.Panel(fmt.Sprintf("Tasks (%d)", len(out.Tasks)), ui.TaskLines(out.Tasks))
	return 0
}

func doAdd(ctx context.Context, opt Options, text string) int {
	if tasklist.Blank(text) {
		ui.Fail("add: empty task")
		return 2
	}
	return mutate(ctx, opt, "added", func(ctl *tasklist.Controller) tasklist.Outcome {
		return ctl.Add(ctx, text)
	})
}

func doRemove(ctx context.Context, opt Options, id int64) int {
	return mutate(ctx, opt, "removed", func(ctl *tasklist.Controller) tasklist.Outcome {
		return ctl.Remove(ctx, id)
	})
}

// mutate applies a create/delete outcome the way the TUI does: alerts are
// shown, transport failures only logged, success reloads the list.
func mutate(ctx context.Context, opt Options, done string, op func(*tasklist.Controller) tasklist.Outcome) int {
	logger, closeLog, err := openLogger(opt, false)
	if err != nil {
		ui.Fail("log: " + err.Error())
		return 1
	}
	defer closeLog()

	ctl, err := newController(ctx, opt, logger)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	out := op(ctl)
	if out.Alert != "" {
		ui.Fail(out.Alert)
		return 1
	}
	if out.Err != nil {
		return 1
	}
	ui.OK(done)
	if out.Reload {
		// The mutation already succeeded; a failed reload only leaves
		// nothing printed.
		printList(ctx, ctl)
	}
	return 0
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doAuthLogin(opt Options, args []string) int {
	fs := flag.NewFlagSet("auth login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cookie := fs.Bool("cookie", false, "store a session cookie instead of a bearer token")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		ui.Fail("usage: tasks auth login [--cookie]")
		return 2
	}
	kind := auth.KindBearer
	prompt := "Paste your token: "
	if *cookie {
		kind = auth.KindCookie
		prompt = "Paste your session cookie value: "
	}

	ui.Print(prompt)
	var token string
	if _, err := fmt.Fscanln(opt.Stdin, &token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.Set(token, kind); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("credential saved")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK("credential is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := auth.Delete(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("credential removed")
	return 0
}

func doAuthStatus() int {
	ti, err := auth.Get()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	t := ui.Current()
	if ti == nil {
		ui.Panel("Credential", []string{
			ui.C(t.Muted, "none configured"),
			"Run: tasks auth login",
		})
		return 0
	}
	ui.Panel("Credential", []string{
		"kind:   " + string(ti.Kind),
		"source: " + ti.Source,
		"env override: " + auth.EnvToken,
	})
	return 0
}
