package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	checkSession(ctx context.Context) bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context) error
	Demo(ctx context.Context, args []string) error
	Seed(ctx context.Context) error
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error
	Profiles(ctx context.Context) error
	Check(ctx context.Context) error
	Open(ctx context.Context, args []string) error

	WhoAmI(ctx context.Context) error
	Update(ctx context.Context) error
	Passwd(ctx context.Context) error
	Extend(ctx context.Context) error
	Routes(ctx context.Context) error
	Perms(ctx context.Context) error
	Can(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register [patient|doctor], login, demo [patient|doctor], seed, reset, profiles, open <route>, check, exit"
	helpSignedIn  = "Available commands: whoami, update, passwd, extend, check, routes, open <route>, perms, can <permission>, profiles, logout, exit"
)

// protected commands need a live session; the REPL checks expiry first.
var protected = map[string]bool{
	"whoami": true,
	"update": true,
	"passwd": true,
	"extend": true,
	"routes": true,
	"perms":  true,
	"can":    true,
}

// runREPL starts a simple read–eval–print loop for the CareKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command prompts read from the same reader.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Before a protected command runs, the session is checked for expiry; an
// expired session is logged out and the command is skipped. Handler errors
// are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ck %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] {
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			if !a.checkSession(ctx) {
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			report(a.Register(ctx, args))
		case "login":
			report(a.Login(ctx))
		case "demo":
			report(a.Demo(ctx, args))
		case "seed":
			report(a.Seed(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "reset":
			report(a.Reset(ctx))
		case "profiles":
			report(a.Profiles(ctx))
		case "check":
			report(a.Check(ctx))
		case "open":
			if a.isLoggedIn() && !a.checkSession(ctx) {
				continue
			}
			report(a.Open(ctx, args))

		case "whoami":
			report(a.WhoAmI(ctx))
		case "update":
			report(a.Update(ctx))
		case "passwd":
			report(a.Passwd(ctx))
		case "extend":
			report(a.Extend(ctx))
		case "routes":
			report(a.Routes(ctx))
		case "perms":
			report(a.Perms(ctx))
		case "can":
			report(a.Can(ctx, args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
