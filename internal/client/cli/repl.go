package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Feed(ctx context.Context) error
	More(ctx context.Context) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Comments(ctx context.Context, hoagieID string) error
	Comment(ctx context.Context, hoagieID string) error
	Uncomment(ctx context.Context, hoagieID, commentID string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, text string) error
	AddCollaborator(ctx context.Context, hoagieID string) error
	RemoveCollaborator(ctx context.Context, hoagieID, userID string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, help, exit"
	helpLoggedIn  = "Available commands: feed, more, refresh, show <id>, comments <id>, comment <id>, " +
		"uncomment <hoagieId> <commentId>, create, edit <id>, delete <id>, search <text>, " +
		"addcollab <hoagieId>, rmcollab <hoagieId> <userId>, whoami, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the hoagie CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt comes from promptFn; an empty prompt is not printed. Commands:
//
//	Not logged in:
//	  - help                            show available commands
//	  - signup                          find or create an account
//	  - login                           sign in with an email
//	  - exit | quit                     leave the program
//
//	Logged in:
//	  - feed                            first page of all hoagies
//	  - more                            next page of the current list
//	  - refresh                         refetch the current view
//	  - show <id>                       hoagie details
//	  - comments <id>                   comments on a hoagie
//	  - comment <id>                    post a comment
//	  - uncomment <hoagieId> <id>       delete one of your comments
//	  - create | edit <id> | delete <id>
//	  - search <text>                   find users
//	  - addcollab <hoagieId>            pick a collaborator via search
//	  - rmcollab <hoagieId> <userId>    remove a collaborator
//	  - whoami | logout
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if p := promptFn(); p != "" {
			printlnFn(p)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "signup":
			_ = a.Signup(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isKnown(cmd) {
				printlnFn("Please log in first (type 'login' or 'signup')")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)
		case "feed", "l", "list":
			_ = a.Feed(ctx)
		case "more", "m":
			_ = a.More(ctx)
		case "refresh", "r":
			_ = a.Refresh(ctx)
		case "show":
			if usage(args, 1, "show <id>") {
				_ = a.Show(ctx, args[0])
			}
		case "comments":
			if usage(args, 1, "comments <hoagieId>") {
				_ = a.Comments(ctx, args[0])
			}
		case "comment":
			if usage(args, 1, "comment <hoagieId>") {
				_ = a.Comment(ctx, args[0])
			}
		case "uncomment":
			if usage(args, 2, "uncomment <hoagieId> <commentId>") {
				_ = a.Uncomment(ctx, args[0], args[1])
			}
		case "create":
			_ = a.Create(ctx)
		case "edit":
			if usage(args, 1, "edit <id>") {
				_ = a.Edit(ctx, args[0])
			}
		case "delete":
			if usage(args, 1, "delete <id>") {
				_ = a.Delete(ctx, args[0])
			}
		case "search":
			if usage(args, 1, "search <text>") {
				_ = a.Search(ctx, strings.Join(args, " "))
			}
		case "addcollab":
			if usage(args, 1, "addcollab <hoagieId>") {
				_ = a.AddCollaborator(ctx, args[0])
			}
		case "rmcollab":
			if usage(args, 2, "rmcollab <hoagieId> <userId>") {
				_ = a.RemoveCollaborator(ctx, args[0], args[1])
			}
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func usage(args []string, n int, text string) bool {
	if len(args) < n {
		printlnFn("Usage:", text)
		return false
	}
	return true
}

func isKnown(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "feed", "l", "list", "more", "m", "refresh", "r", "show", "comments", "comment",
		"uncomment", "create", "edit", "delete", "search", "addcollab", "rmcollab":
		return true
	}
	return false
}
