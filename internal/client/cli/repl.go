package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	Verify(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Link(ctx context.Context) error
	Messages(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Accept(ctx context.Context, mode string) error
	Send(ctx context.Context, username string) error
	Suggest(ctx context.Context) error
	Export(ctx context.Context) error
	Users(ctx context.Context) error
}

const (
	helpGuest = "Available commands: signup, verify, login, send <username>, suggest, help, exit"
	helpOwner = "Available commands: whoami, link, messages, delete <id>, accept on|off|status, export, users, " +
		"send <username>, suggest, logout, help, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. The first token is the command, the second (if any)
// its argument. Command errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		printFn("mm> ")
		line, readErr := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				printlnFn()
				return
			}
			continue
		}

		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpOwner)
			} else {
				printlnFn(helpGuest)
			}

		case "signup":
			err = a.SignUp(ctx)

		case "verify":
			err = a.Verify(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "link":
			err = a.Link(ctx)

		case "messages":
			err = a.Messages(ctx)

		case "delete":
			err = a.Delete(ctx, arg)

		case "accept":
			err = a.Accept(ctx, arg)

		case "send":
			err = a.Send(ctx, arg)

		case "suggest":
			err = a.Suggest(ctx)

		case "export":
			err = a.Export(ctx)

		case "users":
			err = a.Users(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
		if readErr != nil {
			return
		}
	}
}
