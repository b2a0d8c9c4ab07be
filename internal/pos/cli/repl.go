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
	Sale(ctx context.Context) error
	Products(ctx context.Context) error
	AddProduct(ctx context.Context) error
	DelProduct(ctx context.Context) error
	CloseOut(ctx context.Context) error
	CloseOuts(ctx context.Context) error
	Settings(ctx context.Context) error
	SetLedger(ctx context.Context) error
	SetCatalog(ctx context.Context) error
	Sync(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the POS client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//   - help          — show available commands
//   - sale          — record a sale
//   - products      — list the catalog
//   - addproduct    — add or restock a product
//   - delproduct    — delete a product
//   - closeout      — close out the current selling session
//   - closeouts     — list past close-outs
//   - settings      — show and edit user settings
//   - setledger     — set the remote sales ledger id
//   - setcatalog    — set the remote product catalog id
//   - sync          — trigger a sync now
//   - status        — print the sync status
//   - signout       — wipe user settings from this device
//   - exit | quit   — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pos %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: sale, products, addproduct, delproduct, closeout, closeouts, settings, setledger, setcatalog, sync, status, signout, exit")

		case "sale":
			_ = a.Sale(ctx)

		case "p", "products":
			_ = a.Products(ctx)

		case "addproduct":
			_ = a.AddProduct(ctx)

		case "delproduct":
			_ = a.DelProduct(ctx)

		case "closeout":
			_ = a.CloseOut(ctx)

		case "closeouts":
			_ = a.CloseOuts(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "setledger":
			_ = a.SetLedger(ctx)

		case "setcatalog":
			_ = a.SetCatalog(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "signout":
			_ = a.SignOut(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
