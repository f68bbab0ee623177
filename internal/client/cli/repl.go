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
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Chart(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	SetPeriod(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  add                         record a new entry
  (l)ist                      show entries for the current period
  delete <id>                 remove an entry
  chart                       entries per day for the current period
  export [upload]             write the current period to a spreadsheet
  period <all|day|week|month> change the period
  status                      show sync mode and counts
  exit | quit                 leave the program`

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("registo %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "add":
			cmdErr = a.Add(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)

		case "chart":
			cmdErr = a.Chart(ctx)

		case "export":
			cmdErr = a.Export(ctx, args)

		case "period":
			cmdErr = a.SetPeriod(ctx, args)

		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
