package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

const helpText = `Available commands:
  register  -id ID -name NAME [-email E] [-dept D] [-server-keygen] [-seal] [-force]
  checkin   [-qr JSON] [-confirm]
  checkout  [-qr JSON]
  history   [-n N]
  list      [-date YYYY-MM-DD] [-emp ID] [-status S]
  export    [-date YYYY-MM-DD] [-o FILE]
  token     -secret S [-sub NAME] [-ttl 15m]
  ping, help, exit`

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, helpText)
		return nil
	case "register":
		return a.register(ctx, args)
	case "checkin":
		return a.checkin(ctx, args, false)
	case "checkout":
		return a.checkin(ctx, args, true)
	case "history":
		return a.history(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "export":
		return a.export(ctx, args)
	case "token":
		return a.token(args)
	case "ping":
		return a.ping(ctx)
	}
	return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
}

// Root runs the interactive prompt until exit or end of input.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to gophattend (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "gophattend> ")
		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}

		cmd := parts[0]
		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return
		}

		if derr := a.dispatch(ctx, cmd, parts[1:]); derr != nil {
			fmt.Fprintln(a.out, "Error:", derr)
		}
		if err != nil {
			return
		}
	}

}
