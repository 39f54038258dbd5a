package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/client/client"
	"github.com/dmitrijs2005/gophattend/internal/client/config"
	"github.com/dmitrijs2005/gophattend/internal/client/repositories/journal"
	"github.com/dmitrijs2005/gophattend/internal/timex"
)

type App struct {
	config  *config.Config
	client  client.Client
	journal journal.Repository
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
	clock   timex.Clock
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, j, err := journal.Open(ctx, c.JournalDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing journal: %w", err)
	}

	apiClient, err := client.NewAttendanceClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := newApp(c, apiClient, j, bufio.NewReader(os.Stdin), os.Stdout)
	app.db = db
	return app, nil
}

func newApp(c *config.Config, cl client.Client, j journal.Repository, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, client: cl, journal: j, reader: r, out: w, clock: timex.SystemClock}
}

// Close releases the connection and the journal.
func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Run executes the subcommand in args, or starts the prompt when args is
// empty. It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	defer a.Close()

	if len(args) == 0 {
		a.Root(ctx)
		return 0
	}

	if err := a.dispatch(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return 1
	}
	return 0
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
