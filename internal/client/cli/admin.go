package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/netx"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"github.com/dmitrijs2005/gophattend/internal/server/auth"
)

// downloadURL is a test seam for netx.DownloadPresignedURL.
var downloadURL = netx.DownloadPresignedURL

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	date := fs.String("date", "", "day (YYYY-MM-DD)")
	emp := fs.String("emp", "", "employee id")
	status := fs.String("status", "", "record status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rctx, cancel := a.withTimeout(ctx)
	defer cancel()
	records, err := a.client.ListAttendance(rctx, &pb.ListAttendanceRequest{Date: *date, EmpID: *emp, Status: *status})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No records")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tEMP\tNAME\tIN\tOUT\tSTATUS")
	for _, r := range records {
		out := "-"
		if r.OutTime != nil {
			out = *r.OutTime
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Date, r.EmpID, r.EmployeeName, r.InTime, out, r.Status)
	}
	return tw.Flush()
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	date := fs.String("date", "", "day (YYYY-MM-DD), today when empty")
	output := fs.String("o", "", "also download the report to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rctx, cancel := a.withTimeout(ctx)
	defer cancel()
	key, url, err := a.client.ExportAttendance(rctx, *date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported to %s\nDownload: %s\n", key, url)

	if *output == "" {
		return nil
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	n, err := downloadURL(ctx, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, *output)
	return nil
}

// token mints an admin token locally from the server's JWT secret.
func (a *App) token(args []string) error {
	fs := a.flagSet("token")
	secret := fs.String("secret", "", "server JWT secret")
	sub := fs.String("sub", "operator", "token subject")
	ttl := fs.Duration("ttl", 15*time.Minute, "token validity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *secret == "" {
		return errors.New("-secret is required")
	}

	tok, err := auth.GenerateToken(*sub, auth.RoleAdmin, []byte(*secret), *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tok)
	return nil
}

func (a *App) ping(ctx context.Context) error {
	rctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.client.Ping(rctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is reachable")
	return nil
}
