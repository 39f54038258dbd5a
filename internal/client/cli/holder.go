package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophattend/internal/client/keystore"
	"github.com/dmitrijs2005/gophattend/internal/client/repositories/journal"
	"github.com/dmitrijs2005/gophattend/internal/common"
	pb "github.com/dmitrijs2005/gophattend/internal/proto"
	"github.com/dmitrijs2005/gophattend/internal/signature"
)

var errNoHolderKey = errors.New("no holder key, run register first")

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// register enrolls the holder. By default the key pair is generated here
// and only the public key leaves the machine.
func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	id := fs.String("id", "", "employee id")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	dept := fs.String("dept", "", "department")
	serverKeygen := fs.Bool("server-keygen", false, "let the server generate the key pair")
	seal := fs.Bool("seal", false, "protect the stored private key with a passphrase")
	force := fs.Bool("force", false, "overwrite an existing key file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force {
		if _, err := keystore.Load(a.config.KeyFile); err == nil {
			return fmt.Errorf("key file %s already exists, use -force to replace it", a.config.KeyFile)
		}
	}

	req := &pb.RegisterRequest{EmpID: *id, Name: *name, Email: *email, Department: *dept}

	var kp *signature.KeyPair
	if !*serverKeygen {
		var err error
		kp, err = signature.GenerateKeyPair()
		if err != nil {
			return err
		}
		req.PublicKey = kp.PublicKeyString()
	}

	rctx, cancel := a.withTimeout(ctx)
	defer cancel()
	resp, err := a.client.Register(rctx, req)
	if err != nil {
		return err
	}

	if kp == nil {
		priv, _, err := signature.DecodePrivateKey(resp.PrivateKey)
		if err != nil {
			return fmt.Errorf("server returned an unusable key: %w", err)
		}
		kp = signature.KeyPairFromPrivate(priv)
	}
	defer kp.Wipe()

	var passphrase []byte
	if *seal {
		passphrase, err = GetSecret(a.out, "New key passphrase: ")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(passphrase)
	}

	key, err := keystore.NewKey(resp.EmpID, kp, passphrase)
	if err != nil {
		return err
	}
	if err := keystore.Save(a.config.KeyFile, key); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s\nPublic key: %s\nKey saved to %s\n", resp.EmpID, resp.PublicKey, a.config.KeyFile)
	return nil
}

func (a *App) holderKey() (*keystore.Key, *signature.KeyPair, error) {
	key, err := keystore.Load(a.config.KeyFile)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil, fmt.Errorf("%w (%s)", errNoHolderKey, a.config.KeyFile)
	}
	if err != nil {
		return nil, nil, err
	}

	var passphrase []byte
	if key.Sealed {
		passphrase, err = GetSecret(a.out, "Key passphrase: ")
		if err != nil {
			return nil, nil, err
		}
		defer common.WipeByteArray(passphrase)
	}

	kp, err := key.KeyPair(passphrase)
	if err != nil {
		return nil, nil, err
	}
	return key, kp, nil
}

// checkin presents a challenge. Without -qr the current challenge is
// fetched from the server, standing in for scanning the display.
func (a *App) checkin(ctx context.Context, args []string, checkout bool) error {
	fs := a.flagSet("checkin")
	qr := fs.String("qr", "", "challenge payload (JSON) read from the QR code")
	confirm := fs.Bool("confirm", checkout, "confirm a pending check-out")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, kp, err := a.holderKey()
	if err != nil {
		return err
	}
	defer kp.Wipe()

	ch, err := a.challenge(ctx, *qr)
	if err != nil {
		return err
	}

	resp, err := a.submit(ctx, key.EmployeeID, kp, ch, *confirm)
	if err != nil {
		return err
	}
	a.printResult(resp)

	if resp.Reason == common.ReasonConfirmationRequired &&
		Confirm(a.reader, fmt.Sprintf("Check out at %s?", resp.OutTime), a.out) {
		resp, err = a.submit(ctx, key.EmployeeID, kp, ch, true)
		if err != nil {
			return err
		}
		a.printResult(resp)
	}
	return nil
}

func (a *App) challenge(ctx context.Context, payload string) (*pb.Challenge, error) {
	if payload != "" {
		var ch pb.Challenge
		if err := json.Unmarshal([]byte(payload), &ch); err != nil {
			return nil, fmt.Errorf("decode qr payload: %w", err)
		}
		return &ch, nil
	}

	rctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.client.IssueChallenge(rctx)
}

func (a *App) submit(ctx context.Context, employeeID string, kp *signature.KeyPair, ch *pb.Challenge, confirm bool) (*pb.SubmitResponse, error) {
	rctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.Submit(rctx, &pb.SubmitRequest{
		ServerQR:          ch,
		PublicKey:         kp.PublicKeyString(),
		EmployeeSignature: signature.SignString(kp.PrivateKey, ch.Message),
		ConfirmCheckout:   confirm,
	})
	if err != nil {
		return nil, err
	}

	entry := &journal.Entry{
		At:         a.clock(),
		EmployeeID: employeeID,
		Slot:       ch.Timestamp,
		Confirm:    confirm,
		Success:    resp.Success,
		Action:     resp.Action,
		Reason:     resp.Reason,
		Message:    resp.Message,
	}
	if err := a.journal.Append(ctx, entry); err != nil {
		fmt.Fprintln(a.out, "Warning: journal not updated:", err)
	}
	return resp, nil
}

func (a *App) printResult(resp *pb.SubmitResponse) {
	if !resp.Success && resp.Reason != common.ReasonConfirmationRequired && resp.Reason != common.ReasonAlreadyCheckedOutToday {
		fmt.Fprintf(a.out, "%s [%s]\n", resp.Message, resp.Reason)
		return
	}

	var b strings.Builder
	b.WriteString(resp.Message)
	if resp.EmployeeName != "" {
		fmt.Fprintf(&b, ": %s", resp.EmployeeName)
	}
	if resp.InTime != "" {
		fmt.Fprintf(&b, " in %s", resp.InTime)
	}
	if resp.OutTime != "" {
		fmt.Fprintf(&b, " out %s", resp.OutTime)
	}
	if resp.Status != "" {
		fmt.Fprintf(&b, " (%s)", resp.Status)
	}
	fmt.Fprintln(a.out, b.String())
}

func (a *App) history(ctx context.Context, args []string) error {
	fs := a.flagSet("history")
	n := fs.Int("n", 20, "number of entries, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := a.journal.List(ctx, *n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No submissions yet")
		return nil
	}

	for _, e := range entries {
		result := "ok"
		if !e.Success {
			result = e.Reason
		}
		fmt.Fprintf(a.out, "%s  %-6s slot=%d confirm=%t %s: %s\n",
			e.At.Format("2006-01-02 15:04:05"), e.EmployeeID, e.Slot, e.Confirm, result, e.Message)
	}
	return nil
}
