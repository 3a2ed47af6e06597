package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/mysterymessage/internal/filex"
	"github.com/dmitrijs2005/mysterymessage/internal/netx"
)

// Link prints the public URL others use to leave anonymous messages.
func (a *App) Link(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	p, err := a.api.Profile(ctx, a.identity.Username)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, p.ProfileURL)
	if !p.IsAcceptingMessages {
		fmt.Fprintln(a.out, "Note: you are not accepting messages right now (accept on)")
	}
	return nil
}

func (a *App) Messages(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	msgs, err := a.api.Messages(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages yet")
		return nil
	}

	for _, m := range msgs {
		fmt.Fprintf(a.out, "[%s] %s\n  %s\n", m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04"),
			strings.ReplaceAll(m.Content, "\n", "\n  "))
	}
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if id == "" {
		var err error
		if id, err = GetSimpleText(a.reader, "Enter message id to delete", a.out); err != nil {
			return err
		}
	}
	if err := a.api.DeleteMessage(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Message deleted")
	return nil
}

// Accept switches message acceptance on or off, or reports it for "status"
// and an empty mode.
func (a *App) Accept(ctx context.Context, mode string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	switch mode {
	case "on", "off":
		if err := a.api.SetAcceptMessages(ctx, mode == "on"); err != nil {
			return err
		}
	case "", "status":
	default:
		return fmt.Errorf("usage: accept on|off|status")
	}

	on, err := a.api.AcceptMessages(ctx)
	if err != nil {
		return err
	}
	if on {
		fmt.Fprintln(a.out, "Accepting messages: on")
	} else {
		fmt.Fprintln(a.out, "Accepting messages: off")
	}
	return nil
}

// Send leaves an anonymous message for username. No login is needed.
func (a *App) Send(ctx context.Context, username string) error {
	if username == "" {
		var err error
		if username, err = GetSimpleText(a.reader, "Send to (username)", a.out); err != nil {
			return err
		}
	}

	p, err := a.api.Profile(ctx, username)
	if err != nil {
		return err
	}
	if !p.IsAcceptingMessages {
		fmt.Fprintf(a.out, "%s is not accepting messages\n", p.Username)
		return nil
	}

	content, err := GetMultiline(a.reader, "Your anonymous message (10-300 characters)", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		fmt.Fprintln(a.out, "Nothing sent")
		return nil
	}

	if err := a.api.SendMessage(ctx, p.Username, content); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Message sent")
	return nil
}

func (a *App) Suggest(ctx context.Context) error {
	s, err := a.api.Suggest(ctx)
	if err != nil {
		return err
	}
	for i, item := range s.Items {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, item)
	}
	if s.Fallback {
		fmt.Fprintln(a.out, "(suggestion service unavailable, showing defaults)")
	}
	return nil
}

// Export asks the server for an archive of the inbox and saves it under the
// configured export directory.
func (a *App) Export(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	u, err := a.api.Export(ctx)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(a.config.ExportDir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, filex.ExportFileName(a.identity.Username, a.now().Unix()))

	n, err := netx.DownloadToFile(ctx, a.download, u, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, path)
	return nil
}

func (a *App) Users(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	users, err := a.api.Users(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tVERIFIED\tACCEPTING\tMESSAGES")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%d\n", u.Username, u.IsVerified, u.IsAcceptingMessages, u.MessageCount)
	}
	return tw.Flush()
}
