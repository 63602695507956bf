// Package cli is the interactive, line-oriented presentation surface over
// the catalog service. It owns the prompt loop and nothing else; ownership
// and formatting decisions stay in the service.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/moneer95/photocat/internal/catalog"
)

// Menu runs the interactive photo management loop against the service.
type Menu struct {
	service catalog.Service
	logger  *slog.Logger
	in      *bufio.Scanner
	out     io.Writer
}

func New(service catalog.Service, logger *slog.Logger, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service: service,
		logger:  logger,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// action is one menu entry. The loop terminates when an action returns
// errExit, not via shared mutable state.
type action struct {
	label string
	run   func(ctx context.Context, userID catalog.ID) error
}

var errExit = errors.New("cli: exit requested")

// Run prompts for credentials, then dispatches menu selections until the
// user exits or input ends. Storage failures abort the loop.
func (m *Menu) Run(ctx context.Context) error {
	userID, err := m.login(ctx)
	if err != nil {
		return err
	}

	actions := []action{
		{"Find Photo", m.findPhoto},
		{"Update Photo Details", m.updatePhoto},
		{"Album Photo List", m.albumPhotoList},
		{"Tag Photo", m.tagPhoto},
		{"Exit", func(context.Context, catalog.ID) error { return errExit }},
	}

	for {
		fmt.Fprintln(m.out, "\n=== Photo Management Menu ===")
		for i, a := range actions {
			fmt.Fprintf(m.out, "%d. %s\n", i+1, a.label)
		}

		choice, ok := m.prompt("Your selection> ")
		if !ok {
			return nil
		}

		index := -1
		if n, err := fmt.Sscanf(choice, "%d", &index); err != nil || n != 1 || index < 1 || index > len(actions) {
			fmt.Fprintf(m.out, "Invalid selection. Please enter 1-%d.\n", len(actions))
			continue
		}

		if err := actions[index-1].run(ctx, userID); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(m.out, "Exiting... Goodbye!")
				return nil
			}
			if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrForbidden) {
				fmt.Fprintln(m.out, prettyError(err))
				continue
			}
			return err
		}
	}
}

func (m *Menu) login(ctx context.Context) (catalog.ID, error) {
	for {
		username, ok := m.prompt("Username> ")
		if !ok {
			return "", io.EOF
		}
		password, ok := m.prompt("Password> ")
		if !ok {
			return "", io.EOF
		}

		userID, err := m.service.Authenticate(ctx, username, password)
		if err != nil {
			if errors.Is(err, catalog.ErrInvalidCredentials) {
				fmt.Fprintln(m.out, "Invalid username or password, try again.")
				continue
			}
			return "", err
		}
		return userID, nil
	}
}

func (m *Menu) findPhoto(ctx context.Context, userID catalog.ID) error {
	id, ok := m.prompt("Enter Photo ID: ")
	if !ok {
		return errExit
	}

	photo, err := m.service.GetFormattedPhoto(ctx, userID, catalog.ID(id))
	if err != nil {
		return err
	}
	return m.printJSON(photo)
}

func (m *Menu) updatePhoto(ctx context.Context, userID catalog.ID) error {
	id, ok := m.prompt("Enter Photo ID: ")
	if !ok {
		return errExit
	}
	title, ok := m.prompt("New Title (blank keeps current): ")
	if !ok {
		return errExit
	}
	description, ok := m.prompt("New Description (blank keeps current): ")
	if !ok {
		return errExit
	}

	updated, err := m.service.UpdatePhoto(ctx, userID, catalog.ID(id), title, description)
	if err != nil {
		return err
	}
	if updated {
		fmt.Fprintln(m.out, "Photo updated.")
	} else {
		fmt.Fprintln(m.out, "No photo found with this id.")
	}
	return nil
}

func (m *Menu) albumPhotoList(ctx context.Context, userID catalog.ID) error {
	albumName, ok := m.prompt("Enter Album Name: ")
	if !ok {
		return errExit
	}

	photos, err := m.service.AlbumPhotoList(ctx, userID, albumName)
	if err != nil {
		return err
	}
	return m.printJSON(photos)
}

func (m *Menu) tagPhoto(ctx context.Context, userID catalog.ID) error {
	id, ok := m.prompt("Enter Photo ID: ")
	if !ok {
		return errExit
	}
	tag, ok := m.prompt("Enter Tag: ")
	if !ok {
		return errExit
	}

	added, err := m.service.AddTag(ctx, userID, catalog.ID(id), tag)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintln(m.out, "Tag added.")
	} else {
		fmt.Fprintln(m.out, "No photo found with this id.")
	}
	return nil
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, string(data))
	return nil
}

func prettyError(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "No photo found with this id."
	case errors.Is(err, catalog.ErrForbidden):
		return "You do not own this photo."
	default:
		return err.Error()
	}
}
