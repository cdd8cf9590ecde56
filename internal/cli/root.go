// Package cli implements editorctl, a command line client for the editor API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/sync"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	API        string
	Token      string
	Collection string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewRootCommand creates the root command for editorctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "editorctl",
		Short: "editorctl - invitation editor client",
		Long:  "Pull, push and broadcast to invitation documents through the editor API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !domain.Collection(opts.Collection).Valid() {
				return fmt.Errorf("invalid collection %q: must be one of %v", opts.Collection, domain.Collections())
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.API, "api", envOr("EDITOR_API", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("EDITOR_TOKEN"), "bearer token for writes")
	cmd.PersistentFlags().StringVarP(&opts.Collection, "collection", "c", string(domain.CollectionInvitations), "document collection")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewTriggerCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewUploadCommand(opts))

	return cmd
}

func (o *RootOptions) client() *sync.HTTPClient {
	return sync.NewHTTPClient(o.API).WithToken(o.Token)
}

func (o *RootOptions) collection() domain.Collection {
	return domain.Collection(o.Collection)
}

// print writes v as JSON, or text in text format.
func (o *RootOptions) print(w io.Writer, v any, text string) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
