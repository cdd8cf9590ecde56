package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/sync"
)

type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "login",
		Short:         "Exchange credentials for an access token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := opts.client().Login(cmd.Context(), opts.Email, opts.Password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return opts.print(cmd.OutOrStdout(), map[string]string{"access_token": token}, token)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

type PullOptions struct {
	*RootOptions
	Output string
}

func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PullOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pull <id-or-slug>",
		Short: "Download a document as scene JSON",
		Long: `Download a document as scene JSON.

Columns that fail to parse are replaced by empty defaults and reported on stderr.

Example:
  editorctl pull budi-ani -o budi-ani.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pull(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func pull(opts *PullOptions, identifier string, cmd *cobra.Command) error {
	ctrl := sync.NewController(opts.client(), opts.collection(), identifier)
	doc, err := ctrl.Load(cmd.Context())
	if err != nil {
		return err
	}
	if !ctrl.Status().HasData {
		return fmt.Errorf("%s %q not found", opts.Collection, identifier)
	}
	for _, fe := range ctrl.FieldErrors() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", fe)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if opts.Output == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return err
	}
	return os.WriteFile(opts.Output, raw, 0o644)
}

type PushOptions struct {
	*RootOptions
	ID string
}

func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PushOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Save a scene JSON file",
		Long: `Save a scene JSON file.

The target is --id, else the file's id, else its slug. The target is loaded
first, so a push never creates a second document under an existing slug.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return push(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "target id or slug")
	return cmd
}

func push(opts *PushOptions, path string, cmd *cobra.Command) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc scene.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	target := opts.ID
	if target == "" {
		target = doc.ID
	}
	if target == "" {
		target = doc.Slug
	}

	ctrl := sync.NewController(opts.client(), opts.collection(), target)
	if _, err := ctrl.Load(cmd.Context()); err != nil {
		return err
	}
	if id := ctrl.StorageID(); id != "" {
		doc.ID = id
	}

	result, err := ctrl.Save(cmd.Context(), &doc)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("saved %s (slug %s)", result.ID, result.Slug)
	if result.Created {
		text = fmt.Sprintf("created %s (slug %s)", result.ID, result.Slug)
	}
	if result.SlugChanged {
		text += ", requested slug was taken"
	}
	return opts.print(cmd.OutOrStdout(), result, text)
}

type UploadOptions struct {
	*RootOptions
}

func NewUploadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UploadOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:           "upload <file>",
		Short:         "Upload a media file and print its URL",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			obj, err := opts.client().Upload(cmd.Context(), f.Name(), f)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), obj, obj.URL)
		},
	}
}
