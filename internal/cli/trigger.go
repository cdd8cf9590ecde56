package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/sync"
	"invitation-canvas-editor/internal/trigger"
)

type TriggerOptions struct {
	*RootOptions
	Effect string
	Name   string
	Style  string
}

func NewTriggerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TriggerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trigger <id-or-slug>",
		Short: "Broadcast an interaction to every open display",
		Long: `Broadcast an interaction to every open display.

Example:
  editorctl trigger budi-ani --effect confetti --name "Budi"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fired, err := opts.client().FireTrigger(cmd.Context(), opts.collection(), args[0], scene.Trigger{
				Effect: opts.Effect,
				Name:   opts.Name,
				Style:  opts.Style,
			})
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), fired, fmt.Sprintf("fired %s at %d", fired.Effect, fired.Timestamp))
		},
	}

	cmd.Flags().StringVar(&opts.Effect, "effect", "", "effect to play")
	cmd.Flags().StringVar(&opts.Name, "name", "", "actor name shown with the effect")
	cmd.Flags().StringVar(&opts.Style, "style", "", "effect style")
	_ = cmd.MarkFlagRequired("effect")
	return cmd
}

type WatchOptions struct {
	*RootOptions
	Interval time.Duration
	Replay   bool
	Count    int
}

func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "watch <id-or-slug>",
		Short:         "Print each new interaction once, as a display would play it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", trigger.DefaultPollInterval, "poll interval")
	cmd.Flags().BoolVar(&opts.Replay, "replay", false, "also play the interaction present at start")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "exit after this many interactions (0 runs until interrupted)")
	return cmd
}

func watch(opts *WatchOptions, identifier string, cmd *cobra.Command) error {
	ctrl := sync.NewController(opts.client(), opts.collection(), identifier)
	if _, err := ctrl.Load(cmd.Context()); err != nil {
		return err
	}
	if !ctrl.Status().HasData {
		return fmt.Errorf("%s %q not found", opts.Collection, identifier)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	w := trigger.NewWatcher(ctrl.Triggers(), opts.Interval)
	w.ReplayExisting = opts.Replay

	played := 0
	var printErr error
	err := w.Run(ctx, nil, func(t scene.Trigger) {
		text := fmt.Sprintf("%d %s %s %s", t.Timestamp, t.Effect, t.Name, t.Style)
		if printErr = opts.print(cmd.OutOrStdout(), t, text); printErr != nil {
			cancel()
			return
		}
		played++
		if opts.Count > 0 && played >= opts.Count {
			cancel()
		}
	})
	if printErr != nil {
		return printErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
