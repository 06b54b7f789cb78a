// Package cli is the terminal presentation of a peer: it prints call events and turns typed
// commands into engine intents.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"couplecall/pkg/logger"
	"couplecall/pkg/webrtc"
)

// SourceFunc picks the local media implementation.
type SourceFunc func(l logger.Interface) webrtc.Source

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server     string
	User       string
	Interval   time.Duration
	Watch      bool
	LogLevel   string
	ICEServers []string
	Loopback   bool

	newSource SourceFunc
}

// NewRootCommand creates the root command of the peer CLI.
func NewRootCommand(newSource SourceFunc) *cobra.Command {
	opts := &RootOptions{newSource: newSource}

	cmd := &cobra.Command{
		Use:   "peer",
		Short: "couplecall peer",
		Long:  "One side of a couple's audio/video call, negotiated through the shared call record.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.User == "" {
				return fmt.Errorf("--user is required")
			}

			if opts.Interval <= 0 {
				return fmt.Errorf("invalid interval %s", opts.Interval)
			}

			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "http://localhost:8080", "signaling endpoint base URL")
	cmd.PersistentFlags().StringVarP(&opts.User, "user", "u", "", "local user id")
	cmd.PersistentFlags().DurationVar(&opts.Interval, "interval", 2*time.Second, "poll interval")
	cmd.PersistentFlags().BoolVar(&opts.Watch, "watch", true, "tick early on pushed call events")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "debug|info|warn|error")
	cmd.PersistentFlags().StringSliceVar(&opts.ICEServers, "ice", []string{"stun:stun.l.google.com:19302"}, "ICE server URLs")
	cmd.PersistentFlags().BoolVar(&opts.Loopback, "loopback", false, "gather loopback candidates (both peers on one host)")

	// Add subcommands
	cmd.AddCommand(NewListenCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))

	return cmd
}

// NewListenCommand waits for the partner's calls.
func NewListenCommand(rootOpts *RootOptions) *cobra.Command {
	var autoAnswer bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Wait for calls and control them from stdin",
		Long: `Wait for the partner's calls. Type "help" for the commands.

Example:
  peer listen --user bob --auto-answer`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, rootOpts, sessionOptions{autoAnswer: autoAnswer})
		},
	}

	cmd.Flags().BoolVar(&autoAnswer, "auto-answer", false, "answer incoming calls right away")

	return cmd
}

// NewCallCommand calls the partner and exits when the call ends.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Call the partner",
		Long: `Call the partner and stay in the call until either side hangs up.

Example:
  peer call --user alice --kind video`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, rootOpts, sessionOptions{dial: kind, exitOnEnd: true})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "audio", "audio|video")

	return cmd
}
