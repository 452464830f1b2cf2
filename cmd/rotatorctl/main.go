// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command rotatorctl encodes, decodes and simulates overlay tokens.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/follow-rotator/clock"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
	"github.com/danielhkuo/follow-rotator/resolver"
	"github.com/danielhkuo/follow-rotator/rotation"
	"github.com/danielhkuo/follow-rotator/token"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand
type globalOptions struct {
	platformsFile string
	strict        bool
}

func (o *globalOptions) registry() (*platform.Registry, error) {
	if o.platformsFile == "" {
		return platform.Default(), nil
	}
	return platform.LoadFile(o.platformsFile)
}

func (o *globalOptions) codec() (*token.Codec, *platform.Registry, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, nil, err
	}
	var opts []token.Option
	if o.strict {
		opts = append(opts, token.WithStrictPlatforms())
	}
	return token.NewCodec(reg, opts...), reg, nil
}

// newRootCmd creates the root command for the rotatorctl CLI.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:          "rotatorctl",
		Short:        "Work with follow rotator overlay tokens",
		Long:         "rotatorctl builds overlay links, inspects tokens and previews the rotation timeline.",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("rotatorctl version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&opts.platformsFile, "platforms", os.Getenv("PLATFORMS_FILE"), "YAML file with extra platforms")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Reject unknown platforms")

	rootCmd.AddCommand(newEncodeCmd(opts))
	rootCmd.AddCommand(newDecodeCmd(opts))
	rootCmd.AddCommand(newPlatformsCmd(opts))
	rootCmd.AddCommand(newSimulateCmd(opts))

	return rootCmd
}

// parseItems turns platform=text pairs into rotation items
func parseItems(raw []string) ([]models.RotationItem, error) {
	items := make([]models.RotationItem, 0, len(raw))
	for _, r := range raw {
		id, text, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid item %q: want platform=text", r)
		}
		items = append(items, models.RotationItem{
			Platform: platform.ID(strings.ToLower(strings.TrimSpace(id))),
			Text:     text,
		})
	}
	return items, nil
}

// newEncodeCmd creates the encode subcommand.
func newEncodeCmd(opts *globalOptions) *cobra.Command {
	var rawItems []string
	var hold, animIn, animOut int
	var compact bool
	var baseURL string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode items and timing into an overlay link",
		Example: `  rotatorctl encode --item tiktok=@me --item discord=discord.gg/abc --hold 5000
  rotatorctl encode --item x=@me --compact`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, _, err := opts.codec()
			if err != nil {
				return err
			}

			parsed, err := parseItems(rawItems)
			if err != nil {
				return err
			}
			items := models.AssembleItems(parsed)
			if len(items) == 0 {
				return fmt.Errorf("please select at least one platform (use --item platform=text)")
			}

			var override models.TimingOverride
			if cmd.Flags().Changed("hold") {
				override.HoldMs = &hold
			}
			if cmd.Flags().Changed("anim-in") {
				override.AnimInMs = &animIn
			}
			if cmd.Flags().Changed("anim-out") {
				override.AnimOutMs = &animOut
			}
			for _, v := range []int{hold, animIn, animOut} {
				if !models.InRange(v) {
					return fmt.Errorf("timings must be between 0 and %d ms", models.MaxTimingMs)
				}
			}
			cfg := models.Configuration{Items: items, Timing: models.DefaultTiming().Merge(override)}

			var tok string
			if compact {
				tok, err = codec.Compress(cfg)
			} else {
				tok, err = codec.Encode(cfg)
			}
			if err != nil {
				return fmt.Errorf("failed to encode: %w", err)
			}

			overlay := strings.TrimRight(baseURL, "/") + "/overlay"
			link := overlay + "?" + resolver.ParamToken + "=" + tok
			full, err := resolver.FullURLLength(overlay, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token: %s\n", tok)
			fmt.Fprintf(out, "url:   %s\n", link)
			fmt.Fprintf(out, "size:  %s token, %d vs %d chars (saved %d)\n",
				humanize.Bytes(uint64(len(tok))), len(link), full, full-len(link))
			return nil
		},
	}

	defaultBase := os.Getenv("BASE_URL")
	if defaultBase == "" {
		defaultBase = "http://localhost:3318"
	}

	cmd.Flags().StringArrayVarP(&rawItems, "item", "i", nil, "Rotation item as platform=text (repeatable)")
	cmd.Flags().IntVar(&hold, "hold", models.DefaultHoldMs, "Hold time in ms")
	cmd.Flags().IntVar(&animIn, "anim-in", models.DefaultAnimInMs, "Enter animation in ms")
	cmd.Flags().IntVar(&animOut, "anim-out", models.DefaultAnimOutMs, "Exit animation in ms")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "Use the compact token form")
	cmd.Flags().StringVar(&baseURL, "base-url", defaultBase, "Overlay server base URL")

	return cmd
}

// newDecodeCmd creates the decode subcommand.
func newDecodeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the configuration inside a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, _, err := opts.codec()
			if err != nil {
				return err
			}

			settings, compact, err := codec.DecodeAny(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid token format: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(models.DecodeLinkResponse{
				Configuration: settings.Configuration(),
				Compact:       compact,
			})
		},
	}
}

// newPlatformsCmd creates the platforms subcommand.
func newPlatformsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List known platforms and their compact codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME\tCTA")
			for _, p := range reg.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, token.CodeFor(p.ID), p.Name, p.CTA.Text)
			}
			return tw.Flush()
		},
	}
}

// newSimulateCmd creates the simulate subcommand.
func newSimulateCmd(opts *globalOptions) *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "simulate <token>",
		Short: "Print the rotation timeline for a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cycles < 0 {
				return fmt.Errorf("cycles must be non-negative")
			}
			codec, reg, err := opts.codec()
			if err != nil {
				return err
			}

			settings, _, err := codec.DecodeAny(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid token format: %w", err)
			}
			cfg := settings.Configuration()
			cfg.Items = models.AssembleItems(cfg.Items)

			return simulate(cmd.OutOrStdout(), cfg, reg, cycles)
		},
	}

	cmd.Flags().IntVarP(&cycles, "cycles", "n", 3, "Number of swaps to simulate")

	return cmd
}

// simulate runs the engine on virtual time and prints every renderer call
func simulate(w io.Writer, cfg models.Configuration, reg *platform.Registry, cycles int) error {
	start := time.Unix(0, 0)
	manual := clock.NewManual(start)
	tl := &timeline{w: w, clock: manual, start: start}

	engine, err := rotation.New(cfg, reg, tl, rotation.WithClock(manual))
	if err != nil {
		return err
	}
	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	// Each cycle ends with its swap, one exit animation after the tick
	out := time.Duration(cfg.Timing.AnimOutMs) * time.Millisecond
	manual.Advance(time.Duration(cycles)*engine.Interval() + out)
	return tl.err
}

// timeline is a rotation.Renderer that prints one line per call
type timeline struct {
	w     io.Writer
	clock clock.Clock
	start time.Time
	err   error
}

func (t *timeline) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	at := t.clock.Now().Sub(t.start)
	_, t.err = fmt.Fprintf(t.w, "%8s  "+format+"\n", append([]any{at}, args...)...)
}

func (t *timeline) UpdateContent(index int, item models.RotationItem, p platform.Platform) {
	t.printf("content     #%d %s %q (%s)", index, p.Name, item.Text, p.CTA.Text)
}

func (t *timeline) UpdateBackground(index int, _ models.RotationItem, p platform.Platform) {
	t.printf("background  #%d %s", index, p.Background)
}

func (t *timeline) AnimateOut(index int) {
	t.printf("animate_out #%d", index)
}

func (t *timeline) AnimateIn(index int) {
	t.printf("animate_in  #%d", index)
}
