package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/fixtures"
	"github.com/metiseon/landing/internal/modules/snippets"
	"github.com/metiseon/landing/internal/publish"
)

// newClipboard is replaced in tests
var newClipboard = func() snippets.Clipboard { return snippets.SystemClipboard{} }

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the full site into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, _, err := opts.wire(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			bundle, err := container.Exporter.Export(cmd.Context())
			if err != nil {
				return err
			}
			if err := publish.ExportDir(bundle, out); err != nil {
				return err
			}

			var total int
			for _, f := range bundle.Files {
				total += len(f.Data)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files (%s) to %s\nBuild %s\n",
				len(bundle.Files), humanize.Bytes(uint64(total)), out, bundle.Manifest.BuildID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dist", "Output directory")

	return cmd
}

func newPublishCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Export the site and upload it to the configured bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, jobs, _, err := opts.wire(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			if jobs.PublishSite == nil {
				return errors.New("publishing is not configured: set PUBLISH_BUCKET")
			}
			if err := container.Scheduler.RunNow(jobs.PublishSite); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Published")
			return nil
		},
	}
}

func newCopyCmd(opts *rootOptions) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "copy SNIPPET_ID",
		Short: "Copy a code snippet to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, log, err := opts.wire(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			snippet, err := container.Site.Snippets().Get(args[0])
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(container.Site.Snippets().IDs(), ", "))
			}

			out := cmd.OutOrStdout()
			reverted := make(chan struct{})
			control := snippets.NewControl(newClipboard(), log,
				snippets.WithResetWindow(container.Site.CopyResetWindow()),
				snippets.WithOnChange(func(copied bool) {
					if copied {
						fmt.Fprintln(out, "Copied")
						return
					}
					fmt.Fprintln(out, "Copy")
					close(reverted)
				}),
			)
			defer control.Close()

			if err := control.Copy(snippet.Code); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			if !wait {
				return nil
			}

			select {
			case <-reverted:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the copied indicator to reset")

	return cmd
}

func newTraceCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Validate a decision trace and report consistency warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := loadTrace(cmd.Context(), opts, cmd, file)
			if err != nil {
				return err
			}
			return reportTrace(cmd, trace)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Trace JSON file (default: the site's decision trace)")

	return cmd
}

func loadTrace(ctx context.Context, opts *rootOptions, cmd *cobra.Command, file string) (domain.DecisionTrace, error) {
	var trace domain.DecisionTrace
	if file == "" {
		container, _, _, err := opts.wire(ctx, cmd)
		if err != nil {
			return trace, err
		}
		defer container.Close()
		return container.Site.DecisionTrace(), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return trace, fmt.Errorf("failed to read trace: %w", err)
	}
	if err := json.Unmarshal(data, &trace); err != nil {
		return trace, fmt.Errorf("failed to decode trace: %w", err)
	}
	return trace, nil
}

func reportTrace(cmd *cobra.Command, trace domain.DecisionTrace) error {
	out := cmd.OutOrStdout()

	if err := fixtures.ValidateTrace(trace); err != nil {
		return err
	}

	fmt.Fprintf(out, "Date:      %s\n", trace.Date)
	fmt.Fprintf(out, "Chosen:    %s\n", trace.Chosen)
	fmt.Fprintf(out, "Candidates: %s\n", strings.Join(trace.Candidates, ", "))
	fmt.Fprintf(out, "Trade:     %t (fee %.1f bp + impact %.1f bp vs cap %.1f bp)\n",
		trace.TradeAllowed, trace.FeeBp, trace.ImpactBp, trace.CapBp)

	warnings := fixtures.CheckTrace(trace)
	if len(warnings) == 0 {
		fmt.Fprintln(out, "OK")
		return nil
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}

func newSnippetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snippets",
		Short: "List the copyable code snippets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, _, _, err := opts.wire(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			for _, s := range container.Site.Snippets().All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-8s %s\n", s.ID, s.Language, s.Title)
			}
			return nil
		},
	}
}
