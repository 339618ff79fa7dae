package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"videoembed/internal/core"
	"videoembed/internal/i18n"
	"videoembed/pkg/embed"
	"videoembed/pkg/text"
)

var errNoProviders = errors.New("no provider accepts the link")

func newResolveCmd() *cobra.Command {
	var attrs core.NodeAttrs

	cmd := &cobra.Command{
		Use:   "resolve <provider> <url>",
		Short: "Print the embed URL for a link using the configured defaults",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := embed.ParseProvider(args[0])
			if err != nil {
				return err
			}
			attrs.Src = args[1]
			return runResolve(cmd.Context(), cmd.OutOrStdout(), newService(nil), provider, attrs)
		},
	}

	cmd.Flags().IntVar(&attrs.Start, "start", 0, "start offset in seconds (YouTube, Vimeo)")
	cmd.Flags().IntVar(&attrs.Width, "width", 0, "player width (Facebook)")
	cmd.Flags().IntVar(&attrs.Height, "height", 0, "player height (Facebook)")

	return cmd
}

func runResolve(ctx context.Context, out io.Writer, service *core.Service, provider embed.Provider,
	attrs core.NodeAttrs) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resolution, err := service.Resolve(ctx, provider, attrs)
	if err != nil {
		localizer := i18n.NewLocalizer(config.App.Language)
		return fmt.Errorf("%s: %w", localizer.T("cli.rejected", provider, attrs.Src), err)
	}

	_, err = fmt.Fprintln(out, resolution.EmbedURL)
	return err
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <url>",
		Short: "Print the providers that accept a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), newService(nil), args[0])
		},
	}
}

func runValidate(out io.Writer, service *core.Service, rawURL string) error {
	providers := service.Detect(rawURL)
	if len(providers) == 0 {
		localizer := i18n.NewLocalizer(config.App.Language)
		return fmt.Errorf("%s: %w", localizer.T("cli.no_providers"), errNoProviders)
	}

	for _, p := range providers {
		if _, err := fmt.Fprintln(out, p); err != nil {
			return err
		}
	}
	return nil
}

func newScanCmd() *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Read text from stdin and print every embeddable link in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.InOrStdin(), cmd.OutOrStdout(), newService(nil), html)
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "treat input as HTML and include anchor and iframe links")

	return cmd
}

func runScan(in io.Reader, out io.Writer, service *core.Service, html bool) error {
	scanner := text.NewScanner(service)

	var matches []text.Match
	if html {
		var err error
		if matches, err = scanner.ScanHTML(in); err != nil {
			return err
		}
	} else {
		input, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		matches = scanner.Scan(string(input))
	}

	for _, match := range matches {
		names := make([]string, len(match.Providers))
		for i, p := range match.Providers {
			names[i] = string(p)
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\n", strings.Join(names, ","), match.URL); err != nil {
			return err
		}
	}
	return nil
}
