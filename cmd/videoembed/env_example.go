package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"videoembed/internal/i18n"
)

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd.Root())

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(root *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# videoembed Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: " + envPrefix + "_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n\n")

	generateServerSection(&content, root)
	generateLoggingSection(&content, root)
	generateAppSection(&content, root)
	generateEmbedSection(&content, root)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(root *cobra.Command, flagName string) string {
	if f := root.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func writeSectionHeader(content *strings.Builder, title string, flags ...string) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# " + title + "\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	if len(flags) > 0 {
		content.WriteString("# CLI: --" + strings.Join(flags, ", --") + "\n")
	}
}

func writeSetting(content *strings.Builder, root *cobra.Command, flagName, description string) {
	def := getDefaultValueString(root, flagName)
	fmt.Fprintf(content, "%s=%s    # %s (default: %s)\n", flagToEnvVar(flagName), def, description, def)
}

func generateServerSection(content *strings.Builder, root *cobra.Command) {
	writeSectionHeader(content, "HTTP Server Configuration",
		"server-host", "server-port", "server-read-timeout", "server-write-timeout")
	writeSetting(content, root, "server-host", "Server bind address")
	writeSetting(content, root, "server-port", "Server port")
	writeSetting(content, root, "server-read-timeout", "Request read timeout")
	writeSetting(content, root, "server-write-timeout", "Response write timeout")
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, root *cobra.Command) {
	writeSectionHeader(content, "Logging Configuration", "log-level")
	writeSetting(content, root, "log-level", "Log level: debug, info, warn, error")
	content.WriteString("\n")
}

func generateAppSection(content *strings.Builder, root *cobra.Command) {
	writeSectionHeader(content, "Application Settings",
		"language", "flood-limit-per-minute", "cache-size", "bloom-false-positive-rate")
	writeSetting(content, root, "language",
		"Message language: "+strings.Join(i18n.GetSupportedLanguages(), ", "))
	writeSetting(content, root, "flood-limit-per-minute", "Max API requests per client and route per minute, 0=disabled")
	writeSetting(content, root, "cache-size", "Resolved and rejected links kept in memory")
	writeSetting(content, root, "bloom-false-positive-rate", "False positive rate of the rejected link filter")
	content.WriteString("\n")
}

func generateEmbedSection(content *strings.Builder, _ *cobra.Command) {
	writeSectionHeader(content, "Embed Defaults", "embed-config")
	content.WriteString("# Optional YAML, JSON or TOML file with per-provider player options, e.g.\n")
	content.WriteString("#   youtube:\n")
	content.WriteString("#     nocookie: true\n")
	content.WriteString("#     rel: 0\n")
	content.WriteString("#   facebook:\n")
	content.WriteString("#     width: 640\n")
	fmt.Fprintf(content, "# %s=./embed.yaml\n", flagToEnvVar("embed-config"))
	content.WriteString("\n")
}
