package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/appshell/internal/cli"
	"github.com/spf13/cobra"
)

const flagWrapWidth = 100

// commandDoc is what the reference shows for one command.
type commandDoc struct {
	Name      string
	Path      string
	Summary   string
	Details   string
	Usage     string
	Flags     string
	Inherited string
	Examples  string
}

func describe(cmd *cobra.Command) commandDoc {
	doc := commandDoc{
		Name:     cmd.Name(),
		Path:     cmd.CommandPath(),
		Summary:  cleanDescription(cmd.Short),
		Details:  cmd.Long,
		Usage:    cmd.UseLine(),
		Examples: strings.TrimRight(cmd.Example, "\n"),
	}
	if doc.Details == "" {
		doc.Details = cmd.Short
	}
	if cmd.HasAvailableLocalFlags() {
		doc.Flags = cmd.LocalFlags().FlagUsagesWrapped(flagWrapWidth)
	}
	if cmd.HasAvailableInheritedFlags() {
		doc.Inherited = cmd.InheritedFlags().FlagUsagesWrapped(flagWrapWidth)
	}
	return doc
}

// documented returns the subcommands of root that get a page.
func documented(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() || cmd.IsAdditionalHelpTopicCommand() {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// generateCLIDocs writes an index page and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := documented(root)

	pages := map[string][]byte{"index.md": renderIndex(root, cmds)}
	for _, cmd := range cmds {
		pages[cmd.Name()+".md"] = renderCommand(describe(cmd))
	}

	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func renderIndex(root *cobra.Command, cmds []*cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for AppShell")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/appshell/cmd/appshell@latest\nappshell <command> [flags]")

	var rows [][]string
	for _, cmd := range cmds {
		rows = append(rows, []string{fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()), cleanDescription(cmd.Short)})
	}
	w.Header(2, "Commands")
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Flags")
	w.CodeBlock("", root.PersistentFlags().FlagUsagesWrapped(flagWrapWidth))
	w.Paragraph("Flags override environment variables, which override the settings file. " +
		"See [the configuration reference](/reference/configuration) for every key and its variable.")

	return w.Bytes()
}

func renderCommand(doc commandDoc) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(doc.Name, doc.Summary)
	w.GeneratedMarker()

	w.Header(1, doc.Path)
	w.Paragraph(doc.Details)

	w.Header(2, "Usage")
	w.CodeBlock("bash", doc.Usage)

	if doc.Flags != "" {
		w.Header(2, "Flags")
		w.CodeBlock("", doc.Flags)
	}
	if doc.Inherited != "" {
		w.Header(2, "Global Flags")
		w.CodeBlock("", doc.Inherited)
	}
	if doc.Examples != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", doc.Examples)
	}
	return w.Bytes()
}
