package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/amityadav/deepresearch/internal/config"
	"github.com/amityadav/deepresearch/internal/diagram"
	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/export"
	"github.com/spf13/cobra"
)

var (
	provider     string
	exportFormat string
	outPath      string
	diagramOut   string
)

// queryCmd sends a query to one provider
var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Send a query to a provider",
	Long: `Send a query to a provider and print the normalized text.

Examples:
  research query --provider wikipedia "Alan Turing"
  research query -p websearch "rust programming" --export pdf --out results.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

// extractCmd extracts text from a local document
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract text from a PDF, DOCX, PPTX, HTML or text file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

// diagramCmd renders a flowchart PDF
var diagramCmd = &cobra.Command{
	Use:   "diagram [steps]",
	Short: `Render a flowchart PDF from steps, e.g. "collect -> filter -> summarize"`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiagram,
}

// providersCmd lists the registered providers
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the providers enabled by the current environment",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

func init() {
	queryCmd.Flags().StringVarP(&provider, "provider", "p", string(dispatch.WebSearch), "provider name")
	for _, c := range []*cobra.Command{queryCmd, extractCmd} {
		c.Flags().StringVar(&exportFormat, "export", "", "also export the result (pdf or docx)")
		c.Flags().StringVarP(&outPath, "out", "o", "", "output file for --export")
	}
	diagramCmd.Flags().StringVarP(&diagramOut, "out", "o", diagram.Filename, "output file")
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}

	res := s.Dispatcher.Dispatch(context.Background(), dispatch.ParseName(provider), dispatch.Input{
		Query: strings.Join(args, " "),
	})
	return report(cmd, s, res)
}

func runExtract(cmd *cobra.Command, args []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	res := s.Dispatcher.Dispatch(context.Background(), dispatch.Document, dispatch.Input{
		Document: &dispatch.Upload{
			Filename:    filepath.Base(args[0]),
			ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
			Data:        data,
		},
	})
	return report(cmd, s, res)
}

// report prints a result and exports it when --export is set
func report(cmd *cobra.Command, s services, res dispatch.Result) error {
	if !res.OK() {
		return fmt.Errorf("%s: %s", res.Provider, res.Message())
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)

	if exportFormat == "" {
		return nil
	}
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	artifact, err := s.Exporter.ExportResults([]dispatch.Result{res}, format)
	if err != nil {
		return err
	}
	return writeFile(cmd, outPath, artifact)
}

func runDiagram(cmd *cobra.Command, args []string) error {
	font, err := export.LoadFont(config.Load().ExportFontFile)
	if err != nil {
		return err
	}
	artifact, err := diagram.Render(diagram.ParseSteps(strings.Join(args, " ")), font)
	if err != nil {
		return err
	}
	return writeFile(cmd, diagramOut, artifact)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}
	for _, name := range s.Dispatcher.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func writeFile(cmd *cobra.Command, path string, a export.Artifact) error {
	if path == "" {
		path = a.Filename
	}
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s, %d bytes)\n", path, a.MimeType, len(a.Data))
	return nil
}
