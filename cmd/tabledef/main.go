// Package main provides the CLI entry point for tabledef-go.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabledef/tabledef-go/pkg/tabledef"
	"github.com/tabledef/tabledef-go/pkg/tabledef/parser"
)

var (
	outputPath   string
	pretty       bool
	pkMarkers    []string
	maxEmptyRows int
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tabledef [input.xlsx]",
		Short: "Extract table definitions from database-definition workbooks",
		Long: `tabledef-go reads a database-definition workbook (.xlsx), detects the
sheet layouts, and extracts a normalized schema model (tables, columns,
primary keys, data types, code-master references) as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringSliceVar(&pkMarkers, "pk-marker", nil, "Primary-key marker token (repeatable; default: 〇)")
	rootCmd.Flags().IntVar(&maxEmptyRows, "max-empty-rows", parser.DefaultMaxConsecutiveEmptyRows, "Consecutive empty rows that end a column block")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := tabledef.DefaultParseOptions()
	if len(pkMarkers) > 0 {
		opts.PKMarkers = pkMarkers
	}
	if maxEmptyRows > 0 {
		opts.MaxConsecutiveEmptyRows = maxEmptyRows
	}

	bundle, err := tabledef.Extract(args[0], opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var jsonData []byte
	if pretty {
		jsonData, err = json.MarshalIndent(bundle, "", "  ")
	} else {
		jsonData, err = json.Marshal(bundle)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonData))
	return nil
}
