package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/skill-validator/internal/ingestion"
	"github.com/jonathan/skill-validator/internal/observability"
	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/spf13/cobra"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract cleaned text from a PDF, DOCX or TXT document",
	RunE:  runExtractTextCmd,
}

var (
	extractInput string
	extractType  string
	extractJSON  bool
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractInput, "input", "i", "", "Path to the document (required)")
	extractTextCmd.Flags().StringVarP(&extractType, "type", "t", "", "Document type: txt, pdf or docx (default: from the extension)")
	extractTextCmd.Flags().BoolVar(&extractJSON, "json", false, "Print text, metadata and contact phone as JSON")

	extractTextCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(extractTextCmd)
}

func runExtractTextCmd(cmd *cobra.Command, _ []string) error {
	return runExtractText(extractInput, extractType, extractJSON, cmd.OutOrStdout())
}

// extractTextOutput is the --json shape, matching the HTTP /extract-text response
type extractTextOutput struct {
	Text         string              `json:"text"`
	Metadata     *ingestion.Metadata `json:"metadata"`
	ContactPhone string              `json:"contact_phone"`
}

func runExtractText(path, declaredType string, asJSON bool, out io.Writer) error {
	text, metadata, err := readTypedDocument(path, declaredType)
	if err != nil {
		return err
	}

	if !asJSON {
		if verbose {
			observability.NewPrinter(os.Stderr, true).PrintDocument(metadata.Source, metadata.Type, text)
		}
		_, err := fmt.Fprintln(out, text)
		return err
	}

	data, err := json.MarshalIndent(extractTextOutput{
		Text:         text,
		Metadata:     metadata,
		ContactPhone: parsing.ExtractPhone(text),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// readTypedDocument reads path as declaredType, or by extension when none is declared
func readTypedDocument(path, declaredType string) (string, *ingestion.Metadata, error) {
	if declaredType == "" {
		return ingestion.ReadDocument(path)
	}

	docType, err := ingestion.ParseDocumentType(declaredType)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	text, err := ingestion.ExtractText(data, docType)
	if err != nil {
		return "", nil, err
	}

	metadata := ingestion.NewMetadata(text, "")
	metadata.Source = filepath.Base(path)
	metadata.Type = string(docType)
	return text, metadata, nil
}
