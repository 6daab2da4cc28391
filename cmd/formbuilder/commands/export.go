package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/persist"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <form-id>",
	Short: "Export a form's submission contract as OpenAPI",
	Long: `Generate an OpenAPI 3 document describing the submission endpoint of a
published form, including per-field constraints.

Examples:
  # Print the document to stdout
  formbuilder export contact-us

  # Write it to a file
  formbuilder export contact-us --output contact-us.openapi.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (stdout if empty)")
}

func runExport(cmd *cobra.Command, args []string) error {
	formID := args[0]

	store, err := persist.NewSQLite(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	gateway := persist.NewGateway(store)

	form, err := gateway.LoadForm(formID)
	if err != nil {
		if errors.Is(err, persist.ErrFormNotFound) {
			return fmt.Errorf("no form with id %q", formID)
		}
		return err
	}

	doc, err := export.OpenAPIJSON(form)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		cmd.Println(string(doc))
		return nil
	}
	if err := os.WriteFile(exportOutput, doc, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	cmd.Printf("OpenAPI document written to %s\n", exportOutput)
	return nil
}
