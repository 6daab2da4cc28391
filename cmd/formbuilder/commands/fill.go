package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/persist"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

var (
	fillOutputFormat string
	fillRecord       bool
)

var fillCmd = &cobra.Command{
	Use:   "fill <form-id>",
	Short: "Fill a published form from the terminal",
	Long: `Walk through a published form step by step, prompting for each field
and validating answers as they are entered.

The collected values are printed to stdout. With --record they are
appended to the form's stored responses instead.

Examples:
  # Answer a form and print the values as JSON
  formbuilder fill contact-us

  # Record the answers as a submission
  formbuilder fill contact-us --record`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringVar(&fillOutputFormat, "format", "json", "output format (json, pretty)")
	fillCmd.Flags().BoolVar(&fillRecord, "record", false, "store the answers as a submission")
}

func runFill(cmd *cobra.Command, args []string) error {
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

	format := tui.OutputFormat(fillOutputFormat)
	if fillRecord {
		// Recording needs the machine readable payload.
		format = tui.OutputFormatJSON
	}
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatPrettyText:
	default:
		return fmt.Errorf("unknown output format %q", fillOutputFormat)
	}

	renderer, err := tui.New(tui.WithOutputFormat(format))
	if err != nil {
		return err
	}

	out, err := renderer.Render(cmd.Context(), form, render.RenderOptions{})
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return fmt.Errorf("aborted")
		}
		return err
	}

	if !fillRecord {
		cmd.Println(string(out))
		return nil
	}

	values := map[string]any{}
	if err := json.Unmarshal(out, &values); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}
	if err := gateway.AppendSubmission(formID, values); err != nil {
		return err
	}
	cmd.Printf("Response to %s recorded\n", formID)
	return nil
}
