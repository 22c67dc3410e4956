package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewFlowCmd создаёт группу команд для работы с каталогом flows.
func NewFlowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Browse and import catalog flows",
	}

	cmd.AddCommand(
		newFlowListCmd(clientFn, outputFn),
		newFlowShowCmd(clientFn, outputFn),
		newFlowImportCmd(clientFn, outputFn),
		newFlowDeleteCmd(clientFn, outputFn),
		newFlowValidateCmd(clientFn, outputFn),
	)

	return cmd
}

func flowRow(f FlowSummary) []string {
	return []string{f.ID, strconv.FormatBool(f.Available), f.Main, strings.Join(f.Subflows, ",")}
}

var flowHeaders = []string{"ID", "AVAILABLE", "MAIN", "SUBFLOWS"}

func newFlowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flows, err := client.ListFlows()
			if err != nil {
				return err
			}

			rows := make([][]string, len(flows))
			for i, f := range flows {
				rows[i] = flowRow(f)
			}

			out.Print(flowHeaders, rows, flows)
			return nil
		},
	}
}

func newFlowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print the flow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			flow, err := client.GetFlow(args[0])
			if err != nil {
				return err
			}

			out.JSON(flow)
			return nil
		},
	}
}

func newFlowImportCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import ID",
		Short: "Import a flow document (YAML or JSON) into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read flow file: %w", err)
			}

			flow, err := client.ImportFlow(args[0], data)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Flow imported: %s", flow.ID))
			out.Print(flowHeaders, [][]string{flowRow(*flow)}, flow)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to flow document (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newFlowDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a flow from storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clientFn().DeleteFlow(args[0]); err != nil {
				return err
			}

			outputFn().Success(fmt.Sprintf("Flow deleted: %s", args[0]))
			return nil
		},
	}
}

func newFlowValidateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a flow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read flow file: %w", err)
			}

			result, err := client.ValidateFlow(data)
			if err != nil {
				return err
			}

			rows := make([][]string, len(result.Problems))
			for i, p := range result.Problems {
				rows[i] = []string{p.SubflowID, p.ElementID, p.Field, p.Message}
			}
			out.Print([]string{"SUBFLOW", "ELEMENT", "FIELD", "PROBLEM"}, rows, result)

			if !result.Valid {
				return fmt.Errorf("flow has %d problem(s)", len(result.Problems))
			}
			out.Success("Flow is valid")
			return nil
		},
	}
}
