package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewSessionCmd создаёт группу команд для сессий редактирования.
func NewSessionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit flows in modeler sessions",
	}

	cmd.AddCommand(
		newSessionOpenCmd(clientFn, outputFn),
		newSessionShowCmd(clientFn, outputFn),
		newSessionCloseCmd(clientFn, outputFn),
		newSessionFlowCmd(clientFn, outputFn),
		newSessionSubflowCmd(clientFn, outputFn),
		newSessionUpdateCmd(clientFn, outputFn),
		newSessionLayoutCmd(clientFn, outputFn),
		newSessionSVGCmd(clientFn, outputFn),
	)

	return cmd
}

var sessionHeaders = []string{"ID", "FLOW", "SUBFLOW", "SUBFLOWS", "CREATED"}

func printSession(out *Output, s *SessionResponse) {
	out.Print(
		sessionHeaders,
		[][]string{{s.ID, s.FlowID, s.SubflowID, strings.Join(s.Subflows, ","), s.CreatedAt}},
		s,
	)
}

func newSessionOpenCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "open FLOW_ID",
		Short: "Open an edit session for a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			session, err := client.OpenSession(args[0])
			if err != nil {
				return err
			}

			if !session.Loaded {
				out.Success(fmt.Sprintf("Session opened: %s (flow %q not found)", session.ID, args[0]))
			} else {
				out.Success(fmt.Sprintf("Session opened: %s", session.ID))
			}
			printSession(out, session)
			return nil
		},
	}
}

func newSessionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Show session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := clientFn().GetSession(args[0])
			if err != nil {
				return err
			}

			printSession(outputFn(), session)
			return nil
		},
	}
}

func newSessionCloseCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "close SESSION_ID",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clientFn().CloseSession(args[0]); err != nil {
				return err
			}

			outputFn().Success(fmt.Sprintf("Session closed: %s", args[0]))
			return nil
		},
	}
}

func newSessionFlowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "flow SESSION_ID FLOW_ID",
		Short: "Load another flow into the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := clientFn().SelectFlow(args[0], args[1])
			if err != nil {
				return err
			}

			printSession(outputFn(), session)
			return nil
		},
	}
}

func newSessionSubflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "subflow SESSION_ID SUBFLOW_ID",
		Short: "Select a subflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := clientFn().SelectSubflow(args[0], args[1])
			if err != nil {
				return err
			}

			printSession(outputFn(), session)
			return nil
		},
	}
}

func newSessionUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		line      int
		position  int
		kind      string
		value     string
		valueFile string
	)

	cmd := &cobra.Command{
		Use:   "update SESSION_ID",
		Short: "Replace the value of the element at a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			raw := []byte(value)
			if valueFile != "" {
				data, err := os.ReadFile(valueFile)
				if err != nil {
					return fmt.Errorf("failed to read value file: %w", err)
				}
				raw = data
			}
			if !json.Valid(raw) {
				return fmt.Errorf("value is not valid JSON")
			}

			result, err := client.UpdateElement(args[0], UpdateElementRequest{
				Location: Location{Line: line, Position: position},
				Type:     kind,
				Value:    json.RawMessage(raw),
			})
			if err != nil {
				return err
			}

			if result.Applied {
				out.Success(fmt.Sprintf("Element %s updated", result.ElementID))
			} else {
				out.Success(fmt.Sprintf("Nothing changed: %s", result.Reason))
			}
			out.Print(
				[]string{"APPLIED", "REASON", "ELEMENT"},
				[][]string{{strconv.FormatBool(result.Applied), result.Reason, result.ElementID}},
				result,
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "Line index")
	cmd.Flags().IntVar(&position, "position", 0, "Position index within the line")
	cmd.Flags().StringVar(&kind, "type", "", "Value kind: table, function, input, return (required)")
	cmd.Flags().StringVar(&value, "value", "null", "Value as JSON")
	cmd.Flags().StringVar(&valueFile, "value-file", "", "Read value JSON from file")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newSessionLayoutCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "layout SESSION_ID",
		Short: "List layout slots of the current subflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := clientFn().Layout(args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, len(layout.Slots))
			for i, s := range layout.Slots {
				rows[i] = []string{
					strconv.Itoa(s.Location.Line),
					strconv.Itoa(s.Location.Position),
					s.ElementID,
					s.PriorID,
					strconv.FormatBool(len(s.Element) > 0 && string(s.Element) != "null"),
				}
			}

			outputFn().Print([]string{"LINE", "POS", "ELEMENT", "PRIOR", "RESOLVED"}, rows, layout)
			return nil
		},
	}
}

func newSessionSVGCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "svg SESSION_ID",
		Short: "Render the current subflow as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			svg, err := clientFn().LayoutSVG(args[0])
			if err != nil {
				return err
			}

			if file == "" {
				out.Raw(svg)
				return nil
			}
			if err := os.WriteFile(file, svg, 0o644); err != nil {
				return fmt.Errorf("failed to write svg: %w", err)
			}
			out.Success(fmt.Sprintf("Layout written to %s", file))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "output", "o", "", "Write SVG to file instead of stdout")

	return cmd
}
