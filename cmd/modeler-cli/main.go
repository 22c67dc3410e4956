// Modeler CLI — инструмент командной строки для каталога flows
// и сессий редактирования через HTTP API.
//
// Использование:
//
//	modeler [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	flow     Каталог flows: просмотр, импорт, удаление, валидация
//	session  Сессии редактирования: выбор subflow, правки, layout
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/flowmodeler/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "modeler",
		Short:         "Modeler CLI — flow diagram editor",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewFlowCmd(clientFn, outputFn),
		cli.NewSessionCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		outputFn().Error(err.Error())
		os.Exit(1)
	}
}
