// Conveyor CLI — инструмент командной строки для проверки
// конфигурации jobs, диагностики секретов и smoke-запусков.
//
// Использование:
//
//	conveyor [--json] <command> [flags]
//
// Команды:
//
//	validate  Проверка конфигурации jobs
//	run       Запуск batch в dry-run режиме
//	secrets   Диагностика цепочки разрешения секретов
//	chunk     Рекомендация размера чанка
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/cli"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	telemetry.SetupLogger()

	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "conveyor",
		Short:         "Conveyor CLI — ingestion orchestration tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewValidateCmd(outputFn),
		cli.NewRunCmd(outputFn),
		cli.NewSecretsCmd(outputFn),
		cli.NewChunkCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
