package cli

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/secrets"
)

// NewSecretsCmd создаёт группу команд диагностики секретов.
func NewSecretsCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Inspect the credential resolution chain",
	}

	cmd.AddCommand(newSecretsResolveCmd(outputFn))

	return cmd
}

func newSecretsResolveCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME",
		Short: "Resolve credentials for a source and show masked values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			logger := slog.Default()

			resolver, err := secrets.NewDefaultResolver(logger)
			if err != nil {
				return err
			}

			bundle, err := resolver.ResolveSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(bundle))
			for k := range bundle {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			masked := make(map[string]string, len(bundle))
			rows := make([][]string, len(keys))
			for i, k := range keys {
				v := maskValue(k, bundle[k])
				masked[k] = v
				rows[i] = []string{k, v}
			}

			out.Print([]string{"KEY", "VALUE"}, rows, masked)
			return nil
		},
	}
}

// maskValue прячет чувствительные значения, оставляя длину и хвост.
func maskValue(key, value string) string {
	sensitive := strings.Contains(key, "password") ||
		strings.Contains(key, "key") ||
		strings.Contains(key, "token")
	if !sensitive {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
