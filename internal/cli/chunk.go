package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/source"
)

// NewChunkCmd создаёт команду рекомендации размера чанка.
func NewChunkCmd(outputFn func() *Output) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "chunk ROW_COUNT",
		Short: "Recommend a chunk size for a table of the given row count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			rows, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || rows < 0 {
				return fmt.Errorf("invalid row count %q", args[0])
			}

			src, err := source.ForKind(domain.SourceKind(kind))
			if err != nil {
				return err
			}

			chunk := src.RecommendChunk(rows)
			out.Print(
				[]string{"ROWS", "CHUNK_SIZE"},
				[][]string{{args[0], strconv.Itoa(chunk)}},
				map[string]any{"rows": rows, "chunk_size": chunk},
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "postgres", "Source kind (postgres, oracle, mssql, azuresql, api)")

	return cmd
}
