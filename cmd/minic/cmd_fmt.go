package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/minic/internal/formatter"
)

// newFmtCmd 重新排版源文件
func newFmtCmd(g *globalOptions) *cobra.Command {
	var (
		write  bool
		tabs   bool
		indent int
	)

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Reformat FILE (- for stdin); comments are not preserved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			_, logger, err := g.setup(path)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			source, filename, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			opts := formatter.DefaultOptions()
			opts.IndentSize = indent
			if tabs {
				opts.IndentStyle = "tabs"
			}

			formatted, err := formatter.Format(source, filename, opts)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), filename, source, err)
			}

			if write && path != "-" {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				return os.WriteFile(path, []byte(formatted), info.Mode().Perm())
			}
			_, err = cmd.OutOrStdout().Write([]byte(formatted))
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	cmd.Flags().BoolVar(&tabs, "tabs", false, "indent with tabs")
	cmd.Flags().IntVar(&indent, "indent", 4, "spaces per indentation level")
	return cmd
}
