package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/minic/internal/config"
)

// newInitCmd 在目录中生成带注释的默认配置
func newInitCmd() *cobra.Command {
	var (
		dir    string
		legacy bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create " + config.ConfigFileName + " with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}

			configPath := filepath.Join(dir, config.ConfigFileName)
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}

			cfg := config.Default()
			if legacy {
				cfg = config.LegacyCompatible()
			}
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (default: current directory)")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "reproduce the legacy output (child limit 20, zero as null)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minic %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
