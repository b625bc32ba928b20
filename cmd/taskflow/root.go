package main

import (
	"os"

	"github.com/spf13/cobra"

	"taskflow/internal/config"
)

// cli はサブコマンド間で共有する状態。
type cli struct {
	configPath string
	flags      *config.Flags
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Task and project management service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "path to config file (default "+config.DefaultPath()+")")
	c.flags = config.AddFlags(pf)

	root.AddCommand(newServeCmd(c), newSeedCmd(c), newReportCmd(c))
	return root
}

// loadConfig は 既定値 < ファイル < 環境変数 < フラグ の順に設定を組み立てて検証する。
func (c *cli) loadConfig(cmd *cobra.Command) error {
	path, required := c.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}

	cfg, err := config.Load(path, required, os.LookupEnv)
	if err != nil {
		return err
	}
	c.flags.Apply(cmd.Flags(), &cfg)
	if err := cfg.Resolve(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}
