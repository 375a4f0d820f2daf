package main

import (
	"fmt"

	"github.com/benmeehan/procstat-agent/internal/utils"
	"github.com/benmeehan/procstat-agent/pkg/file"
	"github.com/spf13/cobra"
)

func newInitConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a configuration file populated with the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return writeDefaultConfig(file.NewFileService(), path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func writeDefaultConfig(fileClient file.FileOperations, path string, force bool) error {
	exists, err := fileClient.IsFileExists(path)
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	return fileClient.WriteYamlFile(path, utils.DefaultConfig())
}
