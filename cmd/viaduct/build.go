package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/viaduct-ui/viaduct/pkg/assets"
)

func buildCmd() *cobra.Command {
	var (
		srcDir string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fingerprint the asset bundle",
		Long: `Fingerprint every file under the source directory into the output
directory and write the manifest.json that maps source names to their
hashed variants.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := assets.Build(srcDir, outDir)
			if err != nil {
				return fmt.Errorf("build assets: %w", err)
			}
			manifestPath := filepath.Join(outDir, "manifest.json")
			if err := m.Save(manifestPath); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}
			success("fingerprinted %d assets into %s", m.Len(), outDir)
			info("manifest at %s", manifestPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&srcDir, "src", "assets", "Source asset directory")
	cmd.Flags().StringVar(&outDir, "out", "dist", "Output directory")

	return cmd
}
