package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/export"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/schema"
	"github.com/deployctl/blueprint/internal/ui"
	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Emit the normalized deployment model",
	Long: `Export parses a blueprint and emits the platform-neutral deployment model
(services with network exposure, runtime mode, build strategy, env var
sources; databases with access policy) as JSON or YAML.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(args[0]); err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json or yaml)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(path string) error {
	bp, err := blueprint.ParseFile(fsys.NewLocalFS(), path)
	if err != nil {
		return err
	}

	exporter, err := export.ForFormat(strings.ToLower(exportFormat))
	if err != nil {
		return err
	}

	projectName := filepath.Base(filepath.Dir(path))
	project := schema.FromBlueprint(projectName, bp)

	output, err := exporter.Export(project)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(string(output))
	return nil
}
