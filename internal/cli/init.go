package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/generate"
	"github.com/deployctl/blueprint/internal/ui"
	"github.com/spf13/cobra"
)

var (
	initName  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Detect the app framework and write a starter blueprint",
	Long: `Init inspects the source tree, detects the application framework (Django,
Node, Go, plain Docker), and writes a render.yaml with sensible defaults:
build and start commands, a managed database where one is conventional, and
env vars with secrets left for the dashboard.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourcePath := "."
		if len(args) > 0 {
			sourcePath = args[0]
		}

		if err := runInit(cmd, sourcePath); err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "service name (default: directory name)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing render.yaml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, sourcePath string) error {
	filesystem := fsys.NewLocalFS()

	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return err
	}

	generator := generate.NewGenerator(filesystem)

	framework, err := generator.Detect(abs)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Detected framework: %s\n", framework)

	bp, err := generator.Generate(cmd.Context(), abs, initName)
	if err != nil {
		return err
	}

	data, err := blueprint.Marshal(bp)
	if err != nil {
		return err
	}

	target := filepath.Join(abs, "render.yaml")
	if _, err := os.Stat(target); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	ui.Success("wrote %s", target)
	return nil
}
