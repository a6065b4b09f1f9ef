package cli

import (
	"fmt"
	"os"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/convert"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/ui"
	"github.com/spf13/cobra"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Produce a blueprint from another deployment format",
	Long: `Convert reads a docker-compose file, fly.toml, or Procfile and writes the
equivalent render.yaml blueprint. Postgres containers in compose projects
become managed database records.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConvert(cmd, args[0]); err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write the blueprint to a file instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, path string) error {
	converter, err := convert.ForFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Converting %s (%s)\n", path, converter.Name())

	bp, err := converter.Convert(cmd.Context(), fsys.NewLocalFS(), path)
	if err != nil {
		return err
	}

	data, err := blueprint.Marshal(bp)
	if err != nil {
		return err
	}

	if convertOutput == "" {
		fmt.Print(string(data))
		return nil
	}

	if err := os.WriteFile(convertOutput, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", convertOutput, err)
	}
	ui.Success("wrote %s", convertOutput)
	return nil
}
