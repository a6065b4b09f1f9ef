package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/deployctl/blueprint/internal/discover"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/ui"
	"github.com/deployctl/blueprint/internal/validate"
	"github.com/spf13/cobra"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Parse blueprints and check manifest rules",
	Long: `Validate finds every render.yaml under the given path (or takes a single
file), parses each one, and checks the manifest rules: required keys, known
value sets, env var reference resolution, and start command ordering.

Exits non-zero when any blueprint has errors, or warnings with --strict.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourcePath := "."
		if len(args) > 0 {
			sourcePath = args[0]
		}

		failed, err := runValidate(cmd.Context(), sourcePath)
		if err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as failures")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, sourcePath string) (failed bool, err error) {
	filesystem := fsys.NewLocalFS()

	paths, err := blueprintPaths(ctx, filesystem, sourcePath)
	if err != nil {
		return false, err
	}
	if len(paths) == 0 {
		ui.Warning("no blueprints found under %s", sourcePath)
		return false, nil
	}

	finder := discover.NewFinder(filesystem)
	results := finder.CheckAll(ctx, paths)

	var errors, warnings int
	for _, result := range results {
		ui.Header("%s", result.Path)

		if result.Err != nil {
			ui.Error("%v", result.Err)
			errors++
			fmt.Println()
			continue
		}

		if len(result.Report.Issues) == 0 {
			ui.Success("no issues")
		}
		for _, issue := range result.Report.Issues {
			printIssue(issue)
		}

		errors += result.Report.Count(validate.SeverityError)
		warnings += result.Report.Count(validate.SeverityWarning)
		fmt.Println()
	}

	fmt.Printf("%d blueprint(s), %d error(s), %d warning(s)\n", len(results), errors, warnings)

	return errors > 0 || (validateStrict && warnings > 0), nil
}

func printIssue(issue validate.Issue) {
	switch issue.Severity {
	case validate.SeverityError:
		ui.Error("%s: %s [%s]", issue.Path, issue.Message, issue.Rule)
	case validate.SeverityWarning:
		ui.Warning("%s: %s [%s]", issue.Path, issue.Message, issue.Rule)
	default:
		ui.Info("  %s: %s [%s]", issue.Path, issue.Message, issue.Rule)
	}
}

// blueprintPaths resolves a CLI path argument into concrete blueprint files.
func blueprintPaths(ctx context.Context, filesystem fsys.FileSystem, sourcePath string) ([]string, error) {
	info, err := filesystem.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", sourcePath, err)
	}

	if !info.IsDir() {
		return []string{sourcePath}, nil
	}

	finder := discover.NewFinder(filesystem)
	return finder.FindBlueprints(ctx, sourcePath)
}
