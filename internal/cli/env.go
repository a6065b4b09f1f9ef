package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/deployctl/blueprint/internal/blueprint"
	"github.com/deployctl/blueprint/internal/envscan"
	"github.com/deployctl/blueprint/internal/fsys"
	"github.com/deployctl/blueprint/internal/ui"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env [path]",
	Short: "Compare declared env vars against the source tree",
	Long: `Env scans the source tree for environment variables (dotenv files,
Dockerfiles) and compares them with what the blueprint declares, flagging
variables the app reads but the manifest never binds.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourcePath := "."
		if len(args) > 0 {
			sourcePath = args[0]
		}

		if err := runEnvDiff(cmd.Context(), sourcePath); err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnvDiff(ctx context.Context, sourcePath string) error {
	filesystem := fsys.NewLocalFS()

	paths, err := blueprintPaths(ctx, filesystem, sourcePath)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no blueprint found under %s", sourcePath)
	}

	bp, err := blueprint.ParseFile(filesystem, paths[0])
	if err != nil {
		return err
	}

	root := sourcePath
	if info, err := filesystem.Stat(sourcePath); err == nil && !info.IsDir() {
		root = filesystem.Dir(sourcePath)
	}

	scanner := envscan.NewScanner(filesystem)
	found, err := scanner.Scan(ctx, root)
	if err != nil {
		return fmt.Errorf("scan environment: %w", err)
	}

	matched, missing := diffEnv(declaredKeys(bp), found)

	ui.Header("=== %s ===", paths[0])
	for _, name := range matched {
		ui.Success("%s declared (%s)", name, found[name].Source)
	}
	for _, name := range missing {
		finding := found[name]
		if finding.Sensitive {
			ui.Warning("%s found in %s but not declared; add it with sync: false", name, finding.Source)
		} else {
			ui.Warning("%s found in %s but not declared", name, finding.Source)
		}
	}

	if len(matched)+len(missing) == 0 {
		fmt.Println("  no environment variables found in tree")
	}

	return nil
}

// diffEnv splits scanned variables into those the blueprint declares and
// those it misses. PORT is platform-injected and never needs declaring.
func diffEnv(declared map[string]bool, found map[string]envscan.Finding) (matched, missing []string) {
	for name := range found {
		if declared[name] {
			matched = append(matched, name)
		} else if name != "PORT" {
			missing = append(missing, name)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}

func declaredKeys(bp *blueprint.Blueprint) map[string]bool {
	declared := make(map[string]bool)
	for _, svc := range bp.Services {
		for _, ev := range svc.EnvVars {
			if ev.Key != "" {
				declared[ev.Key] = true
			}
			if ev.FromGroup != "" {
				if group, ok := bp.GroupByName(ev.FromGroup); ok {
					for _, gv := range group.EnvVars {
						declared[gv.Key] = true
					}
				}
			}
		}
	}
	return declared
}
