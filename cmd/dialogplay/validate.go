package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/game"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check dialogs, levels and resource references",
	Long: `Loads every dialog and level file and reports invalid lines, unknown sequence references
and portrait, voice or music IDs missing from data/resources.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		result := validateProject(os.DirFS(dir))
		result.print(cmd.OutOrStdout(), termenv.ColorProfile())
		if !result.ok() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validationResult 检查结果
type validationResult struct {
	sequences int
	levels    int
	problems  []string
}

func (r *validationResult) ok() bool {
	return len(r.problems) == 0
}

func (r *validationResult) addf(format string, args ...any) {
	r.problems = append(r.problems, fmt.Sprintf(format, args...))
}

// addErr 展开 errors.Join 合并的错误，每个错误单独一条
func (r *validationResult) addErr(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.addErr(e)
		}
		return
	}
	r.problems = append(r.problems, err.Error())
}

func (r *validationResult) print(out io.Writer, profile termenv.Profile) {
	bad := profile.Color("#fb7185")
	good := profile.Color("#4ade80")

	for _, p := range r.problems {
		fmt.Fprintln(out, profile.String("✗ "+p).Foreground(bad))
	}
	summary := fmt.Sprintf("%d sequences, %d levels", r.sequences, r.levels)
	if r.ok() {
		fmt.Fprintln(out, profile.String("✓ "+summary).Foreground(good))
		return
	}
	fmt.Fprintln(out, profile.String(fmt.Sprintf("✗ %s, %d problems", summary, len(r.problems))).Foreground(bad).Bold())
}

// validateProject 检查数据目录
//
// 对话库加载失败时无法继续检查，直接返回；其余问题全部收集后一起报告。
func validateProject(fsys fs.FS) *validationResult {
	result := &validationResult{}

	lib, err := config.LoadDialogLibraryFS(fsys, dialogDir)
	if err != nil {
		result.addErr(err)
		return result
	}
	result.sequences = lib.Len()
	if err := lib.Validate(); err != nil {
		result.addErr(err)
	}

	resources := game.NewResourceManager(fsys, nil)
	if err := resources.LoadResourceConfig(resourceConfigPath); err != nil {
		result.addErr(err)
		resources = nil
	}

	if resources != nil {
		if !resources.HasResource(config.DefaultPortraitID) {
			result.addf("%s: default portrait %s is not defined", resourceConfigPath, config.DefaultPortraitID)
		}
		for _, id := range lib.IDs() {
			seq, _ := lib.Get(id)
			for i, line := range seq.Lines {
				if line.Portrait != "" && !resources.HasResource(line.Portrait) {
					result.addf("%s line %d: unknown portrait %s", id, i+1, line.Portrait)
				}
				if line.Voice != "" && !resources.HasResource(line.Voice) {
					result.addf("%s line %d: unknown voice %s", id, i+1, line.Voice)
				}
			}
		}
	}

	files, err := fs.Glob(fsys, path.Join(levelDir, "*.yaml"))
	if err != nil {
		result.addErr(err)
		return result
	}
	for _, name := range files {
		level, err := config.LoadLevelConfigFS(fsys, name)
		if err != nil {
			result.addErr(err)
			continue
		}
		result.levels++

		if want := strings.TrimSuffix(path.Base(name), ".yaml"); level.ID != want {
			result.addf("%s: level id %q does not match file name", name, level.ID)
		}
		if err := level.CheckSequences(lib); err != nil {
			result.addErr(err)
		}
		if level.Music != "" && resources != nil && !resources.HasResource(level.Music) {
			result.addf("level %s: unknown music %s", level.ID, level.Music)
		}
	}
	return result
}
