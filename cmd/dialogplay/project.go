package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/decker502/platformer/pkg/config"
	"github.com/spf13/cobra"
)

// 数据文件位置，与游戏使用的嵌入目录一致
const (
	dialogDir          = "data/dialogs"
	levelDir           = "data/levels"
	resourceConfigPath = "data/resources.yaml"
)

// project 一个数据目录中的对话库和关卡
type project struct {
	fsys    fs.FS
	library *config.DialogLibrary

	levels     []*config.LevelConfig
	levelFiles []string
}

// projectFromFlags 读取 --dir 并加载数据
func projectFromFlags(cmd *cobra.Command) (*project, error) {
	dir, _ := cmd.Flags().GetString("dir")
	return loadProject(os.DirFS(dir))
}

// loadProject 加载对话库和全部关卡配置
// 关卡文件解析失败直接返回错误，引用检查由 validate 负责
func loadProject(fsys fs.FS) (*project, error) {
	lib, err := config.LoadDialogLibraryFS(fsys, dialogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load dialogs: %w", err)
	}

	files, err := fs.Glob(fsys, path.Join(levelDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}

	p := &project{fsys: fsys, library: lib}
	for _, name := range files {
		level, err := config.LoadLevelConfigFS(fsys, name)
		if err != nil {
			return nil, err
		}
		p.levels = append(p.levels, level)
		p.levelFiles = append(p.levelFiles, name)
	}
	return p, nil
}
