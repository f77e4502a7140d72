package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/platformer/pkg/dialog"
)

// DialogConfig 对话配置文件的顶层结构
//
// 示例：
//
//	sequences:
//	  - id: intro
//	    loop: false
//	    pauseGame: true
//	    lines:
//	      - speaker: Alice
//	        text: "你好！"
//	        portrait: PORTRAIT_ALICE
//	        textColor: "#FFE08A"
type DialogConfig struct {
	Sequences []SequenceConfig `yaml:"sequences"`
}

// SequenceConfig 单个对话序列配置
type SequenceConfig struct {
	ID        string       `yaml:"id"`        // 序列ID，全局唯一
	Loop      bool         `yaml:"loop"`      // 播放完毕后是否从头循环，默认 false
	PauseGame *bool        `yaml:"pauseGame"` // 对话期间是否暂停游戏，默认 true
	Lines     []LineConfig `yaml:"lines"`     // 对话行列表
}

// LineConfig 单行对话配置
// 指针字段用于区分"未配置"和"显式设置为零值"
type LineConfig struct {
	Speaker          string   `yaml:"speaker"`          // 说话者名字
	Text             string   `yaml:"text"`             // 对话文字
	Voice            string   `yaml:"voice"`            // 语音资源ID（可选）
	Portrait         string   `yaml:"portrait"`         // 头像资源ID（可选）
	TextColor        string   `yaml:"textColor"`        // 文字颜色 "#RRGGBB" 或 "#RRGGBBAA"，默认白色
	CharDelay        *float64 `yaml:"charDelay"`        // 每个字符的显示间隔（秒），默认 0.05
	WaitForInput     *bool    `yaml:"waitForInput"`     // 是否等待玩家输入，默认 true
	AutoAdvanceDelay *float64 `yaml:"autoAdvanceDelay"` // 自动继续的延迟（秒），默认 3
}

// LoadDialogConfig 从YAML文件加载对话配置
func LoadDialogConfig(filepath string) (*DialogConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialog config file %s: %w", filepath, err)
	}
	return ParseDialogConfig(data, filepath)
}

// LoadDialogConfigFS 从文件系统（通常是嵌入的 data/）加载对话配置
func LoadDialogConfigFS(fsys fs.FS, name string) (*DialogConfig, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialog config file %s: %w", name, err)
	}
	return ParseDialogConfig(data, name)
}

// ParseDialogConfig 解析并校验对话配置
// source 仅用于错误信息
func ParseDialogConfig(data []byte, source string) (*DialogConfig, error) {
	var cfg DialogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse dialog config YAML from %s: %w", source, err)
	}

	if err := validateDialogConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid dialog config in %s: %w", source, err)
	}

	return &cfg, nil
}

// validateDialogConfig 检查ID唯一性和颜色格式
// 延迟取值的检查交给 dialog.Sequence.Validate
func validateDialogConfig(cfg *DialogConfig) error {
	seen := make(map[string]bool)
	for i, seq := range cfg.Sequences {
		if seq.ID == "" {
			return fmt.Errorf("sequence %d: id is required", i)
		}
		if seen[seq.ID] {
			return fmt.Errorf("sequence %d: duplicate id %q", i, seq.ID)
		}
		seen[seq.ID] = true

		for j, line := range seq.Lines {
			if line.TextColor == "" {
				continue
			}
			if _, err := ParseColor(line.TextColor); err != nil {
				return fmt.Errorf("sequence %q, line %d: %w", seq.ID, j, err)
			}
		}
	}
	return nil
}

// ToSequence 转换为运行时序列，未配置的字段使用默认值
func (c *SequenceConfig) ToSequence() *dialog.Sequence {
	seq := &dialog.Sequence{
		ID:        c.ID,
		Loop:      c.Loop,
		PauseGame: true,
		Lines:     make([]dialog.Line, 0, len(c.Lines)),
	}
	if c.PauseGame != nil {
		seq.PauseGame = *c.PauseGame
	}

	for _, lc := range c.Lines {
		line := dialog.Line{
			Speaker:          lc.Speaker,
			Text:             lc.Text,
			Voice:            lc.Voice,
			Portrait:         lc.Portrait,
			CharDelay:        dialog.DefaultCharDelay,
			WaitForInput:     true,
			AutoAdvanceDelay: dialog.DefaultAutoAdvanceDelay,
			TextColor:        dialog.DefaultTextColor,
		}
		if lc.CharDelay != nil {
			line.CharDelay = *lc.CharDelay
		}
		if lc.WaitForInput != nil {
			line.WaitForInput = *lc.WaitForInput
		}
		if lc.AutoAdvanceDelay != nil {
			line.AutoAdvanceDelay = *lc.AutoAdvanceDelay
		}
		if lc.TextColor != "" {
			// 格式已在加载时校验
			if c, err := ParseColor(lc.TextColor); err == nil {
				line.TextColor = c
			}
		}
		seq.Lines = append(seq.Lines, line)
	}

	return seq
}

// ParseColor 解析 "#RRGGBB" 或 "#RRGGBBAA" 格式的颜色
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #RRGGBB or #RRGGBBAA", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// DialogLibrary 按ID索引的对话序列集合
type DialogLibrary struct {
	sequences map[string]*dialog.Sequence
	sources   map[string]string // 序列ID -> 来源文件
}

// NewDialogLibrary 创建空的对话库
func NewDialogLibrary() *DialogLibrary {
	return &DialogLibrary{
		sequences: make(map[string]*dialog.Sequence),
		sources:   make(map[string]string),
	}
}

// Add 添加配置中的所有序列，ID 与已有序列重复时返回错误
func (l *DialogLibrary) Add(cfg *DialogConfig, source string) error {
	for i := range cfg.Sequences {
		sc := &cfg.Sequences[i]
		if prev, ok := l.sources[sc.ID]; ok {
			return fmt.Errorf("duplicate sequence id %q in %s (already defined in %s)", sc.ID, source, prev)
		}
		l.sequences[sc.ID] = sc.ToSequence()
		l.sources[sc.ID] = source
	}
	return nil
}

// Get 按ID获取序列
func (l *DialogLibrary) Get(id string) (*dialog.Sequence, bool) {
	seq, ok := l.sequences[id]
	return seq, ok
}

// Source 返回序列所在的配置文件
func (l *DialogLibrary) Source(id string) string {
	return l.sources[id]
}

// IDs 返回所有序列ID（排序后）
func (l *DialogLibrary) IDs() []string {
	ids := make([]string, 0, len(l.sequences))
	for id := range l.sequences {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len 返回序列数量
func (l *DialogLibrary) Len() int {
	return len(l.sequences)
}

// Validate 校验所有序列，返回合并后的错误
func (l *DialogLibrary) Validate() error {
	var errs []error
	for _, id := range l.IDs() {
		if err := l.sequences[id].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", id, l.sources[id], err))
		}
	}
	return errors.Join(errs...)
}

// LoadDialogLibraryFS 加载目录下所有 .yaml 对话配置
func LoadDialogLibraryFS(fsys fs.FS, dir string) (*DialogLibrary, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list dialog configs in %s: %w", dir, err)
	}

	lib := NewDialogLibrary()
	for _, name := range matches {
		cfg, err := LoadDialogConfigFS(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := lib.Add(cfg, name); err != nil {
			return nil, err
		}
	}
	return lib, nil
}
