package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/platformer/pkg/components"
)

// LevelConfig 关卡配置数据结构
// 定义了关卡的尺寸、玩家出生点和对话触发区
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "village"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）

	Width  float64 `yaml:"width"`  // 世界宽度（像素），默认 800
	Height float64 `yaml:"height"` // 世界高度（像素），默认 600

	PlayerSpawn PointConfig `yaml:"playerSpawn"` // 玩家出生点
	PlayerSpeed float64     `yaml:"playerSpeed"` // 玩家移动速度（像素/秒），默认 160

	// Music 背景音乐资源ID（可选）
	Music string `yaml:"music"`

	// AutoStartDialog 关卡加载后立即播放的对话序列ID（可选）
	AutoStartDialog string `yaml:"autoStartDialog"`

	Triggers []TriggerConfig `yaml:"triggers"` // 对话触发区列表
}

// PointConfig 坐标
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TriggerConfig 单个对话触发区配置
type TriggerConfig struct {
	ID           string  `yaml:"id"`           // 触发区ID（日志用）
	Sequence     string  `yaml:"sequence"`     // 对话序列ID
	Mode         string  `yaml:"mode"`         // 触发方式："enter", "interact", "manual"，默认 "interact"
	X            float64 `yaml:"x"`            // 区域左上角 X
	Y            float64 `yaml:"y"`            // 区域左上角 Y
	Width        float64 `yaml:"width"`        // 区域宽度
	Height       float64 `yaml:"height"`       // 区域高度
	OneTimeOnly  *bool   `yaml:"oneTimeOnly"`  // 是否只触发一次，默认 true
	Prompt       string  `yaml:"prompt"`       // 交互提示文字，interact 模式默认 "按 E 对话"
	DelaySeconds float64 `yaml:"delaySeconds"` // 延迟开始对话（秒），默认 0
	Debug        bool    `yaml:"debug"`        // 输出详细触发日志
}

// DefaultInteractPrompt interact 模式的默认提示
const DefaultInteractPrompt = "按 E 对话"

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}
	return ParseLevelConfig(data, filepath)
}

// LoadLevelConfigFS 从文件系统加载关卡配置
func LoadLevelConfigFS(fsys fs.FS, name string) (*LevelConfig, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", name, err)
	}
	return ParseLevelConfig(data, name)
}

// ParseLevelConfig 解析关卡配置、应用默认值并校验
func ParseLevelConfig(data []byte, source string) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", source, err)
	}

	// 应用默认值
	applyDefaults(&levelConfig)

	// 验证必填字段
	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", source, err)
	}

	return &levelConfig, nil
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.Width == 0 {
		config.Width = 800
	}
	if config.Height == 0 {
		config.Height = 600
	}
	if config.PlayerSpeed == 0 {
		config.PlayerSpeed = 160
	}

	for i := range config.Triggers {
		tr := &config.Triggers[i]
		if tr.OneTimeOnly == nil {
			oneTime := true
			tr.OneTimeOnly = &oneTime
		}
		if tr.Prompt == "" && (tr.Mode == "" || tr.Mode == "interact") {
			tr.Prompt = DefaultInteractPrompt
		}
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}

	if config.Width < 0 || config.Height < 0 {
		return fmt.Errorf("level size cannot be negative, got %vx%v", config.Width, config.Height)
	}

	if config.PlayerSpeed < 0 {
		return fmt.Errorf("playerSpeed cannot be negative, got %v", config.PlayerSpeed)
	}

	for i, tr := range config.Triggers {
		if tr.Sequence == "" {
			return fmt.Errorf("trigger %d (%s): sequence is required", i, tr.ID)
		}
		if _, ok := components.ParseTriggerMode(tr.Mode); !ok {
			return fmt.Errorf("trigger %d (%s): unknown mode %q", i, tr.ID, tr.Mode)
		}
		if tr.Mode != "manual" && (tr.Width <= 0 || tr.Height <= 0) {
			return fmt.Errorf("trigger %d (%s): width and height must be positive", i, tr.ID)
		}
		if tr.DelaySeconds < 0 {
			return fmt.Errorf("trigger %d (%s): delaySeconds cannot be negative", i, tr.ID)
		}
	}

	return nil
}

// TriggerMode 返回解析后的触发方式
func (t *TriggerConfig) TriggerMode() components.TriggerMode {
	mode, _ := components.ParseTriggerMode(t.Mode)
	return mode
}

// CheckSequences 检查所有引用的对话序列是否存在
func (config *LevelConfig) CheckSequences(lib *DialogLibrary) error {
	if config.AutoStartDialog != "" {
		if _, ok := lib.Get(config.AutoStartDialog); !ok {
			return fmt.Errorf("level %s: autoStartDialog references unknown sequence %q", config.ID, config.AutoStartDialog)
		}
	}
	for i, tr := range config.Triggers {
		if _, ok := lib.Get(tr.Sequence); !ok {
			return fmt.Errorf("level %s: trigger %d (%s) references unknown sequence %q", config.ID, i, tr.ID, tr.Sequence)
		}
	}
	return nil
}
