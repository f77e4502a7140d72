// Package dialog 实现对话序列状态机
//
// 该包不依赖 Ebitengine：时间由注入的 Clock 提供，渲染、音频、宿主暂停
// 通过 Presenter / AudioSink / HostSuspender 接口注入。
// 游戏侧的显示与触发逻辑位于 pkg/systems。
package dialog

import (
	"errors"
	"fmt"
	"image/color"
	"unicode/utf8"
)

// 对话行默认值
const (
	DefaultCharDelay        = 0.05 // 每个字符间隔（秒）
	DefaultAutoAdvanceDelay = 3.0  // 自动继续延迟（秒）
)

// DefaultTextColor 默认文字颜色（白色）
var DefaultTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Line 单条对话数据
// 创建后视为只读，由 Sequence 持有
type Line struct {
	Speaker          string     // 角色名
	Text             string     // 对话文本
	Voice            string     // 语音资源ID，空表示无语音
	CharDelay        float64    // 每个字符的显示间隔（秒），必须 > 0
	WaitForInput     bool       // 是否等待玩家输入继续
	AutoAdvanceDelay float64    // 不等待输入时，显示完成后自动继续的延迟（秒）
	Portrait         string     // 头像资源ID，空表示使用默认头像
	TextColor        color.RGBA // 文字颜色
}

// RuneCount 返回文本的字符数（按 rune 计算，中文一个字算一个字符）
func (l *Line) RuneCount() int {
	return utf8.RuneCountInString(l.Text)
}

// Prefix 返回前 n 个字符组成的文本
func (l *Line) Prefix(n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range l.Text {
		if i == n {
			return l.Text[:pos]
		}
		i++
	}
	return l.Text
}

// Sequence 对话序列
type Sequence struct {
	ID        string // 序列ID（配置文件中的键）
	Lines     []Line // 对话列表（按顺序播放）
	Loop      bool   // 是否循环播放
	PauseGame bool   // 对话期间是否暂停游戏
}

// Len 返回对话条数，nil 序列返回 0
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Lines)
}

// ErrEmptySequence 序列为空
var ErrEmptySequence = errors.New("dialog sequence has no lines")

// Validate 检查序列配置是否合法
// 管理器本身只对空序列发出警告，此方法供加载配置和命令行校验使用
func (s *Sequence) Validate() error {
	if s.Len() == 0 {
		return ErrEmptySequence
	}

	var errs []error
	for i := range s.Lines {
		line := &s.Lines[i]
		if line.CharDelay <= 0 {
			errs = append(errs, fmt.Errorf("line %d: charDelay must be > 0, got %v", i+1, line.CharDelay))
		}
		if line.AutoAdvanceDelay < 0 {
			errs = append(errs, fmt.Errorf("line %d: autoAdvanceDelay must be >= 0, got %v", i+1, line.AutoAdvanceDelay))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sequence %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}
