package components

import "github.com/decker502/platformer/pkg/dialog"

// TriggerMode 对话触发方式
type TriggerMode int

const (
	// TriggerOnEnter 玩家进入区域时触发
	TriggerOnEnter TriggerMode = iota
	// TriggerOnInteract 玩家在区域内按下交互键时触发
	TriggerOnInteract
	// TriggerManual 仅由代码调用触发
	TriggerManual
)

// String 返回触发方式的字符串表示（与关卡配置中的取值一致）
func (m TriggerMode) String() string {
	switch m {
	case TriggerOnEnter:
		return "enter"
	case TriggerOnInteract:
		return "interact"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseTriggerMode 解析关卡配置中的触发方式，空字符串视为 "interact"
func ParseTriggerMode(s string) (TriggerMode, bool) {
	switch s {
	case "enter":
		return TriggerOnEnter, true
	case "", "interact":
		return TriggerOnInteract, true
	case "manual":
		return TriggerManual, true
	default:
		return TriggerOnInteract, false
	}
}

// DialogTriggerComponent 对话触发区组件
//
// 与 PositionComponent、CollisionComponent 一起组成触发区实体。
// 触发逻辑由 DialogTriggerSystem 处理，组件只保存数据。
type DialogTriggerComponent struct {
	SequenceID string           // 对话序列ID（用于日志和重新加载）
	Sequence   *dialog.Sequence // 要播放的对话序列
	Mode       TriggerMode      // 触发方式

	OneTimeOnly  bool // 是否只触发一次
	HasTriggered bool // 是否已经触发过

	PlayerInRange bool   // 玩家当前是否在区域内
	PromptText    string // 交互提示文字（如 "按 E 对话"）
	PromptVisible bool   // 是否显示交互提示

	// DelaySeconds 触发后延迟开始对话的时间（游戏时间，秒）
	// 0 表示立即开始
	DelaySeconds float64
	Pending      bool // 已触发、正在等待延迟结束

	Debug bool // 输出详细触发日志
}
