package components

// TimerComponent 通用计时器组件
// 用于处理需要时间延迟的行为（如延迟触发对话）
// 计时使用游戏时间，游戏暂停时不前进
type TimerComponent struct {
	Name        string  // 计时器名称，如 "dialog_trigger_delay"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成
}

// Tick 推进计时器，返回本次调用是否刚好完成
func (t *TimerComponent) Tick(dt float64) bool {
	if t.IsReady {
		return false
	}
	t.CurrentTime += dt
	if t.CurrentTime >= t.TargetTime {
		t.IsReady = true
		return true
	}
	return false
}
