package game

import "log"

// GameClock 游戏时间
//
// 把帧间隔换算为游戏时间：暂停时为 0，其余时间乘以时间缩放。
// 实现 dialog.HostSuspender，对话要求暂停游戏时由对话管理器调用。
// 暂停可以嵌套，每次 Suspend 需要一次对应的 Resume。
type GameClock struct {
	suspendCount int
	timeScale    float64
	elapsed      float64 // 累计游戏时间（秒）
}

// NewGameClock 创建游戏时间，时间缩放为 1.0
func NewGameClock() *GameClock {
	return &GameClock{timeScale: 1.0}
}

// Suspend 暂停游戏时间
func (c *GameClock) Suspend() {
	c.suspendCount++
	if c.suspendCount == 1 {
		log.Printf("[GameClock] 游戏时间已暂停")
	}
}

// Resume 恢复游戏时间
func (c *GameClock) Resume() {
	if c.suspendCount == 0 {
		log.Printf("[GameClock] Warning: Resume 调用次数多于 Suspend")
		return
	}
	c.suspendCount--
	if c.suspendCount == 0 {
		log.Printf("[GameClock] 游戏时间已恢复")
	}
}

// IsSuspended 游戏时间是否暂停
func (c *GameClock) IsSuspended() bool {
	return c.suspendCount > 0
}

// SetTimeScale 设置时间缩放（负数视为 0）
func (c *GameClock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// TimeScale 返回时间缩放
func (c *GameClock) TimeScale() float64 {
	return c.timeScale
}

// Tick 将真实帧间隔换算为游戏帧间隔并累计
func (c *GameClock) Tick(realDelta float64) float64 {
	if c.IsSuspended() {
		return 0
	}
	dt := realDelta * c.timeScale
	c.elapsed += dt
	return dt
}

// Elapsed 返回累计游戏时间（秒）
func (c *GameClock) Elapsed() float64 {
	return c.elapsed
}
