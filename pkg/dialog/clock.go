package dialog

import "time"

// Clock 不受游戏时间缩放影响的单调时间源
// Now 返回自某个固定起点以来经过的时间
type Clock interface {
	Now() time.Duration
}

// SystemClock 基于 time.Now 的真实时钟
type SystemClock struct {
	start time.Time
}

// NewSystemClock 创建真实时钟，起点为当前时刻
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now 返回自创建以来经过的真实时间
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock 手动推进的时钟
// 用于测试和逐帧驱动（如命令行回放），每次 Advance 增加指定时长
type ManualClock struct {
	now time.Duration
}

// Now 返回当前累计时间
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance 推进时钟
func (c *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Seconds 将秒数转换为 time.Duration
func Seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
