package utils

// 缓动函数
// 输入进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。

// EaseOutQuad 二次方缓出，开始较快、结束慢
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方缓入，开始慢、结束较快
func EaseInQuad(t float64) float64 {
	return t * t
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// MoveTowards 从 current 向 target 移动不超过 maxDelta，不会越过目标
func MoveTowards(current, target, maxDelta float64) float64 {
	if current < target {
		if current+maxDelta >= target {
			return target
		}
		return current + maxDelta
	}
	if current-maxDelta <= target {
		return target
	}
	return current - maxDelta
}
