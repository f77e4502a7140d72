// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input 一帧内的输入查询接口
// 系统通过该接口读取输入，测试时可以替换为 mock
type Input interface {
	IsKeyJustPressed(key ebiten.Key) bool
	IsKeyPressed(key ebiten.Key) bool
	// PointerJustReleased 鼠标左键或触摸刚刚释放，返回释放位置
	PointerJustReleased() (bool, int, int)
	// PointerPosition 当前指针位置（触摸优先）
	PointerPosition() (int, int)
}

// EbitenInput 基于 Ebitengine 的输入实现
type EbitenInput struct {
	lastTouchX, lastTouchY int
}

// NewEbitenInput 创建 Ebitengine 输入
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// Update 记录最后一次触摸位置（触摸释放时 Ebitengine 不再提供坐标）
// 应该在每帧开始时调用
func (in *EbitenInput) Update() {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		in.lastTouchX, in.lastTouchY = ebiten.TouchPosition(touchIDs[0])
	}
}

// IsKeyJustPressed 按键是否在本帧按下
func (in *EbitenInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// IsKeyPressed 按键是否处于按下状态
func (in *EbitenInput) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// PointerJustReleased 检查是否刚刚释放指针（触摸或鼠标）
func (in *EbitenInput) PointerJustReleased() (bool, int, int) {
	if len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0 {
		return true, in.lastTouchX, in.lastTouchY
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// PointerPosition 获取当前指针位置（触摸或鼠标）
func (in *EbitenInput) PointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// AnyKeyJustPressed 任一按键在本帧按下
func AnyKeyJustPressed(in Input, keys []ebiten.Key) bool {
	for _, k := range keys {
		if in.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
