package systems

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultAdvanceKeys 推进对话的按键
var DefaultAdvanceKeys = []ebiten.Key{ebiten.KeySpace, ebiten.KeyE, ebiten.KeyEnter}

// DialogInputSystem 对话输入系统
//
// 对话进行中处理：
//   - 空格 / E / 回车 / 点击面板：推进（逐字显示中则立即显示完整文字）
//   - Esc 或点击跳过按钮：跳过整个序列
//   - P：暂停/恢复计时
//
// 对话开始的那一帧不处理输入，避免触发对话的同一次按键直接推进第一行。
type DialogInputSystem struct {
	manager *dialog.Manager
	ui      *DialogUISystem
	input   utils.Input // 可以为 nil（只能通过按钮回调或代码推进）

	advanceKeys []ebiten.Key
	skipKey     ebiten.Key
	pauseKey    ebiten.Key

	wasActive bool
}

// NewDialogInputSystem 创建对话输入系统
func NewDialogInputSystem(manager *dialog.Manager, ui *DialogUISystem, input utils.Input) *DialogInputSystem {
	return &DialogInputSystem{
		manager:     manager,
		ui:          ui,
		input:       input,
		advanceKeys: DefaultAdvanceKeys,
		skipKey:     ebiten.KeyEscape,
		pauseKey:    ebiten.KeyP,
	}
}

// Update 处理本帧输入
func (s *DialogInputSystem) Update() {
	if s.input == nil {
		return
	}
	if !s.manager.IsDialogActive() {
		s.wasActive = false
		s.resetHover()
		return
	}
	if !s.wasActive {
		s.wasActive = true
		return
	}

	var panel *components.DialogPanelComponent
	if s.ui != nil {
		panel = s.ui.Panel()
	}

	if panel != nil {
		px, py := s.input.PointerPosition()
		updateHover(&panel.ContinueButton, float64(px), float64(py))
		updateHover(&panel.SkipButton, float64(px), float64(py))
	}

	if released, x, y := s.input.PointerJustReleased(); released {
		s.handleClick(panel, float64(x), float64(y))
		return
	}

	switch {
	case s.input.IsKeyJustPressed(s.skipKey):
		s.manager.SkipDialog()
	case s.input.IsKeyJustPressed(s.pauseKey):
		s.manager.TogglePauseDialog()
	case utils.AnyKeyJustPressed(s.input, s.advanceKeys):
		s.manager.AdvanceDialog()
	}
}

// handleClick 点击按钮执行按钮动作，点击其他位置视为推进
func (s *DialogInputSystem) handleClick(panel *components.DialogPanelComponent, x, y float64) {
	if panel != nil {
		if hitButton(&panel.SkipButton, x, y) {
			panel.SkipButton.Click()
			return
		}
		if hitButton(&panel.ContinueButton, x, y) {
			panel.ContinueButton.Click()
			return
		}
	}
	s.manager.AdvanceDialog()
}

func (s *DialogInputSystem) resetHover() {
	if s.ui == nil {
		return
	}
	if panel := s.ui.Panel(); panel != nil {
		for _, btn := range []*components.Button{&panel.ContinueButton, &panel.SkipButton} {
			if btn.State == components.UIHovered {
				btn.State = components.UINormal
			}
		}
	}
}

// hitButton 点击检测，点击区域向外扩展 DialogButtonClickPadding
func hitButton(btn *components.Button, x, y float64) bool {
	p := config.DialogButtonClickPadding
	return x >= btn.X-p && x < btn.X+btn.Width+p && y >= btn.Y-p && y < btn.Y+btn.Height+p
}

func updateHover(btn *components.Button, x, y float64) {
	if btn.State == components.UIDisabled {
		return
	}
	if btn.Contains(x, y) {
		btn.State = components.UIHovered
	} else {
		btn.State = components.UINormal
	}
}
