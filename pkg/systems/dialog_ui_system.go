package systems

import (
	"errors"
	"image/color"
	"log"
	"time"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// fadeStepInterval 淡入淡出的步进间隔（约 60 FPS）
const fadeStepInterval = 16 * time.Millisecond

// DialogUISystem 对话框显示系统
//
// 职责：
//   - 实现 dialog.Presenter，把管理器推送的名字、文字、头像、颜色写入面板组件
//   - 订阅管理器事件：开始时重置面板并淡入，结束时淡出后隐藏
//   - 按 SetText 的调用次数播放打字音效
//   - 绘制面板、头像、名字、正文和继续/跳过按钮
//
// 淡入淡出使用真实时间（与逐字显示相同的时钟），不受游戏暂停影响。
// 任意时刻最多只有一个淡入淡出任务。
type DialogUISystem struct {
	entityManager *ecs.EntityManager
	manager       *dialog.Manager
	resources     *game.ResourceManager // 可以为 nil（无头像、无字体）
	typewriter    dialog.AudioSink      // 可以为 nil（不播放打字音效）

	scheduler *dialog.Scheduler
	fadeTask  *dialog.Task

	panelEntity  ecs.EntityID
	subscription dialog.SubscriptionID

	nameFont *text.GoTextFace
	textFont *text.GoTextFace

	fadeSpeed          float64
	typewriterInterval int
}

// NewDialogUISystem 创建对话框显示系统，并注册为管理器的 Presenter
//
// clock 应与管理器使用同一个真实时间时钟。
func NewDialogUISystem(em *ecs.EntityManager, manager *dialog.Manager, clock dialog.Clock, rm *game.ResourceManager, typewriter dialog.AudioSink) *DialogUISystem {
	s := &DialogUISystem{
		entityManager:      em,
		manager:            manager,
		resources:          rm,
		typewriter:         typewriter,
		scheduler:          dialog.NewScheduler(clock),
		fadeSpeed:          config.DialogFadeSpeed,
		typewriterInterval: config.TypewriterSoundInterval,
	}

	s.panelEntity = em.CreateEntity()
	ecs.AddComponent(em, s.panelEntity, s.newPanel())

	s.loadFonts()

	if manager != nil {
		manager.SetPresenter(s)
		s.subscription = manager.Subscribe(s.handleEvent)
	}

	if err := s.ValidateUI(); err != nil {
		log.Printf("[DialogUISystem] Warning: UI setup incomplete: %v", err)
	}

	return s
}

// newPanel 创建面板组件，按钮回调直接调用管理器
func (s *DialogUISystem) newPanel() *components.DialogPanelComponent {
	continueX, continueY := config.CalculateDialogButtonPosition(config.ContinueButtonIndex)
	skipX, skipY := config.CalculateDialogButtonPosition(config.SkipButtonIndex)

	panel := &components.DialogPanelComponent{
		Portrait:  config.DefaultPortraitID,
		TextColor: dialog.DefaultTextColor,
		ContinueButton: components.Button{
			X: continueX, Y: continueY,
			Width: config.DialogButtonWidth, Height: config.DialogButtonHeight,
			Label: "继续",
		},
		SkipButton: components.Button{
			X: skipX, Y: skipY,
			Width: config.DialogButtonWidth, Height: config.DialogButtonHeight,
			Label: "跳过",
		},
	}

	if s.manager != nil {
		panel.ContinueButton.OnClick = s.manager.AdvanceDialog
		panel.SkipButton.OnClick = s.manager.SkipDialog
	}
	return panel
}

// loadFonts 优先使用资源配置中的对话字体，缺失时退回内置字体
func (s *DialogUISystem) loadFonts() {
	if s.resources == nil {
		return
	}

	load := func(size float64) *text.GoTextFace {
		if s.resources.HasResource(config.DialogFontID) {
			face, err := s.resources.LoadFontByID(config.DialogFontID, size)
			if err == nil {
				return face
			}
			log.Printf("[DialogUISystem] Warning: failed to load %s: %v, using default font", config.DialogFontID, err)
		}
		face, err := s.resources.DefaultFont(size)
		if err != nil {
			log.Printf("[DialogUISystem] Warning: failed to load default font: %v", err)
			return nil
		}
		return face
	}

	s.nameFont = load(config.DialogNameFontSize)
	s.textFont = load(config.DialogTextFontSize)
}

// Panel 返回面板组件（实体被销毁时返回 nil）
func (s *DialogUISystem) Panel() *components.DialogPanelComponent {
	panel, ok := ecs.GetComponent[*components.DialogPanelComponent](s.entityManager, s.panelEntity)
	if !ok {
		return nil
	}
	return panel
}

// PanelEntity 返回面板实体ID
func (s *DialogUISystem) PanelEntity() ecs.EntityID {
	return s.panelEntity
}

// ValidateUI 检查显示所需的资源是否齐全
// 缺少的部分不会阻止对话运行，只是对应内容不显示
func (s *DialogUISystem) ValidateUI() error {
	var errs []error
	if s.Panel() == nil {
		errs = append(errs, errors.New("dialog panel entity is missing"))
	}
	if s.manager == nil {
		errs = append(errs, errors.New("dialog manager is not set"))
	}
	if s.nameFont == nil || s.textFont == nil {
		errs = append(errs, errors.New("dialog font is not loaded"))
	}
	if s.resources == nil || !s.resources.HasResource(config.DefaultPortraitID) {
		errs = append(errs, errors.New("default portrait "+config.DefaultPortraitID+" is not configured"))
	}
	if s.typewriter == nil {
		errs = append(errs, errors.New("typewriter audio sink is not set"))
	}
	return errors.Join(errs...)
}

// Close 取消事件订阅和淡入淡出任务
func (s *DialogUISystem) Close() {
	if s.manager != nil {
		s.manager.Unsubscribe(s.subscription)
	}
	s.scheduler.CancelAll()
	s.fadeTask = nil
}

// handleEvent 处理管理器事件
func (s *DialogUISystem) handleEvent(e dialog.Event) {
	switch e.Type {
	case dialog.EventStarted:
		s.resetDisplay()
		s.Show()
	case dialog.EventEnded:
		s.Hide()
	case dialog.EventLineChanged:
		if panel := s.Panel(); panel != nil {
			// 最后一行的继续按钮改为“完成”
			current, total := s.manager.GetProgress()
			if current >= total && !s.loops() {
				panel.ContinueButton.Label = "完成"
			} else {
				panel.ContinueButton.Label = "继续"
			}
		}
	}
}

func (s *DialogUISystem) loops() bool {
	seq := s.manager.ActiveSequence()
	return seq != nil && seq.Loop
}

// resetDisplay 开始新对话时清空显示内容
func (s *DialogUISystem) resetDisplay() {
	panel := s.Panel()
	if panel == nil {
		return
	}
	panel.Name = ""
	panel.Text = ""
	panel.Portrait = config.DefaultPortraitID
	panel.TextColor = dialog.DefaultTextColor
	panel.TypewriterCount = 0
	panel.ContinueButton.State = components.UINormal
	panel.SkipButton.State = components.UINormal
}

// SetName 设置说话者名字，空字符串隐藏名字栏
func (s *DialogUISystem) SetName(name string) {
	if panel := s.Panel(); panel != nil {
		panel.Name = name
	}
}

// SetText 设置当前显示的文字，并按调用次数播放打字音效
func (s *DialogUISystem) SetText(textStr string) {
	panel := s.Panel()
	if panel == nil {
		return
	}
	panel.Text = textStr
	panel.TypewriterCount++

	if s.typewriter == nil || textStr == "" || s.typewriterInterval <= 0 {
		return
	}
	if panel.TypewriterCount%s.typewriterInterval == 0 {
		s.typewriter.PlayClip(config.TypewriterSoundID)
	}
}

// SetPortrait 设置头像，空ID使用默认头像
func (s *DialogUISystem) SetPortrait(portraitID string) {
	panel := s.Panel()
	if panel == nil {
		return
	}
	if portraitID == "" {
		portraitID = config.DefaultPortraitID
	}
	panel.Portrait = portraitID

	// 提前加载，避免绘制时读取文件
	if s.resources != nil && s.resources.GetImageByID(portraitID) == nil && s.resources.HasResource(portraitID) {
		if _, err := s.resources.LoadImageByID(portraitID); err != nil {
			log.Printf("[DialogUISystem] Warning: failed to load portrait %s: %v", portraitID, err)
		}
	}
}

// SetTextColor 设置文字颜色
func (s *DialogUISystem) SetTextColor(c color.RGBA) {
	if panel := s.Panel(); panel != nil {
		panel.TextColor = c
	}
}

// ClearText 清空文字并重置打字音效计数
func (s *DialogUISystem) ClearText() {
	if panel := s.Panel(); panel != nil {
		panel.Text = ""
		panel.TypewriterCount = 0
	}
}

// Show 激活面板并淡入
func (s *DialogUISystem) Show() {
	panel := s.Panel()
	if panel == nil {
		return
	}
	panel.Active = true
	s.fadeTo(1)
}

// Hide 淡出面板，结束后取消激活
func (s *DialogUISystem) Hide() {
	if panel := s.Panel(); panel == nil || !panel.Active {
		return
	}
	s.fadeTo(0)
}

// ShowImmediate 立即显示面板（不淡入）
func (s *DialogUISystem) ShowImmediate() {
	s.cancelFade()
	if panel := s.Panel(); panel != nil {
		panel.Active = true
		panel.Alpha = 1
	}
}

// HideImmediate 立即隐藏面板（不淡出）
func (s *DialogUISystem) HideImmediate() {
	s.cancelFade()
	if panel := s.Panel(); panel != nil {
		panel.Active = false
		panel.Alpha = 0
	}
}

// IsFading 是否正在淡入淡出
func (s *DialogUISystem) IsFading() bool {
	return s.fadeTask.Alive()
}

func (s *DialogUISystem) cancelFade() {
	s.fadeTask.Cancel()
	s.fadeTask = nil
}

// fadeTo 启动新的淡入淡出任务，取消正在进行的任务
func (s *DialogUISystem) fadeTo(target float64) {
	s.cancelFade()

	step := s.fadeSpeed * fadeStepInterval.Seconds()
	s.fadeTask = s.scheduler.Schedule("fade", fadeStepInterval, func() (time.Duration, bool) {
		panel := s.Panel()
		if panel == nil {
			return 0, true
		}

		panel.Alpha = utils.MoveTowards(panel.Alpha, target, step)
		if panel.Alpha != target {
			return fadeStepInterval, false
		}

		if target == 0 {
			panel.Active = false
		}
		return 0, true
	})
}

// Update 推进淡入淡出
func (s *DialogUISystem) Update() {
	s.scheduler.Update()
}

// Draw 绘制对话框
func (s *DialogUISystem) Draw(screen *ebiten.Image) {
	panel := s.Panel()
	if panel == nil || !panel.Active || panel.Alpha <= 0 {
		return
	}
	alpha := float32(panel.Alpha)

	// 背景
	vector.DrawFilledRect(screen,
		float32(config.DialogPanelX), float32(config.DialogPanelY),
		float32(config.DialogPanelWidth), float32(config.DialogPanelHeight),
		scaleAlpha(color.RGBA{20, 20, 40, 220}, alpha), false)
	vector.StrokeRect(screen,
		float32(config.DialogPanelX), float32(config.DialogPanelY),
		float32(config.DialogPanelWidth), float32(config.DialogPanelHeight),
		2, scaleAlpha(color.RGBA{200, 200, 220, 255}, alpha), false)

	textX := config.DialogPanelX + config.DialogPadding
	if s.drawPortrait(screen, panel) {
		textX += config.DialogPortraitSize + config.DialogPadding
	}
	textY := config.DialogPanelY + config.DialogPadding

	if panel.Name != "" && s.nameFont != nil {
		drawShadowedText(screen, panel.Name, s.nameFont, textX, textY, color.RGBA{255, 200, 0, 255}, alpha)
		textY += config.DialogNameFontSize + config.DialogPadding/2
	}

	if panel.Text != "" && s.textFont != nil {
		maxWidth := config.DialogPanelX + config.DialogPanelWidth - config.DialogPadding - textX
		for i, line := range utils.WrapText(panel.Text, s.textFont, maxWidth) {
			drawShadowedText(screen, line, s.textFont, textX, textY+float64(i)*config.DialogLineSpacing, panel.TextColor, alpha)
		}
	}

	s.drawButton(screen, &panel.SkipButton, alpha)
	s.drawButton(screen, &panel.ContinueButton, alpha)
}

// drawPortrait 绘制头像，返回是否绘制
func (s *DialogUISystem) drawPortrait(screen *ebiten.Image, panel *components.DialogPanelComponent) bool {
	if s.resources == nil {
		return false
	}
	img := s.resources.GetImageByID(panel.Portrait)
	if img == nil {
		img = s.resources.GetImageByID(config.DefaultPortraitID)
	}
	if img == nil {
		return false
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return false
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(config.DialogPortraitSize/float64(bounds.Dx()), config.DialogPortraitSize/float64(bounds.Dy()))
	op.GeoM.Translate(config.DialogPanelX+config.DialogPadding, config.DialogPanelY+(config.DialogPanelHeight-config.DialogPortraitSize)/2)
	op.ColorScale.ScaleAlpha(float32(panel.Alpha))
	screen.DrawImage(img, op)
	return true
}

func (s *DialogUISystem) drawButton(screen *ebiten.Image, btn *components.Button, alpha float32) {
	bg := color.RGBA{60, 60, 90, 230}
	switch btn.State {
	case components.UIHovered:
		bg = color.RGBA{90, 90, 140, 240}
	case components.UIClicked:
		bg = color.RGBA{40, 40, 70, 240}
	case components.UIDisabled:
		bg = color.RGBA{50, 50, 50, 160}
	}

	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.Width), float32(btn.Height), scaleAlpha(bg, alpha), false)

	if s.textFont == nil || btn.Label == "" {
		return
	}
	w, h := text.Measure(btn.Label, s.textFont, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(btn.X+(btn.Width-w)/2, btn.Y+(btn.Height-h)/2)
	op.ColorScale.ScaleWithColor(color.White)
	op.ColorScale.ScaleAlpha(alpha)
	text.Draw(screen, btn.Label, s.textFont, op)
}

// drawShadowedText 绘制带阴影的文字
func drawShadowedText(screen *ebiten.Image, str string, face *text.GoTextFace, x, y float64, clr color.RGBA, alpha float32) {
	shadowOp := &text.DrawOptions{}
	shadowOp.GeoM.Translate(x+2, y+2)
	shadowOp.ColorScale.ScaleWithColor(color.RGBA{0, 0, 0, 128}) // 半透明黑色
	shadowOp.ColorScale.ScaleAlpha(alpha)
	text.Draw(screen, str, face, shadowOp)

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(alpha)
	text.Draw(screen, str, face, op)
}

// scaleAlpha 按面板透明度缩放颜色（预乘 alpha）
func scaleAlpha(c color.RGBA, alpha float32) color.RGBA {
	f := func(v uint8) uint8 { return uint8(float32(v) * alpha) }
	return color.RGBA{f(c.R), f(c.G), f(c.B), f(c.A)}
}
