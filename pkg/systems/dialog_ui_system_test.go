package systems

import (
	"image/color"
	"testing"
	"time"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
)

type uiRig struct {
	clock   *dialog.ManualClock
	manager *dialog.Manager
	sink    *recordingSink
	ui      *DialogUISystem
}

func newUIRig() *uiRig {
	r := &uiRig{clock: &dialog.ManualClock{}, sink: &recordingSink{}}
	r.manager = newTestManager(r.clock)
	r.ui = NewDialogUISystem(ecs.NewEntityManager(), r.manager, r.clock, nil, r.sink)
	return r
}

// run 以固定帧间隔推进管理器和显示系统
func (r *uiRig) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		r.clock.Advance(frame)
		r.manager.Update()
		r.ui.Update()
	}
}

// TestDialogUISystem_StartedFadesIn 测试对话开始时激活面板并淡入
func TestDialogUISystem_StartedFadesIn(t *testing.T) {
	r := newUIRig()
	panel := r.ui.Panel()

	r.manager.StartDialog(testSequence("intro", "Alice:Hi"))

	if !panel.Active {
		t.Fatal("Expected panel active after start")
	}
	if panel.Alpha != 0 {
		t.Errorf("Expected fade to start from 0, got %.2f", panel.Alpha)
	}
	if !r.ui.IsFading() {
		t.Error("Expected fade in progress")
	}
	if panel.Name != "Alice" {
		t.Errorf("Expected name Alice, got %q", panel.Name)
	}

	r.run(time.Second)

	if panel.Alpha != 1 {
		t.Errorf("Expected alpha 1 after fade in, got %.2f", panel.Alpha)
	}
	if r.ui.IsFading() {
		t.Error("Expected fade finished")
	}
	if panel.Text != "Hi" {
		t.Errorf("Expected full text, got %q", panel.Text)
	}
}

// TestDialogUISystem_EndedFadesOutWithoutReset 测试结束时淡出、保留内容
func TestDialogUISystem_EndedFadesOutWithoutReset(t *testing.T) {
	r := newUIRig()
	panel := r.ui.Panel()

	r.manager.StartDialog(testSequence("intro", "Alice:Hi"))
	r.run(time.Second)
	r.manager.EndDialog()

	if !panel.Active {
		t.Fatal("Expected panel still active while fading out")
	}

	r.run(time.Second)

	if panel.Active {
		t.Error("Expected panel inactive after fade out")
	}
	if panel.Alpha != 0 {
		t.Errorf("Expected alpha 0, got %.2f", panel.Alpha)
	}
	if panel.Name != "Alice" || panel.Text != "Hi" {
		t.Errorf("Expected content kept after end, got name=%q text=%q", panel.Name, panel.Text)
	}
}

// TestDialogUISystem_StartResetsDisplay 测试新对话开始时重置显示内容
func TestDialogUISystem_StartResetsDisplay(t *testing.T) {
	r := newUIRig()
	panel := r.ui.Panel()

	panel.Name = "Old"
	panel.Text = "old text"
	panel.Portrait = "PORTRAIT_OLD"
	panel.TextColor = color.RGBA{255, 0, 0, 255}

	// 空名字、空文字的行：开始事件重置后保持为空
	r.manager.StartDialog(testSequence("blank", ":"))

	if panel.Name != "" || panel.Text != "" {
		t.Errorf("Expected cleared name/text, got %q/%q", panel.Name, panel.Text)
	}
	if panel.Portrait != config.DefaultPortraitID {
		t.Errorf("Expected default portrait, got %q", panel.Portrait)
	}
	if panel.TextColor != dialog.DefaultTextColor {
		t.Errorf("Expected default color, got %v", panel.TextColor)
	}
}

// TestDialogUISystem_FadeReplacesPrevious 测试新的淡入淡出取消旧任务
func TestDialogUISystem_FadeReplacesPrevious(t *testing.T) {
	r := newUIRig()
	panel := r.ui.Panel()

	r.ui.Show()
	r.run(100 * time.Millisecond)
	mid := panel.Alpha
	if mid <= 0 || mid >= 1 {
		t.Fatalf("Expected partial alpha, got %.2f", mid)
	}

	r.ui.Hide()
	r.run(time.Second)

	if panel.Alpha != 0 || panel.Active {
		t.Errorf("Expected hidden panel, got alpha=%.2f active=%v", panel.Alpha, panel.Active)
	}
}

// TestDialogUISystem_ImmediateVariants 测试立即显示/隐藏
func TestDialogUISystem_ImmediateVariants(t *testing.T) {
	r := newUIRig()
	panel := r.ui.Panel()

	r.ui.Show()
	r.ui.ShowImmediate()
	if !panel.Active || panel.Alpha != 1 || r.ui.IsFading() {
		t.Errorf("ShowImmediate: active=%v alpha=%.2f fading=%v", panel.Active, panel.Alpha, r.ui.IsFading())
	}

	r.ui.Hide()
	r.ui.HideImmediate()
	if panel.Active || panel.Alpha != 0 || r.ui.IsFading() {
		t.Errorf("HideImmediate: active=%v alpha=%.2f fading=%v", panel.Active, panel.Alpha, r.ui.IsFading())
	}
}

// TestDialogUISystem_PortraitFallback 测试空头像使用默认头像
func TestDialogUISystem_PortraitFallback(t *testing.T) {
	r := newUIRig()

	r.ui.SetPortrait("PORTRAIT_ALICE")
	if got := r.ui.Panel().Portrait; got != "PORTRAIT_ALICE" {
		t.Errorf("Expected PORTRAIT_ALICE, got %q", got)
	}

	r.ui.SetPortrait("")
	if got := r.ui.Panel().Portrait; got != config.DefaultPortraitID {
		t.Errorf("Expected default portrait, got %q", got)
	}
}

// TestDialogUISystem_TypewriterCue 测试每 N 次 SetText 播放一次打字音效
func TestDialogUISystem_TypewriterCue(t *testing.T) {
	r := newUIRig()

	for _, s := range []string{"a", "ab", "abc", "abcd", "abcde", "abcdef"} {
		r.ui.SetText(s)
	}
	if len(r.sink.clips) != 2 {
		t.Fatalf("Expected 2 cues after 6 calls, got %d", len(r.sink.clips))
	}
	if r.sink.clips[0] != config.TypewriterSoundID {
		t.Errorf("Expected %s, got %s", config.TypewriterSoundID, r.sink.clips[0])
	}

	// ClearText 重置计数
	r.ui.SetText("x")
	r.ui.ClearText()
	r.ui.SetText("y")
	r.ui.SetText("yz")
	if len(r.sink.clips) != 2 {
		t.Errorf("Expected counter reset by ClearText, got %d cues", len(r.sink.clips))
	}
	r.ui.SetText("yz!")
	if len(r.sink.clips) != 3 {
		t.Errorf("Expected cue on third call after clear, got %d cues", len(r.sink.clips))
	}
}

// TestDialogUISystem_Buttons 测试继续/跳过按钮调用管理器
func TestDialogUISystem_Buttons(t *testing.T) {
	r := newUIRig()
	panel := r.ui.Panel()

	r.manager.StartDialog(testSequence("two", "A:first", "B:second"))
	r.run(time.Second)

	if panel.ContinueButton.Label != "继续" {
		t.Errorf("Expected continue label on first line, got %q", panel.ContinueButton.Label)
	}

	panel.ContinueButton.Click()
	if current, _ := r.manager.GetProgress(); current != 2 {
		t.Fatalf("Expected line 2 after continue, got %d", current)
	}
	if panel.ContinueButton.Label != "完成" {
		t.Errorf("Expected finish label on last line, got %q", panel.ContinueButton.Label)
	}

	panel.SkipButton.Click()
	if r.manager.IsDialogActive() {
		t.Error("Expected dialog ended by skip button")
	}
}

// TestDialogUISystem_ValidateUI 测试缺少资源时报告问题
func TestDialogUISystem_ValidateUI(t *testing.T) {
	r := newUIRig()
	if err := r.ui.ValidateUI(); err == nil {
		t.Error("Expected validation error without fonts and portraits")
	}
}

// TestDialogUISystem_Close 测试取消订阅后不再响应事件
func TestDialogUISystem_Close(t *testing.T) {
	r := newUIRig()
	r.ui.Close()
	r.manager.SetPresenter(nil)

	r.manager.StartDialog(testSequence("intro", "Alice:Hi"))
	if r.ui.Panel().Active {
		t.Error("Expected closed UI to ignore started event")
	}
}
