package systems

import (
	"strings"
	"time"

	"github.com/decker502/platformer/pkg/dialog"
	"github.com/hajimehoshi/ebiten/v2"
)

// frame 模拟的帧间隔
const frame = 16 * time.Millisecond

// mockInput 可编程的输入实现
type mockInput struct {
	justPressed map[ebiten.Key]bool
	pressed     map[ebiten.Key]bool
	released    bool
	pointerX    int
	pointerY    int
}

func newMockInput() *mockInput {
	return &mockInput{
		justPressed: make(map[ebiten.Key]bool),
		pressed:     make(map[ebiten.Key]bool),
	}
}

func (m *mockInput) IsKeyJustPressed(key ebiten.Key) bool { return m.justPressed[key] }
func (m *mockInput) IsKeyPressed(key ebiten.Key) bool     { return m.pressed[key] }

func (m *mockInput) PointerJustReleased() (bool, int, int) {
	return m.released, m.pointerX, m.pointerY
}

func (m *mockInput) PointerPosition() (int, int) {
	return m.pointerX, m.pointerY
}

// press 模拟本帧按下某键
func (m *mockInput) press(key ebiten.Key) {
	m.justPressed[key] = true
	m.pressed[key] = true
}

// click 模拟本帧在指定位置释放鼠标
func (m *mockInput) click(x, y int) {
	m.released = true
	m.pointerX, m.pointerY = x, y
}

// endFrame 清除本帧的一次性输入
func (m *mockInput) endFrame() {
	m.justPressed = make(map[ebiten.Key]bool)
	m.pressed = make(map[ebiten.Key]bool)
	m.released = false
}

// recordingSink 记录播放过的音效
type recordingSink struct {
	clips []string
}

func (r *recordingSink) PlayClip(clipID string) bool {
	r.clips = append(r.clips, clipID)
	return true
}

func newTestManager(clock dialog.Clock) *dialog.Manager {
	return dialog.NewManager(dialog.Options{
		Clock:        clock,
		NewSessionID: func() string { return "test-session" },
	})
}

func testSequence(id string, lines ...string) *dialog.Sequence {
	seq := &dialog.Sequence{ID: id, PauseGame: true}
	for _, l := range lines {
		speaker, textStr, _ := strings.Cut(l, ":")
		seq.Lines = append(seq.Lines, dialog.Line{
			Speaker:      speaker,
			Text:         textStr,
			CharDelay:    0.01,
			WaitForInput: true,
			TextColor:    dialog.DefaultTextColor,
		})
	}
	return seq
}
