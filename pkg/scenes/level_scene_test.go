package scenes

import (
	"testing"
	"time"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

const sceneDialogYAML = `
sequences:
  - id: opening
    lines:
      - speaker: Elder
        text: "欢迎"
  - id: sign
    pauseGame: false
    lines:
      - text: "东"
`

const sceneLevelYAML = `
id: village
name: 村庄
playerSpawn: {x: 10, y: 10}
playerSpeed: 100
autoStartDialog: opening
triggers:
  - id: sign
    sequence: sign
    mode: enter
    x: 200
    y: 0
    width: 40
    height: 100
`

// keyInput 只支持持续按键的测试输入
type keyInput struct {
	pressed map[ebiten.Key]bool
	just    map[ebiten.Key]bool
}

func (k *keyInput) IsKeyJustPressed(key ebiten.Key) bool   { return k.just[key] }
func (k *keyInput) IsKeyPressed(key ebiten.Key) bool       { return k.pressed[key] }
func (k *keyInput) PointerJustReleased() (bool, int, int) { return false, 0, 0 }
func (k *keyInput) PointerPosition() (int, int)           { return -1, -1 }

func newTestScene(t *testing.T, levelYAML string) (*LevelScene, *dialog.ManualClock, *keyInput) {
	t.Helper()

	dialogs, err := config.ParseDialogConfig([]byte(sceneDialogYAML), "dialogs")
	if err != nil {
		t.Fatalf("ParseDialogConfig failed: %v", err)
	}
	lib := config.NewDialogLibrary()
	if err := lib.Add(dialogs, "dialogs"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	level, err := config.ParseLevelConfig([]byte(levelYAML), "level")
	if err != nil {
		t.Fatalf("ParseLevelConfig failed: %v", err)
	}

	clock := &dialog.ManualClock{}
	input := &keyInput{pressed: map[ebiten.Key]bool{}, just: map[ebiten.Key]bool{}}
	scene, err := NewLevelScene(LevelSceneDeps{
		Library:  lib,
		Input:    input,
		Clock:    clock,
		Settings: game.NewSettingsManager(nil),
	}, level)
	if err != nil {
		t.Fatalf("NewLevelScene failed: %v", err)
	}
	return scene, clock, input
}

func (s *LevelScene) playerPos() *components.PositionComponent {
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.player)
	return pos
}

func runScene(scene *LevelScene, clock *dialog.ManualClock, frames int) {
	for i := 0; i < frames; i++ {
		clock.Advance(16 * time.Millisecond)
		scene.Update(1.0 / 60)
	}
}

// TestLevelScene_AutoStartPausesWorld 测试开场对话暂停游戏世界
func TestLevelScene_AutoStartPausesWorld(t *testing.T) {
	scene, clock, input := newTestScene(t, sceneLevelYAML)

	if !scene.DialogModule().IsActive() {
		t.Fatal("Expected opening dialog active")
	}
	if !scene.GameClock().IsSuspended() {
		t.Fatal("Expected game clock suspended")
	}

	input.pressed[ebiten.KeyArrowRight] = true
	runScene(scene, clock, 30)

	if scene.playerPos().X != 10 {
		t.Errorf("Expected player frozen during dialog, X=%.1f", scene.playerPos().X)
	}
	if text := scene.DialogModule().UI().Panel().Text; text != "欢迎" {
		t.Errorf("Expected dialog revealed in real time, got %q", text)
	}

	scene.DialogModule().Manager().AdvanceDialog()
	runScene(scene, clock, 30)

	if scene.GameClock().IsSuspended() {
		t.Error("Expected game clock resumed")
	}
	if scene.playerPos().X <= 10 {
		t.Errorf("Expected player moving after dialog, X=%.1f", scene.playerPos().X)
	}
}

// TestLevelScene_EnterTrigger 测试走进触发区播放对话
func TestLevelScene_EnterTrigger(t *testing.T) {
	scene, clock, input := newTestScene(t, sceneLevelYAML)
	scene.DialogModule().Manager().EndDialog()

	input.pressed[ebiten.KeyArrowRight] = true
	// 100 像素/秒，从 x=10 走到 x>176（玩家宽 24）约 1.7 秒
	for i := 0; i < 180 && !scene.DialogModule().IsActive(); i++ {
		runScene(scene, clock, 1)
	}

	seq := scene.DialogModule().Manager().ActiveSequence()
	if seq == nil || seq.ID != "sign" {
		t.Fatalf("Expected sign dialog, got %v", seq)
	}
	// 不暂停游戏的对话期间玩家可以继续移动
	before := scene.playerPos().X
	runScene(scene, clock, 5)
	if scene.playerPos().X <= before {
		t.Error("Expected player to keep moving during non-pausing dialog")
	}
}

// TestLevelScene_OnExit 测试退出场景时结束对话
func TestLevelScene_OnExit(t *testing.T) {
	scene, _, _ := newTestScene(t, sceneLevelYAML)

	scene.OnExit()

	if scene.DialogModule().IsActive() {
		t.Error("Expected dialog ended on exit")
	}
	if scene.GameClock().IsSuspended() {
		t.Error("Expected game clock resumed on exit")
	}
	if !scene.SaveOnExit() {
		t.Error("Expected SaveOnExit to succeed in memory mode")
	}
}

// TestNewLevelScene_UnknownSequence 测试关卡引用不存在的对话
func TestNewLevelScene_UnknownSequence(t *testing.T) {
	level := &config.LevelConfig{ID: "broken", AutoStartDialog: "missing", PlayerSpeed: 100}
	if _, err := NewLevelScene(LevelSceneDeps{Library: config.NewDialogLibrary()}, level); err == nil {
		t.Error("Expected error for unknown autoStartDialog")
	}
	if _, err := NewLevelScene(LevelSceneDeps{}, level); err == nil {
		t.Error("Expected error without library")
	}
}
