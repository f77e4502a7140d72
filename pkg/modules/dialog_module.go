package modules

import (
	"fmt"
	"log"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/systems"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// promptFontSize 交互提示字号
const promptFontSize = 16.0

// DialogModule 对话模块
// 封装所有与对话相关的功能，包括：
//   - 对话管理器（状态机与计时）
//   - 对话框显示、输入处理和触发区检测三个系统
//   - 语音与打字音效的接入
//
// 场景只需要在 Update/Draw 中调用模块，并通过 StartSequence 或触发区开始对话。
type DialogModule struct {
	entityManager *ecs.EntityManager
	library       *config.DialogLibrary

	manager  *dialog.Manager
	ui       *systems.DialogUISystem
	input    *systems.DialogInputSystem
	triggers *systems.DialogTriggerSystem
}

// DialogModuleOptions 对话模块依赖
// 除 EntityManager 和 Library 外均可为 nil
type DialogModuleOptions struct {
	EntityManager *ecs.EntityManager
	Library       *config.DialogLibrary

	Clock     dialog.Clock         // 真实时间，nil 时使用系统时钟
	Host      dialog.HostSuspender // 对话暂停游戏时调用
	Input     utils.Input
	Resources *game.ResourceManager
	Audio     *game.AudioManager
	Settings  *game.SettingsManager
}

// NewDialogModule 创建对话模块
//
// 返回:
//   - *DialogModule: 新创建的模块实例
//   - error: 缺少必需依赖时返回错误
func NewDialogModule(opts DialogModuleOptions) (*DialogModule, error) {
	if opts.EntityManager == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if opts.Library == nil {
		return nil, fmt.Errorf("dialog library cannot be nil")
	}

	clock := opts.Clock
	if clock == nil {
		clock = dialog.NewSystemClock()
	}

	var voice, typewriter dialog.AudioSink
	if opts.Audio != nil {
		voice = opts.Audio.VoiceSink()
		if opts.Audio.EnsureSound(config.TypewriterSoundID, game.SynthesizeClick) {
			typewriter = opts.Audio.TypewriterSink()
		}
	}

	m := &DialogModule{
		entityManager: opts.EntityManager,
		library:       opts.Library,
	}

	m.manager = dialog.NewManager(dialog.Options{
		Clock: clock,
		Audio: voice,
		Host:  opts.Host,
	})
	m.ui = systems.NewDialogUISystem(opts.EntityManager, m.manager, clock, opts.Resources, typewriter)
	m.input = systems.NewDialogInputSystem(m.manager, m.ui, opts.Input)
	m.triggers = systems.NewDialogTriggerSystem(opts.EntityManager, m.manager, opts.Input)

	if opts.Resources != nil {
		if face, err := opts.Resources.DefaultFont(promptFontSize); err == nil {
			m.triggers.SetPromptFont(face)
		} else {
			log.Printf("[DialogModule] Warning: prompt font unavailable: %v", err)
		}
	}

	if opts.Settings != nil {
		m.ApplySettings(opts.Settings.GetSettings())
	}

	m.manager.Subscribe(func(e dialog.Event) {
		if e.Type == dialog.EventLineChanged && e.Line != nil {
			log.Printf("[DialogModule] Session %s: %s 第 %d 行 (speaker=%q)", e.SessionID, e.SequenceID, e.LineIndex+1, e.Line.Speaker)
		}
	})

	log.Printf("[DialogModule] Initialized with %d dialog sequences", opts.Library.Len())
	return m, nil
}

// ApplySettings 应用文字速度设置
func (m *DialogModule) ApplySettings(s *game.GameSettings) {
	if s == nil {
		return
	}
	m.manager.SetTextSpeed(s.TextSpeed)
}

// Manager 返回对话管理器
func (m *DialogModule) Manager() *dialog.Manager { return m.manager }

// UI 返回对话框显示系统
func (m *DialogModule) UI() *systems.DialogUISystem { return m.ui }

// Triggers 返回触发区系统
func (m *DialogModule) Triggers() *systems.DialogTriggerSystem { return m.triggers }

// IsActive 是否正在对话
func (m *DialogModule) IsActive() bool {
	return m.manager.IsDialogActive()
}

// StartSequence 按ID开始对话，序列不存在或已有对话时返回 false
func (m *DialogModule) StartSequence(id string) bool {
	seq, ok := m.library.Get(id)
	if !ok {
		log.Printf("[DialogModule] Warning: unknown dialog sequence %q", id)
		return false
	}
	if m.manager.IsDialogActive() {
		log.Printf("[DialogModule] Warning: dialog already active, ignoring %q", id)
		return false
	}
	m.manager.StartDialog(seq)
	return m.manager.IsDialogActive()
}

// SpawnTriggers 根据关卡配置创建所有触发区实体
// 任一触发区创建失败时返回错误，已创建的实体保留
func (m *DialogModule) SpawnTriggers(level *config.LevelConfig) ([]ecs.EntityID, error) {
	if level == nil {
		return nil, nil
	}

	ids := make([]ecs.EntityID, 0, len(level.Triggers))
	for _, tr := range level.Triggers {
		id, err := entities.NewDialogTriggerEntity(m.entityManager, tr, m.library)
		if err != nil {
			return ids, fmt.Errorf("level %s: %w", level.ID, err)
		}
		ids = append(ids, id)
	}

	log.Printf("[DialogModule] Spawned %d trigger zones for level %s", len(ids), level.ID)
	return ids, nil
}

// Update 更新对话模块
//
// 顺序：触发区（游戏时间）→ 管理器计时 → 输入 → 淡入淡出。
// 触发区先于输入处理，触发对话的按键不会在同一帧推进对话。
func (m *DialogModule) Update(gameDeltaTime float64) {
	m.triggers.Update(gameDeltaTime)
	m.manager.Update()
	m.input.Update()
	m.ui.Update()
}

// Draw 绘制交互提示和对话框
func (m *DialogModule) Draw(screen *ebiten.Image) {
	m.triggers.Draw(screen)
	m.ui.Draw(screen)
}

// Close 结束当前对话并释放订阅
func (m *DialogModule) Close() {
	m.manager.EndDialog()
	m.ui.Close()
}
