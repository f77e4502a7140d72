package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/dialog"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/modules"
	"github.com/decker502/platformer/pkg/systems"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// WindowWidth 逻辑屏幕宽度
	WindowWidth = 800
	// WindowHeight 逻辑屏幕高度
	WindowHeight = 600

	hudFontSize = 14.0
)

// LevelSceneDeps 关卡场景依赖
// Library 必须提供，其余均可为 nil（对应功能降级）
type LevelSceneDeps struct {
	Library   *config.DialogLibrary
	Resources *game.ResourceManager
	Audio     *game.AudioManager
	Settings  *game.SettingsManager
	Input     utils.Input
	Clock     dialog.Clock // 对话使用的真实时间，nil 时使用系统时钟
}

// LevelScene 关卡场景
//
// 玩家用方向键在关卡中移动，进入或在触发区内交互时播放对话。
// 要求暂停游戏的对话进行时，游戏时间停止（玩家不能移动，延迟触发不计时），
// 对话本身按真实时间继续逐字显示。
type LevelScene struct {
	level *config.LevelConfig

	entityManager *ecs.EntityManager
	gameClock     *game.GameClock
	audioManager  *game.AudioManager
	settings      *game.SettingsManager

	dialogModule   *modules.DialogModule
	movementSystem *systems.PlayerMovementSystem

	player       ecs.EntityID
	triggerZones []ecs.EntityID

	hudFont *text.GoTextFace
}

// NewLevelScene 创建关卡场景
//
// 关卡引用的对话序列必须全部存在于 Library 中，否则返回错误。
func NewLevelScene(deps LevelSceneDeps, level *config.LevelConfig) (*LevelScene, error) {
	if level == nil {
		return nil, fmt.Errorf("level config cannot be nil")
	}
	if deps.Library == nil {
		return nil, fmt.Errorf("dialog library cannot be nil")
	}
	if err := level.CheckSequences(deps.Library); err != nil {
		return nil, err
	}

	s := &LevelScene{
		level:         level,
		entityManager: ecs.NewEntityManager(),
		gameClock:     game.NewGameClock(),
		audioManager:  deps.Audio,
		settings:      deps.Settings,
	}

	var err error
	s.dialogModule, err = modules.NewDialogModule(modules.DialogModuleOptions{
		EntityManager: s.entityManager,
		Library:       deps.Library,
		Clock:         deps.Clock,
		Host:          s.gameClock,
		Input:         deps.Input,
		Resources:     deps.Resources,
		Audio:         deps.Audio,
		Settings:      deps.Settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dialog module: %w", err)
	}

	s.triggerZones, err = s.dialogModule.SpawnTriggers(level)
	if err != nil {
		return nil, err
	}

	s.player, err = entities.NewPlayerEntity(s.entityManager, level.PlayerSpawn.X, level.PlayerSpawn.Y, level.PlayerSpeed)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s.movementSystem = systems.NewPlayerMovementSystem(s.entityManager, deps.Input, level.Width, level.Height)

	if deps.Resources != nil {
		if face, err := deps.Resources.DefaultFont(hudFontSize); err == nil {
			s.hudFont = face
		} else {
			log.Printf("[LevelScene] Warning: HUD font unavailable: %v", err)
		}
	}

	if level.Music != "" && s.audioManager != nil {
		s.audioManager.PlayMusic(level.Music)
	}

	log.Printf("[LevelScene] 关卡 %s (%s) 已加载：%d 个触发区", level.ID, level.Name, len(s.triggerZones))

	// 关卡开场对话
	if level.AutoStartDialog != "" {
		s.dialogModule.StartSequence(level.AutoStartDialog)
	}

	return s, nil
}

// Level 返回关卡配置
func (s *LevelScene) Level() *config.LevelConfig { return s.level }

// DialogModule 返回对话模块
func (s *LevelScene) DialogModule() *modules.DialogModule { return s.dialogModule }

// GameClock 返回游戏时钟
func (s *LevelScene) GameClock() *game.GameClock { return s.gameClock }

// Player 返回玩家实体ID
func (s *LevelScene) Player() ecs.EntityID { return s.player }

// EntityManager 返回实体管理器
func (s *LevelScene) EntityManager() *ecs.EntityManager { return s.entityManager }

// Update 更新场景
// deltaTime 为真实时间，游戏系统使用游戏时钟换算后的时间
func (s *LevelScene) Update(deltaTime float64) {
	gameDT := s.gameClock.Tick(deltaTime)

	s.movementSystem.Update(gameDT)
	s.dialogModule.Update(gameDT)

	s.entityManager.RemoveMarkedEntities()
}

// Draw 绘制场景
func (s *LevelScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 96, G: 160, B: 96, A: 255})

	// 触发区
	for _, id := range s.triggerZones {
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok {
			continue
		}
		box, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
		trigger, _ := ecs.GetComponent[*components.DialogTriggerComponent](s.entityManager, id)
		if trigger.Mode == components.TriggerManual {
			continue
		}
		minX, minY, _, _ := box.Bounds(pos)
		vector.DrawFilledRect(screen, float32(minX), float32(minY), float32(box.Width), float32(box.Height), color.RGBA{200, 180, 90, 90}, false)
	}

	// 玩家
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.player); ok {
		box, _ := ecs.GetComponent[*components.CollisionComponent](s.entityManager, s.player)
		minX, minY, _, _ := box.Bounds(pos)
		vector.DrawFilledRect(screen, float32(minX), float32(minY), float32(box.Width), float32(box.Height), color.RGBA{60, 90, 200, 255}, false)
	}

	if s.hudFont != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(10, 8)
		op.ColorScale.ScaleWithColor(color.White)
		hint := "方向键移动，E 交互"
		if utils.IsMobile() {
			hint = "点击对话框继续"
		}
		text.Draw(screen, s.level.Name+"  "+hint, s.hudFont, op)
	}

	s.dialogModule.Draw(screen)
}

// OnExit 场景被替换时结束对话并停止背景音乐
func (s *LevelScene) OnExit() {
	s.dialogModule.Close()
	if s.audioManager != nil {
		s.audioManager.StopMusic()
	}
	log.Printf("[LevelScene] 关卡 %s 已退出", s.level.ID)
}

// SaveOnExit 游戏关闭时保存设置
func (s *LevelScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[LevelScene] Warning: 保存设置失败: %v", err)
		return false
	}
	return true
}
