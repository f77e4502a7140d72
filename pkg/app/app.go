// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"path"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/embedded"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/scenes"
	"github.com/decker502/platformer/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// AppName gdata 存储使用的应用名
	AppName = "platformer"

	// DefaultLevel 未指定关卡时加载的关卡
	DefaultLevel = "village"

	// 数据文件位置（相对于嵌入文件系统根目录）
	resourceConfigPath = "data/resources.yaml"
	dialogDir          = "data/dialogs"
	levelDir           = "data/levels"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的关卡ID（如 "village"），为空则加载 DefaultLevel
	Level string
	// DataFS 数据文件系统，为 nil 时使用 embedded.FS()
	DataFS fs.FS
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	input           *utils.EbitenInput
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源（或在 Config 中提供 DataFS）。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	fsys := cfg.DataFS
	if fsys == nil {
		fsys = embedded.FS()
	}
	if fsys == nil {
		return nil, fmt.Errorf("data file system not available: %w", embedded.ErrNotInitialized)
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(48000)

	// 创建资源管理器并加载对话用到的图片
	resourceManager := game.NewResourceManager(fsys, audioContext)
	if err := resourceManager.LoadResourceConfig(resourceConfigPath); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}
	if err := resourceManager.LoadResourceGroup("dialog"); err != nil {
		log.Printf("[App] Warning: 对话资源加载不完整: %v", err)
	}

	// 设置（持久化失败时使用内存设置）
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	settingsManager, err := game.OpenSettingsManager(AppName)
	if err != nil {
		log.Printf("[App] Warning: 设置无法持久化: %v", err)
	}

	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	log.Printf("[App] AudioManager initialized")

	// 对话库
	library, err := config.LoadDialogLibraryFS(fsys, dialogDir)
	if err != nil {
		return nil, fmt.Errorf("对话配置加载失败: %w", err)
	}
	if err := library.Validate(); err != nil {
		return nil, fmt.Errorf("对话配置无效: %w", err)
	}
	log.Printf("[App] Loaded %d dialog sequences", library.Len())

	input := utils.NewEbitenInput()

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(levelID string) (game.Scene, error) {
		level, err := config.LoadLevelConfigFS(fsys, path.Join(levelDir, levelID+".yaml"))
		if err != nil {
			return nil, err
		}
		return scenes.NewLevelScene(scenes.LevelSceneDeps{
			Library:   library,
			Resources: resourceManager,
			Audio:     audioManager,
			Settings:  settingsManager,
			Input:     input,
		}, level)
	})

	levelToLoad := cfg.Level
	if levelToLoad == "" {
		levelToLoad = DefaultLevel
	}
	log.Printf("[App] Starting level: %s", levelToLoad)

	if !sceneManager.LoadLevel(levelToLoad) {
		return nil, fmt.Errorf("无法加载关卡 %s", levelToLoad)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		input:           input,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(scenes.WindowWidth, scenes.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		if !fullscreen {
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		}
		a.settingsManager.SetFullscreen(fullscreen)
	}

	a.input.Update()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.WindowWidth, scenes.WindowHeight
}

// SaveOnExit 保存当前场景状态和设置
func (a *App) SaveOnExit() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] Warning: 场景保存失败")
		}
		return
	}
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: 保存设置失败: %v", err)
	}
}

// Settings 返回当前设置
func (a *App) Settings() *game.GameSettings {
	return a.settingsManager.GetSettings()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
