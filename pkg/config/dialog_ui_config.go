package config

// 对话框布局与表现参数
// 坐标基于 800x600 的逻辑屏幕
const (
	// DialogPanelX 对话框左上角 X
	DialogPanelX = 40.0
	// DialogPanelY 对话框左上角 Y
	DialogPanelY = 420.0
	// DialogPanelWidth 对话框宽度
	DialogPanelWidth = 720.0
	// DialogPanelHeight 对话框高度
	DialogPanelHeight = 150.0

	// DialogPortraitSize 头像边长
	DialogPortraitSize = 96.0
	// DialogPadding 内边距
	DialogPadding = 16.0

	// DialogNameFontSize 名字字号
	DialogNameFontSize = 20.0
	// DialogTextFontSize 正文字号
	DialogTextFontSize = 18.0
	// DialogLineSpacing 正文行距
	DialogLineSpacing = 26.0

	// DialogButtonWidth 继续/跳过按钮宽度
	DialogButtonWidth = 80.0
	// DialogButtonHeight 继续/跳过按钮高度
	DialogButtonHeight = 28.0

	// DialogFadeSpeed 面板淡入淡出速度（透明度/秒）
	DialogFadeSpeed = 2.0

	// TypewriterSoundInterval 每显示几个字符播放一次打字音效
	TypewriterSoundInterval = 3
)

// 对话框使用的资源ID
const (
	// DefaultPortraitID 行没有指定头像时使用的头像
	DefaultPortraitID = "PORTRAIT_DEFAULT"
	// TypewriterSoundID 打字音效
	TypewriterSoundID = "SOUND_TYPEWRITER"
	// DialogFontID 对话框字体
	DialogFontID = "FONT_DIALOG"
)
