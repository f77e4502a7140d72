package components

import "image/color"

// DialogPanelComponent 对话面板组件
//
// 保存对话框当前显示的内容，由 DialogUISystem 写入、绘制。
// Alpha 为面板整体透明度（0-1），淡入淡出时逐帧变化。
type DialogPanelComponent struct {
	Active bool    // 面板是否激活（淡出结束后为 false）
	Alpha  float64 // 当前透明度

	Name      string     // 说话者名字，空字符串时隐藏名字栏
	Text      string     // 当前显示的文字（逐字显示的前缀）
	Portrait  string     // 头像资源ID
	TextColor color.RGBA // 文字颜色

	// TypewriterCount 自上次清空文字以来 SetText 的调用次数
	// 每 N 次播放一次打字音效
	TypewriterCount int

	ContinueButton Button // 继续按钮
	SkipButton     Button // 跳过按钮
}
