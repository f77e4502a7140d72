package dialog

import "image/color"

// Presenter 对话显示接口
// 管理器在逐字显示过程中直接调用这些方法；实现方不持有会话状态
type Presenter interface {
	SetName(name string)
	SetText(text string)
	SetPortrait(portraitID string)
	SetTextColor(c color.RGBA)
	ClearText()
}

// AudioSink 音频播放接口
type AudioSink interface {
	// PlayClip 播放一次性音效，返回是否成功播放
	PlayClip(clipID string) bool
}

// HostSuspender 宿主游戏暂停接口
// 对话序列要求暂停游戏时，开始对话调用 Suspend，结束时调用 Resume
type HostSuspender interface {
	Suspend()
	Resume()
}
