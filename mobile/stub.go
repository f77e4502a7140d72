//go:build !mobile

// Package mobile 是 ebitenmobile 绑定入口
//
// 桌面构建时该包为空，移动端构建步骤见 mobile.go。
package mobile
