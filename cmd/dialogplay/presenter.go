package main

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/decker502/platformer/pkg/dialog"
	"github.com/muesli/termenv"
)

// terminalPresenter 把逐字显示输出到终端
//
// 每行以 "角色名: " 开头，逐字显示时只输出新增部分，因此在普通终端和
// 管道中都能得到完整的文本。行结束（下一行开始或对话结束）时换行。
type terminalPresenter struct {
	out     io.Writer
	profile termenv.Profile

	name  string
	color color.RGBA

	printed string // 当前行已经输出的文字
	open    bool   // 当前行是否已输出行首
}

var _ dialog.Presenter = (*terminalPresenter)(nil)

func newTerminalPresenter(out io.Writer, profile termenv.Profile) *terminalPresenter {
	return &terminalPresenter{out: out, profile: profile, color: dialog.DefaultTextColor}
}

func (p *terminalPresenter) SetName(name string) {
	p.name = name
}

// SetPortrait 终端不显示头像
func (p *terminalPresenter) SetPortrait(string) {}

func (p *terminalPresenter) SetTextColor(c color.RGBA) {
	p.color = c
}

// SetText 输出相对上次新增的文字
func (p *terminalPresenter) SetText(text string) {
	if text == "" {
		return
	}
	if !p.open {
		p.writeHeader()
		p.open = true
	}

	suffix := text
	if strings.HasPrefix(text, p.printed) {
		suffix = text[len(p.printed):]
	} else {
		// 文字被整体替换，另起一行重新输出
		fmt.Fprint(p.out, "\n  ")
	}
	if suffix == "" {
		return
	}
	fmt.Fprint(p.out, p.styleText(suffix))
	p.printed = text
}

func (p *terminalPresenter) ClearText() {
	p.Finish()
	p.printed = ""
}

// Finish 结束当前行
func (p *terminalPresenter) Finish() {
	if p.open {
		fmt.Fprintln(p.out)
		p.open = false
	}
}

func (p *terminalPresenter) writeHeader() {
	if p.name == "" {
		return
	}
	fmt.Fprint(p.out, p.profile.String(p.name+": ").Bold().String())
}

func (p *terminalPresenter) styleText(s string) string {
	if p.color == dialog.DefaultTextColor {
		return s
	}
	return p.profile.String(s).Foreground(p.profile.FromColor(p.color)).String()
}
