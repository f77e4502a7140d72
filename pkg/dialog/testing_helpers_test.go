package dialog

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"strings"
	"testing"
	"time"
)

// tick 模拟的帧间隔（约 60 FPS）
const tick = 16 * time.Millisecond

// recordingPresenter 记录所有显示调用的测试用 Presenter
type recordingPresenter struct {
	name         string
	text         string
	portrait     string
	color        color.RGBA
	texts        []string
	setTextCalls int
	clearCalls   int
}

func (p *recordingPresenter) SetName(name string)         { p.name = name }
func (p *recordingPresenter) SetPortrait(portrait string) { p.portrait = portrait }
func (p *recordingPresenter) SetTextColor(c color.RGBA)   { p.color = c }

func (p *recordingPresenter) SetText(text string) {
	p.text = text
	p.texts = append(p.texts, text)
	p.setTextCalls++
}

func (p *recordingPresenter) ClearText() {
	p.text = ""
	p.clearCalls++
}

// fakeHost 记录暂停/恢复次数
type fakeHost struct {
	suspends int
	resumes  int
}

func (h *fakeHost) Suspend() { h.suspends++ }
func (h *fakeHost) Resume()  { h.resumes++ }

// fakeAudio 记录播放过的音效
type fakeAudio struct {
	clips []string
}

func (a *fakeAudio) PlayClip(id string) bool {
	a.clips = append(a.clips, id)
	return true
}

// testRig 组合管理器和所有测试替身
type testRig struct {
	clock     *ManualClock
	presenter *recordingPresenter
	host      *fakeHost
	audio     *fakeAudio
	manager   *Manager
	events    []Event
}

func newTestRig() *testRig {
	r := &testRig{
		clock:     &ManualClock{},
		presenter: &recordingPresenter{},
		host:      &fakeHost{},
		audio:     &fakeAudio{},
	}
	ids := 0
	r.manager = NewManager(Options{
		Clock:     r.clock,
		Presenter: r.presenter,
		Audio:     r.audio,
		Host:      r.host,
		NewSessionID: func() string {
			ids++
			return fmt.Sprintf("session-%d", ids)
		},
	})
	r.manager.Subscribe(func(e Event) {
		r.events = append(r.events, e)
	})
	return r
}

// step 推进时钟并执行一帧
func (r *testRig) step(d time.Duration) {
	r.clock.Advance(d)
	r.manager.Update()
}

// runFor 以固定帧间隔运行指定时长
func (r *testRig) runFor(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
		r.step(tick)
	}
}

// finishReveal 运行直到当前行显示完成
func (r *testRig) finishReveal(t *testing.T) {
	t.Helper()
	for i := 0; i < 10000 && r.manager.State() == StateRevealing; i++ {
		r.step(tick)
	}
	if r.manager.State() != StateAwaitingAdvance {
		t.Fatalf("Expected AwaitingAdvance after reveal, got %v", r.manager.State())
	}
}

func (r *testRig) countEvents(typ EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// captureLog 在测试期间捕获标准日志输出
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOutput := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOutput)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func makeLine(speaker, text string) Line {
	return Line{
		Speaker:      speaker,
		Text:         text,
		CharDelay:    0.01,
		WaitForInput: true,
		TextColor:    DefaultTextColor,
	}
}

func makeSequence(n int, loop bool) *Sequence {
	seq := &Sequence{ID: "test", Loop: loop, PauseGame: true}
	for i := 0; i < n; i++ {
		seq.Lines = append(seq.Lines, makeLine("Speaker", strings.Repeat("x", i+1)))
	}
	return seq
}
