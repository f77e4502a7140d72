package dialog

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// State 对话状态机状态
type State int

const (
	// StateIdle 没有进行中的对话
	StateIdle State = iota
	// StateRevealing 文字正在逐字显示，此时推进只会补全当前行
	StateRevealing
	// StateAwaitingAdvance 当前行已完整显示，等待输入或自动继续
	StateAwaitingAdvance
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRevealing:
		return "Revealing"
	case StateAwaitingAdvance:
		return "AwaitingAdvance"
	default:
		return "Unknown"
	}
}

// Options 管理器依赖
// 除 Clock 外均可为 nil：缺少的协作者对应的功能被跳过，状态机照常运行
type Options struct {
	Clock     Clock         // 真实时间源，nil 时使用 SystemClock
	Presenter Presenter     // 对话显示
	Audio     AudioSink     // 语音播放
	Host      HostSuspender // 宿主游戏暂停

	// NewSessionID 会话ID生成函数，nil 时使用 UUID
	NewSessionID func() string
}

// session 进行中的对话会话
type session struct {
	id            string
	sequence      *Sequence
	index         int
	revealed      int
	state         State
	canAdvance    bool
	hostSuspended bool
	paused        bool
	task          *Task // 当前的逐字显示或自动继续任务，最多一个
}

// Snapshot 会话状态快照（只读副本）
type Snapshot struct {
	SessionID     string
	SequenceID    string
	State         State
	LineIndex     int
	TotalLines    int
	RevealedChars int
	CanAdvance    bool
	Paused        bool
}

// Manager 对话管理器 - 负责对话状态机与计时
//
// 状态转换：
//
//	Idle → Revealing（StartDialog）
//	Revealing → AwaitingAdvance（逐字显示完成或 AdvanceDialog 补全）
//	AwaitingAdvance → Revealing（下一行 / 循环回到第一行）
//	AwaitingAdvance → Idle（非循环序列播放完毕）
//	任意状态 → Idle（EndDialog / SkipDialog）
//
// 同一时间只允许一个会话；所有方法必须在游戏主循环所在的 goroutine 调用。
type Manager struct {
	scheduler *Scheduler
	presenter Presenter
	audio     AudioSink
	host      HostSuspender
	observers observers

	session      *session
	textSpeed    float64
	newSessionID func() string
}

// NewManager 创建对话管理器
func NewManager(opts Options) *Manager {
	clock := opts.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	newID := opts.NewSessionID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Manager{
		scheduler:    NewScheduler(clock),
		presenter:    opts.Presenter,
		audio:        opts.Audio,
		host:         opts.Host,
		textSpeed:    1.0,
		newSessionID: newID,
	}
}

// SetPresenter 设置对话显示
// 显示组件通常持有管理器引用，因此在两者都创建完成后再连接
func (m *Manager) SetPresenter(p Presenter) {
	m.presenter = p
}

// SetAudioSink 设置语音播放
func (m *Manager) SetAudioSink(a AudioSink) {
	m.audio = a
}

// SetTextSpeed 设置文字速度倍率
// 2.0 表示两倍速，<= 0 时重置为 1.0
func (m *Manager) SetTextSpeed(multiplier float64) {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	m.textSpeed = multiplier
}

// TextSpeed 返回当前文字速度倍率
func (m *Manager) TextSpeed() float64 {
	return m.textSpeed
}

// Subscribe 订阅对话事件
// 事件在触发它的调用返回之前，按订阅顺序同步分发
func (m *Manager) Subscribe(h Handler) SubscriptionID {
	return m.observers.add(h)
}

// Unsubscribe 取消订阅，返回是否找到该订阅
func (m *Manager) Unsubscribe(id SubscriptionID) bool {
	return m.observers.remove(id)
}

// Update 每帧调用一次，推进逐字显示和自动继续计时
func (m *Manager) Update() {
	m.scheduler.Update()
}

// StartDialog 开始对话序列
//
// 序列为空或已有对话进行中时只记录警告，不改变任何状态，也不触发事件。
// 触发器可能在任意时机调用，因此这里不返回错误。
func (m *Manager) StartDialog(seq *Sequence) {
	if seq.Len() == 0 {
		log.Printf("[DialogManager] Warning: 对话序列为空或没有对话内容")
		return
	}

	if m.session != nil {
		log.Printf("[DialogManager] Warning: 对话已经在进行中 (session=%s), 忽略序列 %q",
			m.session.id, seq.ID)
		return
	}

	s := &session{
		id:       m.newSessionID(),
		sequence: seq,
		state:    StateRevealing,
	}
	m.session = s

	// 暂停游戏（如果设置了）
	if seq.PauseGame && m.host != nil {
		m.host.Suspend()
		s.hostSuspended = true
	}

	log.Printf("[DialogManager] Session %s: 开始对话序列 %q (%d 条, loop=%v, pauseGame=%v)",
		s.id, seq.ID, len(seq.Lines), seq.Loop, seq.PauseGame)

	m.observers.emit(Event{
		Type:       EventStarted,
		SessionID:  s.id,
		SequenceID: seq.ID,
	})

	// 订阅者可能在事件处理中结束了对话
	if m.session != s {
		return
	}

	m.showLine(s)
}

// AdvanceDialog 推进对话
//
//   - Revealing: 立即显示完整文字，进入 AwaitingAdvance，不改变行索引
//   - AwaitingAdvance: 进入下一行；越界时循环或结束
//   - Idle: 无操作
func (m *Manager) AdvanceDialog() {
	s := m.session
	if s == nil {
		return
	}

	switch s.state {
	case StateRevealing:
		s.task.Cancel()
		s.task = nil

		line := &s.sequence.Lines[s.index]
		s.revealed = line.RuneCount()
		if m.presenter != nil {
			m.presenter.SetText(line.Text)
		}
		s.state = StateAwaitingAdvance
		s.canAdvance = true

	case StateAwaitingAdvance:
		if !s.canAdvance {
			return
		}
		s.task.Cancel()
		s.task = nil

		next := s.index + 1
		if next >= len(s.sequence.Lines) {
			if !s.sequence.Loop {
				m.endDialog(EndCompleted)
				return
			}
			next = 0
		}
		s.index = next
		m.showLine(s)
	}
}

// EndDialog 结束对话，未在对话中时无操作
func (m *Manager) EndDialog() {
	m.endDialog(EndStopped)
}

// SkipDialog 跳过当前对话序列
// 状态机行为与 EndDialog 相同，仅结束原因不同
func (m *Manager) SkipDialog() {
	if m.session == nil {
		return
	}
	m.endDialog(EndSkipped)
}

// PauseDialog 暂停逐字显示和自动继续计时
// 暂停期间仍可通过 AdvanceDialog 手动推进
func (m *Manager) PauseDialog() {
	s := m.session
	if s == nil || s.paused {
		return
	}
	s.paused = true
	m.scheduler.Pause(s.task)
	log.Printf("[DialogManager] Session %s: 计时已暂停", s.id)
}

// ResumeDialog 恢复暂停的计时
func (m *Manager) ResumeDialog() {
	s := m.session
	if s == nil || !s.paused {
		return
	}
	s.paused = false
	m.scheduler.Resume(s.task)
	log.Printf("[DialogManager] Session %s: 计时已恢复", s.id)
}

// TogglePauseDialog 切换暂停状态
func (m *Manager) TogglePauseDialog() {
	if m.IsPaused() {
		m.ResumeDialog()
	} else {
		m.PauseDialog()
	}
}

// IsPaused 计时是否处于暂停状态
func (m *Manager) IsPaused() bool {
	return m.session != nil && m.session.paused
}

// IsDialogActive 检查是否正在进行对话
func (m *Manager) IsDialogActive() bool {
	return m.session != nil
}

// GetProgress 获取当前对话进度
// 返回当前行号（从 1 开始）和总行数，空闲时返回 (0, 0)
func (m *Manager) GetProgress() (current, total int) {
	if m.session == nil {
		return 0, 0
	}
	return m.session.index + 1, len(m.session.sequence.Lines)
}

// State 返回当前状态
func (m *Manager) State() State {
	if m.session == nil {
		return StateIdle
	}
	return m.session.state
}

// CurrentLine 返回当前行，空闲时返回 nil
func (m *Manager) CurrentLine() *Line {
	if m.session == nil {
		return nil
	}
	return &m.session.sequence.Lines[m.session.index]
}

// ActiveSequence 返回正在播放的序列，空闲时返回 nil
func (m *Manager) ActiveSequence() *Sequence {
	if m.session == nil {
		return nil
	}
	return m.session.sequence
}

// Snapshot 返回会话状态快照
func (m *Manager) Snapshot() Snapshot {
	s := m.session
	if s == nil {
		return Snapshot{State: StateIdle}
	}
	return Snapshot{
		SessionID:     s.id,
		SequenceID:    s.sequence.ID,
		State:         s.state,
		LineIndex:     s.index,
		TotalLines:    len(s.sequence.Lines),
		RevealedChars: s.revealed,
		CanAdvance:    s.canAdvance,
		Paused:        s.paused,
	}
}

// showLine 显示当前行：更新角色信息、播放语音、开始逐字显示
func (m *Manager) showLine(s *session) {
	line := &s.sequence.Lines[s.index]

	if m.presenter != nil {
		m.presenter.SetName(line.Speaker)
		m.presenter.SetPortrait(line.Portrait)
		m.presenter.SetTextColor(line.TextColor)
	}

	if line.Voice != "" && m.audio != nil {
		m.audio.PlayClip(line.Voice)
	}

	m.beginReveal(s, line)

	m.observers.emit(Event{
		Type:       EventLineChanged,
		SessionID:  s.id,
		SequenceID: s.sequence.ID,
		Line:       line,
		LineIndex:  s.index,
	})
}

// beginReveal 开始逐字显示
//
// 字符数从 0 递增到文本长度（含），每步间隔 CharDelay 秒真实时间。
// 显示完成后如果不等待输入，同一任务再等待 AutoAdvanceDelay 秒后自动推进。
func (m *Manager) beginReveal(s *session, line *Line) {
	s.task.Cancel()

	s.state = StateRevealing
	s.canAdvance = false
	s.revealed = 0

	if m.presenter != nil {
		m.presenter.ClearText()
		m.presenter.SetText("")
	}

	total := line.RuneCount()
	delay := m.charDelay(line)

	// 空文本在第一帧即完成
	first := delay
	if total == 0 {
		first = 0
	}

	autoAdvancing := false
	s.task = m.scheduler.Schedule("reveal", first, func() (time.Duration, bool) {
		if autoAdvancing {
			m.AdvanceDialog()
			return 0, true
		}

		if s.revealed < total {
			s.revealed++
			if m.presenter != nil {
				m.presenter.SetText(line.Prefix(s.revealed))
			}
		}
		if s.revealed < total {
			return delay, false
		}

		s.state = StateAwaitingAdvance
		s.canAdvance = true

		if line.WaitForInput {
			return 0, true
		}
		autoAdvancing = true
		return Seconds(line.AutoAdvanceDelay), false
	})

	if s.paused {
		m.scheduler.Pause(s.task)
	}
}

// charDelay 返回考虑文字速度后的字符间隔
func (m *Manager) charDelay(line *Line) time.Duration {
	seconds := line.CharDelay
	if seconds <= 0 {
		seconds = DefaultCharDelay
	}
	return Seconds(seconds / m.textSpeed)
}

// endDialog 结束对话并触发结束事件
func (m *Manager) endDialog(reason EndReason) {
	s := m.session
	if s == nil {
		return
	}

	s.task.Cancel()
	s.task = nil

	// 恢复游戏时间
	if s.hostSuspended && m.host != nil {
		m.host.Resume()
	}

	m.session = nil

	log.Printf("[DialogManager] Session %s: 对话结束 (sequence=%q, reason=%s, line=%d/%d)",
		s.id, s.sequence.ID, reason, s.index+1, len(s.sequence.Lines))

	m.observers.emit(Event{
		Type:       EventEnded,
		SessionID:  s.id,
		SequenceID: s.sequence.ID,
		LineIndex:  s.index,
		Reason:     reason,
	})
}
