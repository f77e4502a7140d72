package dialog

import "time"

// maxStepsPerUpdate 单次 Update 中单个任务最多执行的步数
// 防止零间隔任务在一帧内无限执行
const maxStepsPerUpdate = 4096

// StepFunc 任务的单步逻辑
// 返回距离下一步的间隔；done 为 true 时任务结束
type StepFunc func() (next time.Duration, done bool)

// Task 可取消的定时任务句柄
//
// 任务由 Scheduler 在每帧 Update 时推进：当前时间到达 deadline 即执行一步。
// 取消是同步的：Cancel 之后该任务不会再执行任何一步，
// 即使是在任务自己的 StepFunc 内部被取消。
type Task struct {
	name      string
	step      StepFunc
	deadline  time.Duration
	remaining time.Duration // 暂停时剩余的等待时间
	cancelled bool
	finished  bool
	paused    bool
}

// Name 返回任务名（用于日志）
func (t *Task) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Cancel 取消任务，可重复调用，nil 安全
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Alive 任务是否仍在等待执行
func (t *Task) Alive() bool {
	return t != nil && !t.cancelled && !t.finished
}

// Paused 任务是否处于暂停状态
func (t *Task) Paused() bool {
	return t != nil && t.paused
}

// Scheduler 协作式任务调度器
// 所有任务都在调用 Update 的同一个 goroutine 上执行
type Scheduler struct {
	clock Clock
	tasks []*Task
}

// NewScheduler 创建调度器
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		tasks: make([]*Task, 0, 2),
	}
}

// Now 返回调度器时钟的当前时间
func (s *Scheduler) Now() time.Duration {
	return s.clock.Now()
}

// Schedule 创建任务，第一步在 delay 之后执行
func (s *Scheduler) Schedule(name string, delay time.Duration, step StepFunc) *Task {
	if delay < 0 {
		delay = 0
	}
	task := &Task{
		name:     name,
		step:     step,
		deadline: s.clock.Now() + delay,
	}
	s.tasks = append(s.tasks, task)
	return task
}

// Update 执行所有到期的任务步
//
// 同一帧内会补齐所有已到期的步，下一步的 deadline 从上一步的 deadline 累加，
// 因此帧率波动不会累积误差。本帧内新建且已到期的任务也会在本帧执行。
func (s *Scheduler) Update() {
	now := s.clock.Now()

	for i := 0; i < len(s.tasks); i++ {
		task := s.tasks[i]
		steps := 0
		for task.Alive() && !task.paused && task.deadline <= now && steps < maxStepsPerUpdate {
			next, done := task.step()
			steps++
			if task.cancelled {
				break
			}
			if done {
				task.finished = true
				break
			}
			if next < 0 {
				next = 0
			}
			task.deadline += next
		}
	}

	s.compact()
}

// Pause 暂停任务，记录剩余等待时间
func (s *Scheduler) Pause(task *Task) {
	if !task.Alive() || task.paused {
		return
	}
	task.remaining = task.deadline - s.clock.Now()
	if task.remaining < 0 {
		task.remaining = 0
	}
	task.paused = true
}

// Resume 恢复暂停的任务
func (s *Scheduler) Resume(task *Task) {
	if !task.Alive() || !task.paused {
		return
	}
	task.deadline = s.clock.Now() + task.remaining
	task.remaining = 0
	task.paused = false
}

// CancelAll 取消所有任务
func (s *Scheduler) CancelAll() {
	for _, task := range s.tasks {
		task.Cancel()
	}
}

// Len 返回仍存活的任务数
func (s *Scheduler) Len() int {
	count := 0
	for _, task := range s.tasks {
		if task.Alive() {
			count++
		}
	}
	return count
}

// compact 移除已结束或已取消的任务
func (s *Scheduler) compact() {
	alive := s.tasks[:0]
	for _, task := range s.tasks {
		if task.Alive() {
			alive = append(alive, task)
		}
	}
	for i := len(alive); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = alive
}
