package dialog

import (
	"testing"
	"time"
)

// TestScheduler_RunsStepsAtDeadlines 测试任务按间隔执行并在完成后移除
func TestScheduler_RunsStepsAtDeadlines(t *testing.T) {
	clock := &ManualClock{}
	s := NewScheduler(clock)

	count := 0
	task := s.Schedule("count", 10*time.Millisecond, func() (time.Duration, bool) {
		count++
		return 10 * time.Millisecond, count == 3
	})

	clock.Advance(9 * time.Millisecond)
	s.Update()
	if count != 0 {
		t.Errorf("Expected no steps before deadline, got %d", count)
	}

	clock.Advance(1 * time.Millisecond)
	s.Update()
	if count != 1 {
		t.Errorf("Expected 1 step at deadline, got %d", count)
	}

	// 一帧跨越两个间隔，补齐剩余两步
	clock.Advance(25 * time.Millisecond)
	s.Update()
	if count != 3 {
		t.Errorf("Expected 3 steps after catch-up, got %d", count)
	}
	if task.Alive() {
		t.Error("Expected task finished")
	}
	if s.Len() != 0 {
		t.Errorf("Expected no live tasks, got %d", s.Len())
	}
}

// TestScheduler_CancelInsideStep 测试在任务内部取消自身后不再执行
func TestScheduler_CancelInsideStep(t *testing.T) {
	clock := &ManualClock{}
	s := NewScheduler(clock)

	var task *Task
	count := 0
	task = s.Schedule("self-cancel", 0, func() (time.Duration, bool) {
		count++
		task.Cancel()
		return 0, false
	})

	clock.Advance(time.Second)
	s.Update()
	s.Update()

	if count != 1 {
		t.Errorf("Expected exactly 1 step, got %d", count)
	}
	if task.Alive() {
		t.Error("Expected cancelled task to be dead")
	}
}

// TestScheduler_CancelBeforeDeadline 测试取消后的任务永不执行
func TestScheduler_CancelBeforeDeadline(t *testing.T) {
	clock := &ManualClock{}
	s := NewScheduler(clock)

	ran := false
	task := s.Schedule("never", 5*time.Millisecond, func() (time.Duration, bool) {
		ran = true
		return 0, true
	})
	task.Cancel()
	task.Cancel()

	clock.Advance(time.Second)
	s.Update()

	if ran {
		t.Error("Expected cancelled task not to run")
	}
}

// TestScheduler_ScheduleDuringUpdate 测试步内新建的到期任务在同一帧执行
func TestScheduler_ScheduleDuringUpdate(t *testing.T) {
	clock := &ManualClock{}
	s := NewScheduler(clock)

	childRan := false
	s.Schedule("parent", 0, func() (time.Duration, bool) {
		s.Schedule("child", 0, func() (time.Duration, bool) {
			childRan = true
			return 0, true
		})
		return 0, true
	})

	s.Update()

	if !childRan {
		t.Error("Expected child task to run in the same update")
	}
}

// TestScheduler_PauseResume 测试暂停保留剩余时间
func TestScheduler_PauseResume(t *testing.T) {
	clock := &ManualClock{}
	s := NewScheduler(clock)

	ran := false
	task := s.Schedule("paused", 100*time.Millisecond, func() (time.Duration, bool) {
		ran = true
		return 0, true
	})

	clock.Advance(40 * time.Millisecond)
	s.Pause(task)
	if !task.Paused() {
		t.Fatal("Expected task paused")
	}

	clock.Advance(time.Second)
	s.Update()
	if ran {
		t.Fatal("Expected paused task not to run")
	}

	s.Resume(task)
	clock.Advance(59 * time.Millisecond)
	s.Update()
	if ran {
		t.Fatal("Expected task to wait the remaining 60ms")
	}

	clock.Advance(1 * time.Millisecond)
	s.Update()
	if !ran {
		t.Error("Expected task to run after remaining time elapsed")
	}
}

// TestScheduler_CancelAll 测试取消所有任务
func TestScheduler_CancelAll(t *testing.T) {
	clock := &ManualClock{}
	s := NewScheduler(clock)

	runs := 0
	for i := 0; i < 3; i++ {
		s.Schedule("t", 0, func() (time.Duration, bool) {
			runs++
			return 0, true
		})
	}

	s.CancelAll()
	s.Update()

	if runs != 0 {
		t.Errorf("Expected no runs after CancelAll, got %d", runs)
	}
	if s.Len() != 0 {
		t.Errorf("Expected 0 live tasks, got %d", s.Len())
	}
}

// TestTask_NilSafe 测试 nil 任务句柄的方法不会 panic
func TestTask_NilSafe(t *testing.T) {
	var task *Task
	task.Cancel()
	if task.Alive() || task.Paused() || task.Name() != "" {
		t.Error("Expected nil task to be dead")
	}
}
