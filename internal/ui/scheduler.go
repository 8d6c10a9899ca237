package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/wedsite/internal/schedule"
)

// taskMsg fires a scheduled task on the program's event loop.
type taskMsg struct {
	id uint64
}

// teaScheduler turns delayed tasks into tea.Tick commands, so callbacks run
// inside Update like every other state change. It must only be used from
// the program goroutine.
type teaScheduler struct {
	next    uint64
	tasks   map[uint64]*teaTask
	enqueue func(tea.Cmd)
}

type teaTask struct {
	s    *teaScheduler
	id   uint64
	fn   func()
	done bool
}

func newTeaScheduler(enqueue func(tea.Cmd)) *teaScheduler {
	return &teaScheduler{tasks: make(map[uint64]*teaTask), enqueue: enqueue}
}

func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) schedule.Task {
	s.next++
	t := &teaTask{s: s, id: s.next, fn: fn}
	s.tasks[t.id] = t
	id := t.id
	s.enqueue(tea.Tick(d, func(time.Time) tea.Msg { return taskMsg{id: id} }))
	return t
}

// fire runs the task unless it was stopped. The tick of a stopped task
// still arrives and is dropped here.
func (s *teaScheduler) fire(id uint64) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	t.done = true
	t.fn()
	return true
}

func (t *teaTask) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	delete(t.s.tasks, t.id)
	return true
}
