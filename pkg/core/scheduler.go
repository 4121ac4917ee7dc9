package core

import (
	"time"

	"github.com/zyedidia/generic/heap"
)

// EventKind 延迟事件类型
type EventKind int

const (
	EventFuseExpiry EventKind = iota // 引信到期
	EventOwnerPoll                   // 检查放置者是否离开炸弹格子
	EventVisualStep                  // 视觉序列的下一步
)

func (k EventKind) String() string {
	switch k {
	case EventFuseExpiry:
		return "fuse-expiry"
	case EventOwnerPoll:
		return "owner-poll"
	case EventVisualStep:
		return "visual-step"
	}
	return "unknown"
}

// VisualStep 视觉序列步骤
type VisualStep int

const (
	StepDeathPose VisualStep = iota
	StepDeathRemoval
	StepExplosionCleanup
)

// Event 带标签的延迟事件
type Event struct {
	At      time.Duration // 模拟时钟上的截止时间
	Kind    EventKind
	Step    VisualStep
	Bomb    *Bomb
	Player  *Player
	Handles []EntityHandle

	seq uint64
}

// Scheduler 按截止时间排序的事件队列，同一时间按插入顺序
type Scheduler struct {
	queue *heap.Heap[Event]
	seq   uint64
}

// NewScheduler 创建事件队列
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: heap.New[Event](func(a, b Event) bool {
			if a.At != b.At {
				return a.At < b.At
			}
			return a.seq < b.seq
		}),
	}
}

// Schedule 加入事件
func (s *Scheduler) Schedule(ev Event) {
	s.seq++
	ev.seq = s.seq
	s.queue.Push(ev)
}

// PopDue 取出一个截止时间不晚于 now 的事件
func (s *Scheduler) PopDue(now time.Duration) (Event, bool) {
	next, ok := s.queue.Peek()
	if !ok || next.At > now {
		return Event{}, false
	}
	return s.queue.Pop()
}

// Len 待处理事件数
func (s *Scheduler) Len() int {
	return s.queue.Size()
}
