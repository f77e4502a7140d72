package dialog

// EventType 对话事件类型
type EventType int

const (
	// EventStarted 对话开始
	EventStarted EventType = iota
	// EventEnded 对话结束
	EventEnded
	// EventLineChanged 切换到新的一行（包括第一行和循环回到第一行）
	EventLineChanged
)

// String 返回事件类型的字符串表示
func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "Started"
	case EventEnded:
		return "Ended"
	case EventLineChanged:
		return "LineChanged"
	default:
		return "Unknown"
	}
}

// EndReason 对话结束原因
// 只用于日志与统计，不影响状态机
type EndReason int

const (
	// EndNone 对话未结束
	EndNone EndReason = iota
	// EndCompleted 非循环序列播放完毕
	EndCompleted
	// EndSkipped 玩家跳过
	EndSkipped
	// EndStopped 外部调用 EndDialog
	EndStopped
)

// String 返回结束原因的字符串表示
func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "None"
	case EndCompleted:
		return "Completed"
	case EndSkipped:
		return "Skipped"
	case EndStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Event 管理器发出的事件
type Event struct {
	Type       EventType
	SessionID  string    // 会话ID，同一次对话的所有事件相同
	SequenceID string    // 序列ID
	Line       *Line     // EventLineChanged 时为当前行，其他事件为 nil
	LineIndex  int       // 当前行索引（从 0 开始）
	Reason     EndReason // EventEnded 时的结束原因
}

// Handler 事件处理函数
type Handler func(Event)

// SubscriptionID 订阅句柄，用于取消订阅
type SubscriptionID int

type subscriber struct {
	id      SubscriptionID
	handler Handler
}

// observers 有序的订阅者列表
// 事件按订阅顺序同步分发
type observers struct {
	nextID SubscriptionID
	list   []subscriber
}

func (o *observers) add(h Handler) SubscriptionID {
	o.nextID++
	o.list = append(o.list, subscriber{id: o.nextID, handler: h})
	return o.nextID
}

func (o *observers) remove(id SubscriptionID) bool {
	for i, sub := range o.list {
		if sub.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return true
		}
	}
	return false
}

// emit 分发事件
// 分发前复制列表，处理函数内部增删订阅不影响本次分发
func (o *observers) emit(e Event) {
	if len(o.list) == 0 {
		return
	}
	snapshot := make([]subscriber, len(o.list))
	copy(snapshot, o.list)
	for _, sub := range snapshot {
		sub.handler(e)
	}
}
