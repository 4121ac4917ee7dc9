package server

type EventKind int

const (
	EventUnknown EventKind = iota
	EventPing
	EventPong
	EventEcho
)

func (k EventKind) String() string {
	switch k {
	case EventPing:
		return "ping"
	case EventPong:
		return "pong"
	case EventEcho:
		return "echo"
	}
	return "unknown"
}

type PingEvent struct {
	ClientTime int64
}

type PongEvent struct {
	ClientTime int64
	ServerTime int64
}

type EchoEvent struct {
	Data []byte
}

// ServerEvent 传输层收到的一条消息
type ServerEvent struct {
	Kind EventKind
	Ping *PingEvent
	Pong *PongEvent
	Echo *EchoEvent
}
