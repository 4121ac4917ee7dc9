package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageType 消息类型
type MessageType int32

const (
	MessageUnspecified MessageType = iota
	MessagePing
	MessagePong
	MessageEcho
	MessagePlayerSnapshot
	MessageBlastSnapshot
)

func (t MessageType) String() string {
	switch t {
	case MessagePing:
		return "ping"
	case MessagePong:
		return "pong"
	case MessageEcho:
		return "echo"
	case MessagePlayerSnapshot:
		return "player-snapshot"
	case MessageBlastSnapshot:
		return "blast-snapshot"
	}
	return fmt.Sprintf("message(%d)", int32(t))
}

// Packet 外层消息：type=1 varint, payload=2 bytes
type Packet struct {
	Type    MessageType
	Payload []byte
}

// Ping 心跳
type Ping struct {
	ClientTime int64
}

// Pong 心跳响应
type Pong struct {
	ClientTime int64
	ServerTime int64
}

// Echo 原样返回的数据
type Echo struct {
	Data []byte
}

// ========== 序列化与反序列化 ==========

// MarshalPacket 将 Packet 对象转换为字节切片
func MarshalPacket(pkt *Packet) ([]byte, error) {
	if pkt == nil || pkt.Type == MessageUnspecified {
		return nil, ErrUnknownMessage
	}
	b := appendVarint(nil, 1, uint64(pkt.Type))
	return appendBytes(b, 2, pkt.Payload), nil
}

// UnmarshalPacket 将字节切片转换为 Packet 对象
func UnmarshalPacket(data []byte) (*Packet, error) {
	pkt := &Packet{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			var v uint64
			n := consumeVarint(typ, b, &v)
			pkt.Type = MessageType(v)
			return n
		case 2:
			return consumeBytes(typ, b, &pkt.Payload)
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	if pkt.Type == MessageUnspecified {
		return nil, fmt.Errorf("%w: 缺少类型", ErrMalformed)
	}
	return pkt, nil
}

func expect(pkt *Packet, want MessageType) error {
	if pkt == nil || pkt.Type != want {
		return fmt.Errorf("%w: 需要 %s", ErrUnexpectedType, want)
	}
	return nil
}

// ========== 辅助构造方法 ==========

// NewPingPacket 构造心跳消息包
func NewPingPacket(clientTime int64) *Packet {
	return &Packet{Type: MessagePing, Payload: appendSint(nil, 1, clientTime)}
}

// NewPongPacket 构造心跳响应消息包
func NewPongPacket(clientTime, serverTime int64) *Packet {
	b := appendSint(nil, 1, clientTime)
	b = appendSint(b, 2, serverTime)
	return &Packet{Type: MessagePong, Payload: b}
}

// NewEchoPacket 构造回显消息包
func NewEchoPacket(data []byte) *Packet {
	return &Packet{Type: MessageEcho, Payload: appendBytes(nil, 1, data)}
}

// ========== 消息解析辅助 ==========

func consumeSint64(typ protowire.Type, b []byte, dst *int64) int {
	var raw uint64
	n := consumeVarint(typ, b, &raw)
	if n > 0 {
		*dst = protowire.DecodeZigZag(raw)
	}
	return n
}

// ParsePing 从 Packet 中解析 Ping
func ParsePing(pkt *Packet) (*Ping, error) {
	if err := expect(pkt, MessagePing); err != nil {
		return nil, err
	}
	ping := &Ping{}
	err := walkFields(pkt.Payload, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeSint64(typ, b, &ping.ClientTime)
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return ping, nil
}

// ParsePong 从 Packet 中解析 Pong
func ParsePong(pkt *Packet) (*Pong, error) {
	if err := expect(pkt, MessagePong); err != nil {
		return nil, err
	}
	pong := &Pong{}
	err := walkFields(pkt.Payload, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeSint64(typ, b, &pong.ClientTime)
		case 2:
			return consumeSint64(typ, b, &pong.ServerTime)
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return pong, nil
}

// ParseEcho 从 Packet 中解析 Echo
func ParseEcho(pkt *Packet) (*Echo, error) {
	if err := expect(pkt, MessageEcho); err != nil {
		return nil, err
	}
	echo := &Echo{}
	err := walkFields(pkt.Payload, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeBytes(typ, b, &echo.Data)
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return echo, nil
}
