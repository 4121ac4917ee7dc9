package server

import (
	"fmt"

	"bombarena/pkg/protocol"
)

// DecodePacket 解析服务器收到的数据包；未知类型返回 EventUnknown 而非错误
func DecodePacket(data []byte) (*ServerEvent, error) {
	pkt, err := protocol.UnmarshalPacket(data)
	if err != nil {
		return nil, fmt.Errorf("解析包失败: %w", err)
	}

	switch pkt.Type {
	case protocol.MessagePing:
		ping, err := protocol.ParsePing(pkt)
		if err != nil {
			return nil, err
		}
		return &ServerEvent{
			Kind: EventPing,
			Ping: &PingEvent{ClientTime: ping.ClientTime},
		}, nil

	case protocol.MessagePong:
		pong, err := protocol.ParsePong(pkt)
		if err != nil {
			return nil, err
		}
		return &ServerEvent{
			Kind: EventPong,
			Pong: &PongEvent{ClientTime: pong.ClientTime, ServerTime: pong.ServerTime},
		}, nil

	case protocol.MessageEcho:
		echo, err := protocol.ParseEcho(pkt)
		if err != nil {
			return nil, err
		}
		return &ServerEvent{
			Kind: EventEcho,
			Echo: &EchoEvent{Data: echo.Data},
		}, nil

	default:
		return &ServerEvent{Kind: EventUnknown}, nil
	}
}
