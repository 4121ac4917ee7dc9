package server

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "bombarena/internal/server"

// serverMetrics 使用全局 MeterProvider，未配置时为 no-op
type serverMetrics struct {
	connections metric.Int64UpDownCounter
	packets     metric.Int64Counter
	wsEchoed    metric.Int64Counter
	wsDropped   metric.Int64Counter
}

func newServerMetrics() (*serverMetrics, error) {
	m := otel.Meter(instrumentationName)
	sm := &serverMetrics{}

	var err error
	sm.connections, err = m.Int64UpDownCounter(
		"server.connections.active",
		metric.WithDescription("当前连接数"),
	)
	if err != nil {
		return nil, fmt.Errorf("创建连接数指标失败: %w", err)
	}

	sm.packets, err = m.Int64Counter(
		"server.transport.packets",
		metric.WithDescription("传输层收到的消息数"),
	)
	if err != nil {
		return nil, fmt.Errorf("创建消息数指标失败: %w", err)
	}

	sm.wsEchoed, err = m.Int64Counter(
		"server.ws.messages.echoed",
		metric.WithDescription("WebSocket 回显的消息数"),
	)
	if err != nil {
		return nil, fmt.Errorf("创建回显指标失败: %w", err)
	}

	sm.wsDropped, err = m.Int64Counter(
		"server.ws.messages.dropped",
		metric.WithDescription("超出限速被丢弃的 WebSocket 消息数"),
	)
	if err != nil {
		return nil, fmt.Errorf("创建丢弃指标失败: %w", err)
	}
	return sm, nil
}

func (m *serverMetrics) connOpened(kind string) {
	if m == nil {
		return
	}
	m.connections.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *serverMetrics) connClosed(kind string) {
	if m == nil {
		return
	}
	m.connections.Add(context.Background(), -1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *serverMetrics) packet(kind EventKind) {
	if m == nil {
		return
	}
	m.packets.Add(context.Background(), 1, metric.WithAttributes(attribute.String("type", kind.String())))
}

func (m *serverMetrics) echoed() {
	if m == nil {
		return
	}
	m.wsEchoed.Add(context.Background(), 1)
}

func (m *serverMetrics) dropped() {
	if m == nil {
		return
	}
	m.wsDropped.Add(context.Background(), 1)
}
