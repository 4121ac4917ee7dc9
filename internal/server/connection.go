package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"bombarena/pkg/protocol"

	"github.com/rs/zerolog"
)

const (
	writeTimeout      = 1 * time.Second // 写入超时
	sendQueueSize     = 256             // 发送队列缓冲区
	heartbeatInterval = 5 * time.Second
	heartbeatTimeout  = 15 * time.Second
)

var (
	ErrSendQueueFull    = errors.New("发送队列满")
	ErrConnectionClosed = errors.New("连接已关闭")
)

// Connection 一个传输层客户端连接：Ping 回 Pong，Echo 原样返回
type Connection struct {
	conn    net.Conn
	id      uint64
	log     zerolog.Logger
	metrics *serverMetrics

	heartbeat   time.Duration
	idleTimeout time.Duration

	// 发送队列
	sendChan chan []byte
	closeCh  chan struct{}
	closed   bool
	closeMu  sync.Mutex

	lastRecvTime atomic.Value
	rtt          atomic.Int64
}

// NewConnection 创建新连接
func NewConnection(conn net.Conn, id uint64, log zerolog.Logger) *Connection {
	c := &Connection{
		conn:        conn,
		id:          id,
		log:         log.With().Uint64("conn", id).Str("remote", conn.RemoteAddr().String()).Logger(),
		heartbeat:   heartbeatInterval,
		idleTimeout: heartbeatTimeout,
		sendChan:    make(chan []byte, sendQueueSize),
		closeCh:     make(chan struct{}),
	}
	c.lastRecvTime.Store(time.Now())
	return c
}

// Handle 处理连接，直到上下文取消或连接关闭
func (c *Connection) Handle(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	c.log.Debug().Msg("连接处理开始")
	c.metrics.connOpened("transport")
	defer c.metrics.connClosed("transport")

	wg.Add(3)
	go c.startHeartbeat(ctx, wg)
	go c.sendLoop(wg)
	go c.receiveLoop(wg)

	select {
	case <-ctx.Done():
	case <-c.closeCh:
	}

	c.Close()
}

// Done 连接关闭后可读
func (c *Connection) Done() <-chan struct{} {
	return c.closeCh
}

// RTT 最近一次心跳往返时间
func (c *Connection) RTT() time.Duration {
	return time.Duration(c.rtt.Load()) * time.Millisecond
}

// Close 关闭连接，可重复调用
func (c *Connection) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.closeCh)
	_ = c.conn.Close()
	close(c.sendChan)

	c.log.Info().Msg("连接已关闭")
}

// Send 发送数据（异步）
func (c *Connection) Send(data []byte) error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendChan <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// SendPacket 序列化后发送
func (c *Connection) SendPacket(pkt *protocol.Packet) error {
	data, err := protocol.MarshalPacket(pkt)
	if err != nil {
		return err
	}
	return c.Send(data)
}

// sendLoop 发送循环；sendChan 在 Close 时关闭
func (c *Connection) sendLoop(wg *sync.WaitGroup) {
	defer wg.Done()

	for data := range c.sendChan {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := protocol.WriteFrame(c.conn, data); err != nil {
			c.log.Warn().Err(err).Msg("发送数据失败")
			go c.Close()
			return
		}
	}
}

// receiveLoop 接收循环
func (c *Connection) receiveLoop(wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
		data, err := protocol.ReadFrame(c.conn)
		if err != nil {
			var netErr net.Error
			switch {
			case errors.As(err, &netErr) && netErr.Timeout():
				c.log.Info().Msg("读取超时")
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
			default:
				c.log.Warn().Err(err).Msg("读取数据失败")
			}
			c.Close()
			return
		}

		c.onMessageReceived()
		if len(data) == 0 {
			continue
		}
		if err := c.handleMessage(data); err != nil {
			c.log.Warn().Err(err).Msg("处理消息失败")
		}
	}
}

// handleMessage 处理接收到的消息
func (c *Connection) handleMessage(data []byte) error {
	event, err := DecodePacket(data)
	if err != nil {
		return fmt.Errorf("反序列化失败: %w", err)
	}
	c.metrics.packet(event.Kind)

	switch event.Kind {
	case EventPing:
		return c.SendPacket(protocol.NewPongPacket(event.Ping.ClientTime, time.Now().UnixMilli()))
	case EventPong:
		c.handlePong(event.Pong)
	case EventEcho:
		return c.SendPacket(protocol.NewEchoPacket(event.Echo.Data))
	default:
		return protocol.ErrUnknownMessage
	}
	return nil
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection{%d, %s}", c.id, c.conn.RemoteAddr())
}

func (c *Connection) startHeartbeat(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeCh:
			return
		case <-ticker.C:
			lastRecv, _ := c.lastRecvTime.Load().(time.Time)
			if time.Since(lastRecv) > c.idleTimeout {
				c.log.Info().Msg("心跳超时")
				c.Close()
				return
			}
			if err := c.SendPacket(protocol.NewPingPacket(time.Now().UnixMilli())); err != nil {
				c.log.Debug().Err(err).Msg("发送心跳失败")
			}
		}
	}
}

func (c *Connection) handlePong(pong *PongEvent) {
	if pong == nil || pong.ClientTime <= 0 {
		return
	}
	c.rtt.Store(time.Now().UnixMilli() - pong.ClientTime)
}

func (c *Connection) onMessageReceived() {
	c.lastRecvTime.Store(time.Now())
}
