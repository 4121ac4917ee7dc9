package server

import (
	"errors"
	"fmt"
	"net"

	kcp "github.com/xtaci/kcp-go/v5"
)

var ErrUnknownProto = errors.New("不支持的传输协议")

// KCP 会话参数：nodelay 模式、10ms 内部时钟、快速重传、关闭拥塞控制
const (
	kcpNoDelay      = 1
	kcpInterval     = 10
	kcpResend       = 2
	kcpNoCongestion = 1
	kcpWindow       = 128
)

// transportListener 包装底层监听器，accept 后按协议调整连接参数
type transportListener struct {
	net.Listener
	proto string
	tune  func(net.Conn)
}

// listenTransport 按协议名打开帧传输监听
func listenTransport(proto, addr string) (*transportListener, error) {
	var (
		ln   net.Listener
		tune func(net.Conn)
		err  error
	)
	switch proto {
	case "tcp":
		ln, err = net.Listen("tcp", addr)
		tune = tuneTCP
	case "kcp":
		// 长度前缀负责消息边界，不开 stream mode
		ln, err = kcp.ListenWithOptions(addr, nil, 0, 0)
		tune = tuneKCP
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProto, proto)
	}
	if err != nil {
		return nil, fmt.Errorf("%s 监听 %s: %w", proto, addr, err)
	}
	return &transportListener{Listener: ln, proto: proto, tune: tune}, nil
}

func (l *transportListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	l.tune(conn)
	return conn, nil
}

func tuneTCP(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
}

func tuneKCP(conn net.Conn) {
	if sess, ok := conn.(*kcp.UDPSession); ok {
		sess.SetNoDelay(kcpNoDelay, kcpInterval, kcpResend, kcpNoCongestion)
		sess.SetWindowSize(kcpWindow, kcpWindow)
	}
}
