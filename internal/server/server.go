package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"bombarena/internal/config"
	"bombarena/internal/database"

	"github.com/rs/zerolog"
)

// ShutdownTimeout 关闭时等待连接退出的上限
const ShutdownTimeout = 5 * time.Second

// HealthChecker 根路由使用的数据库连通性检查
type HealthChecker interface {
	Check(ctx context.Context) ([]database.Probe, error)
}

// Server 存活/回显服务：HTTP + WebSocket 与 TCP/KCP 传输层
type Server struct {
	cfg     *config.Config
	db      HealthChecker
	tokens  *TokenIssuer
	metrics *serverMetrics
	log     zerolog.Logger

	httpAddr string
	http     *http.Server
	httpLn   net.Listener
	listener *transportListener

	nextID atomic.Uint64

	// 控制
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建服务器，尚未监听
func New(cfg *config.Config, db HealthChecker, log zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		db:       db,
		tokens:   NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
		log:      log,
		httpAddr: fmt.Sprintf(":%d", cfg.HTTP.Port),
		ctx:      ctx,
		cancel:   cancel,
	}
	metrics, err := newServerMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("初始化指标失败，不记录指标")
	}
	s.metrics = metrics
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start 开始监听 HTTP 与传输层端口，不阻塞
func (s *Server) Start() error {
	listener, err := listenTransport(s.cfg.Transport.Proto, s.cfg.Transport.Addr)
	if err != nil {
		return fmt.Errorf("监听失败: %w", err)
	}
	s.listener = listener

	httpLn, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("HTTP 监听失败: %w", err)
	}
	s.httpLn = httpLn

	s.log.Info().
		Str("http", httpLn.Addr().String()).
		Str("proto", listener.proto).
		Str("transport", listener.Addr().String()).
		Msg("服务器监听中")

	s.wg.Add(2)
	go s.acceptLoop()
	go func() {
		defer s.wg.Done()
		if err := s.http.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP 服务异常退出")
		}
	}()
	return nil
}

// HTTPAddr 实际监听的 HTTP 地址
func (s *Server) HTTPAddr() net.Addr {
	if s.httpLn == nil {
		return nil
	}
	return s.httpLn.Addr()
}

// TransportAddr 实际监听的传输层地址
func (s *Server) TransportAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("正在关闭服务器...")

	s.cancel()

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	if s.httpLn != nil {
		if herr := s.http.Shutdown(ctx); herr != nil {
			err = errors.Join(err, herr)
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}

	s.log.Info().Msg("服务器已关闭")
	return err
}

// acceptLoop 接受传输层连接
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				s.log.Debug().Msg("停止接受新连接")
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn().Err(err).Msg("接受连接失败")
			continue
		}

		id := s.nextID.Add(1)
		s.log.Info().Uint64("conn", id).Str("remote", conn.RemoteAddr().String()).Msg("新连接")

		connection := NewConnection(conn, id, s.log)
		connection.metrics = s.metrics
		s.wg.Add(1)
		go connection.Handle(s.ctx, &s.wg)
	}
}
