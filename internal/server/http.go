package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	wsWriteWait      = 1 * time.Second
	wsMaxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SessionResponse POST /session 的响应
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Handler HTTP 路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /session", s.handleSession)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// handleRoot 检查数据库并返回检查表内容
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	probes, err := s.db.Check(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("数据库检查失败")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	body, err := json.Marshal(probes)
	if err != nil {
		s.log.Error().Err(err).Msg("序列化检查结果失败")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("Server is Running!, TEST: " + string(body)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleSession 签发会话 Token，name 取自表单
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	token, expires, err := s.tokens.GenerateSessionToken(s.nextID.Add(1), name)
	if err != nil {
		s.log.Error().Err(err).Msg("签发 Token 失败")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SessionResponse{Token: token, ExpiresAt: expires})
}

// handleWebSocket 校验 Token 后升级为 WebSocket，按限速回显每条消息
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	claims, err := s.tokens.VerifySessionToken(r.URL.Query().Get("token"))
	if err != nil {
		s.log.Info().Err(err).Msg("拒绝 WebSocket 连接")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("WebSocket 升级失败")
		return
	}
	defer conn.Close()

	log := s.log.With().Uint64("session", claims.SessionID).Logger()
	log.Info().Msg("WebSocket 已连接")
	s.metrics.connOpened("ws")
	defer s.metrics.connClosed("ws")

	conn.SetReadLimit(wsMaxMessageSize)
	limiter := rate.NewLimiter(rate.Limit(s.cfg.HTTP.RateLimit), s.cfg.HTTP.Burst)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("WebSocket 读取失败")
			}
			break
		}
		if !limiter.Allow() {
			log.Debug().Msg("超出限速，丢弃消息")
			s.metrics.dropped()
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(msgType, data); err != nil {
			log.Warn().Err(err).Msg("WebSocket 写入失败")
			break
		}
		s.metrics.echoed()
	}
	log.Info().Msg("WebSocket 已断开")
}
