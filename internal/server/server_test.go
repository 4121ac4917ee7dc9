package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"bombarena/internal/config"
	"bombarena/internal/database"
	"bombarena/pkg/protocol"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	probes []database.Probe
	err    error
}

func (f fakeChecker) Check(context.Context) ([]database.Probe, error) {
	return f.probes, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP:      config.HTTPConfig{Port: 3000, RateLimit: 100, Burst: 100},
		Transport: config.TransportConfig{Proto: "tcp", Addr: "127.0.0.1:0"},
		JWT:       config.JWTConfig{Secret: "test-secret", TTL: time.Minute},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, db HealthChecker) *Server {
	t.Helper()
	s := New(cfg, db, zerolog.Nop())
	s.httpAddr = "127.0.0.1:0"
	return s
}

// ========== codec ==========

func TestDecodePacket(t *testing.T) {
	encode := func(pkt *protocol.Packet) []byte {
		data, err := protocol.MarshalPacket(pkt)
		require.NoError(t, err)
		return data
	}

	ev, err := DecodePacket(encode(protocol.NewPingPacket(12)))
	require.NoError(t, err)
	assert.Equal(t, EventPing, ev.Kind)
	assert.Equal(t, int64(12), ev.Ping.ClientTime)

	ev, err = DecodePacket(encode(protocol.NewPongPacket(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, EventPong, ev.Kind)
	assert.Equal(t, int64(2), ev.Pong.ServerTime)

	ev, err = DecodePacket(encode(protocol.NewEchoPacket([]byte("hi"))))
	require.NoError(t, err)
	assert.Equal(t, EventEcho, ev.Kind)
	assert.Equal(t, []byte("hi"), ev.Echo.Data)

	ev, err = DecodePacket(encode(&protocol.Packet{Type: protocol.MessageBlastSnapshot}))
	require.NoError(t, err)
	assert.Equal(t, EventUnknown, ev.Kind)

	_, err = DecodePacket([]byte{0xff, 0xff})
	assert.Error(t, err)
}

// ========== connection ==========

func startPipeConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	c := NewConnection(serverSide, 1, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go c.Handle(ctx, &wg)

	t.Cleanup(func() {
		cancel()
		_ = clientSide.Close()
		wg.Wait()
	})
	return c, clientSide
}

func TestConnection_PingAndEcho(t *testing.T) {
	_, client := startPipeConnection(t)

	require.NoError(t, protocol.WritePacket(client, protocol.NewPingPacket(1234)))
	pkt, err := protocol.ReadPacket(client)
	require.NoError(t, err)
	pong, err := protocol.ParsePong(pkt)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), pong.ClientTime)
	assert.Greater(t, pong.ServerTime, int64(0))

	require.NoError(t, protocol.WritePacket(client, protocol.NewEchoPacket([]byte("hello"))))
	pkt, err = protocol.ReadPacket(client)
	require.NoError(t, err)
	echo, err := protocol.ParseEcho(pkt)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), echo.Data)
}

func TestConnection_EmptyFrameIgnored(t *testing.T) {
	_, client := startPipeConnection(t)

	require.NoError(t, protocol.WriteFrame(client, nil))
	require.NoError(t, protocol.WritePacket(client, protocol.NewEchoPacket([]byte("after"))))

	pkt, err := protocol.ReadPacket(client)
	require.NoError(t, err)
	echo, err := protocol.ParseEcho(pkt)
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), echo.Data)
}

func TestConnection_IdleTimeoutCloses(t *testing.T) {
	serverSide, client := net.Pipe()
	defer client.Close()

	c := NewConnection(serverSide, 2, zerolog.Nop())
	c.heartbeat = 10 * time.Millisecond
	c.idleTimeout = 50 * time.Millisecond

	var wg sync.WaitGroup
	wg.Add(1)
	go c.Handle(context.Background(), &wg)

	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("空闲连接没有被关闭")
	}
	wg.Wait()

	assert.ErrorIs(t, c.Send([]byte("x")), ErrConnectionClosed)
}

func TestConnection_SendQueueFull(t *testing.T) {
	serverSide, client := net.Pipe()
	defer client.Close()
	c := NewConnection(serverSide, 3, zerolog.Nop())

	// 未启动发送循环，队列只进不出
	for i := 0; i < sendQueueSize; i++ {
		require.NoError(t, c.Send([]byte{1}))
	}
	assert.ErrorIs(t, c.Send([]byte{1}), ErrSendQueueFull)

	c.Close()
	c.Close()
	assert.ErrorIs(t, c.Send([]byte{1}), ErrConnectionClosed)
}

func TestConnection_PongUpdatesRTT(t *testing.T) {
	serverSide, client := net.Pipe()
	defer client.Close()
	c := NewConnection(serverSide, 4, zerolog.Nop())
	defer c.Close()

	c.handlePong(&PongEvent{ClientTime: time.Now().Add(-30 * time.Millisecond).UnixMilli()})
	assert.GreaterOrEqual(t, c.RTT(), 30*time.Millisecond)

	c.handlePong(&PongEvent{ClientTime: 0})
	assert.GreaterOrEqual(t, c.RTT(), 30*time.Millisecond)
}

// ========== jwt ==========

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)

	token, expires, err := issuer.GenerateSessionToken(7, "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expires, 2*time.Second)

	claims, err := issuer.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.SessionID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "session-7", claims.Subject)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	token, _, err := issuer.GenerateSessionToken(1, "")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Minute).VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifySessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := issuer.GenerateSessionToken(2, "")
	require.NoError(t, err)
	issuer.now = time.Now
	_, err = issuer.VerifySessionToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ========== http ==========

func TestHTTP_RootReportsProbes(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newTestServer(t, testConfig(), fakeChecker{probes: []database.Probe{{ID: 1, Name: "bombarena", CreatedAt: created}}})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `Server is Running!, TEST: [{"_id":1,"name":"bombarena","createdAt":"2024-01-02T03:04:05Z"}]`, string(body))
}

func TestHTTP_RootDatabaseError(t *testing.T) {
	s := newTestServer(t, testConfig(), fakeChecker{err: errors.New("down")})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server error", strings.TrimSpace(string(body)))
}

func TestHTTP_HealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t, testConfig(), fakeChecker{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func issueToken(t *testing.T, baseURL string) string {
	t.Helper()
	resp, err := http.PostForm(baseURL+"/session", url.Values{"name": {"tester"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out SessionResponse
	require.NoError(t, jsonDecode(resp.Body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func wsURL(baseURL, token string) string {
	return "ws" + strings.TrimPrefix(baseURL, "http") + "/ws?token=" + url.QueryEscape(token)
}

func TestHTTP_SessionTokenVerifies(t *testing.T) {
	s := newTestServer(t, testConfig(), fakeChecker{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	claims, err := s.tokens.VerifySessionToken(issueToken(t, ts.URL))
	require.NoError(t, err)
	assert.Equal(t, "tester", claims.Name)
}

func TestWebSocket_Echo(t *testing.T) {
	s := newTestServer(t, testConfig(), fakeChecker{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, issueToken(t, ts.URL)), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("boom")))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	assert.Equal(t, "boom", string(data))
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	s := newTestServer(t, testConfig(), fakeChecker{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "bad"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocket_RateLimitDropsMessages(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = 0.001
	cfg.HTTP.Burst = 1
	s := newTestServer(t, cfg, fakeChecker{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, issueToken(t, ts.URL)), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("first")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("second")))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

// ========== server ==========

func TestServer_StartServeShutdown(t *testing.T) {
	s := newTestServer(t, testConfig(), fakeChecker{})
	require.NoError(t, s.Start())

	conn, err := net.Dial("tcp", s.TransportAddr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, protocol.WritePacket(conn, protocol.NewEchoPacket([]byte("tcp"))))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	pkt, err := protocol.ReadPacket(conn)
	require.NoError(t, err)
	echo, err := protocol.ParseEcho(pkt)
	require.NoError(t, err)
	assert.Equal(t, []byte("tcp"), echo.Data)

	resp, err := http.Get("http://" + s.HTTPAddr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	_, err = protocol.ReadPacket(conn)
	assert.Error(t, err)
}

func TestServer_UnknownProto(t *testing.T) {
	cfg := testConfig()
	cfg.Transport.Proto = "sctp"
	s := newTestServer(t, cfg, fakeChecker{})
	assert.ErrorIs(t, s.Start(), ErrUnknownProto)
}

func jsonDecode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

func TestServerMetrics_NilSafe(t *testing.T) {
	m, err := newServerMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)
	m.connOpened("ws")
	m.packet(EventEcho)
	m.connClosed("ws")

	var none *serverMetrics
	assert.NotPanics(t, func() {
		none.connOpened("transport")
		none.packet(EventPing)
		none.echoed()
		none.dropped()
		none.connClosed("transport")
	})
}

func TestListenTransport_TCPAndKCP(t *testing.T) {
	for _, proto := range []string{"tcp", "kcp"} {
		ln, err := listenTransport(proto, "127.0.0.1:0")
		require.NoError(t, err, proto)
		assert.Equal(t, proto, ln.proto)
		assert.NotNil(t, ln.Addr())
		require.NoError(t, ln.Close())
	}
}
