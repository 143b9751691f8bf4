package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if srv.db != nil {
			srv.db.Close()
		}
	})
	return srv
}

func send(srv *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func TestNewServerWiresCommands(t *testing.T) {
	srv := newTestServer(t, &Config{
		BindAddr:  "127.0.0.1",
		Port:      8080,
		Username:  "bot",
		IconEmoji: ":robot_face:",
		DBPath:    filepath.Join(t.TempDir(), "slackbot.db"),
		StaticCommands: []StaticCommandConfig{
			{Command: "hi", Text: "Hello!", IconEmoji: ":wave:"},
		},
	})

	assert.Equal(t, "127.0.0.1:8080", srv.httpServer.Addr)
	assert.Nil(t, srv.mqttClient)
	assert.Equal(t, []string{"echo", "help", "hi", "note", "ping", "status", "time"}, srv.bot.Registry().Names())

	w := send(srv, "text=hi&channel_name=general&timestamp=1700000000.0&user_name=bob")
	assert.JSONEq(t, `{"text":"Hello!","icon_emoji":":wave:","username":"bot"}`, w.Body.String())

	w = send(srv, "text=note+set+wifi+guest&channel_name=general&timestamp=1700000000.0&user_name=bob")
	assert.JSONEq(t, `{"text":"Saved note wifi","icon_emoji":":robot_face:","username":"bot"}`, w.Body.String())

	w = send(srv, "text=note+get+wifi&channel_name=general&timestamp=1700000000.0&user_name=bob")
	assert.JSONEq(t, `{"text":"wifi: guest (by bob)","icon_emoji":":robot_face:","username":"bot"}`, w.Body.String())
}

func TestNewServerWithoutDatabase(t *testing.T) {
	srv := newTestServer(t, &Config{BindAddr: "127.0.0.1", Port: 8080})

	assert.Nil(t, srv.db)
	_, ok := srv.bot.Registry().Lookup("note")
	assert.False(t, ok)
}

func TestNewServerWithMQTT(t *testing.T) {
	srv := newTestServer(t, &Config{
		BindAddr:          "127.0.0.1",
		Port:              8080,
		MQTTBroker:        "tcp://localhost:1883",
		MQTTCommandTopic:  "slackbot/command",
		MQTTResponseTopic: "slackbot/response",
	})

	assert.NotNil(t, srv.mqttClient)
}

func TestNewServerInvalidConfig(t *testing.T) {
	_, err := NewServer(&Config{Port: 0}, zap.NewNop())
	assert.Error(t, err)
}

// freePort 返回一个当前空闲的本地端口
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func unreachableMQTTConfig(t *testing.T) *Config {
	return &Config{
		BindAddr:          "127.0.0.1",
		Port:              freePort(t),
		DBPath:            filepath.Join(t.TempDir(), "slackbot.db"),
		MQTTBroker:        "tcp://127.0.0.1:1",
		MQTTCommandTopic:  "slackbot/command",
		MQTTResponseTopic: "slackbot/response",
	}
}

func TestStartReturnsWhenMQTTFails(t *testing.T) {
	srv := newTestServer(t, unreachableMQTTConfig(t))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(context.Background())
	}()

	select {
	case err := <-errChan:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MQTT client error")
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after MQTT connect failure")
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	srv := newTestServer(t, &Config{BindAddr: "127.0.0.1", Port: freePort(t)})

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Start did not return after context cancel")
	}
}

func TestRunUntilShutsDownOnComponentError(t *testing.T) {
	srv := newTestServer(t, unreachableMQTTConfig(t))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.runUntil(make(chan os.Signal))
	}()

	select {
	case err := <-errChan:
		require.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runUntil did not return after MQTT connect failure")
	}

	// 数据库已关闭
	assert.Error(t, srv.db.View(func(tx *bbolt.Tx) error { return nil }))
}

func TestRunUntilShutsDownOnSignal(t *testing.T) {
	srv := newTestServer(t, &Config{
		BindAddr: "127.0.0.1",
		Port:     freePort(t),
		DBPath:   filepath.Join(t.TempDir(), "slackbot.db"),
	})

	sigChan := make(chan os.Signal, 1)
	sigChan <- os.Interrupt

	require.NoError(t, srv.runUntil(sigChan))
	assert.Error(t, srv.db.View(func(tx *bbolt.Tx) error { return nil }))
}
