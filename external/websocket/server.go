package websocket

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/foxseedlab/tsuyaku/internal/metrics"
	"github.com/foxseedlab/tsuyaku/internal/pipeline"
	"github.com/foxseedlab/tsuyaku/internal/protocol"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const messageTypeUnknown = "unknown"

// AudioHandler processes one audio envelope and answers on reply.
type AudioHandler interface {
	HandleAudio(ctx context.Context, env protocol.AudioEnvelope, reply pipeline.Replier)
}

type ServerConfig struct {
	Address        string
	Path           string
	MetricsEnabled bool
}

type Server struct {
	app     *fiber.App
	cfg     ServerConfig
	handler AudioHandler
	metrics *metrics.Metrics
}

func NewServer(cfg ServerConfig, handler AudioHandler, m *metrics.Metrics) *Server {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if m == nil {
		m = metrics.New(nil)
	}
	s := &Server{
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
		cfg:     cfg,
		handler: handler,
		metrics: m,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if s.cfg.MetricsEnabled {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}
	s.app.Get(s.cfg.Path, requireUpgrade, fiberws.New(s.handleConn))
}

func requireUpgrade(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (s *Server) Listen() error {
	slog.Info("websocket server listening", "address", s.cfg.Address, "path", s.cfg.Path)
	return s.app.Listen(s.cfg.Address)
}

// Listener serves on an existing listener, used by tests to bind an ephemeral port.
func (s *Server) Listener(ln net.Listener) error {
	slog.Info("websocket server listening", "address", ln.Addr().String(), "path", s.cfg.Path)
	return s.app.Listener(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// connection serializes writes; gorilla-style conns allow one concurrent writer.
type connection struct {
	id string
	ws *fiberws.Conn
	mu sync.Mutex
}

func (c *connection) ID() string {
	return c.id
}

func (c *connection) Reply(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// handleConn must not return while pipelines still hold the connection.
func (s *Server) handleConn(ws *fiberws.Conn) {
	conn := &connection{id: uuid.NewString(), ws: ws}
	log := slog.With("conn_id", conn.id)
	s.metrics.OpenConnections.Inc()
	log.Info("client connected", "remote_addr", ws.RemoteAddr().String())

	var inflight sync.WaitGroup
	defer func() {
		inflight.Wait()
		_ = ws.Close()
		s.metrics.OpenConnections.Dec()
		log.Info("client disconnected")
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if fiberws.IsUnexpectedCloseError(err, fiberws.CloseNormalClosure, fiberws.CloseGoingAway, fiberws.CloseNoStatusReceived) {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}

		msg, err := protocol.Parse(raw)
		if err != nil {
			s.metrics.RecordMessage(messageTypeUnknown)
			log.Warn("ignoring malformed message", "error", err, "bytes", len(raw))
			continue
		}

		switch msg.Type {
		case protocol.TypeAudio:
			s.metrics.RecordMessage(protocol.TypeAudio)
			env := msg.AsAudio()
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				s.handler.HandleAudio(context.Background(), env, conn)
			}()
		default:
			s.metrics.RecordMessage(messageTypeUnknown)
			log.Warn("ignoring message with unknown type", "type", msg.Type)
		}
	}
}
