package protocal

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang-logserver/configs"
	httpAdapter "golang-logserver/internal/adapters/input/http"
	"golang-logserver/internal/adapters/input/tcp"
	"golang-logserver/internal/application"
	"golang-logserver/internal/ports/output"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// Server struct - everything one running log server owns
type Server struct {
	cfg      *configs.Config
	pool     *application.WorkerPool
	listener *tcp.Listener
	admin    *fiber.App
	adminLn  net.Listener
}

// NewServer func - Wires session service, worker pool, listener and admin API around store
func NewServer(cfg *configs.Config, store output.LogStore) *Server {
	// Application service (use case)
	sessions := application.NewSessionService(store,
		application.WithGreeting(cfg.Server.Greeting),
		application.WithReadTimeout(cfg.Server.ReadTimeout),
	)
	// Dispatcher
	pool := application.NewWorkerPool(cfg.Server.PoolSize, cfg.Server.QueueSize, sessions)
	// Input adapter (TCP listener)
	listener := tcp.NewListener(pool)

	srv := &Server{
		cfg:      cfg,
		pool:     pool,
		listener: listener,
	}
	if cfg.Admin.Enabled {
		srv.admin = newAdminApp(httpAdapter.New(store, pool))
	}
	return srv
}

func newAdminApp(hdl *httpAdapter.HTTPHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))
	app.Get("/swagger/*", swagger.HandlerDefault) // default
	hdl.Routes(app)
	return app
}

// Start binds the TCP port and, when enabled, the admin port
func (s *Server) Start() error {
	if err := s.listener.Start(s.cfg.App.Port); err != nil {
		return err
	}
	if s.admin == nil {
		return nil
	}

	ln, err := net.Listen("tcp", ":"+s.cfg.Admin.Port)
	if err != nil {
		if stopErr := s.listener.Stop(context.Background()); stopErr != nil {
			logrus.Println("Error when shutdown server: ", stopErr)
		}
		return err
	}
	s.adminLn = ln
	go func() {
		if err := s.admin.Listener(ln); err != nil {
			logrus.Errorf("Admin API stopped: %v", err)
		}
	}()
	logrus.Println("Admin API listening on: ", ln.Addr())
	return nil
}

// Addr returns the TCP service address
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// AdminAddr returns the admin API address, nil when disabled
func (s *Server) AdminAddr() net.Addr {
	if s.adminLn == nil {
		return nil
	}
	return s.adminLn.Addr()
}

// Stop halts the accept loop, drains the worker pool and stops the admin API
func (s *Server) Stop(ctx context.Context) error {
	err := s.listener.Stop(ctx)
	if s.admin != nil {
		if shutdownErr := s.admin.ShutdownWithContext(ctx); shutdownErr != nil {
			logrus.Println("Error when shutdown server: ", shutdownErr)
			err = errors.Join(err, shutdownErr)
		}
	}
	return err
}

// ServeTCP func
func ServeTCP() error {
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	conf := configs.GetViper()
	if err := conf.Validate(); err != nil {
		return err
	}
	if conf.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Info(conf.Env)

	store, release, err := OpenLogStore(conf)
	if err != nil {
		return err
	}
	defer release()

	srv := NewServer(conf, store)
	if err := srv.Start(); err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logrus.Println("Gracefull shut down ...")

	ctx := context.Background()
	if conf.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()
	}
	return srv.Stop(ctx)
}
