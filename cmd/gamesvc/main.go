package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/round-services/configs"
	"github.com/avvvet/round-services/internal/comm"
	"github.com/avvvet/round-services/internal/gamesvc/broker"
	gameconfig "github.com/avvvet/round-services/internal/gamesvc/config"
	"github.com/avvvet/round-services/internal/gamesvc/engine"
	handlers "github.com/avvvet/round-services/internal/gamesvc/handlers"
	"github.com/avvvet/round-services/internal/gamesvc/session"
	nats "github.com/avvvet/round-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

// snapshots kept per broadcast subscriber before old ones are dropped
const broadcastBuffer = 16

func init() {
	instanceId := config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg, err := gameconfig.Load()
	if err != nil {
		log.Fatalf("Invalid game configuration: %v", err)
	}

	starting, err := cfg.Balance()
	if err != nil {
		log.Fatalf("Invalid starting balance: %v", err)
	}

	src := engine.NewTimeSeededSource()
	gen, err := engine.NewGenerator(src)
	if err != nil {
		log.Fatalf("Unable to create outcome generator: %v", err)
	}

	crashPool, err := engine.NewBettorPool(cfg.Names, cfg.Crash.Bettors.Engine(), src)
	if err != nil {
		log.Fatalf("Invalid crash bettors: %v", err)
	}
	doublePool, err := engine.NewBettorPool(cfg.Names, cfg.Double.Bettors.Engine(), src)
	if err != nil {
		log.Fatalf("Invalid double bettors: %v", err)
	}

	ledger := engine.NewLedger()

	crash, err := engine.NewCrash(cfg.Crash.Engine(), gen, crashPool, ledger)
	if err != nil {
		log.Fatalf("Unable to open crash round: %v", err)
	}
	double, err := engine.NewDouble(cfg.Double.Engine(), gen, doublePool, ledger)
	if err != nil {
		log.Fatalf("Unable to open double round: %v", err)
	}

	sessions := session.NewStore(starting)

	// Connect to NATS
	n, err := nats.Connect(SERVICE_NAME)
	if err != nil {
		log.Fatalf("Error: unable to connect to NATS server %v", err)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// init peer message broker
	b := broker.NewBroker(n.Conn, sessions, ledger, crash, double)

	// subscribe to socket service
	sub, err := b.SubscribSocketService(comm.TopicSocketService)
	if err != nil {
		log.Fatalf("Error: unable to subscribe to %s %v", comm.TopicSocketService, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	crashRounds, releaseCrash := crash.Subscribe(broadcastBuffer)
	defer releaseCrash()
	doubleRounds, releaseDouble := double.Subscribe(broadcastBuffer)
	defer releaseDouble()

	wg.Add(2)
	go func() {
		defer wg.Done()
		b.Broadcast(ctx, comm.TypeCrashRound, crashRounds)
	}()
	go func() {
		defer wg.Done()
		b.Broadcast(ctx, comm.TypeDoubleRound, doubleRounds)
	}()

	schedulers := map[string]interface{ Run(context.Context) error }{
		engine.GameCrash:  crash,
		engine.GameDouble: double,
	}
	for name, s := range schedulers {
		wg.Add(1)
		go func(name string, s interface{ Run(context.Context) error }) {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				log.Fatalf("%s scheduler stopped: %v", name, err)
			}
			log.Infof("%s scheduler stopped", name)
		}(name, s)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(config.EnvInt("RATE_LIMIT", 100), 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(map[string]handlers.RoundSource{
		engine.GameCrash:  crash,
		engine.GameDouble: double,
	})
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + config.Env("GAME_SERVICE_PORT", "8001"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sub.Unsubscribe()
	cancel()
	wg.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
