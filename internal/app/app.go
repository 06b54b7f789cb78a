// Package app configures and runs application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"couplecall/config"
	v1 "couplecall/internal/controller/http/v1"
	"couplecall/internal/usecase"
	"couplecall/internal/usecase/broker"
	"couplecall/internal/usecase/repo"
	"couplecall/pkg/httpserver"
	"couplecall/pkg/logger"
	"couplecall/pkg/rabbitmq"
)

// Run creates objects via constructors.
func Run(cfg *config.Config) {
	l := logger.New(cfg.Log.Level)

	// Repository
	calls, closeStore, err := newCallRepo(cfg)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newCallRepo: %w", err))
	}
	defer closeStore()

	list, err := cfg.CoupleList()
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - cfg.CoupleList: %w", err))
	}

	couples, err := repo.NewStaticCouples(list)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - repo.NewStaticCouples: %w", err))
	}

	reloader, err := newCoupleReloader(cfg.Path, couples, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - newCoupleReloader: %w", err))
	}
	defer reloader.Close()

	// Events
	hub := broker.NewHub()
	events := broker.Fanout{hub}

	var (
		rmq       *rabbitmq.Publisher
		rmqNotify <-chan error
	)

	if cfg.RMQ.URL != "" {
		rmq, err = rabbitmq.NewPublisher(cfg.RMQ.URL, cfg.RMQ.Exchange)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - rabbitmq.NewPublisher: %w", err))
		}

		events = append(events, broker.NewAMQP(rmq))
		rmqNotify = rmq.Notify()
	}

	// Use case
	signaling := usecase.New(calls, couples, events, l, usecase.RingTimeout(cfg.Signaling.RingTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	sweeperDone := sweep(ctx, signaling, cfg.Signaling.SweepInterval, l)

	// HTTP Server
	handler := gin.New()
	v1.NewRouter(handler, l, signaling, hub)
	httpServer := httpserver.New(handler, httpserver.Port(cfg.HTTP.Port))

	l.Info("app - Run - %s %s listening on :%s with %s store", cfg.App.Name, cfg.App.Version, cfg.HTTP.Port, cfg.Store.Driver)

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	case err = <-rmqNotify:
		l.Error(fmt.Errorf("app - Run - rmq.Notify: %w", err))
	}

	// Shutdown
	cancel()
	<-sweeperDone

	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	if rmq != nil {
		err = rmq.Shutdown()
		if err != nil {
			l.Error(fmt.Errorf("app - Run - rmq.Shutdown: %w", err))
		}
	}
}
