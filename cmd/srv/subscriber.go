package main

import (
	"os/signal"
	"syscall"

	"github.com/mushroomhunter/backend/internal/domain/eventdispatch"
	"github.com/mushroomhunter/backend/pkg/kafka"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx).Kafka
	dispatcher := eventdispatch.New(s.newNotifier())

	subscriber, err := kafka.NewSubscriber(
		cfg.GroupID,
		cfg.Addrs,
		[]string{cfg.EventTopic},
		dispatcher.Subscribe,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	xcontext.Logger(s.ctx).Infof("Start event subscriber successfully")
	subscriber.Subscribe(ctx)

	return subscriber.Stop(s.ctx)
}
