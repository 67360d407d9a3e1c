package mq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestMaintain_NilConnReturns(t *testing.T) {
	// Close, выигравший гонку у переподключения, оставляет conn == nil.
	// maintain в этом состоянии должен завершиться, а не паниковать
	// на NotifyClose.
	c := &Connection{
		url:    "amqp://localhost",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:   make(chan struct{}),
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		c.maintain()
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("maintain did not return on nil connection")
	}
}

func TestWithChannel_NotConnected(t *testing.T) {
	c := &Connection{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:   make(chan struct{}),
	}

	err := c.WithChannel(context.Background(), func(ch *amqp.Channel) error { return nil })
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}
