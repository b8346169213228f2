package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/microservice-production/internal/platform/logger"
)

const (
	DriverNone  = "none"
	DriverRedis = "redis"
	DriverKafka = "kafka"
)

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type Config struct {
	Driver string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	KafkaBrokers []string
	KafkaTopic   string

	// Timeout bounds one Publish call.
	Timeout time.Duration
}

// Counter receives one increment per publish attempt.
type Counter interface {
	IncChangeEvent(driver, status string)
}

// New builds the publisher selected by cfg.Driver, wrapped with logging and counting.
func New(cfg Config, log *logger.Logger, counter Counter) (Publisher, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	var (
		inner Publisher
		err   error
	)
	switch driver {
	case "", DriverNone:
		driver = DriverNone
		inner = Nop{}
	case DriverRedis:
		inner, err = NewRedisPublisher(cfg)
	case DriverKafka:
		inner, err = NewKafkaPublisher(cfg)
	default:
		return nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &instrumented{
		inner:   inner,
		driver:  driver,
		timeout: timeout,
		log:     log.With("component", "EventPublisher", "driver", driver),
		counter: counter,
	}, nil
}

type instrumented struct {
	inner   Publisher
	driver  string
	timeout time.Duration
	log     *logger.Logger
	counter Counter
}

func (p *instrumented) Publish(ctx context.Context, ev Event) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	err := p.inner.Publish(ctx, ev)
	status := "ok"
	if err != nil {
		status = "error"
		p.log.Warn("publish change event failed", "entity", ev.Entity, "id", ev.ID, "action", ev.Action, "error", err)
	}
	if p.counter != nil {
		p.counter.IncChangeEvent(p.driver, status)
	}
	return err
}

func (p *instrumented) Close() error { return p.inner.Close() }

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Memory keeps published events in order; used by tests and local runs.
type Memory struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (m *Memory) Publish(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
