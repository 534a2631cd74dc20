package amqp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/cenkalti/backoff/v4"
	amqp091 "github.com/rabbitmq/amqp091-go"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	defaultHeartbeat = 10 * time.Second
	defaultLocale    = "en_US"
	defaultQueueSize = 1024
	defaultDrainTime = 5 * time.Second
	defaultKeyPrefix = "invoice"

	contentTypeJSON = "application/json"
)

// Channel is the part of an AMQP channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Connector opens a new channel to the broker.
type Connector func() (Channel, error)

// DialConnector returns a connector that dials the broker at given URI and
// opens a dedicated channel on a fresh connection.
func DialConnector(uri string) Connector {
	return func() (Channel, error) {
		conn, err := amqp091.DialConfig(uri, amqp091.Config{
			Heartbeat: defaultHeartbeat,
			Locale:    defaultLocale,
			Dial:      amqp091.DefaultDial(3 * time.Second),
		})
		if err != nil {
			return nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, err
		}
		return &connChannel{Channel: ch, conn: conn}, nil
	}
}

// connChannel closes the connection together with its channel.
type connChannel struct {
	*amqp091.Channel
	conn *amqp091.Connection
}

func (c *connChannel) Close() error {
	c.Channel.Close()
	return c.conn.Close()
}

// Publisher is an arbee.Notifier that forwards notifications to a topic
// exchange.
type Publisher struct {
	connect    Connector
	exchange   string
	keyPrefix  string
	logger     log.Logger
	newBackOff func() backoff.BackOff
	drainTime  time.Duration

	queue     chan message
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// ctx is cancelled once the drain time after Close has passed. It
	// aborts every pending publish and retry.
	ctx    context.Context
	cancel context.CancelFunc

	// ch is owned by the run goroutine.
	ch Channel
}

var _ arbee.Notifier = (*Publisher)(nil)

type message struct {
	key  string
	body []byte
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger used to report dropped notifications.
func WithLogger(logger log.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithKeyPrefix sets the first segment of every routing key.
func WithKeyPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.keyPrefix = prefix
	}
}

// WithQueueSize sets how many notifications may wait for publishing before
// Notify starts to fail.
func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		p.queue = make(chan message, n)
	}
}

// WithBackOff sets the retry policy of a single publish.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(p *Publisher) {
		p.newBackOff = fn
	}
}

// WithDrainTimeout limits how long Close keeps trying to publish queued
// notifications. Whatever is still queued afterwards is dropped.
func WithDrainTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.drainTime = d
	}
}

// NewPublisher starts a publisher sending to the given exchange. The
// exchange is declared as a durable topic exchange on every (re)connect.
// Call Close to flush pending notifications and release the connection.
func NewPublisher(connect Connector, exchange string, opts ...Option) *Publisher {
	p := &Publisher{
		connect:    connect,
		exchange:   exchange,
		keyPrefix:  defaultKeyPrefix,
		logger:     log.NewNopLogger(),
		newBackOff: defaultBackOff,
		drainTime:  defaultDrainTime,
		queue:      make(chan message, defaultQueueSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	for _, o := range opts {
		o(p)
	}
	go p.run()
	return p
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

// RoutingKey returns the key a notification is published with.
func (p *Publisher) RoutingKey(n arbee.Notification) string {
	return p.keyPrefix + "." + n.Kind()
}

// Notify queues the notification for publishing. It fails only when the
// notification cannot be encoded, the queue is full or the publisher is
// closed.
func (p *Publisher) Notify(ctx arbee.Context, n arbee.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	select {
	case <-p.stop:
		return errors.Wrap(errors.ErrInvalidState, "publisher closed")
	default:
	}
	select {
	case p.queue <- message{key: p.RoutingKey(n), body: body}:
		return nil
	default:
		return errors.Wrapf(errors.ErrInvalidState, "publish queue full, dropping %s", n.Kind())
	}
}

// Close publishes what is still queued and closes the broker channel. It
// returns at the latest shortly after the drain timeout, dropping the
// notifications that could not be published by then.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.stop)
		timer := time.AfterFunc(p.drainTime, p.cancel)
		<-p.done
		timer.Stop()
		p.cancel()
	})
	<-p.done
	return nil
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case m := <-p.queue:
			p.deliver(m)
		case <-p.stop:
			p.drain()
			p.disconnect()
			return
		}
	}
}

// drain publishes the queued notifications until the queue is empty or
// the drain timeout cancels the context.
func (p *Publisher) drain() {
	var dropped int
	for {
		select {
		case m := <-p.queue:
			if p.ctx.Err() != nil {
				dropped++
				continue
			}
			p.deliver(m)
		default:
			if dropped > 0 {
				p.logger.Error("dropping notifications on close",
					"exchange", p.exchange,
					"count", dropped)
			}
			return
		}
	}
}

func (p *Publisher) deliver(m message) {
	ctx := p.ctx
	op := func() error {
		if err := p.ensureChannel(); err != nil {
			return err
		}
		err := p.ch.PublishWithContext(ctx, p.exchange, m.key, false, false, amqp091.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         m.body,
		})
		if err != nil {
			p.disconnect()
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(p.newBackOff(), ctx)); err != nil {
		p.logger.Error("cannot publish notification",
			"exchange", p.exchange,
			"key", m.key,
			"err", err)
		return
	}
	p.logger.Debug("notification published", "key", m.key)
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil {
		return nil
	}
	ch, err := p.connect()
	if err != nil {
		return err
	}
	// topic is a type of exchange that allows routing messages to different
	// queues based on the routing key
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return err
	}
	p.ch = ch
	return nil
}

func (p *Publisher) disconnect() {
	if p.ch == nil {
		return
	}
	if err := p.ch.Close(); err != nil {
		p.logger.Debug("cannot close channel", "err", err)
	}
	p.ch = nil
}
