package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"doorlist/internal/domain/entities"
	"doorlist/internal/ports/output"
)

var _ output.MutationBus = (*Listener)(nil)

// Listener implements the realtime bus on PostgreSQL LISTEN/NOTIFY. Each
// subscription holds its own dedicated connection; the pool is not suitable
// here because LISTEN binds to a session.
type Listener struct {
	dsn string
	log zerolog.Logger
}

func NewListener(dsn string, log zerolog.Logger) *Listener {
	return &Listener{dsn: dsn, log: log}
}

// Subscribe opens a subscription on the event's NOTIFY channel. The
// subscription lives until Close or ctx cancellation; on a transport drop it
// reconnects with backoff and then signals on Resyncs, since notifications
// committed during the gap are gone for good.
func (l *Listener) Subscribe(ctx context.Context, eventID uuid.UUID) (output.Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	conn, err := l.connect(subCtx, eventID)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &subscription{
		listener:  l,
		eventID:   eventID,
		mutations: make(chan entities.GuestMutation, 64),
		resyncs:   make(chan struct{}, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
		log:       l.log.With().Stringer("event_id", eventID).Logger(),
	}
	go s.run(subCtx, conn)
	return s, nil
}

func (l *Listener) connect(ctx context.Context, eventID uuid.UUID) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return nil, err
	}
	listen := "LISTEN " + pgx.Identifier{channelName(eventID)}.Sanitize()
	if _, err := conn.Exec(ctx, listen); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}
	return conn, nil
}

type subscription struct {
	listener  *Listener
	eventID   uuid.UUID
	mutations chan entities.GuestMutation
	resyncs   chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
	log       zerolog.Logger
}

func (s *subscription) Mutations() <-chan entities.GuestMutation { return s.mutations }
func (s *subscription) Resyncs() <-chan struct{}                 { return s.resyncs }

// Close tears the subscription down and waits for its goroutine to exit.
// Both channels are closed by the goroutine, so ranging consumers terminate.
func (s *subscription) Close() {
	s.cancel()
	<-s.done
}

func (s *subscription) run(ctx context.Context, conn *pgx.Conn) {
	defer close(s.done)
	defer close(s.resyncs)
	defer close(s.mutations)
	defer func() {
		if conn != nil {
			_ = conn.Close(context.Background())
		}
	}()

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Msg("realtime connection lost, resubscribing")
			_ = conn.Close(context.Background())
			conn = s.reconnect(ctx)
			if conn == nil {
				return
			}
			// Reconnected, but anything committed in between was never
			// delivered: the subscriber must reload before trusting its
			// cache again.
			select {
			case s.resyncs <- struct{}{}:
			default:
			}
			continue
		}

		mutation, err := decodeMutation([]byte(notification.Payload))
		if err != nil {
			s.log.Error().Err(err).Str("payload", notification.Payload).Msg("dropping undecodable notification")
			continue
		}
		select {
		case s.mutations <- mutation:
		case <-ctx.Done():
			return
		}
	}
}

// reconnect retries until a fresh LISTEN connection is up or ctx is
// canceled, in which case it returns nil.
func (s *subscription) reconnect(ctx context.Context) *pgx.Conn {
	var conn *pgx.Conn
	backoff := retry.WithJitterPercent(10, retry.NewFibonacci(500*time.Millisecond))
	backoff = retry.WithCappedDuration(15*time.Second, backoff)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := s.listener.connect(ctx, s.eventID)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil
	}
	s.log.Info().Msg("realtime subscription reestablished")
	return conn
}
