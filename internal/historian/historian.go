// internal/historian/historian.go is the asynchronous historian: it pops action records
// from a Redis queue and persists them to PostgreSQL in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Queue is the blocking pop the historian reads from. *redis.Client satisfies it.
type Queue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Sink persists batches and game status changes.
type Sink interface {
	InsertGameActions(ctx context.Context, actions []database.ActionRow) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error)
}

// Options configures a Service.
type Options struct {
	QueueName  string
	BatchSize  int
	FlushDelay time.Duration
	// Inactivity is how long a game may go without actions before it is marked abandoned.
	Inactivity time.Duration
	Logger     logrus.FieldLogger
}

// Service encapsulates the Redis + DB logic for capturing game actions
// and marking games abandoned when a certain inactivity threshold is reached.
type Service struct {
	queue Queue
	sink  Sink
	opts  Options

	lastActivity sync.Map // map[uuid.UUID]time.Time

	batchMu sync.Mutex
	batch   []cache.GameActionRecord

	log        logrus.FieldLogger
	now        func() time.Time
	popTimeout time.Duration
	sweepEvery time.Duration
}

func New(queue Queue, sink Sink, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	return &Service{
		queue:      queue,
		sink:       sink,
		opts:       opts,
		batch:      make([]cache.GameActionRecord, 0, opts.BatchSize),
		log:        opts.Logger.WithField("service", "historian"),
		now:        time.Now,
		popTimeout: 3 * time.Second,
		sweepEvery: time.Minute,
	}
}

// Run starts the read, flush and inactivity loops and blocks until ctx is done or one fails.
// Whatever is still batched is flushed on the way out.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("historian started")
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return s.readLoop(ctx) })
	eg.Go(func() error { return s.flushLoop(ctx) })
	eg.Go(func() error { return s.inactivityLoop(ctx) })
	err := eg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ferr := s.flush(flushCtx); ferr != nil {
		s.log.Errorf("final flush: %v", ferr)
	}
	s.log.Info("historian shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readLoop continuously uses BLPop to retrieve messages from the Redis queue.
func (s *Service) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := s.queue.BLPop(ctx, s.popTimeout, s.opts.QueueName).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Errorf("BLPop: %v", err)
			time.Sleep(s.popTimeout / 3)
			continue
		}
		// res[0] is the queue name and res[1] the payload.
		if len(res) < 2 {
			continue
		}
		if err := s.handlePayload(ctx, res[1]); err != nil {
			s.log.Errorf("flush after batch filled: %v", err)
		}
	}
}

// handlePayload decodes one record, tracks the game's activity and batches the record.
func (s *Service) handlePayload(ctx context.Context, payload string) error {
	var record cache.GameActionRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		s.log.Warnf("invalid action record: %v", err)
		return nil
	}
	if record.GameID == uuid.Nil {
		s.log.Warn("action record without game id")
		return nil
	}

	if record.ActionType == "endGame" {
		s.lastActivity.Delete(record.GameID)
	} else {
		s.lastActivity.Store(record.GameID, s.now())
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, record)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		return s.flush(ctx)
	}
	return nil
}

func (s *Service) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.flush(ctx); err != nil {
				s.log.Errorf("flush: %v", err)
			}
		}
	}
}

// flush writes the current batch to the database in a single transaction. A failed batch
// is put back in front of newer records.
func (s *Service) flush(ctx context.Context) error {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return nil
	}
	pending := s.batch
	s.batch = make([]cache.GameActionRecord, 0, s.opts.BatchSize)
	s.batchMu.Unlock()

	rows := make([]database.ActionRow, 0, len(pending))
	for _, rec := range pending {
		rows = append(rows, database.ActionRow{
			GameID:      rec.GameID,
			ActionIndex: rec.ActionIndex,
			ActorUserID: rec.ActorUserID,
			ActionType:  rec.ActionType,
			Payload:     rec.ActionPayload,
			Recipient:   rec.Recipient,
		})
	}
	if err := s.sink.InsertGameActions(ctx, rows); err != nil {
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return fmt.Errorf("insert %d actions: %w", len(rows), err)
	}
	s.log.Debugf("flushed %d actions", len(rows))
	return nil
}

// inactivityLoop periodically marks games without recent actions as abandoned.
func (s *Service) inactivityLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweepInactive(ctx)
		}
	}
}

func (s *Service) sweepInactive(ctx context.Context) {
	now := s.now()
	s.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if !ok1 || !ok2 || now.Sub(last) <= s.opts.Inactivity {
			return true
		}
		changed, err := s.sink.MarkGameAbandoned(ctx, gameID)
		if err != nil {
			s.log.Errorf("%v", err)
			return true
		}
		if changed {
			s.log.Infof("marked game %v as 'abandoned' due to inactivity", gameID)
		}
		s.lastActivity.Delete(gameID)
		return true
	})
}
