package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/offerready/interviewai/internal/services"
)

const defaultReportStream = "reports:stream"

// ReportQueue publishes finished sessions onto the report stream. The
// orchestrator calls Enqueue on session finish; a ReportWorkerPool consumes
// the other end.
type ReportQueue struct {
	Redis  *redis.Client
	Stream string
}

func NewReportQueue(rdb *redis.Client) *ReportQueue {
	return &ReportQueue{Redis: rdb, Stream: defaultReportStream}
}

func (q *ReportQueue) Enqueue(ctx context.Context, sessionID string) error {
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: q.Stream,
		Values: map[string]any{
			"session_id":  sessionID,
			"enqueued_at": time.Now().UTC().Format(time.RFC3339),
		},
	}).Err()
}

// ReportWorkerPool consumes the report stream through a consumer group and
// runs report generation for each finished session. Generation is idempotent,
// so redelivery after a crash is safe.
type ReportWorkerPool struct {
	Redis      *redis.Client
	Reports    services.ReportService
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ReportWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Reports == nil {
		return errors.New("ReportWorkerPool missing dependency: Redis/Reports must be set")
	}
	if p.Stream == "" {
		p.Stream = defaultReportStream
	}
	if p.Group == "" {
		p.Group = "report-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "r"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ReportWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ReportWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	sessionID := ""
	if v, ok := msg.Values["session_id"]; ok {
		sessionID, _ = v.(string)
	}
	if sessionID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"session_id": sessionID,
	})

	start := time.Now()
	if _, err := p.Reports.Generate(ctx, sessionID); err != nil {
		// Ack anyway: a broken session will never succeed and a transient
		// failure will be retried on the next finish-triggered enqueue.
		log.WithError(err).Error("report generation failed")
		return
	}
	log.WithField("elapsed_ms", time.Since(start).Milliseconds()).Info("report generated")
}
