package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueNotificaciones = "jobs:notificaciones"

const maxAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. Enqueue failures are logged, never propagated: closing the
// caja must not fail because Redis is down.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// CierreJobPayload identifies the closed session to report on.
type CierreJobPayload struct {
	CajaID string `json:"caja_id"`
}

// NotificarCierre implements service.CierreNotifier.
func (d *Dispatcher) NotificarCierre(cajaID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.enqueue(ctx, "cierre_caja", CierreJobPayload{CajaID: cajaID.String()}); err != nil {
		log.Error().Err(err).Str("caja_id", cajaID.String()).Msg("no se pudo encolar la notificación de cierre")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueNotificaciones, encoded).Err()
}

// Handler processes one job. A non-nil error triggers a retry; after
// maxAttempts the job lands in the DLQ.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// StartPool launches numWorkers goroutines consuming the notification queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]Handler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueNotificaciones).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[1], handlers)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, raw string, handlers map[string]Handler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}

	handler, ok := handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Msg("no handler for job type")
		SendToDLQ(ctx, rdb, QueueNotificaciones, job.Type, job.Payload, "no handler", job.Attempts)
		return
	}

	if err := handler.Process(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= maxAttempts {
			SendToDLQ(ctx, rdb, QueueNotificaciones, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job failed, requeueing")
		if encoded, merr := json.Marshal(job); merr == nil {
			if perr := rdb.LPush(ctx, QueueNotificaciones, encoded).Err(); perr != nil {
				log.Error().Err(perr).Msg("failed to requeue job")
			}
		}
	}
}
