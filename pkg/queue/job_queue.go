package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultQueueName = "receipt_jobs"

type (
	// ReceiptJob is the message the API enqueues and the pipeline worker
	// consumes. Delivery is at-least-once; the orchestrator is idempotent
	// against redelivery.
	ReceiptJob struct {
		ReceiptID string `json:"receipt_id"`
		FileKey   string `json:"file_key"`
	}

	JobQueue interface {
		Enqueue(ctx context.Context, job ReceiptJob) error
		// Dequeue blocks up to timeout and moves one job to the in-flight
		// list. It returns the raw payload needed to acknowledge the job.
		Dequeue(ctx context.Context, timeout time.Duration) (*ReceiptJob, string, error)
		// Ack removes a delivered job from the in-flight list. Call it only
		// once the receipt has reached a terminal state.
		Ack(ctx context.Context, rawPayload string) error
	}

	redisQueue struct {
		client     *redis.Client
		pending    string
		processing string
	}
)

func NewJobQueue(addr, password, queueName string) JobQueue {
	if queueName == "" {
		queueName = DefaultQueueName
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &redisQueue{
		client:     client,
		pending:    queueName + ":pending",
		processing: queueName + ":processing",
	}
}

func (q *redisQueue) Enqueue(ctx context.Context, job ReceiptJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.pending, payload).Err()
}

func (q *redisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*ReceiptJob, string, error) {
	payload, err := q.client.BLMove(ctx, q.pending, q.processing, "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", err
	}

	var job ReceiptJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		// Malformed payloads are dropped from the in-flight list so they do
		// not clog it forever.
		_ = q.Ack(ctx, payload)
		return nil, "", err
	}
	return &job, payload, nil
}

func (q *redisQueue) Ack(ctx context.Context, rawPayload string) error {
	return q.client.LRem(ctx, q.processing, 1, rawPayload).Err()
}
