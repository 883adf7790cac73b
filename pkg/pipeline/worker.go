package pipeline

import (
	"context"
	"time"

	"offerta-backend/internal/utils/logger"
	"offerta-backend/pkg/queue"
)

// Worker runs a pool of goroutines pulling receipt jobs from the queue. Jobs
// are acknowledged only after the receipt reached a terminal state, so a
// crash mid-flight leaves the message in the in-flight list instead of
// losing it.
type Worker struct {
	jobQueue    queue.JobQueue
	processor   Processor
	concurrency int
	log         *logger.Logger
}

func NewWorker(jobQueue queue.JobQueue, processor Processor, concurrency int, baseLog *logger.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		jobQueue:    jobQueue,
		processor:   processor,
		concurrency: concurrency,
		log:         baseLog.With("component", "PipelineWorker"),
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting pipeline worker pool", "concurrency", w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		workerID := i + 1
		go w.runLoop(ctx, workerID)
	}
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker loop stopped", "worker_id", workerID)
			return
		default:
		}

		job, rawPayload, err := w.jobQueue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("dequeue failed", "worker_id", workerID, "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.handle(ctx, workerID, job, rawPayload)
	}
}

func (w *Worker) handle(ctx context.Context, workerID int, job *queue.ReceiptJob, rawPayload string) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("processor panic",
				"worker_id", workerID,
				"receipt_id", job.ReceiptID,
				"panic", r,
			)
		}
	}()

	if err := w.processor.ProcessReceipt(ctx, job.ReceiptID, job.FileKey); err != nil {
		// No terminal state recorded; keep the message in-flight for
		// redelivery.
		w.log.Error("processing attempt did not reach a terminal state",
			"worker_id", workerID,
			"receipt_id", job.ReceiptID,
			"error", err,
		)
		return
	}

	if err := w.jobQueue.Ack(ctx, rawPayload); err != nil {
		w.log.Warn("ack failed", "worker_id", workerID, "receipt_id", job.ReceiptID, "error", err)
	}
}
