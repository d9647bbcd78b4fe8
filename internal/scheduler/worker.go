package scheduler

import (
	"context"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/email"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/config"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker processes queued tasks. Run as its own binary so email delivery
// never blocks or crashes the API.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskLeadNotification, leadNotificationHandler(sender, log))

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run blocks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func leadNotificationHandler(sender email.Sender, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseLeadNotificationPayload(task)
		if err != nil {
			// Malformed payload will never parse; don't retry it.
			log.Error("invalid lead notification payload", "error", err)
			return nil
		}

		err = sender.SendLeadNotification(ctx, payload.OwnerEmail, email.LeadNotificationData{
			OwnerName:       payload.OwnerName,
			LeadName:        payload.LeadName,
			LeadEmail:       payload.LeadEmail,
			LeadPhone:       payload.LeadPhone,
			AssessmentTitle: payload.AssessmentTitle,
			Score:           payload.Score,
			Completed:       payload.Completed,
		})
		if err != nil {
			log.Error("lead notification delivery failed", "error", err, "leadId", payload.LeadID)
			return err
		}

		log.Info("lead notification sent", "leadId", payload.LeadID, "to", payload.OwnerEmail)
		return nil
	}
}
