package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trimly/config"
	"trimly/models"
	"trimly/services/notification"
	"trimly/services/scheduling"
	"trimly/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitWorker runs the async worker in background: it delivers queued pushes
// and fires the periodic queue reconciliation tick.
func InitWorker(schedSvc scheduling.SchedulingService, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default":       2,
				"notifications": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendPush, handlePushTask(notifSvc))
	mux.HandleFunc(tasks.TypeQueueTick, handleTickTask(schedSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	go startScheduler(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// startScheduler registers the periodic tick with asynq's cron scheduler.
func startScheduler(redisOpts asynq.RedisClientOpt) {
	interval := config.AppConfig.TickIntervalSecs
	if interval <= 0 {
		interval = 60
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	task, opts := tasks.NewTickTask()
	spec := fmt.Sprintf("@every %ds", interval)
	if _, err := scheduler.Register(spec, task, opts...); err != nil {
		log.Fatalf("[Scheduler] ❗ Failed to register tick task: %v", err)
	}

	log.Printf("[Scheduler] ⏱️ Tick scheduled %s", spec)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("[Scheduler] ❗ Scheduler stopped: %v", err)
	}
}

func handlePushTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PushHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		if err := notifSvc.Notify(ctx, p); err != nil {
			log.Printf("[PushHandler] ❌ Failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

func handleTickTask(schedSvc scheduling.SchedulingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		summary, err := schedSvc.Tick(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("[TickHandler] ❌ Reconciliation failed: %v", err)
			return err
		}
		if summary.Started+summary.Completed+summary.Missed > 0 {
			log.Printf("[TickHandler] ⏰ started=%d completed=%d missed=%d",
				summary.Started, summary.Completed, summary.Missed)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
