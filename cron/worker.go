package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"fieldops/config"
	businessRepo "fieldops/database/repository/business"
	"fieldops/services/escalation"
	"fieldops/services/notification"
)

const (
	TypeEscalationTick    = "escalation:tick"
	TypeNotificationRetry = "notification:retry"
)

// InitBookingWorker starts the async worker plus the periodic scheduler that
// drives escalation ticks and notification retries. Both tasks sweep every
// active business; per-business run locks keep overlapping ticks harmless.
func InitBookingWorker(engine *escalation.Engine, notifSvc notification.Service, businesses businessRepo.BusinessRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEscalationTick, handleEscalationTick(engine, businesses))
	mux.HandleFunc(TypeNotificationRetry, handleNotificationRetry(notifSvc, businesses))

	// Start Redis health monitor
	go monitorRedisConnection()

	go runScheduler(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[BookingWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[BookingWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[BookingWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runScheduler registers the two periodic tasks at their configured cadence.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	escalationSpec := fmt.Sprintf("@every %dm", config.AppConfig.EscalationIntervalMinutes)
	if _, err := scheduler.Register(escalationSpec, asynq.NewTask(TypeEscalationTick, nil)); err != nil {
		log.Fatalf("[BookingWorker] ❗ Failed to register escalation tick: %v", err)
	}

	retrySpec := fmt.Sprintf("@every %dm", config.AppConfig.NotificationRetryIntervalMin)
	if _, err := scheduler.Register(retrySpec, asynq.NewTask(TypeNotificationRetry, nil)); err != nil {
		log.Fatalf("[BookingWorker] ❗ Failed to register notification retry: %v", err)
	}

	log.Printf("[BookingWorker] ⏰ Scheduler running (escalation %s, retry %s)", escalationSpec, retrySpec)
	if err := scheduler.Run(); err != nil {
		log.Fatalf("[BookingWorker] ❗ Scheduler stopped: %v", err)
	}
}

func handleEscalationTick(engine *escalation.Engine, businesses businessRepo.BusinessRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		active, err := businesses.FindActive(ctx)
		if err != nil {
			log.Printf("[EscalationTick] 🔴 Failed to list active businesses: %v", err)
			return err
		}

		for _, biz := range active {
			result, err := engine.Tick(ctx, biz.ID)
			if err != nil {
				log.Printf("[EscalationTick] ❌ Tick failed for business %s: %v", biz.ID, err)
				continue
			}
			if result.Skipped {
				continue
			}
			if len(result.Actions) > 0 || len(result.Failures) > 0 {
				log.Printf("[EscalationTick] ⏰ Business %s: %d escalated, %d action failures",
					biz.ID, len(result.Actions), len(result.Failures))
			}
			for _, f := range result.Failures {
				log.Printf("[EscalationTick] ⚠️ %v", f)
			}
		}
		return nil
	}
}

func handleNotificationRetry(notifSvc notification.Service, businesses businessRepo.BusinessRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		active, err := businesses.FindActive(ctx)
		if err != nil {
			log.Printf("[NotificationRetry] 🔴 Failed to list active businesses: %v", err)
			return err
		}

		for _, biz := range active {
			attempted, succeeded, err := notifSvc.RetryFailed(ctx, biz.ID)
			if err != nil {
				log.Printf("[NotificationRetry] ❌ Retry pass failed for business %s: %v", biz.ID, err)
				continue
			}
			if attempted > 0 {
				log.Printf("[NotificationRetry] 🔁 Business %s: %d/%d retries delivered",
					biz.ID, succeeded, attempted)
			}
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[BookingWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
