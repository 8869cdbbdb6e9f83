package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Nardos-Amakele/TutorSite/internal/logger"
	"github.com/Nardos-Amakele/TutorSite/internal/metrics"
)

const (
	queueKey  = "emails"
	failedKey = "emails:failed"
	maxTries  = 3
)

type EmailJob struct {
	ID      string    `json:"id"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Type    string    `json:"type"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues outgoing mail in Redis and drains the queue in a
// background worker, so request handlers never block on SMTP.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("Failed to queue email", "job_id", job.ID, "to", job.To, "error", err.Error())
		return err
	}

	metrics.EmailQueueLength.Inc()
	logger.Info("Email queued", "job_id", job.ID, "type", job.Type, "to", job.To)
	return nil
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, EmailJob{
		ID:      uuid.NewString(),
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Type:    "generic",
		Created: time.Now(),
	})
}

// SendOTP delivers a password reset code.
func (s *Service) SendOTP(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your TutorSite verification code is %s. It expires in 5 minutes.", code)
	return s.enqueue(ctx, EmailJob{
		ID:      uuid.NewString(),
		To:      to,
		Subject: "Your verification code",
		Body:    body,
		Type:    "otp",
		Created: time.Now(),
	})
}

// SendBookingRequested notifies a teacher that a student requested a session.
func (s *Service) SendBookingRequested(ctx context.Context, to, teacherName, studentName, subject, date, start, end string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\n%s requested a %s session on %s from %s to %s. Confirm or decline it from your dashboard.",
		teacherName, studentName, subject, date, start, end,
	)
	return s.enqueue(ctx, EmailJob{
		ID:      uuid.NewString(),
		To:      to,
		Name:    teacherName,
		Subject: "New booking request",
		Body:    body,
		Type:    "booking_requested",
		Created: time.Now(),
	})
}

// SendBookingStatus notifies a student that a booking changed status.
func (s *Service) SendBookingStatus(ctx context.Context, to, studentName, subject, date, status string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s session on %s is now %s.",
		studentName, subject, date, status,
	)
	return s.enqueue(ctx, EmailJob{
		ID:      uuid.NewString(),
		To:      to,
		Name:    studentName,
		Subject: "Booking " + status,
		Body:    body,
		Type:    "booking_status",
		Created: time.Now(),
	})
}

// QueueLength returns the number of jobs waiting in the queue.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	return length
}

// Start drains the queue until ctx is cancelled. Run in a goroutine.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	metrics.EmailQueueLength.Dec()

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email job data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Error("Failed to send email", "job_id", job.ID, "to", job.To, "attempt", job.Tries, "error", err.Error())

		if job.Tries < maxTries {
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			metrics.EmailQueueLength.Inc()
		} else {
			metrics.RecordEmail(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("Email sent", "job_id", job.ID, "to", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	addr := s.smtpHost + ":" + s.smtpPort

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.fromName, s.from, job.To, job.Subject, job.Body,
	))

	var auth smtp.Auth
	if s.smtpUser != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	return smtp.SendMail(addr, auth, s.from, []string{job.To}, msg)
}

func (s *Service) saveFailed(job EmailJob, sendErr error) {
	entry := map[string]interface{}{
		"job":       job,
		"error":     sendErr.Error(),
		"failed_at": time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	s.redis.LPush(context.Background(), failedKey, data)
}
