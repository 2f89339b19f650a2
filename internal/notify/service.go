package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/config"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/logger"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/membership"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/metrics"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/user"
)

const emailQueue = "emails"

// Service queues notification emails through Redis and records in-app
// notification rows. A background worker drains the queue over SMTP.
type Service struct {
	redis    *redis.Client
	repo     Repository
	users    user.Repository
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(repo Repository, users user.Repository, cfg *config.Config) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
		repo:     repo,
		users:    users,
		from:     cfg.EmailFrom,
		fromName: cfg.EmailFromName,
		smtpHost: cfg.SMTPHost,
		smtpPort: cfg.SMTPPort,
		smtpUser: cfg.SMTPUser,
		smtpPass: cfg.SMTPPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body, emailType string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Type:    emailType,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, emailQueue, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, emailQueue).Result()
	if err != nil {
		return
	}
	metrics.NotificationQueueLength.Set(float64(s.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < 3 {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), emailQueue, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after 3 attempts", job.To)
			metrics.RecordEmail(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), emailQueue+":failed", data)
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, emailQueue).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

// MembershipActivated notifies both the member and the gym owner. Failures
// are logged and swallowed; activation already committed.
func (s *Service) MembershipActivated(ctx context.Context, userID, gymOwnerID int, m *membership.Membership) {
	title := "Membership activated"
	message := fmt.Sprintf("Your membership is active from %s to %s.",
		m.StartDate.Format("Jan 2, 2006"), m.EndDate.Format("Jan 2, 2006"))

	if err := s.repo.Create(ctx, userID, TypeMembershipActivated, title, message); err != nil {
		logger.Errorf("Failed to store notification for user %d: %v", userID, err)
	}

	if u, err := s.users.FindByID(ctx, userID); err == nil {
		body := fmt.Sprintf(`Hi %s,

Your membership payment went through and your membership is now active.

Valid: %s to %s
Amount paid: %.2f

See you at the gym!

- FeaturesGym Team`, u.Name,
			m.StartDate.Format("Jan 2, 2006"), m.EndDate.Format("Jan 2, 2006"),
			float64(m.AmountCents)/100)
		s.Send(ctx, u.Email, u.Name, title, body, TypeMembershipActivated)
	}

	if gymOwnerID > 0 {
		ownerMsg := fmt.Sprintf("A new membership was activated at your gym (membership #%d).", m.ID)
		if err := s.repo.Create(ctx, gymOwnerID, TypeNewMember, "New member", ownerMsg); err != nil {
			logger.Errorf("Failed to store notification for gym owner %d: %v", gymOwnerID, err)
		}
	}
}

// PaymentFailed notifies the member that their payment attempt failed.
func (s *Service) PaymentFailed(ctx context.Context, userID int, membershipID int) {
	title := "Payment failed"
	message := fmt.Sprintf("Your payment for membership #%d failed. You can retry from your dashboard.", membershipID)

	if err := s.repo.Create(ctx, userID, TypePaymentFailed, title, message); err != nil {
		logger.Errorf("Failed to store notification for user %d: %v", userID, err)
	}

	if u, err := s.users.FindByID(ctx, userID); err == nil {
		body := fmt.Sprintf(`Hi %s,

Your membership payment could not be completed. No money was taken.

You can retry the payment any time from your dashboard.

- FeaturesGym Team`, u.Name)
		s.Send(ctx, u.Email, u.Name, title, body, TypePaymentFailed)
	}
}
