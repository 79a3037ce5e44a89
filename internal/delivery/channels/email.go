// Package channels - kênh gửi cảnh báo về job tính thưởng.
package channels

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"bearh/config"
	primemodels "bearh/internal/api/prime/models"
	"bearh/internal/logger"
)

// Alerter gửi cảnh báo cho một job bất thường
type Alerter interface {
	Alert(ctx context.Context, job *primemodels.PrimeCronJob) error
}

// MailSender là phần gửi của gomail.Dialer
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailAlerter gửi cảnh báo qua SMTP
type MailAlerter struct {
	sender MailSender
	from   string
	to     []string
	loc    *time.Location
}

// NewMailAlerter tạo MailAlerter từ cấu hình SMTP_* / ALERT_*
func NewMailAlerter(cfg *config.Configuration, loc *time.Location) *MailAlerter {
	dialer := gomail.NewDialer(cfg.SMTP_Host, cfg.SMTP_Port, cfg.SMTP_Username, cfg.SMTP_Password)
	return NewMailAlerterWith(dialer, cfg.Alert_From, splitRecipients(cfg.Alert_To), loc)
}

// NewMailAlerterWith tạo MailAlerter với sender tùy chọn
func NewMailAlerterWith(sender MailSender, from string, to []string, loc *time.Location) *MailAlerter {
	if loc == nil {
		loc = time.UTC
	}
	return &MailAlerter{sender: sender, from: from, to: to, loc: loc}
}

func splitRecipients(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Alert gửi một mail cho toàn bộ danh sách nhận
func (a *MailAlerter) Alert(ctx context.Context, job *primemodels.PrimeCronJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body := AlertContent(job, a.loc)

	msg := gomail.NewMessage()
	msg.SetHeader("From", a.from)
	msg.SetHeader("To", a.to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := a.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send prime alert: %w", err)
	}
	return nil
}

// AlertContent dựng tiêu đề và nội dung cảnh báo
func AlertContent(job *primemodels.PrimeCronJob, loc *time.Location) (string, string) {
	var b strings.Builder
	started := time.UnixMilli(job.StartDate).In(loc).Format("02/01/2006 15:04")

	subject := fmt.Sprintf("[BeaRH] Calcul des primes %s", job.Period)
	if job.Status == primemodels.JobStatusAbandoned {
		subject += " interrompu"
		fmt.Fprintf(&b, "Le calcul des primes démarré le %s ne répond plus.\n", started)
		fmt.Fprintf(&b, "Utilisateurs traités : %d, restants : %d.\n", len(job.CompletedUsers), len(job.RemainingUsers))
	} else {
		subject += " terminé avec des erreurs"
		fmt.Fprintf(&b, "Le calcul des primes démarré le %s s'est terminé avec %d erreur(s).\n", started, len(job.ErrorsDetails))
	}
	for _, e := range job.ErrorsDetails {
		fmt.Fprintf(&b, "- %s : %s\n", e.UserID.Hex(), e.Error)
	}
	fmt.Fprintf(&b, "\nIdentifiant du job : %s\n", job.JobID)
	return subject, b.String()
}

// LogAlerter chỉ ghi log, dùng khi chưa cấu hình SMTP
type LogAlerter struct{}

func (LogAlerter) Alert(_ context.Context, job *primemodels.PrimeCronJob) error {
	subject, _ := AlertContent(job, time.UTC)
	logger.WithModule("prime-monitor").WithField("job_id", job.JobID).Warn(subject)
	return nil
}
