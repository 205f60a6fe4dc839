// Package notifier delivers final-failure notifications after the scheduler
// exhausts its retries.
package notifier

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier receives a failure that survived every retry of a run.
type Notifier interface {
	NotifyFailure(runID string, cause error) error
}

// Email sends failure notifications over SMTP.
type Email struct {
	dialer *gomail.Dialer
	from   string
	to     string
	logger *zap.Logger
}

// NewEmail returns an SMTP notifier.
func NewEmail(host string, port int, user, pass, from, to string, logger *zap.Logger) *Email {
	return &Email{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		to:     to,
		logger: logger,
	}
}

// NotifyFailure emails the failed run's id and error.
func (e *Email) NotifyFailure(runID string, cause error) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to)
	m.SetHeader("Subject", fmt.Sprintf("dvabot run %s failed", runID))
	m.SetBody("text/plain", fmt.Sprintf("Run %s failed after exhausting retries:\n\n%v\n", runID, cause))

	if err := e.dialer.DialAndSend(m); err != nil {
		e.logger.Error("failed to send failure notification", zap.Error(err), zap.String("run_id", runID))
		return err
	}

	e.logger.Info("failure notification sent", zap.String("run_id", runID), zap.String("to", e.to))
	return nil
}

// Nop discards notifications. Used when no address is configured and in
// tests.
type Nop struct{}

// NotifyFailure does nothing.
func (Nop) NotifyFailure(string, error) error { return nil }
