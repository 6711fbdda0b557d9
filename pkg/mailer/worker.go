package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/educatalog/pkg/mailer/templates"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

const sendTimeout = 15 * time.Second

// Worker turns queued EmailJobs into sent mail.
type Worker struct {
	Sender Sender
	Logger *logrus.Logger
}

func NewWorker(s Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: s, Logger: logger}
}

// Handle processes one message body. Malformed jobs and unknown templates
// are dropped; send failures are retried.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	subject, text, html, err := render(job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("to", job.To).Error("send failed")
		return Retry
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}

// Acknowledger settles a delivery. amqp091.Delivery satisfies it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Settle acks or rejects a delivery according to o. A failed send is
// requeued once; if the redelivery fails too the message is rejected so a
// persistent failure cannot spin on the queue.
func (w *Worker) Settle(d Acknowledger, o Outcome, redelivered bool) error {
	switch o {
	case Ack:
		return d.Ack(false)
	case Retry:
		if !redelivered {
			return d.Nack(false, true)
		}
		w.Logger.Warn("email failed after redelivery, rejecting")
	}
	return d.Nack(false, false)
}

func render(job EmailJob) (string, string, string, error) {
	if job.To == "" {
		return "", "", "", fmt.Errorf("job has no recipient")
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("job has neither template nor body")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	return templates.Render(job.Template, job.Data)
}
