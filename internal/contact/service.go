package contact

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Service accepts validated submissions. A nil store means the contact
// backend is not configured.
type Service struct {
	store      Store
	notifier   Notifier
	minSeconds float64
	log        logrus.FieldLogger
	wg         sync.WaitGroup
}

func NewService(store Store, notifier Notifier, minSeconds float64, log logrus.FieldLogger) *Service {
	return &Service{store: store, notifier: notifier, minSeconds: minSeconds, log: log}
}

// Configured reports whether messages can be stored.
func (s *Service) Configured() bool { return s.store != nil }

// Store returns the backing store, or nil.
func (s *Service) Store() Store { return s.store }

// Submit stores the submission and notifies the owner in the background.
// Notification failures are logged only.
func (s *Service) Submit(ctx context.Context, sub *Submission, ip, userAgent string) (*Message, error) {
	m := &Message{
		Name:       sub.Name,
		Email:      sub.Email,
		Message:    sub.Message,
		IP:         ip,
		UserAgent:  userAgent,
		TimeOnPage: sub.TimeOnPage,
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"id": m.ID, "ip": ip}).Info("contact message stored")

	if s.notifier != nil {
		s.wg.Add(1)
		go func(m Message) {
			defer s.wg.Done()
			nctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.notifier.Notify(nctx, m); err != nil {
				s.log.WithError(err).WithField("id", m.ID).Warn("contact notification failed")
			}
		}(*m)
	}
	return m, nil
}

// Wait blocks until pending notifications finish.
func (s *Service) Wait() { s.wg.Wait() }
