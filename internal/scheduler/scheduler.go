// Package scheduler runs the periodic digest and dispatches chat commands
// to the session.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"BizBoost/internal/advisor"
	"BizBoost/internal/catalog"
	"BizBoost/internal/notifier"
	"BizBoost/internal/recorder"
	"BizBoost/internal/session"
)

const digestSubject = "BizBoost digest"

// Scheduler manages cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Session   *session.Session
	Notifiers []notifier.Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context
	log       *logrus.Entry
	now       func() time.Time
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, sess *session.Session, notifiers []notifier.Notifier, rec recorder.Recorder, logger *logrus.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Session:   sess,
		Notifiers: notifiers,
		Recorder:  rec,
		Ctx:       ctx,
		log:       logger.WithField("component", "scheduler"),
		now:       time.Now,
	}
}

// RegisterDigest schedules the digest task.
func (s *Scheduler) RegisterDigest(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	s.log.WithField("cron", spec).Info("digest scheduled")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunDigestNow sends the digest immediately and returns the number of
// channels that failed.
func (s *Scheduler) RunDigestNow() int {
	return s.sendDigest()
}

func (s *Scheduler) digestTask() {
	s.sendDigest()
}

func (s *Scheduler) sendDigest() int {
	if len(s.Notifiers) == 0 {
		s.log.Debug("no notifiers configured, skipping digest")
		return 0
	}
	view := s.Session.View()
	body := notifier.FormatDigest(view, s.now())

	failures := 0
	for _, n := range s.Notifiers {
		if err := n.Notify(s.Ctx, digestSubject, body); err != nil {
			failures++
			s.log.WithError(err).WithField("channel", n.Name()).Error("send digest")
		}
	}
	s.log.WithFields(logrus.Fields{
		"business": view.Business.ID,
		"channels": len(s.Notifiers),
		"failures": failures,
	}).Info("digest sent")

	if err := s.Recorder.RecordDigest(&recorder.DigestEvent{
		BusinessID:  view.Business.ID,
		HasScenario: view.Scenario != nil,
		Channels:    len(s.Notifiers),
		Failures:    failures,
	}); err != nil {
		s.log.WithError(err).Error("record digest")
	}
	return failures
}

// HandleCommand processes a chat message and returns a reply. Slash
// commands control the session; any other text is submitted to it.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/start", "/help":
		return notifier.FormatHelp()
	case "/status":
		return notifier.FormatStatus(s.Session.View())
	case "/clear":
		s.Session.ClearScenario()
		return "🧹 Scenario cleared."
	case "/businesses":
		return notifier.FormatBusinessList(s.Session.Catalog().List(), s.Session.View().Business.ID)
	case "/business":
		if arg == "" {
			return "Usage: /business &lt;id&gt;\n\n" + notifier.FormatBusinessList(s.Session.Catalog().List(), s.Session.View().Business.ID)
		}
		b, err := s.Session.SelectBusiness(arg)
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Sprintf("❌ Unknown business <code>%s</code>. Send /businesses for the list.", notifier.Escape(arg))
		}
		if err != nil {
			s.log.WithError(err).Error("select business")
			return "❌ Could not switch business."
		}
		return notifier.FormatBusinessSummary(b) + "\n" + notifier.Escape(advisor.Greeting(b))
	case "/digest":
		if failures := s.RunDigestNow(); failures > 0 {
			return fmt.Sprintf("⚠️ Digest failed on %d channel(s).", failures)
		}
		return ""
	}
	if strings.HasPrefix(text, "/") {
		return notifier.FormatHelp()
	}

	reply, err := s.Session.Submit(ctx, text)
	switch {
	case errors.Is(err, session.ErrEmptyCommand):
		return ""
	case errors.Is(err, session.ErrBusy):
		return "⏳ Still working on your previous command."
	case err != nil:
		s.log.WithError(err).Error("submit")
		return notifier.Escape(advisor.ConnectionTrouble)
	}
	return notifier.FormatScenarioReply(reply)
}
