package advisor

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fallback asks Primary first and Backup when Primary fails or returns
// nothing. Only when both fail is an error returned.
type Fallback struct {
	Primary Advisor
	Backup  Advisor
	log     *logrus.Entry
}

// NewFallback wraps primary with backup.
func NewFallback(primary, backup Advisor, logger *logrus.Logger) *Fallback {
	return &Fallback{
		Primary: primary,
		Backup:  backup,
		log:     logger.WithField("component", "advisor"),
	}
}

func (f *Fallback) Name() string { return f.Primary.Name() + "+" + f.Backup.Name() }

func (f *Fallback) Advise(ctx context.Context, req Request) (string, error) {
	text, err := f.Primary.Advise(ctx, req)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err == nil {
		err = errors.New("empty response")
	}
	f.log.WithFields(logrus.Fields{
		"provider": f.Primary.Name(),
		"fallback": f.Backup.Name(),
		"scenario": req.Scenario != nil,
	}).WithError(err).Warn("advisor failed, using fallback")

	return f.Backup.Advise(ctx, req)
}
