package main

import (
	"io"

	"github.com/sirupsen/logrus"

	"BizBoost/internal/config"
)

func newLogger(c *config.Config, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	if c.Log.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}
