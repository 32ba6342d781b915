// Package logger provides a logrus-backed implementation of the shared
// Logger interface.
package logger

import (
	"github.com/sirupsen/logrus"
)

// Logrus adapts a *logrus.Logger to the keysAndValues-style Logger interface
// used throughout the clients.
type Logrus struct {
	log *logrus.Logger
}

// New returns a Logrus adapter around log. A nil log uses the standard logger.
func New(log *logrus.Logger) *Logrus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logrus{log: log}
}

func (l *Logrus) Debug(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l *Logrus) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Info(msg)
}

func (l *Logrus) Warn(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Warn(msg)
}

func (l *Logrus) Error(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Error(msg)
}

// fields pairs up keysAndValues; a trailing key with no value is kept with a
// nil value rather than dropped.
func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(keysAndValues) {
			f[key] = keysAndValues[i+1]
		} else {
			f[key] = nil
		}
	}
	return f
}
