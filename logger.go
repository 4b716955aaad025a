package amrtime

import (
	"github.com/sirupsen/logrus"
)

// Log is the package logger. Commands replace it with a configured one.
var Log logrus.FieldLogger = logrus.StandardLogger()
