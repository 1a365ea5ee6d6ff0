package phase

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "phase")
