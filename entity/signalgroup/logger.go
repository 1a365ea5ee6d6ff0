package signalgroup

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "signalgroup")
