package timeline

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "timeline")
