package environment

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "environment")
