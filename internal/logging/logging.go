package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "transaction-server"

func SetupLogging() *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: logrus.InfoLevel,
	}

	logger.WithField("service", serviceName).Info("Logging.Setup.Complete")

	return &logger
}
