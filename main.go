package main

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/transaction-server/api"
	"github.com/carson-networks/transaction-server/internal/breaker"
	"github.com/carson-networks/transaction-server/internal/config"
	"github.com/carson-networks/transaction-server/internal/ledger"
	"github.com/carson-networks/transaction-server/internal/logging"
	"github.com/carson-networks/transaction-server/internal/notify"
	"github.com/carson-networks/transaction-server/internal/service"
	"github.com/carson-networks/transaction-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("transaction-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	ctx := context.Background()
	dbStorage := storage.NewStorage(ctx, envConfig)

	accountBreaker := breaker.New("account-service", envConfig.BreakerConfig(), logger)
	ledgerClient := ledger.NewClient(envConfig.AccountServiceURL, accountBreaker, logger)

	dispatcher := notify.NewDispatcher(notify.NewClient(envConfig.NotificationServiceURL), 4, logger)
	dispatcher.Start()

	svc := service.NewService(ledgerClient, dbStorage.Transactions, dispatcher, logger)

	// Transfers interrupted by a crash stay PENDING; fail them before
	// accepting new traffic.
	if err := svc.Transaction.ReconcilePending(ctx); err != nil {
		logrus.WithError(err).Error("TransactionService.ReconcilePending")
	}

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.Port,
			Service: svc,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
