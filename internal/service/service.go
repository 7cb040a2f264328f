package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/transaction-server/internal/storage/transactionlog"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
}

// NewService creates a new Service with the given collaborators.
func NewService(balanceLedger BalanceLedger, log transactionlog.ITransactionLog, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		Transaction: NewTransactionService(balanceLedger, log, notifier, logger),
	}
}
