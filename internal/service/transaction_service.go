package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/transaction-server/internal/ledger"
	"github.com/carson-networks/transaction-server/internal/storage/transactionlog"
)

// BalanceLedger is the remote capability to read and overwrite account
// balances, already protected by the circuit breaker.
type BalanceLedger interface {
	FetchBalance(ctx context.Context, accountNumber string) (*ledger.AccountSnapshot, error)
	SetBalance(ctx context.Context, accountNumber string, balance decimal.Decimal) error
}

// Notifier accepts fire-and-forget event messages.
type Notifier interface {
	Dispatch(message string)
}

// TransactionService orchestrates deposits, withdrawals and transfers
// against the remote account ledger, records them in the append-only
// transaction log, and emits best-effort notifications.
type TransactionService struct {
	ledger   BalanceLedger
	log      transactionlog.ITransactionLog
	notifier Notifier
	logger   *logrus.Logger
	locks    *accountLocks
}

func NewTransactionService(balanceLedger BalanceLedger, log transactionlog.ITransactionLog, notifier Notifier, logger *logrus.Logger) *TransactionService {
	return &TransactionService{
		ledger:   balanceLedger,
		log:      log,
		notifier: notifier,
		logger:   logger,
		locks:    newAccountLocks(),
	}
}

// Deposit credits amount to the account and records a SUCCESS DEPOSIT
// transaction. idempotencyKey may be empty.
func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, idempotencyKey string) (*Transaction, error) {
	s.logger.WithFields(logrus.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.String(),
	}).Info("TransactionService.Deposit.Start")

	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.Acquire(accountNumber)
	defer unlock()

	// Checked under the account lock so two concurrent requests with the
	// same key cannot both miss the log and double-apply.
	if replay, err := s.findReplay(ctx, idempotencyKey, transactionlog.KindDeposit, amount, accountNumber, ""); replay != nil || err != nil {
		return replay, err
	}

	snapshot, err := s.ledger.FetchBalance(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	newBalance := snapshot.Balance.Add(amount)
	if err := s.ledger.SetBalance(ctx, accountNumber, newBalance); err != nil {
		return nil, err
	}

	txn, err := s.appendCommitted(ctx, transactionlog.KindDeposit, amount, accountNumber, "", idempotencyKey)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(fmt.Sprintf("Deposit of %s successful for account %s", amount, accountNumber))

	s.logger.WithFields(logrus.Fields{
		"txnId":      txn.ID,
		"newBalance": newBalance.String(),
	}).Info("TransactionService.Deposit.Complete")
	return txn, nil
}

// Withdraw debits amount from the account and records a SUCCESS WITHDRAW
// transaction. Fails with ErrInsufficientFunds before any write.
func (s *TransactionService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, idempotencyKey string) (*Transaction, error) {
	s.logger.WithFields(logrus.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.String(),
	}).Info("TransactionService.Withdraw.Start")

	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.Acquire(accountNumber)
	defer unlock()

	if replay, err := s.findReplay(ctx, idempotencyKey, transactionlog.KindWithdraw, amount, accountNumber, ""); replay != nil || err != nil {
		return replay, err
	}

	snapshot, err := s.ledger.FetchBalance(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if snapshot.Balance.LessThan(amount) {
		s.logger.WithFields(logrus.Fields{
			"accountNumber": accountNumber,
			"balance":       snapshot.Balance.String(),
			"amount":        amount.String(),
		}).Warn("TransactionService.Withdraw.insufficient balance")
		return nil, ErrInsufficientFunds
	}

	newBalance := snapshot.Balance.Sub(amount)
	if err := s.ledger.SetBalance(ctx, accountNumber, newBalance); err != nil {
		return nil, err
	}

	txn, err := s.appendCommitted(ctx, transactionlog.KindWithdraw, amount, accountNumber, "", idempotencyKey)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(fmt.Sprintf("Withdraw of %s successful for account %s", amount, accountNumber))

	s.logger.WithFields(logrus.Fields{
		"txnId":      txn.ID,
		"newBalance": newBalance.String(),
	}).Info("TransactionService.Withdraw.Complete")
	return txn, nil
}

// Transfer moves amount from source to destination as a small saga: the
// transaction is logged PENDING before the first write, the source is
// re-credited if the destination write fails, and the record is finalized
// exactly once.
func (s *TransactionService) Transfer(ctx context.Context, sourceAccount, destinationAccount string, amount decimal.Decimal, idempotencyKey string) (*Transaction, error) {
	s.logger.WithFields(logrus.Fields{
		"sourceAccount":      sourceAccount,
		"destinationAccount": destinationAccount,
		"amount":             amount.String(),
	}).Info("TransactionService.Transfer.Start")

	if sourceAccount == destinationAccount {
		return nil, ErrSameAccount
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.Acquire(sourceAccount, destinationAccount)
	defer unlock()

	if replay, err := s.findReplay(ctx, idempotencyKey, transactionlog.KindTransfer, amount, sourceAccount, destinationAccount); replay != nil || err != nil {
		return replay, err
	}

	source, err := s.ledger.FetchBalance(ctx, sourceAccount)
	if err != nil {
		return nil, err
	}

	if source.Balance.LessThan(amount) {
		s.logger.WithFields(logrus.Fields{
			"sourceAccount": sourceAccount,
			"balance":       source.Balance.String(),
			"amount":        amount.String(),
		}).Warn("TransactionService.Transfer.insufficient funds")
		return nil, ErrInsufficientFunds
	}

	destination, err := s.ledger.FetchBalance(ctx, destinationAccount)
	if err != nil {
		return nil, err
	}

	create := &transactionlog.TransactionCreate{
		ID:                 generateTransactionID(),
		Kind:               transactionlog.KindTransfer,
		Amount:             amount,
		SourceAccount:      sourceAccount,
		DestinationAccount: destinationAccount,
		Status:             transactionlog.StatusPending,
		IdempotencyKey:     idempotencyKey,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.log.Append(ctx, create); err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	if err := s.ledger.SetBalance(ctx, sourceAccount, source.Balance.Sub(amount)); err != nil {
		s.finalize(ctx, create.ID, transactionlog.StatusFailed)
		return nil, err
	}

	if err := s.ledger.SetBalance(ctx, destinationAccount, destination.Balance.Add(amount)); err != nil {
		// Compensate: re-credit the source. If that also fails the record
		// stays PENDING so reconciliation can surface it.
		if compErr := s.ledger.SetBalance(ctx, sourceAccount, source.Balance); compErr != nil {
			s.logger.WithError(compErr).WithFields(logrus.Fields{
				"txnId":         create.ID,
				"sourceAccount": sourceAccount,
			}).Error("TransactionService.Transfer.compensation failed, source debited without credit")
			return nil, err
		}
		s.logger.WithField("txnId", create.ID).Warn("TransactionService.Transfer.compensated, source re-credited")
		s.finalize(ctx, create.ID, transactionlog.StatusFailed)
		return nil, err
	}

	if err := s.log.MarkStatus(ctx, create.ID, transactionlog.StatusSuccess); err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	s.notifier.Dispatch(fmt.Sprintf("Transfer of %s from %s to %s successful", amount, sourceAccount, destinationAccount))

	s.logger.WithField("txnId", create.ID).Info("TransactionService.Transfer.Complete")
	return &Transaction{
		ID:                 create.ID,
		Kind:               create.Kind,
		Amount:             create.Amount,
		SourceAccount:      create.SourceAccount,
		DestinationAccount: create.DestinationAccount,
		Status:             transactionlog.StatusSuccess,
		Timestamp:          create.CreatedAt,
	}, nil
}

// History returns every transaction in which the account participates as
// source or destination, in insertion order.
func (s *TransactionService) History(ctx context.Context, accountNumber string) ([]*Transaction, error) {
	rows, err := s.log.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	result := make([]*Transaction, len(rows))
	for i, row := range rows {
		result[i] = transactionFromRow(row)
	}
	return result, nil
}

// ReconcilePending finalizes transfers a previous run left PENDING. The
// balances may or may not have moved, so the records are marked FAILED and
// logged for review rather than silently dropped.
func (s *TransactionService) ReconcilePending(ctx context.Context) error {
	stale, err := s.log.ListPending(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("query pending transactions: %w", err)
	}

	for _, txn := range stale {
		s.logger.WithFields(logrus.Fields{
			"txnId":              txn.ID,
			"sourceAccount":      txn.SourceAccount,
			"destinationAccount": txn.DestinationAccount,
			"amount":             txn.Amount.String(),
		}).Warn("TransactionService.ReconcilePending.stale transfer, marking FAILED")

		if err := s.log.MarkStatus(ctx, txn.ID, transactionlog.StatusFailed); err != nil {
			return fmt.Errorf("finalize stale transaction %s: %w", txn.ID, err)
		}
	}
	return nil
}

// findReplay returns the previously recorded transaction for a reused
// idempotency key, so a retried request has effect at most once. Callers
// must hold the account locks; a key reused with different parameters is
// rejected rather than silently replayed.
func (s *TransactionService) findReplay(ctx context.Context, idempotencyKey string, kind transactionlog.Kind, amount decimal.Decimal, sourceAccount, destinationAccount string) (*Transaction, error) {
	if idempotencyKey == "" {
		return nil, nil
	}

	row, err := s.log.FindByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("query idempotency key: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	if row.Kind != kind || !row.Amount.Equal(amount) ||
		row.SourceAccount != sourceAccount || row.DestinationAccount != destinationAccount {
		s.logger.WithFields(logrus.Fields{
			"txnId":          row.ID,
			"idempotencyKey": idempotencyKey,
		}).Warn("TransactionService.idempotency key reused with different parameters")
		return nil, ErrIdempotencyConflict
	}

	s.logger.WithFields(logrus.Fields{
		"txnId":          row.ID,
		"idempotencyKey": idempotencyKey,
	}).Info("TransactionService.idempotent replay")
	return transactionFromRow(row), nil
}

// appendCommitted writes a SUCCESS record for a completed single-account
// operation. An append failure is fatal to the operation.
func (s *TransactionService) appendCommitted(ctx context.Context, kind transactionlog.Kind, amount decimal.Decimal, sourceAccount, destinationAccount, idempotencyKey string) (*Transaction, error) {
	create := &transactionlog.TransactionCreate{
		ID:                 generateTransactionID(),
		Kind:               kind,
		Amount:             amount,
		SourceAccount:      sourceAccount,
		DestinationAccount: destinationAccount,
		Status:             transactionlog.StatusSuccess,
		IdempotencyKey:     idempotencyKey,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.log.Append(ctx, create); err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	return &Transaction{
		ID:                 create.ID,
		Kind:               create.Kind,
		Amount:             create.Amount,
		SourceAccount:      create.SourceAccount,
		DestinationAccount: create.DestinationAccount,
		Status:             create.Status,
		Timestamp:          create.CreatedAt,
	}, nil
}

// finalize marks a PENDING record FAILED, logging rather than propagating
// the error: the caller is already unwinding a more important failure.
func (s *TransactionService) finalize(ctx context.Context, id string, status transactionlog.Status) {
	if err := s.log.MarkStatus(ctx, id, status); err != nil {
		s.logger.WithError(err).WithField("txnId", id).Error("TransactionService.finalize failed")
	}
}
