package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/transaction-server/internal/config"
	"github.com/carson-networks/transaction-server/internal/storage/transactionlog"
)

type Storage struct {
	Pool         *pgxpool.Pool
	Transactions transactionlog.ITransactionLog
}

func NewStorage(ctx context.Context, env *config.Config) *Storage {
	pool, err := pgxpool.New(ctx, env.PostgresURL())
	if err != nil {
		logrus.WithError(err).Fatal("pgxpool.New")
	}

	return &Storage{
		Pool:         pool,
		Transactions: transactionlog.NewTable(pool),
	}
}

func (s *Storage) Close() {
	s.Pool.Close()
}
