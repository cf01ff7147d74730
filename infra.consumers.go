package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// boltArchiveConsumer drains accepted orders from the queue and persists
// them into the bolt-based archive.
type boltArchiveConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	archive OrderArchive
}

func NewBoltArchiveConsumer(logger *zap.Logger, q Queuer, archive OrderArchive) Consumer {
	return &boltArchiveConsumer{logger, q, archive}
}

func (bc *boltArchiveConsumer) Consume(ctx context.Context, qids ...string) error {
	var record OrderRecord
	var err error
	var qid string
	for {
		qid, record, err = bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		switch qid {
		case ArchiveQueue:
			if err = bc.archive.Save(ctx, record.ID, record); err != nil {
				bc.logger.Error("consumer: failed to archive order", zap.String("order.id", record.ID), zap.Error(err))
			}
		default:
			bc.logger.Warn("consumer: received order on unknow queue id", zap.String("qid", qid), zap.String("order.id", record.ID))
		}
	}
}
