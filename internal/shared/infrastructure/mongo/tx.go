package mongo

import (
	"context"
	"errors"

	"Aethelgard/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// TxRunner 把一段读写包进 MongoDB 多文档事务。
// 事务是所有落库写入的串行化点：同一文档上的并发事务在提交时冲突，
// 驱动重试耗尽后由这里归一成 errx.ErrConflict，调用方可安全重试。
type TxRunner struct {
	client *mongo.Client
}

func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

func (t *TxRunner) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t == nil || t.client == nil {
		return errors.New("mongodb client is nil")
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return errx.ErrConflict.WithCause(err)
	}
	return err
}

func isTransient(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("TransientTransactionError") ||
			se.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
