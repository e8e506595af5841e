package xcontext

import (
	"context"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	nestedTxKey      struct{}
	requestUserIDKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction if BeginTx was called on this context,
// otherwise the plain database handle.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}

	db, _ := ctx.Value(dbKey{}).(*gorm.DB)
	if db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

// BeginTx starts a transaction. Inside an existing transaction it joins the
// outer one, and the matching CommitTx/RollbackTx become no-ops.
func BeginTx(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB); ok && tx != nil {
		return context.WithValue(ctx, nestedTxKey{}, true)
	}

	tx := DB(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, tx)
}

func CommitTx(ctx context.Context) error {
	if nested, _ := ctx.Value(nestedTxKey{}).(bool); nested {
		return nil
	}

	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}

	return tx.Commit().Error
}

// RollbackTx is safe to defer after CommitTx, rolling back a committed
// transaction is a no-op.
func RollbackTx(ctx context.Context) {
	if nested, _ := ctx.Value(nestedTxKey{}).(bool); nested {
		return
	}

	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return
	}

	tx.Rollback()
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}
