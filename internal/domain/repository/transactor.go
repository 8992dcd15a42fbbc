package repository

import "context"

// Transactor выполняет fn в одной транзакции БД.
// Репозитории, вызванные с переданным ctx, работают внутри этой транзакции.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
