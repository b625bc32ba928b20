package repository

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Write は UnitOfWork を開始して fn を実行し、成功したら Commit する。
// fn か Commit が失敗した場合は Rollback し、そのエラーも併せて返す。
func Write(ctx context.Context, f Factory, fn func(UnitOfWork) error) (err error) {
	uow, err := f.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { err = multierr.Append(err, uow.Close()) }()

	if err := fn(uow); err != nil {
		return multierr.Append(err, uow.Rollback(ctx))
	}
	if _, err := uow.Commit(ctx); err != nil {
		return multierr.Append(err, uow.Rollback(ctx))
	}
	return nil
}

// Read は読み取り専用で fn を実行する。Commit はしない。
func Read(ctx context.Context, f Factory, fn func(UnitOfWork) error) (err error) {
	uow, err := f.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { err = multierr.Append(err, uow.Close()) }()

	return fn(uow)
}
