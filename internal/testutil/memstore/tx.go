package memstore

import (
	"context"
	"sync"
)

type txKey struct{}

type tx struct {
	undo  []func()
	locks map[int64]*sync.Mutex
}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// TxManager транзакции в памяти: вложенный вызов переиспользует внешнюю транзакцию,
// ошибка откатывает все изменения, блокировки номеров снимаются по завершении
type TxManager struct {
	s *Store
}

// TxManager возвращает менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	t := &tx{locks: make(map[int64]*sync.Mutex)}
	txCtx := context.WithValue(ctx, txKey{}, t)

	defer func() {
		if p := recover(); p != nil {
			m.rollback(t)
			m.release(t)
			panic(p)
		}
		if err != nil {
			m.rollback(t)
		}
		m.release(t)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(txCtx)
}

func (m *TxManager) rollback(t *tx) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (m *TxManager) release(t *tx) {
	for _, l := range t.locks {
		l.Unlock()
	}
	t.locks = nil
}
