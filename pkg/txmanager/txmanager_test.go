package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

type mockTx struct {
	dbmetrics.DBExecutor
	mock.Mock
}

func (m *mockTx) Commit() error   { return m.Called().Error(0) }
func (m *mockTx) Rollback() error { return m.Called().Error(0) }

type mockBeginner struct {
	mock.Mock
}

func (m *mockBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dbmetrics.TxExecutor), args.Error(1)
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	tx := &mockTx{}
	tx.On("Commit").Return(nil).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil).Once()

	var sawTx bool
	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Rollback")
}

func TestDo_RollsBackOnError(t *testing.T) {
	tx := &mockTx{}
	tx.On("Rollback").Return(nil).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil).Once()

	wantErr := errors.New("conflict")
	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Commit")
}

func TestDo_NestedJoinsOuterTransaction(t *testing.T) {
	tx := &mockTx{}
	tx.On("Commit").Return(nil).Once()
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, mock.Anything).Return(tx, nil).Once()

	m := NewTransactionManager(db)
	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	db.AssertNumberOfCalls(t, "BeginTx", 1)
}

func TestDo_BeginFailure(t *testing.T) {
	db := &mockBeginner{}
	db.On("BeginTx", mock.Anything, mock.Anything).Return(nil, errors.New("conn refused"))

	err := NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})
	assert.ErrorIs(t, err, ErrBeginTx)
}
