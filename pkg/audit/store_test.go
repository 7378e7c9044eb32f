// pkg/audit/store_test.go
package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"enrolltrend/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "audit.sqlite"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore("", zap.NewNop())
	assert.Error(t, err)

	_, err = NewStore("x.sqlite", nil)
	assert.Error(t, err)
}

func TestRecordAndReadBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := "-"
	ops := []model.ImputationOperation{
		{
			RunID:         "run-1",
			Semester:      "2007/08",
			University:    "Universität Bonn",
			ColumnName:    "Total",
			OriginalValue: &original,
			NewValue:      "110",
			Operation:     model.OpCountImputation,
			Reason:        "total_from_male_female",
		},
		{
			RunID:      "run-1",
			Semester:   "2012/13",
			University: "Uni Total",
			ColumnName: "Total",
			NewValue:   "300",
			Operation:  model.OpAggregateIncomplete,
			Reason:     "absent_member_total_treated_as_zero",
		},
	}

	require.NoError(t, store.RecordOperations(ctx, ops))

	got, err := store.OperationsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Universität Bonn", got[0].University)
	assert.Equal(t, "110", got[0].NewValue)
	require.NotNil(t, got[0].OriginalValue)
	assert.Equal(t, "-", *got[0].OriginalValue)
	assert.False(t, got[0].RecordedAt.IsZero())

	assert.Equal(t, model.OpAggregateIncomplete, got[1].Operation)
	assert.Nil(t, got[1].OriginalValue)
}

func TestRecordOperationsEmptyIsNoop(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.RecordOperations(context.Background(), nil))
}

func TestOperationsAreScopedToRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordOperations(ctx, []model.ImputationOperation{
		{RunID: "run-a", Semester: "2007/08", University: "Universität Bonn",
			ColumnName: "Total", NewValue: "1", Operation: model.OpCountImputation, Reason: "total_from_male_female"},
		{RunID: "run-b", Semester: "2007/08", University: "Universität Bochum",
			ColumnName: "Male", NewValue: "2", Operation: model.OpCountImputation, Reason: "male_from_total_female"},
	}))

	got, err := store.OperationsForRun(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Universität Bonn", got[0].University)
}

func TestCountByOperation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordOperations(ctx, []model.ImputationOperation{
		{RunID: "r", Semester: "s", University: "u", ColumnName: "Total",
			NewValue: "1", Operation: model.OpCountImputation, Reason: "total_from_male_female"},
		{RunID: "r", Semester: "s", University: "u", ColumnName: "Male",
			NewValue: "2", Operation: model.OpCountImputation, Reason: "male_from_total_female"},
		{RunID: "r", Semester: "s", University: "u", ColumnName: "Total",
			NewValue: "", Operation: model.OpImputationConflict, Reason: "multiple_fields_absent"},
	}))

	counts, err := store.CountByOperation(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		model.OpCountImputation:    2,
		model.OpImputationConflict: 1,
	}, counts)
}
