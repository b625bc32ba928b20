package sqlstore_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"taskflow/internal/domain/task"
)

func mustTaskForMissingProject(t *testing.T) *task.Task {
	t.Helper()
	tk, err := task.NewTask(uuid.New(), uuid.New(), "孤立タスク", "", task.PriorityLow, nil, fixedNow)
	require.NoError(t, err)
	return tk
}
