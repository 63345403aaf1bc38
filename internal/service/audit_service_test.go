package service

import (
	"context"
	"testing"

	"order17vat/internal/model"
	"order17vat/internal/repository"
	"order17vat/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditServiceShowsSystemActor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAuditRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, &model.AuditLog{Action: model.ActionSweepVat17}))

	logs, total, err := NewAuditService(repo).GetAuditLogs(ctx, AuditQuery{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "System", logs[0].Actor)
	assert.Equal(t, model.ActionSweepVat17, logs[0].Action)
}

func TestAuditServiceOrderVatHistory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAuditRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, &model.AuditLog{Action: model.ActionCreateOrder, EntityID: "42"}))
	require.NoError(t, repo.Log(ctx, &model.AuditLog{Action: model.ActionToggleVat17, EntityID: "42", Actor: "17"}))
	require.NoError(t, repo.Log(ctx, &model.AuditLog{Action: model.ActionToggleVat17, EntityID: "7", Actor: "17"}))

	logs, total, err := NewAuditService(repo).GetAuditLogs(ctx, AuditQuery{OrderID: 42, VatOnly: true}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "42", logs[0].EntityID)
	assert.Equal(t, "17", logs[0].Actor)
}
