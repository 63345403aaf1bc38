package repository

import (
	"context"
	"testing"

	"order17vat/internal/model"
	"order17vat/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepositoryLogAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		entry := &model.AuditLog{Action: model.ActionToggleVat17, EntityID: "42", Actor: "17"}
		require.NoError(t, repo.Log(ctx, entry))
		assert.NotEqual(t, uuid.Nil, entry.ID)
	}
	require.NoError(t, repo.Log(ctx, &model.AuditLog{Action: model.ActionSetVat17, EntityID: "7", Actor: "3"}))

	logs, total, err := repo.List(ctx, AuditFilter{}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, logs, 3)

	logs, _, err = repo.List(ctx, AuditFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	byEntity, err := repo.ListByEntity(ctx, "42")
	require.NoError(t, err)
	assert.Len(t, byEntity, 3)
}

func TestAuditRepositoryListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	entries := []model.AuditLog{
		{Action: model.ActionToggleVat17, EntityID: "42", Actor: "17"},
		{Action: model.ActionSetVat17, EntityID: "42", Actor: "3"},
		{Action: model.ActionUpdateOrder, EntityID: "42", Actor: "17"},
		{Action: model.ActionToggleVat17, EntityID: "7", Actor: "17"},
	}
	for i := range entries {
		require.NoError(t, repo.Log(ctx, &entries[i]))
	}

	cases := []struct {
		name   string
		filter AuditFilter
		want   int64
	}{
		{"entity", AuditFilter{EntityID: "42"}, 3},
		{"entity and vat actions", AuditFilter{EntityID: "42", Actions: []string{model.ActionToggleVat17, model.ActionSetVat17}}, 2},
		{"actor", AuditFilter{Actor: "17"}, 3},
		{"no match", AuditFilter{EntityID: "99"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs, total, err := repo.List(ctx, tc.filter, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
			assert.Len(t, logs, int(tc.want))
		})
	}
}
