package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docfiler/internal/core/domain"
)

func TestPersonService_List_SkipsCorrupt(t *testing.T) {
	reg := memory.NewPersonRegistry()
	ctx := context.Background()
	require.NoError(t, reg.Create(ctx, &domain.PersonFolder{ID: "A", DisplayName: "A"}))
	reg.AddCorrupt("BROKEN")
	require.NoError(t, reg.Create(ctx, &domain.PersonFolder{ID: "B", DisplayName: "B"}))

	svc := NewPersonService(reg)
	folders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "A", folders[0].ID)
	assert.Equal(t, "B", folders[1].ID)
}

func TestPersonService_Get(t *testing.T) {
	reg := memory.NewPersonRegistry()
	ctx := context.Background()
	require.NoError(t, reg.Create(ctx, &domain.PersonFolder{ID: "A", DisplayName: "A", DOB: "01/01/1990"}))
	svc := NewPersonService(reg)

	f, err := svc.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "01/01/1990", f.DOB)

	_, err = svc.Get(ctx, "Z")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
