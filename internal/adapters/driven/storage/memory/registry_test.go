package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

func TestPersonRegistry_CreateGetList(t *testing.T) {
	reg := NewPersonRegistry()
	ctx := context.Background()

	require.NoError(t, reg.Create(ctx, &domain.PersonFolder{ID: "B", DisplayName: "B"}))
	require.NoError(t, reg.Create(ctx, &domain.PersonFolder{ID: "A", DisplayName: "A", DocNumbers: []string{"1"}}))

	ids, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, ids)

	f, err := reg.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, f.DocNumbers)

	_, err = reg.Get(ctx, "C")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = reg.Create(ctx, &domain.PersonFolder{ID: "A"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestPersonRegistry_GetReturnsCopy(t *testing.T) {
	reg := NewPersonRegistry()
	ctx := context.Background()
	require.NoError(t, reg.Create(ctx, &domain.PersonFolder{ID: "A", DocNumbers: []string{"1"}}))

	f, _ := reg.Get(ctx, "A")
	f.AddDocNumber("2")

	again, _ := reg.Get(ctx, "A")
	assert.Equal(t, []string{"1"}, again.DocNumbers)

	require.NoError(t, reg.Save(ctx, f))
	again, _ = reg.Get(ctx, "A")
	assert.Equal(t, []string{"1", "2"}, again.DocNumbers)
}

func TestPersonRegistry_Corrupt(t *testing.T) {
	reg := NewPersonRegistry()
	ctx := context.Background()
	reg.AddCorrupt("BROKEN")

	ids, _ := reg.List(ctx)
	assert.Equal(t, []string{"BROKEN"}, ids)

	_, err := reg.Get(ctx, "BROKEN")
	assert.ErrorIs(t, err, domain.ErrRegistryCorrupt)

	exists, err := reg.Exists(ctx, "BROKEN")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPersonRegistry_SaveUnknown(t *testing.T) {
	reg := NewPersonRegistry()
	err := reg.Save(context.Background(), &domain.PersonFolder{ID: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
