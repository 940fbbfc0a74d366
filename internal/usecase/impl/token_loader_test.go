package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
)

func TestTokenLoader_LoadPage(t *testing.T) {
	installations := &fakeInstallationRepository{
		page: repository.TokenPage{Tokens: []string{"t1", "t2"}, NextCursor: "c2", HasMore: true},
	}
	loader := NewTokenLoader(installations)

	page, err := loader.LoadPage(context.Background(), uuid.New(), "c1", 2, entity.InstallationFilter{Categories: []string{"news"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, page.Tokens)
	assert.Equal(t, "c2", page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestTokenLoader_LoadPage_PropagatesError(t *testing.T) {
	boom := assertErr("store unavailable")
	installations := &fakeInstallationRepository{pageErr: boom}
	loader := NewTokenLoader(installations)

	_, err := loader.LoadPage(context.Background(), uuid.New(), "", 10, entity.InstallationFilter{})
	require.Error(t, err)
	assert.Equal(t, boom, err)
}
