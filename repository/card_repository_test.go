package repository

import (
	"context"
	"testing"

	"packbot/models"
	"packbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRepository_AppendAndGetByOwner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		cards, err := repo.GetByOwner(ctx, 999999)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("append preserves acquisition order", func(t *testing.T) {
		first := testutil.CreateTestCard(100001, "ROGERIO", models.RarityCommon)
		second := testutil.CreateTestCard(100001, "BERINHEAD", models.RarityRare)

		require.NoError(t, repo.Append(ctx, first))
		require.NoError(t, repo.Append(ctx, second))
		assert.NotZero(t, first.ID)
		assert.False(t, first.CreatedAt.IsZero())

		cards, err := repo.GetByOwner(ctx, 100001)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, "ROGERIO", cards[0].Name)
		assert.Equal(t, "BERINHEAD", cards[1].Name)
	})

	t.Run("duplicates are allowed", func(t *testing.T) {
		card := testutil.CreateTestCard(100002, "ROGERIO", models.RarityCommon)
		require.NoError(t, repo.Append(ctx, card))
		again := testutil.CreateTestCard(100002, "ROGERIO", models.RarityCommon)
		require.NoError(t, repo.Append(ctx, again))

		cards, err := repo.GetByOwner(ctx, 100002)
		require.NoError(t, err)
		assert.Len(t, cards, 2)
	})

	t.Run("fractional and negative stats survive", func(t *testing.T) {
		card := testutil.CreateTestCardWithStats(100003, "WEIRDO", models.RarityEpic, 3.14, -500)
		require.NoError(t, repo.Append(ctx, card))

		cards, err := repo.GetByOwner(ctx, 100003)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, 3.14, cards[0].Attack)
		assert.Equal(t, float64(-500), cards[0].Life)
	})
}

func TestCardRepository_GetByOwnerAndRarity(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCardRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testutil.CreateTestCard(100010, "A", models.RarityCommon)))
	require.NoError(t, repo.Append(ctx, testutil.CreateTestCard(100010, "B", models.RarityRare)))
	require.NoError(t, repo.Append(ctx, testutil.CreateTestCard(100010, "C", models.RarityCommon)))

	commons, err := repo.GetByOwnerAndRarity(ctx, 100010, models.RarityCommon)
	require.NoError(t, err)
	require.Len(t, commons, 2)
	assert.Equal(t, "A", commons[0].Name)
	assert.Equal(t, "C", commons[1].Name)

	legendaries, err := repo.GetByOwnerAndRarity(ctx, 100010, models.RarityLegendary)
	require.NoError(t, err)
	assert.Empty(t, legendaries)
}

func TestCardRepository_RemoveOne(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("removes exactly one copy, oldest first", func(t *testing.T) {
		first := testutil.CreateTestCard(100020, "ROGERIO", models.RarityCommon)
		second := testutil.CreateTestCard(100020, "ROGERIO", models.RarityCommon)
		require.NoError(t, repo.Append(ctx, first))
		require.NoError(t, repo.Append(ctx, second))

		removed, err := repo.RemoveOne(ctx, first)
		require.NoError(t, err)
		assert.True(t, removed)

		cards, err := repo.GetByOwner(ctx, 100020)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, second.ID, cards[0].ID)
	})

	t.Run("full tuple must match", func(t *testing.T) {
		card := testutil.CreateTestCardWithStats(100021, "ROGERIO", models.RarityCommon, 100, 50)
		require.NoError(t, repo.Append(ctx, card))

		// Same name, different stats: no match
		other := testutil.CreateTestCardWithStats(100021, "ROGERIO", models.RarityCommon, 999, 50)
		removed, err := repo.RemoveOne(ctx, other)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("missing card reports false", func(t *testing.T) {
		removed, err := repo.RemoveOne(ctx, testutil.CreateTestCard(100022, "NOPE", models.RarityRare))
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestCardRepository_RemoveByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCardRepository(testDB.DB)
	ctx := context.Background()

	card := testutil.CreateTestCard(100030, "ROGERIO", models.RarityCommon)
	require.NoError(t, repo.Append(ctx, card))

	t.Run("owner mismatch removes nothing", func(t *testing.T) {
		removed, err := repo.RemoveByID(ctx, 999999, card.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("removes the instance", func(t *testing.T) {
		removed, err := repo.RemoveByID(ctx, 100030, card.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		// A second attempt finds nothing
		removed, err = repo.RemoveByID(ctx, 100030, card.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestCardRepository_DuplicateChecks(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCardRepository(testDB.DB)
	ctx := context.Background()

	owned := testutil.CreateTestCardWithStats(100040, "ROGERIO", models.RarityCommon, 100, 50)
	require.NoError(t, repo.Append(ctx, owned))

	t.Run("HasExact matches the full tuple", func(t *testing.T) {
		same := testutil.CreateTestCardWithStats(100040, "ROGERIO", models.RarityCommon, 100, 50)
		exists, err := repo.HasExact(ctx, same)
		require.NoError(t, err)
		assert.True(t, exists)

		differentStats := testutil.CreateTestCardWithStats(100040, "ROGERIO", models.RarityCommon, 999, 50)
		exists, err = repo.HasExact(ctx, differentStats)
		require.NoError(t, err)
		assert.False(t, exists)

		otherOwner := testutil.CreateTestCardWithStats(999999, "ROGERIO", models.RarityCommon, 100, 50)
		exists, err = repo.HasExact(ctx, otherOwner)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("HasNameRarity ignores stats", func(t *testing.T) {
		exists, err := repo.HasNameRarity(ctx, 100040, "ROGERIO", models.RarityCommon)
		require.NoError(t, err)
		assert.True(t, exists)

		// Same name at a different rarity is a different card
		exists, err = repo.HasNameRarity(ctx, 100040, "ROGERIO", models.RarityRare)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
