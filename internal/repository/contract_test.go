package repository

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/MPanduranga55/Contact-Book/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContactsRepositoryContract 对任意 ContactsRepository 实现跑同一组行为检查
func runContactsRepositoryContract(t *testing.T, newRepo func(t *testing.T) ContactsRepository) {
	t.Run("CreateAssignsIDAndTimestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		c, err := repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
		require.NoError(t, err)
		assert.Positive(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Equal(t, "Ann", c.Name)
		assert.Equal(t, "ann@x.com", c.Email)
		assert.Equal(t, "5551234567", c.Phone)

		got, err := repo.GetContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("DuplicateEmailIsRejectedWithoutPartialWrite", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
		require.NoError(t, err)

		_, err = repo.CreateContact(ctx, &domain.Contact{Name: "Other", Email: "ann@x.com", Phone: "5550000000"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		items, total, err := repo.ListContacts(ctx, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "Ann", items[0].Name)
	})

	t.Run("EmailUniquenessIsCaseSensitive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
		require.NoError(t, err)
		_, err = repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ANN@x.com", Phone: "5551234567"})
		assert.NoError(t, err)
	})

	t.Run("ListIsNewestFirstAndPaginated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 7; i++ {
			_, err := repo.CreateContact(ctx, &domain.Contact{
				Name:  fmt.Sprintf("c%d", i),
				Email: fmt.Sprintf("c%d@x.com", i),
				Phone: "5551234567",
			})
			require.NoError(t, err)
		}

		first, total, err := repo.ListContacts(ctx, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		require.Len(t, first, 3)
		assert.Equal(t, "c6", first[0].Name)
		assert.Equal(t, "c5", first[1].Name)
		assert.Equal(t, "c4", first[2].Name)

		last, _, err := repo.ListContacts(ctx, 3, 3)
		require.NoError(t, err)
		require.Len(t, last, 1)
		assert.Equal(t, "c0", last[0].Name)

		beyond, total, err := repo.ListContacts(ctx, 4, 3)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.Empty(t, beyond)
	})

	t.Run("HugePageIsEmpty", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
		require.NoError(t, err)

		for _, limit := range []int{2, 100} {
			items, total, err := repo.ListContacts(ctx, math.MaxInt/2, limit)
			require.NoError(t, err, "limit=%d", limit)
			assert.Equal(t, 1, total)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		}
	})

	t.Run("DeleteReportsWhetherARowWasRemoved", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		c, err := repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
		require.NoError(t, err)

		deleted, err := repo.DeleteContact(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteContact(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetContact(ctx, c.ID)
		assert.ErrorIs(t, err, ErrContactNotFound)

		// email is free again after delete
		_, err = repo.CreateContact(ctx, &domain.Contact{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
		assert.NoError(t, err)
	})
}
