package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobportal/jobportal-go/internal/model"
)

func TestMemoryUserRepositoryUniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ok  int
		dup int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &model.User{Name: "Ann", Email: "ann@x.io"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateEmail):
				dup++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dup)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryUserRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	u := &model.User{Name: "Ann", Email: "ann@x.io"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "ann@x.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "ANN@x.io")
	assert.ErrorIs(t, err, ErrUserNotFound, "emails are case-sensitive")

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryJobRepositoryKeepsOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJobRepository()

	first := &model.Job{UserID: "owner", Title: "First"}
	second := &model.Job{UserID: "owner", Title: "Second"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Second", jobs[0].Title)

	first.UserID = "thief"
	first.Title = "Renamed"
	require.NoError(t, repo.Update(ctx, first))

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", stored.UserID)
	assert.Equal(t, "Renamed", stored.Title)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrJobNotFound)
}

func TestMemoryApplicationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApplicationRepository()

	a1 := &model.Application{JobID: "j1", UserID: "u1", Status: model.StatusPending}
	a2 := &model.Application{JobID: "j2", UserID: "u1", Status: model.StatusPending}
	a3 := &model.Application{JobID: "j1", UserID: "u2", Status: model.StatusPending}
	for _, a := range []*model.Application{a1, a2, a3} {
		require.NoError(t, repo.Create(ctx, a))
	}

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID)

	forJob, err := repo.ListByJob(ctx, "j1")
	require.NoError(t, err)
	assert.Len(t, forJob, 2)

	require.NoError(t, repo.UpdateStatus(ctx, a1.ID, model.StatusRejected))
	got, err := repo.GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)

	require.NoError(t, repo.Delete(ctx, a1.ID))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, a1.ID, model.StatusShortlisted), ErrApplicationNotFound)
}
