package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmanager/taskmanager-go/internal/model"
	"github.com/taskmanager/taskmanager-go/internal/repository"
)

func TestUserStore_UniqueKeys(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	alice := &model.User{Username: "alice", Email: "a@x.com", Role: model.RoleUser}
	require.NoError(t, s.Save(ctx, alice))
	assert.Equal(t, int64(1), alice.ID)

	err := s.Save(ctx, &model.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	err = s.Save(ctx, &model.User{Username: "alice2", Email: "a@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	exists, err := s.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ExistsByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserStore_ConcurrentRegistrationsKeepUsernameUnique(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Save(ctx, &model.User{Username: "racer", Email: string(rune('a'+i)) + "@x.com"})
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserStore_FindReturnsCopy(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &model.User{Username: "alice", Email: "a@x.com"}))

	u, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	u.Username = "mallory"

	again, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestTaskStore(t *testing.T) {
	s := NewTaskStore()
	ctx := context.Background()

	a := &model.Task{Title: "a", UserID: 1}
	b := &model.Task{Title: "b", UserID: 2}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.ListByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "b", mine[0].Title)

	a.Title = "a2"
	require.NoError(t, s.Update(ctx, a))
	got, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Title)

	require.NoError(t, s.Delete(ctx, a.ID))
	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.ErrorIs(t, s.Update(ctx, a), repository.ErrTaskNotFound)
}

func TestNotificationStore(t *testing.T) {
	s := NewNotificationStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &model.Notification{Message: "first"}))
	require.NoError(t, s.Create(ctx, &model.Notification{Message: "second"}))

	unread, err := s.ListUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, "second", unread[0].Message)

	n, err := s.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	unread, err = s.ListUnread(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
