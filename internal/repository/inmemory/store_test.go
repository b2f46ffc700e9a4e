package inmemory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"todoList/internal/apperr"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/repository"
	"todoList/internal/repository/inmemory"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = civil.Date{Year: 2024, Month: 6, Day: 10}

func newStoreWithUsers(t *testing.T, names ...string) (*inmemory.Store, []user.User) {
	t.Helper()
	store := inmemory.NewStore()
	users := make([]user.User, 0, len(names))
	for _, name := range names {
		u := user.New(name)
		store.AddUser(context.Background(), u)
		users = append(users, u)
	}
	return store, users
}

func addTask(t *testing.T, store *inmemory.Store, tk task.Task) task.Task {
	t.Helper()
	require.NoError(t, store.AddTask(context.Background(), tk))
	return tk
}

// TestStore_Users checks insertion order and copy-on-read
func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice", "Bob", "Alice")

	listed := store.ListUsers(ctx)
	require.Len(t, listed, 3)
	for i := range users {
		assert.Equal(t, users[i].ID, listed[i].ID)
	}

	listed[0].FirstName = "Mallory"
	again, err := store.GetUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.FirstName)

	byName, err := store.GetUserByFirstName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, byName.ID)

	_, err = store.GetUserByFirstName(ctx, "Zed")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.Equal(t, 3, store.UserCount(ctx))
}

func TestStore_GetUser_NotFound(t *testing.T) {
	store := inmemory.NewStore()

	_, err := store.GetUser(context.Background(), "missing")

	require.Error(t, err)
	var busErr *apperr.BusinessError
	require.True(t, errors.As(err, &busErr))
	assert.Equal(t, apperr.CodeNotFound, busErr.Code)
	assert.Equal(t, "missing", busErr.Details["id"])
	assert.Equal(t, apperr.ResourceUser, busErr.Details["resource"])
}

func TestStore_UpdateUser(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")

	require.NoError(t, store.UpdateUser(ctx, users[0].ID, "Alicia"))
	got, err := store.GetUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)

	err = store.UpdateUser(ctx, "nobody", "x")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStore_DeleteUser_Cascades(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice", "Bob")
	alice, bob := users[0], users[1]

	addTask(t, store, task.NewPlain("a1", "", alice.ID))
	keep := addTask(t, store, task.NewPlain("b1", "", bob.ID))
	addTask(t, store, task.NewDated("a2", "", alice.ID, today))

	usersBefore, tasksBefore := store.UserCount(ctx), store.TaskCount(ctx)

	require.NoError(t, store.DeleteUser(ctx, alice.ID))

	assert.Equal(t, usersBefore-1, store.UserCount(ctx))
	assert.Equal(t, tasksBefore-2, store.TaskCount(ctx))
	for _, tk := range store.ListTasks(ctx) {
		assert.NotEqual(t, alice.ID, tk.CreatedBy)
	}
	_, err := store.GetTask(ctx, keep.ID)
	assert.NoError(t, err)

	err = store.DeleteUser(ctx, alice.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStore_AddTask_RequiresCreator(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	err := store.AddTask(ctx, task.NewPlain("orphan", "", "ghost"))

	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 0, store.TaskCount(ctx))
}

func TestStore_TaskListings(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice", "Bob")

	p1 := addTask(t, store, task.NewPlain("p1", "", users[0].ID))
	d1 := addTask(t, store, task.NewDated("d1", "", users[1].ID, today))
	p2 := addTask(t, store, task.NewPlain("p2", "", users[1].ID))

	all := store.ListTasks(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, []task.ID{p1.ID, d1.ID, p2.ID}, []task.ID{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, task.KindDated, all[1].Kind)

	byBob := store.ListTasksByUser(ctx, users[1])
	require.Len(t, byBob, 2)
	assert.Equal(t, d1.ID, byBob[0].ID)
	assert.Equal(t, p2.ID, byBob[1].ID)

	dated := store.ListDatedTasks(ctx)
	require.Len(t, dated, 1)
	assert.Equal(t, d1.ID, dated[0].ID)
}

func TestStore_UpdateTask(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")
	due := today.AddDays(3)
	dated := addTask(t, store, task.NewDated("old", "old desc", users[0].ID, due))

	require.NoError(t, store.UpdateTask(ctx, dated.ID, "new", "new desc", true))

	got, err := store.GetTask(ctx, dated.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "new desc", got.Description)
	assert.True(t, got.Done)
	assert.Equal(t, task.KindDated, got.Kind)
	assert.Equal(t, due, got.DueDate)

	assert.True(t, errors.Is(store.UpdateTask(ctx, "nope", "", "", false), apperr.ErrNotFound))
}

func TestStore_UpdateDatedTask(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")
	plain := addTask(t, store, task.NewPlain("plain", "", users[0].ID))
	dated := addTask(t, store, task.NewDated("dated", "", users[0].ID, today))
	newDue := today.AddDays(10)

	require.NoError(t, store.UpdateDatedTask(ctx, dated.ID, "dated 2", "d", false, newDue))
	got, err := store.GetTask(ctx, dated.ID)
	require.NoError(t, err)
	assert.Equal(t, newDue, got.DueDate)
	assert.Equal(t, "dated 2", got.Title)

	err = store.UpdateDatedTask(ctx, plain.ID, "x", "y", true, newDue)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	unchanged, err := store.GetTask(ctx, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, plain, unchanged)

	err = store.UpdateDatedTask(ctx, "missing", "x", "y", true, newDue)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStore_MarkDone_TogglePreservesFields(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")
	original := addTask(t, store, task.NewDated("write", "chapter", users[0].ID, today))

	require.NoError(t, store.MarkDone(ctx, original.ID, true))
	done, err := store.GetTask(ctx, original.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)

	require.NoError(t, store.MarkDone(ctx, original.ID, false))
	undone, err := store.GetTask(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original, undone)

	assert.True(t, errors.Is(store.MarkDone(ctx, "missing", true), apperr.ErrNotFound))
}

func TestStore_DeleteTask(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")
	tk := addTask(t, store, task.NewPlain("gone", "", users[0].ID))

	require.NoError(t, store.DeleteTask(ctx, tk.ID))
	_, err := store.GetTask(ctx, tk.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(store.DeleteTask(ctx, tk.ID), apperr.ErrNotFound))
}

func TestStore_DeleteAllTasksByUser(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice", "Bob")
	addTask(t, store, task.NewPlain("a", "", users[0].ID))
	addTask(t, store, task.NewPlain("b", "", users[1].ID))

	assert.Equal(t, 1, store.DeleteAllTasksByUser(ctx, users[0]))
	assert.Equal(t, 0, store.DeleteAllTasksByUser(ctx, users[0]))
	assert.Equal(t, 1, store.TaskCount(ctx))
	assert.Equal(t, 2, store.UserCount(ctx))
}

func TestStore_Aggregates(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")
	owner := users[0].ID

	overdue := addTask(t, store, task.NewDated("late", "", owner, today.AddDays(-1)))
	addTask(t, store, task.NewDated("today", "", owner, today))
	upcoming := addTask(t, store, task.NewDated("soon", "", owner, today.AddDays(1)))
	doneLate := addTask(t, store, task.NewDated("done late", "", owner, today.AddDays(-5)))
	addTask(t, store, task.NewPlain("plain", "", owner))
	require.NoError(t, store.MarkDone(ctx, doneLate.ID, true))

	assert.Equal(t, 5, store.TaskCount(ctx))
	assert.Equal(t, 1, store.CompletedCount(ctx))
	assert.Equal(t, 4, store.PendingCount(ctx))

	gotOverdue := store.OverdueTasks(ctx, today)
	require.Len(t, gotOverdue, 1)
	assert.Equal(t, overdue.ID, gotOverdue[0].ID)

	gotUpcoming := store.UpcomingTasks(ctx, today)
	require.Len(t, gotUpcoming, 1)
	assert.Equal(t, upcoming.ID, gotUpcoming[0].ID)
}

func TestStore_Counts(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice", "Bob")
	owner := users[0].ID

	addTask(t, store, task.NewDated("late", "", owner, today.AddDays(-1)))
	addTask(t, store, task.NewDated("today", "", owner, today))
	addTask(t, store, task.NewDated("soon", "", owner, today.AddDays(1)))
	doneLate := addTask(t, store, task.NewDated("done late", "", owner, today.AddDays(-5)))
	addTask(t, store, task.NewPlain("plain", "", owner))
	require.NoError(t, store.MarkDone(ctx, doneLate.ID, true))

	assert.Equal(t, repository.Counts{
		Users:     2,
		Tasks:     5,
		Completed: 1,
		Pending:   4,
		Overdue:   1,
		Upcoming:  1,
	}, store.Counts(ctx, today))
}

// TestStore_CountsConsistentUnderWrites checks a snapshot never mixes
// states from before and after a concurrent write
func TestStore_CountsConsistentUnderWrites(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")

	var writers sync.WaitGroup
	for w := 0; w < 4; w++ {
		writers.Add(1)
		go func(w int) {
			defer writers.Done()
			for i := 0; i < 50; i++ {
				tk := task.NewPlain(fmt.Sprintf("w%d-%d", w, i), "", users[0].ID)
				if err := store.AddTask(ctx, tk); err != nil {
					return
				}
				if i%2 == 0 {
					_ = store.MarkDone(ctx, tk.ID, true)
				}
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		writers.Wait()
		close(done)
	}()

	for {
		c := store.Counts(ctx, today)
		require.Equal(t, c.Tasks, c.Completed+c.Pending, "snapshot %+v", c)
		select {
		case <-done:
			assert.Equal(t, 200, store.Counts(ctx, today).Tasks)
			return
		default:
		}
	}
}

func TestStore_OverdueAndUpcomingDisjoint(t *testing.T) {
	ctx := context.Background()
	store, users := newStoreWithUsers(t, "Alice")
	for i := -5; i <= 5; i++ {
		addTask(t, store, task.NewDated(fmt.Sprintf("t%d", i), "", users[0].ID, today.AddDays(i)))
	}

	seen := map[task.ID]bool{}
	for _, tk := range store.OverdueTasks(ctx, today) {
		assert.True(t, tk.DueDate.Before(today))
		seen[tk.ID] = true
	}
	for _, tk := range store.UpcomingTasks(ctx, today) {
		assert.True(t, tk.DueDate.After(today))
		assert.False(t, seen[tk.ID])
	}
}

// TestStore_ConcurrentCascade checks readers never see a half-done cascade
func TestStore_ConcurrentCascade(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	var owners []user.User
	for i := 0; i < 20; i++ {
		u := user.New(fmt.Sprintf("user-%d", i))
		store.AddUser(ctx, u)
		owners = append(owners, u)
		for j := 0; j < 5; j++ {
			addTask(t, store, task.NewPlain(fmt.Sprintf("task-%d-%d", i, j), "", u.ID))
		}
	}

	var reader, deleters sync.WaitGroup
	stop := make(chan struct{})
	violations := make(chan string, 100)

	reader.Add(1)
	go func() {
		defer reader.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, tk := range store.ListTasks(ctx) {
				if _, err := store.GetUser(ctx, tk.CreatedBy); err != nil {
					// the user may have gone between the two reads; re-check the task
					if _, err := store.GetTask(ctx, tk.ID); err == nil {
						select {
						case violations <- tk.ID.String():
						default:
						}
					}
				}
			}
		}
	}()

	for _, u := range owners {
		deleters.Add(1)
		go func(u user.User) {
			defer deleters.Done()
			assert.NoError(t, store.DeleteUser(ctx, u.ID))
		}(u)
	}

	deleters.Wait()
	close(stop)
	reader.Wait()
	close(violations)

	assert.Empty(t, violations)
	assert.Equal(t, 0, store.TaskCount(ctx))
}
