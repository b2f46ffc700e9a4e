package inmemory

import (
	"context"
	"sync"
	"todoList/internal/apperr"
	"todoList/internal/logger"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/repository"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

var _ repository.Store = (*Store)(nil)

// Store keeps users and tasks in insertion order. All reads return copies.
type Store struct {
	users   map[user.ID]*user.User
	userIDs []user.ID
	tasks   map[task.ID]*task.Task
	taskIDs []task.ID
	mtx     *sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		users:   make(map[user.ID]*user.User),
		userIDs: []user.ID{},
		tasks:   make(map[task.ID]*task.Task),
		taskIDs: []task.ID{},
		mtx:     &sync.RWMutex{},
	}
}

// users

func (s *Store) ListUsers(ctx context.Context) []user.User {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]user.User, 0, len(s.userIDs))
	for _, id := range s.userIDs {
		res = append(res, *s.users[id])
	}
	return res
}

func (s *Store) GetUser(ctx context.Context, id user.ID) (user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, apperr.NewNotFound(apperr.ResourceUser, id.String())
	}
	return *u, nil
}

func (s *Store) GetUserByFirstName(ctx context.Context, firstName string) (user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, id := range s.userIDs {
		if u := s.users[id]; u.FirstName == firstName {
			return *u, nil
		}
	}
	return user.User{}, apperr.NewBusinessError(apperr.CodeNotFound,
		"user with first name '"+firstName+"' not found",
		apperr.ToDetail("resource", apperr.ResourceUser),
		apperr.ToDetail("first_name", firstName),
	)
}

func (s *Store) AddUser(ctx context.Context, u user.User) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored := u
	s.users[u.ID] = &stored
	s.userIDs = append(s.userIDs, u.ID)
}

func (s *Store) UpdateUser(ctx context.Context, id user.ID, firstName string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperr.NewNotFound(apperr.ResourceUser, id.String())
	}
	u.FirstName = firstName
	return nil
}

// DeleteUser removes the user and every task it created in one critical
// section.
func (s *Store) DeleteUser(ctx context.Context, id user.ID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperr.NewNotFound(apperr.ResourceUser, id.String())
	}

	delete(s.users, id)
	s.userIDs = removeID(s.userIDs, id)
	removed := s.deleteTasksOf(id)

	logger.Debug("Repository: user deleted",
		zap.String("user_id", id.String()),
		zap.Int("cascaded_tasks", removed))
	return nil
}

func (s *Store) UserCount(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.userIDs)
}

// tasks

func (s *Store) ListTasks(ctx context.Context) []task.Task {
	return s.filterTasks(func(*task.Task) bool { return true })
}

func (s *Store) ListTasksByUser(ctx context.Context, u user.User) []task.Task {
	return s.filterTasks(func(t *task.Task) bool { return t.CreatedBy == u.ID })
}

func (s *Store) ListDatedTasks(ctx context.Context) []task.Task {
	return s.filterTasks(func(t *task.Task) bool {
		switch t.Kind {
		case task.KindDated:
			return true
		case task.KindPlain:
			return false
		default:
			return false
		}
	})
}

func (s *Store) GetTask(ctx context.Context, id task.ID) (task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, apperr.NewNotFound(apperr.ResourceTask, id.String())
	}
	return *t, nil
}

// AddTask appends t. The creator must be a stored user.
func (s *Store) AddTask(ctx context.Context, t task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[t.CreatedBy]; !ok {
		return apperr.NewNotFound(apperr.ResourceUser, t.CreatedBy.String())
	}

	stored := t
	s.tasks[t.ID] = &stored
	s.taskIDs = append(s.taskIDs, t.ID)
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, id task.ID, title, description string, done bool) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return apperr.NewNotFound(apperr.ResourceTask, id.String())
	}
	t.Title = title
	t.Description = description
	t.Done = done
	return nil
}

// UpdateDatedTask fails with a not-found error when id names a plain task.
func (s *Store) UpdateDatedTask(ctx context.Context, id task.ID, title, description string, done bool, dueDate civil.Date) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return apperr.NewNotFound(apperr.ResourceTask, id.String())
	}

	switch t.Kind {
	case task.KindDated:
		t.Title = title
		t.Description = description
		t.Done = done
		t.DueDate = dueDate
		return nil
	case task.KindPlain:
		return apperr.NewBusinessError(apperr.CodeNotFound,
			"task with id '"+id.String()+"' is not a dated task",
			apperr.ToDetail("resource", apperr.ResourceTask),
			apperr.ToDetail("id", id.String()),
		)
	default:
		return apperr.NewNotFound(apperr.ResourceTask, id.String())
	}
}

func (s *Store) MarkDone(ctx context.Context, id task.ID, done bool) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return apperr.NewNotFound(apperr.ResourceTask, id.String())
	}
	t.Done = done
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id task.ID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return apperr.NewNotFound(apperr.ResourceTask, id.String())
	}
	delete(s.tasks, id)
	s.taskIDs = removeID(s.taskIDs, id)
	return nil
}

// DeleteAllTasksByUser returns how many tasks were removed.
func (s *Store) DeleteAllTasksByUser(ctx context.Context, u user.User) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.deleteTasksOf(u.ID)
}

// aggregates

func (s *Store) TaskCount(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.taskIDs)
}

func (s *Store) CompletedCount(ctx context.Context) int {
	return len(s.filterTasks(func(t *task.Task) bool { return t.Done }))
}

func (s *Store) PendingCount(ctx context.Context) int {
	return len(s.filterTasks(func(t *task.Task) bool { return !t.Done }))
}

func (s *Store) OverdueTasks(ctx context.Context, today civil.Date) []task.Task {
	return s.filterTasks(func(t *task.Task) bool { return t.IsOverdue(today) })
}

func (s *Store) UpcomingTasks(ctx context.Context, today civil.Date) []task.Task {
	return s.filterTasks(func(t *task.Task) bool { return t.IsUpcoming(today) })
}

// Counts reads every aggregate under one read lock.
func (s *Store) Counts(ctx context.Context, today civil.Date) repository.Counts {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c := repository.Counts{
		Users: len(s.userIDs),
		Tasks: len(s.taskIDs),
	}
	for _, id := range s.taskIDs {
		t := s.tasks[id]
		if t.Done {
			c.Completed++
		} else {
			c.Pending++
		}
		switch {
		case t.IsOverdue(today):
			c.Overdue++
		case t.IsUpcoming(today):
			c.Upcoming++
		}
	}
	return c
}

func (s *Store) filterTasks(keep func(*task.Task) bool) []task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []task.Task{}
	for _, id := range s.taskIDs {
		t := s.tasks[id]
		if keep(t) {
			res = append(res, *t)
		}
	}
	return res
}

// deleteTasksOf must be called with the write lock held.
func (s *Store) deleteTasksOf(owner user.ID) int {
	kept := s.taskIDs[:0]
	removed := 0
	for _, id := range s.taskIDs {
		if s.tasks[id].CreatedBy == owner {
			delete(s.tasks, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.taskIDs = kept
	return removed
}

func removeID[T comparable](ids []T, target T) []T {
	for ind, val := range ids {
		if val == target {
			return append(ids[:ind], ids[ind+1:]...)
		}
	}
	return ids
}
