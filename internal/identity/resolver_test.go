package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-de-haas/projectmanager/internal/auth"
	"github.com/alex-de-haas/projectmanager/internal/models"
)

// fakeStore is an in-memory Store. EnsureDefaultProject mimics the
// database's uniqueness guard: concurrent calls for the same user converge
// on one project.
type fakeStore struct {
	mu          sync.Mutex
	users       map[int64]models.User
	projects    map[int64]models.Project
	memberships map[[2]int64]time.Time // (projectID, userID) -> created
	nextID      int64
	creates     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[int64]models.User{},
		projects:    map[int64]models.Project{},
		memberships: map[[2]int64]time.Time{},
		nextID:      100,
	}
}

func (f *fakeStore) addUser(id int64, created time.Time) {
	f.users[id] = models.User{ID: id, CreatedAt: created}
}

func (f *fakeStore) addProject(id, ownerID int64) {
	f.projects[id] = models.Project{ID: id, OwnerID: ownerID, Name: "P" + strconv.FormatInt(id, 10)}
}

func (f *fakeStore) addMembership(projectID, userID int64, created time.Time) {
	f.memberships[[2]int64{projectID, userID}] = created
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) GetEarliestUser(context.Context) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var earliest *models.User
	for _, u := range f.users {
		u := u
		if earliest == nil || u.CreatedAt.Before(earliest.CreatedAt) {
			earliest = &u
		}
	}
	if earliest == nil {
		return models.User{}, models.ErrUserNotFound
	}
	return *earliest, nil
}

func (f *fakeStore) GetProjectByID(_ context.Context, id int64) (models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return models.Project{}, models.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeStore) HasMembership(_ context.Context, projectID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.memberships[[2]int64{projectID, userID}]
	return ok, nil
}

func (f *fakeStore) EnsureDefaultProject(_ context.Context, userID int64) (models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var bestID int64
	var bestAt time.Time
	for key, at := range f.memberships {
		if key[1] != userID {
			continue
		}
		if bestID == 0 || at.Before(bestAt) || (at.Equal(bestAt) && key[0] < bestID) {
			bestID, bestAt = key[0], at
		}
	}
	if bestID != 0 {
		return f.projects[bestID], nil
	}

	f.nextID++
	p := models.Project{ID: f.nextID, OwnerID: userID, Name: models.DefaultProjectName}
	f.projects[p.ID] = p
	f.memberships[[2]int64{p.ID, userID}] = time.Now()
	f.creates++
	return p, nil
}

func newTestResolver(store Store) *Resolver {
	return New(store, auth.NewTokenCodec("resolver-test-secret", 7*24*time.Hour))
}

func request(opts ...func(*http.Request)) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func withHeader(k, v string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func withQuery(k, v string) func(*http.Request) {
	return func(r *http.Request) {
		q := r.URL.Query()
		q.Set(k, v)
		r.URL.RawQuery = q.Encode()
	}
}

func withCookie(name, value string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func TestResolveUserID_FallbackChain(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("defaults to user 1", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		store.addUser(9, base.Add(time.Hour))

		got, err := newTestResolver(store).ResolveUserID(request())
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("earliest user when default missing", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(7, base)
		store.addUser(9, base.Add(time.Hour))

		got, err := newTestResolver(store).ResolveUserID(request())
		require.NoError(t, err)
		assert.Equal(t, int64(7), got)
	})

	t.Run("empty store yields conventional default", func(t *testing.T) {
		t.Parallel()
		got, err := newTestResolver(newFakeStore()).ResolveUserID(request())
		require.NoError(t, err)
		assert.Equal(t, models.DefaultUserID, got)
	})

	t.Run("session token is authoritative", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		store.addUser(5, base.Add(time.Hour))
		rs := newTestResolver(store)

		token := auth.NewTokenCodec("resolver-test-secret", 7*24*time.Hour).Create(5, time.Now())
		req := request(
			withCookie(auth.SessionCookie, token),
			withHeader(HeaderUserID, "1"),
		)
		got, err := rs.ResolveUserID(req)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got)
	})

	t.Run("gate context verdict wins", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		store.addUser(5, base.Add(time.Hour))

		req := request(withHeader(HeaderUserID, "1"))
		req = req.WithContext(auth.WithUserID(req.Context(), 5))
		got, err := newTestResolver(store).ResolveUserID(req)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got)
	})

	t.Run("header beats query beats cookie", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(2, base)
		store.addUser(3, base)
		store.addUser(4, base)

		req := request(
			withHeader(HeaderUserID, "2"),
			withQuery(QueryUserID, "3"),
			withCookie(auth.UserIDCookie, "4"),
		)
		got, err := newTestResolver(store).ResolveUserID(req)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got)
	})

	t.Run("unknown candidates fall through silently", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)

		req := request(
			withHeader(HeaderUserID, "999"),
			withQuery(QueryUserID, "abc"),
			withCookie(auth.UserIDCookie, "-3"),
		)
		got, err := newTestResolver(store).ResolveUserID(req)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})
}

func TestResolveProjectID(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("candidate requires membership", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		store.addProject(10, 2) // exists, but user 1 is not a member
		store.addProject(11, 1)
		store.addMembership(11, 1, base)

		req := request(withHeader(HeaderProjectID, "10"))
		got, err := newTestResolver(store).ResolveProjectID(req, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), got, "non-member candidate rejected, falls back to earliest membership")
	})

	t.Run("valid candidate accepted", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		store.addProject(10, 1)
		store.addProject(11, 1)
		store.addMembership(10, 1, base.Add(time.Hour))
		store.addMembership(11, 1, base)

		req := request(withCookie(auth.ProjectCookie, "10"))
		got, err := newTestResolver(store).ResolveProjectID(req, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got)
	})

	t.Run("nonexistent candidate falls through", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		store.addProject(11, 1)
		store.addMembership(11, 1, base)

		req := request(withQuery(QueryProjectID, "404"))
		got, err := newTestResolver(store).ResolveProjectID(req, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), got)
	})

	t.Run("self-heals when user has no memberships", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)

		got, err := newTestResolver(store).ResolveProjectID(request(), 1)
		require.NoError(t, err)

		p, err := store.GetProjectByID(context.Background(), got)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultProjectName, p.Name)
		assert.Equal(t, int64(1), p.OwnerID)
		assert.Equal(t, 1, store.creates)
	})

	t.Run("self-healing is idempotent under concurrency", func(t *testing.T) {
		t.Parallel()
		store := newFakeStore()
		store.addUser(1, base)
		rs := newTestResolver(store)

		const n = 16
		results := make([]int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id, err := rs.ResolveProjectID(request(), 1)
				assert.NoError(t, err)
				results[i] = id
			}(i)
		}
		wg.Wait()

		for _, id := range results {
			assert.Equal(t, results[0], id)
		}
		assert.Equal(t, 1, store.creates, "exactly one default project created")
	})
}
