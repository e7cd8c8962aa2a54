// Package memstore provides in-memory stores with the same contracts as the
// postgres repositories: uniqueness violations surface as validation errors,
// missing rows as model.ErrNotFound or model.ErrTokenNotFound. Tests use it in
// place of a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/product-catalog/internal/model"
)

// clock hands out strictly increasing timestamps so ordering by creation
// time is deterministic.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

type ProductStore struct {
	mu       sync.RWMutex
	clock    clock
	nextID   int64
	products map[int64]model.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[int64]model.Product)}
}

func (s *ProductStore) FindAll(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := []model.Product{}
	for _, p := range s.products {
		if filter.Matches(p) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID > products[j].ID
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *ProductStore) FindByID(_ context.Context, id int64) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &p, nil
}

func (s *ProductStore) Create(_ context.Context, p *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.clock.now()
	stored := model.Product{
		ID:        s.nextID,
		Name:      p.Name,
		Price:     p.Price,
		Available: p.Available,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.products[stored.ID] = stored
	return &stored, nil
}

func (s *ProductStore) Update(_ context.Context, p *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[p.ID]
	if !ok {
		return nil, model.ErrNotFound
	}
	stored.Name = p.Name
	stored.Price = p.Price
	stored.Available = p.Available
	stored.UpdatedAt = s.clock.now()
	s.products[p.ID] = stored
	return &stored, nil
}

func (s *ProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *ProductStore) ExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *ProductStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

type UserStore struct {
	mu     sync.RWMutex
	clock  clock
	nextID int64
	users  map[int64]model.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]model.User)}
}

// Create enforces username and email uniqueness under the store lock, the
// same guarantee the database constraints give.
func (s *UserStore) Create(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return nil, model.NewValidationError("username", "a user with that username already exists")
		}
		if existing.Email == u.Email {
			return nil, model.NewValidationError("email", "a user with that email already exists")
		}
	}

	s.nextID++
	stored := *u
	stored.ID = s.nextID
	stored.CreatedAt = s.clock.now()
	s.users[stored.ID] = stored
	return &stored, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return err == nil, nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type TokenStore struct {
	mu     sync.Mutex
	clock  clock
	users  *UserStore
	byUser map[int64]model.Token
}

func NewTokenStore(users *UserStore) *TokenStore {
	return &TokenStore{users: users, byUser: make(map[int64]model.Token)}
}

func (s *TokenStore) GetOrCreate(_ context.Context, userID int64, key string) (*model.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.byUser[userID]; ok {
		return &t, nil
	}
	t := model.Token{Key: key, UserID: userID, CreatedAt: s.clock.now()}
	s.byUser[userID] = t
	return &t, nil
}

func (s *TokenStore) FindUserByKey(ctx context.Context, key string) (*model.User, error) {
	s.mu.Lock()
	var userID int64
	found := false
	for id, t := range s.byUser {
		if t.Key == key {
			userID, found = id, true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return nil, model.ErrTokenNotFound
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, model.ErrTokenNotFound
	}
	return user, nil
}

func (s *TokenStore) DeleteByUserID(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUser[userID]; !ok {
		return model.ErrTokenNotFound
	}
	delete(s.byUser, userID)
	return nil
}

// Len returns the number of live tokens.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}
