// Package repotest provides in-memory implementations of the repository
// stores for tests of the service, middleware and handler layers.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/content-service/internal/models"
	"github.com/Dan9191/content-service/internal/repository"
)

// Store holds every table in memory. The zero value is not usable; call New.
type Store struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	posts  map[int64]models.Post
	pages  map[int64]models.Page
	media  map[int64]models.Media

	// Err, when set, is returned by every operation.
	Err error
	// MediaCreateErr, when set, is returned by Media().Create only.
	MediaCreateErr error
}

// New returns an empty store
func New() *Store {
	return &Store{
		users: map[int64]models.User{},
		posts: map[int64]models.Post{},
		pages: map[int64]models.Page{},
		media: map[int64]models.Media{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) username(id int64) string {
	return s.users[id].Username
}

// Users returns the user store view
func (s *Store) Users() repository.UserStore { return users{s} }

// Posts returns the post store view
func (s *Store) Posts() repository.PostStore { return posts{s} }

// Pages returns the page store view
func (s *Store) Pages() repository.PageStore { return pages{s} }

// Media returns the media store view
func (s *Store) Media() repository.MediaStore { return media{s} }

type users struct{ s *Store }

func (u users) Create(_ context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return u.s.Err
	}
	for _, existing := range u.s.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	user.ID = u.s.id()
	u.s.users[user.ID] = *user
	return nil
}

func (u users) Get(_ context.Context, id int64) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return nil, u.s.Err
	}
	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return nil, u.s.Err
	}
	for _, user := range u.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u users) List(_ context.Context) ([]models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return nil, u.s.Err
	}
	out := make([]models.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u users) Update(_ context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return u.s.Err
	}
	stored, ok := u.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, existing := range u.s.users {
		if id != user.ID && existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	stored.Username, stored.IsAdmin = user.Username, user.IsAdmin
	u.s.users[user.ID] = stored
	return nil
}

type posts struct{ s *Store }

func (p posts) Create(_ context.Context, post *models.Post) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return p.s.Err
	}
	post.ID = p.s.id()
	post.CreatedAt = time.Now().UTC()
	p.s.posts[post.ID] = *post
	return nil
}

func (p posts) Get(_ context.Context, id int64) (*models.Post, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return nil, p.s.Err
	}
	post, ok := p.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	post.Author = p.s.username(post.AuthorID)
	return &post, nil
}

func (p posts) List(_ context.Context) ([]models.Post, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return nil, p.s.Err
	}
	out := make([]models.Post, 0, len(p.s.posts))
	for _, post := range p.s.posts {
		post.Author = p.s.username(post.AuthorID)
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p posts) Update(_ context.Context, post *models.Post) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return p.s.Err
	}
	stored, ok := p.s.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title, stored.Content = post.Title, post.Content
	p.s.posts[post.ID] = stored
	return nil
}

func (p posts) Delete(_ context.Context, id int64) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return p.s.Err
	}
	if _, ok := p.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(p.s.posts, id)
	return nil
}

func (p posts) Count(_ context.Context) (int, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return 0, p.s.Err
	}
	return len(p.s.posts), nil
}

type pages struct{ s *Store }

func (p pages) Create(_ context.Context, page *models.Page) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return p.s.Err
	}
	page.ID = p.s.id()
	page.CreatedAt = time.Now().UTC()
	p.s.pages[page.ID] = *page
	return nil
}

func (p pages) Get(_ context.Context, id int64) (*models.Page, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return nil, p.s.Err
	}
	page, ok := p.s.pages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	page.Author = p.s.username(page.AuthorID)
	return &page, nil
}

func (p pages) List(_ context.Context) ([]models.Page, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return nil, p.s.Err
	}
	out := make([]models.Page, 0, len(p.s.pages))
	for _, page := range p.s.pages {
		page.Author = p.s.username(page.AuthorID)
		out = append(out, page)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p pages) Update(_ context.Context, page *models.Page) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return p.s.Err
	}
	stored, ok := p.s.pages[page.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title, stored.Content = page.Title, page.Content
	p.s.pages[page.ID] = stored
	return nil
}

func (p pages) Delete(_ context.Context, id int64) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return p.s.Err
	}
	if _, ok := p.s.pages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(p.s.pages, id)
	return nil
}

func (p pages) Count(_ context.Context) (int, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.Err != nil {
		return 0, p.s.Err
	}
	return len(p.s.pages), nil
}

type media struct{ s *Store }

func (m media) Create(_ context.Context, item *models.Media) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}
	if m.s.MediaCreateErr != nil {
		return m.s.MediaCreateErr
	}
	item.ID = m.s.id()
	item.UploadedAt = time.Now().UTC()
	m.s.media[item.ID] = *item
	return nil
}

func (m media) Get(_ context.Context, id int64) (*models.Media, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}
	item, ok := m.s.media[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (m media) List(_ context.Context) ([]models.Media, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}
	out := make([]models.Media, 0, len(m.s.media))
	for _, item := range m.s.media {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m media) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}
	if _, ok := m.s.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.media, id)
	return nil
}

func (m media) Count(_ context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return 0, m.s.Err
	}
	return len(m.s.media), nil
}
