package service

import (
	"context"
	"strings"

	"github.com/Dan9191/content-service/internal/authctx"
	"github.com/Dan9191/content-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ListPosts returns all posts with author usernames
func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.stores.Posts.List(ctx)
}

// GetPost returns one post or repository.ErrNotFound
func (s *Service) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return s.stores.Posts.Get(ctx, id)
}

// ListPages returns all pages with author usernames
func (s *Service) ListPages(ctx context.Context) ([]models.Page, error) {
	return s.stores.Pages.List(ctx)
}

// GetPage returns one page or repository.ErrNotFound
func (s *Service) GetPage(ctx context.Context, id int64) (*models.Page, error) {
	return s.stores.Pages.Get(ctx, id)
}

// actor returns the authorized user of the request
func actor(ctx context.Context) (*models.User, error) {
	user := authctx.User(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// PostAdmin is the admin panel adapter for posts. Create always assigns the
// acting user as owner; Update only touches title and content.
type PostAdmin struct {
	s *Service
}

// PostAdmin returns the admin adapter for posts
func (s *Service) PostAdmin() *PostAdmin {
	return &PostAdmin{s: s}
}

func (a *PostAdmin) List(ctx context.Context) ([]models.Post, error) {
	return a.s.stores.Posts.List(ctx)
}

func (a *PostAdmin) Get(ctx context.Context, id int64) (*models.Post, error) {
	return a.s.stores.Posts.Get(ctx, id)
}

func (a *PostAdmin) Create(ctx context.Context, in *models.Post) (*models.Post, error) {
	user, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	post := &models.Post{Title: in.Title, Content: in.Content, AuthorID: user.ID}
	if err := a.s.stores.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	a.s.log.WithFields(logrus.Fields{"user_id": user.ID, "post_id": post.ID}).Info("Post created")
	return a.s.stores.Posts.Get(ctx, post.ID)
}

func (a *PostAdmin) Update(ctx context.Context, id int64, in *models.Post) (*models.Post, error) {
	user, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	post, err := a.s.stores.Posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Title, post.Content = in.Title, in.Content
	if err := a.s.stores.Posts.Update(ctx, post); err != nil {
		return nil, err
	}
	a.s.log.WithFields(logrus.Fields{"user_id": user.ID, "post_id": id}).Info("Post updated")
	return a.s.stores.Posts.Get(ctx, id)
}

func (a *PostAdmin) Delete(ctx context.Context, id int64) error {
	if err := a.s.stores.Posts.Delete(ctx, id); err != nil {
		return err
	}
	a.s.log.WithField("post_id", id).Info("Post deleted")
	return nil
}

// PageAdmin is the admin panel adapter for pages, with the same ownership
// rules as PostAdmin.
type PageAdmin struct {
	s *Service
}

// PageAdmin returns the admin adapter for pages
func (s *Service) PageAdmin() *PageAdmin {
	return &PageAdmin{s: s}
}

func (a *PageAdmin) List(ctx context.Context) ([]models.Page, error) {
	return a.s.stores.Pages.List(ctx)
}

func (a *PageAdmin) Get(ctx context.Context, id int64) (*models.Page, error) {
	return a.s.stores.Pages.Get(ctx, id)
}

func (a *PageAdmin) Create(ctx context.Context, in *models.Page) (*models.Page, error) {
	user, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	page := &models.Page{Title: in.Title, Content: in.Content, AuthorID: user.ID}
	if err := a.s.stores.Pages.Create(ctx, page); err != nil {
		return nil, err
	}
	a.s.log.WithFields(logrus.Fields{"user_id": user.ID, "page_id": page.ID}).Info("Page created")
	return a.s.stores.Pages.Get(ctx, page.ID)
}

func (a *PageAdmin) Update(ctx context.Context, id int64, in *models.Page) (*models.Page, error) {
	user, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	page, err := a.s.stores.Pages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	page.Title, page.Content = in.Title, in.Content
	if err := a.s.stores.Pages.Update(ctx, page); err != nil {
		return nil, err
	}
	a.s.log.WithFields(logrus.Fields{"user_id": user.ID, "page_id": id}).Info("Page updated")
	return a.s.stores.Pages.Get(ctx, id)
}

func (a *PageAdmin) Delete(ctx context.Context, id int64) error {
	if err := a.s.stores.Pages.Delete(ctx, id); err != nil {
		return err
	}
	a.s.log.WithField("page_id", id).Info("Page deleted")
	return nil
}

// UserAdmin is the admin panel adapter for users. Edits may rename a user or
// change the admin flag, each only when supplied; passwords are only set on
// create.
type UserAdmin struct {
	s *Service
}

// UserAdmin returns the admin adapter for users
func (s *Service) UserAdmin() *UserAdmin {
	return &UserAdmin{s: s}
}

func (a *UserAdmin) List(ctx context.Context) ([]models.User, error) {
	return a.s.stores.Users.List(ctx)
}

func (a *UserAdmin) Get(ctx context.Context, id int64) (*models.User, error) {
	return a.s.stores.Users.Get(ctx, id)
}

func (a *UserAdmin) Create(ctx context.Context, in *models.UserInput) (*models.User, error) {
	return a.s.CreateUser(ctx, in.Username, in.Password, in.IsAdmin != nil && *in.IsAdmin)
}

func (a *UserAdmin) Update(ctx context.Context, id int64, in *models.UserInput) (*models.User, error) {
	user, err := a.s.stores.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	if err := a.s.stores.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	a.s.log.WithFields(logrus.Fields{"user_id": id, "username": user.Username, "is_admin": user.IsAdmin}).Info("User updated")
	return user, nil
}
