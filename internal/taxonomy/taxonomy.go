// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy implements the category, tag, and post operations of the
// service: slug allocation, tag resolution, tree assembly, descendant
// expansion, atomic reorder, and subtree deletion. Services talk to the
// database only through the repository interfaces below.
package taxonomy

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxonomy/internal/models"
	"taxonomy/internal/store"
)

// CategoryRepository is the persistence surface used for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Search(ctx context.Context, f store.CategoryFilter, opts store.ListOptions) ([]models.Category, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	ChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	ParentMap(ctx context.Context) (map[uuid.UUID]*uuid.UUID, error)
	Reorder(ctx context.Context, items []store.ReorderItem, modifierID uuid.UUID) (int, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// TagRepository is the persistence surface used for tags.
type TagRepository interface {
	Search(ctx context.Context, keyword string, opts store.ListOptions) ([]models.Tag, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	FindByNameKey(ctx context.Context, key string) (*models.Tag, error)
	SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error)
	Create(ctx context.Context, t *models.Tag) error
	Update(ctx context.Context, t *models.Tag) error
	DeletePostLinks(ctx context.Context, tagID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error)
}

// PostRepository is the persistence surface used for posts.
type PostRepository interface {
	Search(ctx context.Context, f store.PostFilter, opts store.ListOptions) ([]models.Post, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	DetachCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// Repos bundles one repository per entity, either over the pool or bound to
// a transaction.
type Repos struct {
	Categories CategoryRepository
	Tags       TagRepository
	Posts      PostRepository
}

// TxRunner runs fn with repositories bound to a single transaction. The
// transaction commits only if fn returns nil.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repos) error) error
}

type storeTxRunner struct {
	runner *store.TxRunner
}

func (s storeTxRunner) InTx(ctx context.Context, fn func(r Repos) error) error {
	return s.runner.Run(ctx, func(tx *store.Tx) error {
		return fn(Repos{Categories: tx.Categories, Tags: tx.Tags, Posts: tx.Posts})
	})
}

// NewTxRunner adapts a store transaction runner to the engine.
func NewTxRunner(runner *store.TxRunner) TxRunner {
	return storeTxRunner{runner: runner}
}

// StoreRepos returns repositories backed by the given pool.
func StoreRepos(db *sqlx.DB) Repos {
	return Repos{
		Categories: store.NewCategoryStore(db),
		Tags:       store.NewTagStore(db),
		Posts:      store.NewPostStore(db),
	}
}

// DefaultSlugRetries is the number of allocation attempts made when a
// concurrent writer takes a slug between probe and insert.
const DefaultSlugRetries = 3

// Options tunes the engine.
type Options struct {
	// SlugRetries bounds slug allocation attempts. Zero means DefaultSlugRetries.
	SlugRetries int
	// TreeCache stores the assembled category tree. Nil disables caching.
	TreeCache TreeCache
}

// Engine groups the taxonomy services.
type Engine struct {
	Categories *CategoryService
	Tags       *TagService
	Posts      *PostService
}

// New wires the services over the given repositories and transaction runner.
func New(repos Repos, tx TxRunner, opts Options) *Engine {
	if opts.SlugRetries <= 0 {
		opts.SlugRetries = DefaultSlugRetries
	}
	cache := opts.TreeCache
	if cache == nil {
		cache = noopTreeCache{}
	}

	categories := &CategoryService{repos: repos, tx: tx, retries: opts.SlugRetries, cache: cache}
	tags := &TagService{repos: repos, tx: tx, retries: opts.SlugRetries}
	posts := &PostService{repos: repos, tx: tx, retries: opts.SlugRetries, cache: cache, categories: categories, tags: tags}
	return &Engine{Categories: categories, Tags: tags, Posts: posts}
}

// NewFromDB wires the engine over a database pool.
func NewFromDB(db *sqlx.DB, opts Options) *Engine {
	return New(StoreRepos(db), NewTxRunner(store.NewTxRunner(db)), opts)
}
