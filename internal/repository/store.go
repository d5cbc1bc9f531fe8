package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Users   UserRepository
	Films   FilmRepository
	Genres  GenreRepository
	Likes   LikeRepository
	Friends FriendRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:   NewUserRepository(db),
		Films:   NewFilmRepository(db),
		Genres:  NewGenreRepository(db),
		Likes:   NewLikeRepository(db),
		Friends: NewFriendRepository(db),
	}
}

// Store owns the like and friendship relations. Every mutation of a relation runs
// under that relation's exclusive lock inside a transaction; reads take the shared
// lock. When both locks are needed they are taken likes first, then friendships.
type Store struct {
	db        *gorm.DB
	likesMu   sync.RWMutex
	friendsMu sync.RWMutex
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Repositories returns repositories bound to the store's connection, without locking.
// Use it for records the relations do not cover.
func (s *Store) Repositories() Repositories {
	return NewRepositories(s.db)
}

func (s *Store) transaction(ctx context.Context, fn func(Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// WithLikes runs fn in a transaction while holding the like relation exclusively.
func (s *Store) WithLikes(ctx context.Context, fn func(Repositories) error) error {
	s.likesMu.Lock()
	defer s.likesMu.Unlock()
	return s.transaction(ctx, fn)
}

// WithFriends runs fn in a transaction while holding the friendship relation exclusively.
func (s *Store) WithFriends(ctx context.Context, fn func(Repositories) error) error {
	s.friendsMu.Lock()
	defer s.friendsMu.Unlock()
	return s.transaction(ctx, fn)
}

// WithRelations holds both relations exclusively; used by user and film deletion cascades.
func (s *Store) WithRelations(ctx context.Context, fn func(Repositories) error) error {
	s.likesMu.Lock()
	defer s.likesMu.Unlock()
	s.friendsMu.Lock()
	defer s.friendsMu.Unlock()
	return s.transaction(ctx, fn)
}

// ReadLikes runs fn while holding the like relation shared.
func (s *Store) ReadLikes(ctx context.Context, fn func(Repositories) error) error {
	s.likesMu.RLock()
	defer s.likesMu.RUnlock()
	return fn(NewRepositories(s.db.WithContext(ctx)))
}

// ReadFriends runs fn while holding the friendship relation shared.
func (s *Store) ReadFriends(ctx context.Context, fn func(Repositories) error) error {
	s.friendsMu.RLock()
	defer s.friendsMu.RUnlock()
	return fn(NewRepositories(s.db.WithContext(ctx)))
}

// Ping checks that the underlying database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
