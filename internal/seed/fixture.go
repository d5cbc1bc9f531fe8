// Package seed loads demo and test data into the application database.
// Everything is written through the services, so friendship confirmation and
// like idempotence hold for seeded data exactly as for API traffic.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"filmorate/internal/models"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set. Users are referenced by login, films by name
// and genres by name.
type Fixture struct {
	Genres      []string            `yaml:"genres"`
	Users       []FixtureUser       `yaml:"users"`
	Films       []FixtureFilm       `yaml:"films"`
	Likes       map[string][]string `yaml:"likes"`
	Friendships []FixtureFriendship `yaml:"friendships"`
}

type FixtureUser struct {
	Email    string `yaml:"email"`
	Login    string `yaml:"login"`
	Name     string `yaml:"name"`
	Birthday string `yaml:"birthday"`
}

type FixtureFilm struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	ReleaseDate string   `yaml:"release_date"`
	Duration    int      `yaml:"duration"`
	Genres      []string `yaml:"genres"`
}

// FixtureFriendship is a request from one login to another. Listing both
// directions produces a confirmed friendship.
type FixtureFriendship struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture parses YAML fixture data.
func ParseFixture(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// ApplyFixture writes the fixture. Missing references fail the whole run.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) error {
	genres := make(map[string]uint, len(f.Genres))
	for _, name := range f.Genres {
		g := &models.Genre{Name: name}
		if err := s.genres.CreateGenre(ctx, g); err != nil {
			return fmt.Errorf("genre %q: %w", name, err)
		}
		genres[name] = g.ID
	}

	users := make(map[string]uint, len(f.Users))
	for _, fu := range f.Users {
		birthday, err := parseDay(fu.Birthday)
		if err != nil {
			return fmt.Errorf("user %q: %w", fu.Login, err)
		}
		u := &models.User{Email: fu.Email, Login: fu.Login, Name: fu.Name, Birthday: birthday}
		if err := s.users.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("user %q: %w", fu.Login, err)
		}
		users[u.Login] = u.ID
	}

	films := make(map[string]uint, len(f.Films))
	for _, ff := range f.Films {
		released, err := parseDay(ff.ReleaseDate)
		if err != nil {
			return fmt.Errorf("film %q: %w", ff.Name, err)
		}
		film := &models.Film{
			Name:        ff.Name,
			Description: ff.Description,
			ReleaseDate: released,
			Duration:    ff.Duration,
		}
		for _, name := range ff.Genres {
			id, ok := genres[name]
			if !ok {
				return fmt.Errorf("film %q: unknown genre %q", ff.Name, name)
			}
			film.Genres = append(film.Genres, models.Genre{ID: id})
		}
		if err := s.films.CreateFilm(ctx, film); err != nil {
			return fmt.Errorf("film %q: %w", ff.Name, err)
		}
		films[film.Name] = film.ID
	}

	for login, names := range f.Likes {
		userID, ok := users[login]
		if !ok {
			return fmt.Errorf("likes: unknown user %q", login)
		}
		for _, name := range names {
			filmID, ok := films[name]
			if !ok {
				return fmt.Errorf("likes of %q: unknown film %q", login, name)
			}
			if err := s.likes.AddLike(ctx, userID, filmID); err != nil {
				return fmt.Errorf("like %q by %q: %w", name, login, err)
			}
		}
	}

	for _, fr := range f.Friendships {
		from, ok := users[fr.From]
		if !ok {
			return fmt.Errorf("friendship: unknown user %q", fr.From)
		}
		to, ok := users[fr.To]
		if !ok {
			return fmt.Errorf("friendship: unknown user %q", fr.To)
		}
		if _, err := s.friends.AddFriend(ctx, from, to); err != nil {
			return fmt.Errorf("friendship %s->%s: %w", fr.From, fr.To, err)
		}
	}
	return nil
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
