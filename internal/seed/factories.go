package seed

import (
	"fmt"
	"strings"
	"time"

	"filmorate/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds domain entities from fake data. It does not persist anything.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory returns a Factory. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed)}
}

// BuildUser returns an unsaved user. n keeps email and login unique within a run.
func (f *Factory) BuildUser(n int) *models.User {
	login := strings.ToLower(strings.ReplaceAll(f.faker.Username(), " ", ""))
	return &models.User{
		Email:    fmt.Sprintf("%d.%s", n, f.faker.Email()),
		Login:    fmt.Sprintf("%s_%d", login, n),
		Name:     f.faker.Name(),
		Birthday: f.faker.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)).Truncate(24 * time.Hour),
	}
}

// BuildFilm returns an unsaved film tagged with up to two of the given genres.
func (f *Factory) BuildFilm(genreIDs []uint) *models.Film {
	description := f.faker.Sentence(12)
	if len(description) > 200 {
		description = description[:200]
	}
	film := &models.Film{
		Name:        f.faker.MovieName(),
		Description: description,
		ReleaseDate: f.faker.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Now()).Truncate(24 * time.Hour),
		Duration:    f.faker.Number(75, 200),
	}
	for _, id := range f.Pick(genreIDs, f.faker.Number(0, 2)) {
		film.Genres = append(film.Genres, models.Genre{ID: id})
	}
	return film
}

// GenreNames returns n distinct genre names.
func (f *Factory) GenreNames(n int) []string {
	seen := make(map[string]struct{}, n)
	names := make([]string, 0, n)
	for attempts := 0; len(names) < n && attempts < n*20; attempts++ {
		name := f.faker.MovieGenre()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	// Fall back to numbered names once the word list is exhausted.
	for i := len(names); i < n; i++ {
		names = append(names, fmt.Sprintf("Genre %d", i+1))
	}
	return names
}

// Pick returns up to n distinct elements of ids in random order.
func (f *Factory) Pick(ids []uint, n int) []uint {
	if n > len(ids) {
		n = len(ids)
	}
	if n <= 0 {
		return nil
	}
	out := make([]uint, 0, n)
	for _, i := range f.faker.Rand.Perm(len(ids))[:n] {
		out = append(out, ids[i])
	}
	return out
}
