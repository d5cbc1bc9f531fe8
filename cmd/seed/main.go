// Command main runs the database seeder for Filmorate.
package main

import (
	"context"
	"flag"
	"log"

	"filmorate/internal/cache"
	"filmorate/internal/config"
	"filmorate/internal/database"
	"filmorate/internal/seed"
)

func main() {
	fixture := flag.String("fixture", "", "Load a YAML fixture instead of random data")
	numUsers := flag.Int("users", 50, "Number of users to create")
	numFilms := flag.Int("films", 100, "Number of films to create")
	numGenres := flag.Int("genres", 8, "Number of genres to create")
	likes := flag.Int("likes", 10, "Likes per user")
	friends := flag.Int("friends", 5, "Friend requests per user")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)
	s := seed.NewSeeder(db, cache.NewPopularCache(cache.GetClient(), cache.PopularTTL))

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	ctx := context.Background()
	if *fixture != "" {
		f, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		if err := s.ApplyFixture(ctx, f); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
		log.Printf("Loaded fixture %s", *fixture)
		return
	}

	err = s.SeedRandom(ctx, seed.Options{
		NumUsers:       *numUsers,
		NumFilms:       *numFilms,
		NumGenres:      *numGenres,
		LikesPerUser:   *likes,
		FriendsPerUser: *friends,
		Seed:           *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Database seeded")
}
