package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/identity-service/config"
	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/valueobject"
	pginfra "github.com/oksasatya/identity-service/internal/infrastructure/postgres"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// Seeds a local database with a known active user for manual testing.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)

	if existing, err := repo.FindByUsername(ctx, "demo"); err != nil {
		log.Fatalf("lookup: %v", err)
	} else if existing != nil {
		log.Printf("seed user already present (id=%d)", existing.ID)
		return
	}

	email, err := valueobject.NewEmail("demo@example.com")
	if err != nil {
		log.Fatalf("email: %v", err)
	}
	hasher := helpers.NewBcryptHasher(cfg.BcryptCost)
	digest, err := hasher.Hash("Dem0!pass")
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	u := entity.NewUser(email, "demo", valueobject.NewHashedPassword(digest), "Demo User")
	if err := repo.Save(ctx, u); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("seeded user demo@example.com (id=%d), password Dem0!pass", u.ID)
}
