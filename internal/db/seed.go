package db

import (
	"context"
	"errors"

	"github.com/geocoder89/accounthub/internal/config"
	"github.com/geocoder89/accounthub/internal/domain/user"
	"github.com/geocoder89/accounthub/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSeedUser bootstraps a first account from config so a fresh deploy
// has something to log in with. No-op when unset or already present.
func EnsureSeedUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.SeedEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.SeedPassword, cfg.BcryptCost)

	if err != nil {
		return err
	}

	u := user.New(cfg.SeedFirstName, cfg.SeedSecondName, cfg.SeedEmail, hash)

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, first_name, second_name, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
		u.ID, u.FirstName, u.SecondName, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
