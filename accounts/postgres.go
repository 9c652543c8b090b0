package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recipebox/apperr"
	"recipebox/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresStore keeps accounts in the accounts table and their bookmarks in
// saved_recipes, ordered by an insertion sequence.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) load(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `SELECT id, email, password, display_name, avatar_path, created_at
		 FROM accounts WHERE ` + where

	a := &models.Account{}
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.Password, &a.DisplayName, &a.AvatarPath, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("select account", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id, title, image FROM saved_recipes
		 WHERE account_id = $1 ORDER BY position`, a.ID)
	if err != nil {
		return nil, apperr.Storage("select saved recipes", err)
	}
	defer rows.Close()

	a.SavedRecipes = []models.SavedRecipe{}
	for rows.Next() {
		var r models.SavedRecipe
		if err := rows.Scan(&r.ID, &r.Title, &r.Image); err != nil {
			return nil, apperr.Storage("scan saved recipe", err)
		}
		a.SavedRecipes = append(a.SavedRecipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate saved recipes", err)
	}
	return a, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.load(ctx, "email = $1", NormalizeEmail(email))
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return s.load(ctx, "id = $1", id)
}

func (s *PostgresStore) Create(ctx context.Context, email, password string) (*models.Account, error) {
	a := &models.Account{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		Password:     password,
		SavedRecipes: []models.SavedRecipe{},
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password, created_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Email, a.Password, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.ErrConflict
		}
		return nil, apperr.Storage("insert account", err)
	}
	return a, nil
}

func (s *PostgresStore) UpdateByID(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	if !upd.Empty() {
		res, err := s.db.ExecContext(ctx,
			`UPDATE accounts
			 SET display_name = COALESCE($2, display_name),
			     avatar_path  = COALESCE($3, avatar_path)
			 WHERE id = $1`,
			id, nullable(upd.DisplayName), nullable(upd.AvatarPath))
		if err != nil {
			return nil, apperr.Storage("update account", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, apperr.ErrNotFound
		}
	}
	return s.FindByID(ctx, id)
}

func (s *PostgresStore) AppendSavedRecipe(ctx context.Context, id string, ref models.SavedRecipe) (*models.Account, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_recipes (account_id, recipe_id, title, image)
		 SELECT id, $2, $3, $4 FROM accounts WHERE id = $1
		 ON CONFLICT (account_id, recipe_id) DO NOTHING`,
		id, ref.ID, ref.Title, ref.Image)
	if err != nil {
		return nil, apperr.Storage("insert saved recipe", err)
	}
	return s.FindByID(ctx, id)
}

func (s *PostgresStore) RemoveSavedRecipe(ctx context.Context, id, recipeID string) (*models.Account, error) {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_recipes WHERE account_id = $1 AND recipe_id = $2`, id, recipeID)
	if err != nil {
		return nil, apperr.Storage("delete saved recipe", err)
	}
	return s.FindByID(ctx, id)
}

func (s *PostgresStore) SetPassword(ctx context.Context, id, password string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET password = $2 WHERE id = $1`, id, password)
	if err != nil {
		return apperr.Storage("set password", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
