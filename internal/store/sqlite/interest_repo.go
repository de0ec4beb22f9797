package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type InterestRepo struct {
	db *sql.DB
}

func NewInterestRepo(db *sql.DB) *InterestRepo {
	return &InterestRepo{db: db}
}

var _ domain.InterestRepository = (*InterestRepo)(nil)

func (r *InterestRepo) Add(ctx context.Context, i *domain.UserCategoryInterest) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_category_interests (user_id, category_type, category_value)
		VALUES (?, ?, ?)
	`, i.UserID, i.CategoryType, i.CategoryValue)
	if err != nil {
		return fmt.Errorf("insert interest: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		i.ID = id
	}
	return nil
}

func (r *InterestRepo) Remove(ctx context.Context, userID int64, categoryType, categoryValue string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_category_interests
		WHERE user_id = ? AND category_type = ? AND category_value = ?
	`, userID, categoryType, categoryValue)
	if err != nil {
		return fmt.Errorf("delete interest: %w", err)
	}
	return nil
}

func (r *InterestRepo) ListUserIDs(ctx context.Context, categoryType, categoryValue string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id
		FROM user_category_interests
		WHERE category_type = ? AND category_value = ?
	`, categoryType, categoryValue)
	if err != nil {
		return nil, fmt.Errorf("list interested users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
