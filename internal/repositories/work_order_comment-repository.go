package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/internal/entities"
)

type WorkOrderCommentRepositoryInterface interface {
	CreateComment(ctx context.Context, comment *entities.WorkOrderComment) error
	CreateCommentInTx(ctx context.Context, q Querier, comment *entities.WorkOrderComment) error
	ListComments(ctx context.Context, workOrderID string) ([]entities.WorkOrderComment, error)
}

type WorkOrderCommentRepository struct {
	storage *pgxpool.Pool
}

func NewWorkOrderCommentRepository(storage *pgxpool.Pool) WorkOrderCommentRepositoryInterface {
	return &WorkOrderCommentRepository{storage: storage}
}

func (r *WorkOrderCommentRepository) CreateComment(ctx context.Context, comment *entities.WorkOrderComment) error {
	return r.CreateCommentInTx(ctx, r.storage, comment)
}

func (r *WorkOrderCommentRepository) CreateCommentInTx(ctx context.Context, q Querier, comment *entities.WorkOrderComment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO work_order_comments (id, work_order_id, user_id, comment, status_change_from, status_change_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := q.QueryRow(ctx, query,
		comment.ID, comment.WorkOrderID, comment.UserID, comment.Comment,
		comment.StatusChangeFrom, comment.StatusChangeTo,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert work order comment: %w", err)
	}
	return nil
}

func (r *WorkOrderCommentRepository) ListComments(ctx context.Context, workOrderID string) ([]entities.WorkOrderComment, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id::text, work_order_id::text, user_id::text, comment, status_change_from, status_change_to, created_at
		FROM work_order_comments
		WHERE work_order_id = $1
		ORDER BY created_at DESC`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work order comments: %w", err)
	}
	defer rows.Close()

	comments := make([]entities.WorkOrderComment, 0)
	for rows.Next() {
		var c entities.WorkOrderComment
		err := rows.Scan(&c.ID, &c.WorkOrderID, &c.UserID, &c.Comment, &c.StatusChangeFrom, &c.StatusChangeTo, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
