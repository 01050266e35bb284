package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/models"

	"github.com/lib/pq"
)

// pqUniqueViolation PostgreSQL unique_violation 错误码
const pqUniqueViolation = "23505"

// PostgresContactsRepository 联系人Repository实现（PostgreSQL）
type PostgresContactsRepository struct {
	db *sql.DB
}

// NewPostgresContactsRepository 创建联系人Repository
func NewPostgresContactsRepository(db *sql.DB) *PostgresContactsRepository {
	return &PostgresContactsRepository{db: db}
}

// 确保实现了接口
var _ ContactsRepository = (*PostgresContactsRepository)(nil)

const postgresContactsSchema = `
	CREATE TABLE IF NOT EXISTS contacts (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		phone      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts (created_at DESC, id DESC);
`

// EnsureSchema 建表
func (r *PostgresContactsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, postgresContactsSchema); err != nil {
		return fmt.Errorf("failed to create contacts table: %w", err)
	}
	return nil
}

// ListContacts 查询联系人列表（分页）
func (r *PostgresContactsRepository) ListContacts(ctx context.Context, page, limit int) ([]*domain.Contact, int, error) {
	// 查询总数
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	// 查询列表（带分页）
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at
		FROM contacts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, models.Offset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, total, nil
}

// GetContact 根据 id 获取联系人
func (r *PostgresContactsRepository) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, created_at FROM contacts WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &c, nil
}

// CreateContact 创建联系人
func (r *PostgresContactsRepository) CreateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	if contact == nil {
		return nil, fmt.Errorf("contact is required")
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO contacts (name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		contact.Name,
		contact.Email,
		contact.Phone,
	).Scan(&id)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	// 重新读取整行，拿到数据库默认值（created_at）
	created, err := r.GetContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contact %d: %w", id, err)
	}
	return created, nil
}

// DeleteContact 删除联系人
func (r *PostgresContactsRepository) DeleteContact(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
