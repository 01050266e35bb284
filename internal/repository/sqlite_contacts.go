package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/models"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// sqliteTimeLayout 对应 strftime('%Y-%m-%d %H:%M:%f')，解析时小数秒可选
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SQLiteContactsRepository 联系人Repository实现（SQLite）
type SQLiteContactsRepository struct {
	db *sql.DB
}

// NewSQLiteContactsRepository 创建联系人Repository
func NewSQLiteContactsRepository(db *sql.DB) *SQLiteContactsRepository {
	return &SQLiteContactsRepository{db: db}
}

var _ ContactsRepository = (*SQLiteContactsRepository)(nil)

const sqliteContactsSchema = `
	CREATE TABLE IF NOT EXISTS contacts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		phone      TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now'))
	);
	CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts (created_at DESC, id DESC);
`

// created_at 以文本读出，避免驱动按列类型做隐式时间转换
const sqliteContactColumns = `id, name, email, phone, CAST(created_at AS TEXT)`

// EnsureSchema 建表
func (r *SQLiteContactsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteContactsSchema); err != nil {
		return fmt.Errorf("failed to create contacts table: %w", err)
	}
	return nil
}

// ListContacts 查询联系人列表（分页）
func (r *SQLiteContactsRepository) ListContacts(ctx context.Context, page, limit int) ([]*domain.Contact, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteContactColumns+`
		 FROM contacts
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit, models.Offset(page, limit),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*domain.Contact{}
	for rows.Next() {
		c, err := scanSQLiteContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, total, nil
}

// GetContact 根据 id 获取联系人
func (r *SQLiteContactsRepository) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteContactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanSQLiteContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

// CreateContact 创建联系人
func (r *SQLiteContactsRepository) CreateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	if contact == nil {
		return nil, fmt.Errorf("contact is required")
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, phone) VALUES (?, ?, ?)`,
		contact.Name, contact.Email, contact.Phone,
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	created, err := r.GetContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contact %d: %w", id, err)
	}
	return created, nil
}

// DeleteContact 删除联系人
func (r *SQLiteContactsRepository) DeleteContact(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteContact(row rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	ts, err := time.ParseInLocation(sqliteTimeLayout, createdAt, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	c.CreatedAt = ts
	return &c, nil
}

// isSQLiteUniqueViolation contacts 表唯一的 UNIQUE 约束是 email
func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}
