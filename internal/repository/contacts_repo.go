package repository

import (
	"context"
	"errors"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
)

var (
	// ErrDuplicateEmail 插入违反 email 唯一约束
	ErrDuplicateEmail = errors.New("contact email already exists")
	// ErrContactNotFound 按 id 查询不到联系人
	ErrContactNotFound = errors.New("contact not found")
)

// ContactsRepository 联系人Repository接口
// Repository层只负责数据访问，校验由Service层处理
type ContactsRepository interface {
	// EnsureSchema 建表（CREATE TABLE IF NOT EXISTS），启动时调用一次
	EnsureSchema(ctx context.Context) error

	// ListContacts 先 COUNT 再按 created_at DESC, id DESC 分页查询
	// 返回当前页联系人与总数
	ListContacts(ctx context.Context, page, limit int) ([]*domain.Contact, int, error)

	// GetContact 根据 id 获取联系人，不存在时返回 ErrContactNotFound
	GetContact(ctx context.Context, id int64) (*domain.Contact, error)

	// CreateContact 插入联系人并重新读取整行（带上存储层分配的 id 与 created_at）
	// email 重复时返回 ErrDuplicateEmail，且不会产生部分写入
	CreateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)

	// DeleteContact 物理删除，deleted 表示是否真的删掉了一行
	DeleteContact(ctx context.Context, id int64) (deleted bool, err error)
}
