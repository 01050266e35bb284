package domain

import "time"

// Contact 联系人领域模型
// 对应 contacts 表：id 与 created_at 由存储层分配，插入后不可修改
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // 唯一，大小写敏感
	Phone     string    `json:"phone"` // 10 位数字
	CreatedAt time.Time `json:"created_at"`
}
