package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/events"
	"github.com/MPanduranga55/Contact-Book/internal/models"
	"github.com/MPanduranga55/Contact-Book/internal/repository"

	"go.uber.org/zap"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

const (
	MsgInvalidPagination = "Invalid pagination parameters. Page must be >= 1, limit must be between 1-100"
	MsgInvalidContactID  = "Invalid contact ID"
	MsgValidationFailed  = "Validation failed"
	MsgDuplicateEmail    = "A contact with this email already exists"
	MsgContactNotFound   = "Contact not found"

	MsgNameRequired  = "Name is required"
	MsgEmailInvalid  = "Valid email is required"
	MsgPhoneInvalid  = "Valid 10-digit phone number is required"
	msgFetchFailed   = "Failed to fetch contacts"
	msgAddFailed     = "Failed to add contact"
	msgDeleteFailed  = "Failed to delete contact"
	exportBatchLimit = models.MaxLimit
)

// ContactService 联系人服务
type ContactService struct {
	repo      repository.ContactsRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewContactService 创建联系人服务；publisher 为 nil 时不发布事件
func NewContactService(repo repository.ContactsRepository, publisher events.Publisher, logger *zap.Logger) *ContactService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ContactService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListContactsRequest 查询联系人列表请求
type ListContactsRequest struct {
	Page  int
	Limit int
}

// ListContactsResponse 查询联系人列表响应
type ListContactsResponse struct {
	Contacts []*domain.Contact `json:"contacts"`
	models.Pagination
}

// ParsePagination 解析 query 参数；缺省时使用 page=1, limit=10，非整数视为非法
func ParsePagination(pageRaw, limitRaw string) (ListContactsRequest, error) {
	page, err := parseIntParam(pageRaw, models.DefaultPage)
	if err != nil {
		return ListContactsRequest{}, invalidInput(MsgInvalidPagination)
	}
	limit, err := parseIntParam(limitRaw, models.DefaultLimit)
	if err != nil {
		return ListContactsRequest{}, invalidInput(MsgInvalidPagination)
	}
	return ListContactsRequest{Page: page, Limit: limit}, nil
}

func parseIntParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// ListContacts 查询联系人列表
func (s *ContactService) ListContacts(ctx context.Context, req ListContactsRequest) (*ListContactsResponse, error) {
	if !models.ValidPage(req.Page, req.Limit) {
		return nil, invalidInput(MsgInvalidPagination)
	}

	contacts, total, err := s.repo.ListContacts(ctx, req.Page, req.Limit)
	if err != nil {
		s.logger.Error("Error fetching contacts", zap.Error(err), zap.Int("page", req.Page), zap.Int("limit", req.Limit))
		return nil, internal(msgFetchFailed, err)
	}

	return &ListContactsResponse{
		Contacts:   contacts,
		Pagination: models.NewPagination(req.Page, req.Limit, total),
	}, nil
}

// CreateContactRequest 创建联系人请求
type CreateContactRequest struct {
	Name  string
	Email string
	Phone string
}

// ValidateContact 校验全部字段，返回所有不合法字段的提示
func ValidateContact(req CreateContactRequest) []string {
	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, MsgNameRequired)
	}
	if !emailPattern.MatchString(req.Email) {
		problems = append(problems, MsgEmailInvalid)
	}
	if !phonePattern.MatchString(req.Phone) {
		problems = append(problems, MsgPhoneInvalid)
	}
	return problems
}

// CreateContact 创建联系人
func (s *ContactService) CreateContact(ctx context.Context, req CreateContactRequest) (*domain.Contact, error) {
	if problems := ValidateContact(req); len(problems) > 0 {
		return nil, &Error{Kind: KindValidation, Message: MsgValidationFailed, Details: problems}
	}

	created, err := s.repo.CreateContact(ctx, &domain.Contact{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, &Error{Kind: KindConflict, Message: MsgDuplicateEmail, Err: err}
		}
		s.logger.Error("Error adding contact", zap.Error(err))
		return nil, internal(msgAddFailed, err)
	}

	s.publish(ctx, events.NewContactCreated(created))
	return created, nil
}

// ParseContactID 解析路径中的联系人 id，必须是完整的整数
func ParseContactID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalidInput(MsgInvalidContactID)
	}
	return id, nil
}

// DeleteContact 删除联系人
func (s *ContactService) DeleteContact(ctx context.Context, rawID string) error {
	id, err := ParseContactID(rawID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteContact(ctx, id)
	if err != nil {
		s.logger.Error("Error deleting contact", zap.Error(err), zap.Int64("contact_id", id))
		return internal(msgDeleteFailed, err)
	}
	if !deleted {
		return &Error{Kind: KindNotFound, Message: MsgContactNotFound}
	}

	s.publish(ctx, events.NewContactDeleted(id))
	return nil
}

// HealthResponse 存活检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health 存活检查，无副作用
func (s *ContactService) Health() HealthResponse {
	return HealthResponse{Status: "OK", Message: "Server is running"}
}

// ExportContacts 按列表顺序读出全部联系人（分批查询）
func (s *ContactService) ExportContacts(ctx context.Context) ([]*domain.Contact, error) {
	var all []*domain.Contact
	for page := 1; ; page++ {
		batch, total, err := s.repo.ListContacts(ctx, page, exportBatchLimit)
		if err != nil {
			s.logger.Error("Error exporting contacts", zap.Error(err), zap.Int("page", page))
			return nil, internal(msgFetchFailed, err)
		}
		all = append(all, batch...)
		if len(batch) < exportBatchLimit || page >= models.TotalPages(total, exportBatchLimit) {
			return all, nil
		}
	}
}

// publish 事件发布失败只记日志，不影响请求结果
func (s *ContactService) publish(ctx context.Context, event events.ContactEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish contact event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.Int64("contact_id", event.ContactID),
		)
	}
}
