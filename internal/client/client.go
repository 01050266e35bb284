package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second
)

// 用户可见的错误提示
const (
	MsgDuplicateEmail = "A contact with this email already exists"
	MsgNotFound       = "Contact not found"
	MsgServerError    = "Server error. Please try again later."
	MsgTimeout        = "Request timeout. Please check your connection."
	MsgNetwork        = "Network error. Please check your connection."
	MsgUnexpected     = "An unexpected error occurred"
)

// ContactPage 列表接口响应
type ContactPage struct {
	Contacts []domain.Contact `json:"contacts"`
	models.Pagination
}

// NewContact 新增联系人请求
type NewContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Health 存活检查响应
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// APIError 携带已转换为用户提示的错误信息
type APIError struct {
	Status  int // 0 表示请求未得到响应
	Message string
	Details []string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// Options 客户端参数
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client Contact Book REST API 客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New 创建客户端；POST 不重试，避免重复提交
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			logger.Debug("Making request", zap.String("method", req.Method), zap.String("url", req.URL))
			return nil
		})

	return &Client{httpClient: httpClient, logger: logger}
}

// GetContacts 分页获取联系人
func (c *Client) GetContacts(ctx context.Context, page, limit int) (*ContactPage, error) {
	var result ContactPage
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&result).
		Get("/contacts")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	if result.Contacts == nil {
		result.Contacts = []domain.Contact{}
	}
	return &result, nil
}

// AddContact 新增联系人，返回服务端保存后的记录
func (c *Client) AddContact(ctx context.Context, in NewContact) (*domain.Contact, error) {
	var created domain.Contact
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&created).
		Post("/contacts")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteContact 删除联系人
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete("/contacts/{id}")
	return c.check(resp, err)
}

// ExportContacts 下载全部联系人的 xlsx 文件
func (c *Client) ExportContacts(ctx context.Context) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
		Get("/contacts/export")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// HealthCheck 存活检查
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	var h Health
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&h).
		Get("/health")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &h, nil
}

// check 将传输错误和非 2xx 响应转换为 *APIError
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		msg := MsgNetwork
		if isTimeout(err) {
			msg = MsgTimeout
		}
		c.logger.Debug("API request failed", zap.Error(err))
		return &APIError{Message: msg, Err: err}
	}
	if !resp.IsError() {
		return nil
	}

	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)
	apiErr := &APIError{Status: resp.StatusCode(), Details: body.Details}
	c.logger.Debug("API error", zap.Int("status", resp.StatusCode()), zap.ByteString("body", resp.Body()))

	switch status := resp.StatusCode(); {
	case status == http.StatusConflict:
		apiErr.Message = MsgDuplicateEmail
	case status == http.StatusNotFound:
		apiErr.Message = MsgNotFound
	case status >= http.StatusInternalServerError:
		apiErr.Message = MsgServerError
	case len(body.Details) > 0:
		apiErr.Message = strings.Join(body.Details, ", ")
	case body.Error != "":
		apiErr.Message = body.Error
	default:
		apiErr.Message = MsgUnexpected
	}
	return apiErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
