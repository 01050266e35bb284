package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MPanduranga55/Contact-Book/internal/service"

	"go.uber.org/zap"
)

const (
	contactsPath      = "/api/contacts"
	contactsPrefix    = "/api/contacts/"
	contactsExportURL = "/api/contacts/export"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ContactsHandler 联系人 Handler
type ContactsHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

// NewContactsHandler 创建联系人 Handler
func NewContactsHandler(contactService *service.ContactService, logger *zap.Logger) *ContactsHandler {
	return &ContactsHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *ContactsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == contactsPath && r.Method == http.MethodGet:
		h.ListContacts(w, r)
	case r.URL.Path == contactsPath && r.Method == http.MethodPost:
		h.CreateContact(w, r)
	case r.URL.Path == contactsExportURL && r.Method == http.MethodGet:
		h.ExportContacts(w, r)
	case strings.HasPrefix(r.URL.Path, contactsPrefix) && r.Method == http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Path, contactsPrefix)
		if id == "" || strings.Contains(id, "/") {
			writeNotFound(w)
			return
		}
		h.DeleteContact(w, r, id)
	default:
		writeNotFound(w)
	}
}

// ListContacts 分页查询联系人
func (h *ContactsHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := service.ParsePagination(q.Get("page"), q.Get("limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.contactService.ListContacts(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// contactPayload POST body；字段允许字符串、数字或 null
type contactPayload struct {
	Name  flexString `json:"name"`
	Email flexString `json:"email"`
	Phone flexString `json:"phone"`
}

// flexString 接受 JSON 字符串或数字（数字按原文转成字符串）；
// null、布尔、对象和数组视为空值，由字段校验报告
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(n.String())
	return nil
}

// CreateContact 新增联系人
func (h *ContactsHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var payload contactPayload
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		h.logger.Debug("Rejected contact payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: msgInvalidJSON})
		return
	}

	created, err := h.contactService.CreateContact(r.Context(), service.CreateContactRequest{
		Name:  string(payload.Name),
		Email: string(payload.Email),
		Phone: string(payload.Phone),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteContact 删除联系人，成功返回 204 无 body
func (h *ContactsHandler) DeleteContact(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.contactService.DeleteContact(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportContacts 导出全部联系人为 xlsx
func (h *ContactsHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.ExportContacts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := GenerateContactsExport(contacts)
	if err != nil {
		h.logger.Error("Failed to generate contacts export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: msgInternalError})
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=contacts-export.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
