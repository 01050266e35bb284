package httpapi

import (
	"net/http"

	"github.com/MPanduranga55/Contact-Book/internal/service"
)

// HealthHandler 存活检查
type HealthHandler struct {
	contactService *service.ContactService
}

func NewHealthHandler(contactService *service.ContactService) *HealthHandler {
	return &HealthHandler{contactService: contactService}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, h.contactService.Health())
}
