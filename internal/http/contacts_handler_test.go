package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MPanduranga55/Contact-Book/internal/common/config"
	"github.com/MPanduranga55/Contact-Book/internal/common/database"
	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/repository"
	"github.com/MPanduranga55/Contact-Book/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestAPI(t *testing.T, repo repository.ContactsRepository) http.Handler {
	t.Helper()
	if repo == nil {
		repo = repository.NewMemoryContactsRepo()
	}
	logger := zap.NewNop()
	svc := service.NewContactService(repo, nil, logger)

	r := NewRouter(logger)
	r.RegisterContactRoutes(NewContactsHandler(svc, logger))
	r.RegisterHealthRoutes(NewHealthHandler(svc))
	r.Use(RequestID(), AccessLog(logger), Recover(logger), CORS("*"))
	return r.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func createContact(t *testing.T, h http.Handler, name, email, phone string) domain.Contact {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/contacts",
		fmt.Sprintf(`{"name":%q,"email":%q,"phone":%q}`, name, email, phone))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var c domain.Contact
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	return c
}

type listBody struct {
	Contacts   []domain.Contact `json:"contacts"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

func TestHealth(t *testing.T) {
	h := newTestAPI(t, nil)
	rr := do(t, h, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Server is running"}`, rr.Body.String())
}

func TestCreateThenListNewestFirst(t *testing.T) {
	h := newTestAPI(t, nil)
	createContact(t, h, "Bob", "bob@x.com", "5550000000")
	ann := createContact(t, h, "Ann", "ann@x.com", "5551234567")

	assert.Positive(t, ann.ID)
	assert.False(t, ann.CreatedAt.IsZero())
	assert.Equal(t, "Ann", ann.Name)

	rr := do(t, h, http.MethodGet, "/api/contacts?page=1&limit=10", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Contacts, 2)
	assert.Equal(t, ann.ID, body.Contacts[0].ID)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 10, body.Limit)
	assert.Equal(t, 1, body.TotalPages)
}

func TestListDefaultsAndEmptyStore(t *testing.T) {
	h := newTestAPI(t, nil)
	rr := do(t, h, http.MethodGet, "/api/contacts", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"contacts":[],"total":0,"page":1,"limit":10,"totalPages":0}`, rr.Body.String())
}

func TestListRejectsBadPagination(t *testing.T) {
	h := newTestAPI(t, nil)
	for _, q := range []string{"page=0", "page=-2", "limit=0", "limit=101", "page=abc", "limit=5x"} {
		rr := do(t, h, http.MethodGet, "/api/contacts?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
		assert.Equal(t, service.MsgInvalidPagination, decodeError(t, rr).Error, q)
	}
}

func TestListPaginationWindow(t *testing.T) {
	h := newTestAPI(t, nil)
	for i := 0; i < 12; i++ {
		createContact(t, h, fmt.Sprintf("C%d", i), fmt.Sprintf("c%d@x.com", i), "5551234567")
	}

	rr := do(t, h, http.MethodGet, "/api/contacts?page=3&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body listBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Contacts, 2)
	assert.Equal(t, 12, body.Total)
	assert.Equal(t, 3, body.TotalPages)

	rr = do(t, h, http.MethodGet, "/api/contacts?page=9&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Empty(t, body.Contacts)
}

func TestListHugePageIsEmpty(t *testing.T) {
	db, err := database.NewSQLiteDB(&config.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "contacts.db"),
		BusyTimeout: 1000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sqliteRepo := repository.NewSQLiteContactsRepository(db)
	require.NoError(t, sqliteRepo.EnsureSchema(context.Background()))

	repos := map[string]repository.ContactsRepository{
		"memory": repository.NewMemoryContactsRepo(),
		"sqlite": sqliteRepo,
	}
	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			h := newTestAPI(t, repo)
			createContact(t, h, "Ann", "ann@x.com", "5551234567")

			rr := do(t, h, http.MethodGet, "/api/contacts?page=4611686018427387905&limit=2", "")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			var body listBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotNil(t, body.Contacts)
			assert.Empty(t, body.Contacts)
			assert.Equal(t, 1, body.Total)
			assert.Equal(t, 4611686018427387905, body.Page)
			assert.Equal(t, 1, body.TotalPages)
		})
	}
}

func TestCreateValidationCollectsEveryProblem(t *testing.T) {
	h := newTestAPI(t, nil)
	rr := do(t, h, http.MethodPost, "/api/contacts", `{"name":"","email":"bad","phone":"123"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, service.MsgValidationFailed, body.Error)
	assert.Equal(t, []string{service.MsgNameRequired, service.MsgEmailInvalid, service.MsgPhoneInvalid}, body.Details)
}

func TestCreateEmptyBodyIsValidationError(t *testing.T) {
	h := newTestAPI(t, nil)
	rr := do(t, h, http.MethodPost, "/api/contacts", "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, decodeError(t, rr).Details, 3)
}

func TestCreateRejectsNonObjectBody(t *testing.T) {
	h := newTestAPI(t, nil)
	for _, body := range []string{`[1,2]`, `"ann"`, `{"name":`, `true`} {
		rr := do(t, h, http.MethodPost, "/api/contacts", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, msgInvalidJSON, decodeError(t, rr).Error, body)
	}
}

func TestCreateNonStringFieldsAreValidationErrors(t *testing.T) {
	h := newTestAPI(t, nil)
	tests := []struct {
		body string
		want []string
	}{
		{`{"name":true,"email":"ann@x.com","phone":"5551234567"}`, []string{service.MsgNameRequired}},
		{`{"name":"Ann","email":false,"phone":"5551234567"}`, []string{service.MsgEmailInvalid}},
		{`{"name":"Ann","email":"ann@x.com","phone":{}}`, []string{service.MsgPhoneInvalid}},
		{`{"name":["Ann"],"email":true,"phone":[5551234567]}`,
			[]string{service.MsgNameRequired, service.MsgEmailInvalid, service.MsgPhoneInvalid}},
	}
	for _, tt := range tests {
		rr := do(t, h, http.MethodPost, "/api/contacts", tt.body)
		require.Equal(t, http.StatusBadRequest, rr.Code, tt.body)
		body := decodeError(t, rr)
		assert.Equal(t, service.MsgValidationFailed, body.Error, tt.body)
		assert.Equal(t, tt.want, body.Details, tt.body)
	}
}

func TestCreateAcceptsNumericPhone(t *testing.T) {
	h := newTestAPI(t, nil)
	rr := do(t, h, http.MethodPost, "/api/contacts", `{"name":"Num","email":"n@x.com","phone":5551234567}`)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var c domain.Contact
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	assert.Equal(t, "5551234567", c.Phone)
}

func TestCreateDuplicateEmailIsConflict(t *testing.T) {
	h := newTestAPI(t, nil)
	createContact(t, h, "Ann", "ann@x.com", "5551234567")

	rr := do(t, h, http.MethodPost, "/api/contacts", `{"name":"Ann 2","email":"ann@x.com","phone":"5559999999"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, service.MsgDuplicateEmail, decodeError(t, rr).Error)

	rr = do(t, h, http.MethodGet, "/api/contacts", "")
	var body listBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
}

func TestDeleteTwice(t *testing.T) {
	h := newTestAPI(t, nil)
	c := createContact(t, h, "Ann", "ann@x.com", "5551234567")
	target := fmt.Sprintf("/api/contacts/%d", c.ID)

	rr := do(t, h, http.MethodDelete, target, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = do(t, h, http.MethodDelete, target, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, service.MsgContactNotFound, decodeError(t, rr).Error)
}

func TestDeleteRejectsMalformedID(t *testing.T) {
	h := newTestAPI(t, nil)
	for _, id := range []string{"abc", "12abc", "1.5"} {
		rr := do(t, h, http.MethodDelete, "/api/contacts/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
		assert.Equal(t, service.MsgInvalidContactID, decodeError(t, rr).Error, id)
	}
}

func TestUnmatchedRoutes(t *testing.T) {
	h := newTestAPI(t, nil)
	cases := []struct{ method, target string }{
		{http.MethodGet, "/api/unknown"},
		{http.MethodGet, "/"},
		{http.MethodPut, "/api/contacts"},
		{http.MethodGet, "/api/contacts/7"},
		{http.MethodDelete, "/api/contacts/"},
		{http.MethodDelete, "/api/contacts/1/extra"},
		{http.MethodPost, "/api/health"},
	}
	for _, tc := range cases {
		rr := do(t, h, tc.method, tc.target, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", tc.method, tc.target)
		assert.Equal(t, msgEndpointNotFound, decodeError(t, rr).Error)
	}
}

type brokenRepo struct {
	repository.ContactsRepository
}

func (brokenRepo) ListContacts(context.Context, int, int) ([]*domain.Contact, int, error) {
	return nil, 0, errors.New("connection refused")
}

func TestStoreFailureIsGeneric500(t *testing.T) {
	h := newTestAPI(t, brokenRepo{})
	rr := do(t, h, http.MethodGet, "/api/contacts", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "Failed to fetch contacts", body.Error)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestExportContacts(t *testing.T) {
	h := newTestAPI(t, nil)
	createContact(t, h, "Bob", "bob@x.com", "0550000000")
	createContact(t, h, "Ann", "ann@x.com", "5551234567")

	rr := do(t, h, http.MethodGet, "/api/contacts/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "contacts-export.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(contactsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ContactsExportHeader, rows[0])
	assert.Equal(t, "Ann", rows[1][1])
	assert.Equal(t, "0550000000", rows[2][3])
}
