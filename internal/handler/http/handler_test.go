package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/mock"
	"github.com/MKhiriev/vm-console/internal/service"
	"github.com/MKhiriev/vm-console/internal/store"
	"github.com/MKhiriev/vm-console/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerFixture struct {
	auth   *mock.MockAuth
	vm     *mock.MockVM
	server *httptest.Server
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuth(ctrl)
	vm := mock.NewMockVM(ctrl)

	ws := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSwitchingProtocols)
	}

	handler := NewHandler(&service.Services{Auth: auth, VM: vm}, ws, logger.Nop())
	server := httptest.NewServer(handler.InitRoutes())
	t.Cleanup(server.Close)

	return &handlerFixture{auth: auth, vm: vm, server: server}
}

func (f *handlerFixture) expectIdentity(token string, identity models.Identity) {
	f.auth.EXPECT().ParseToken(token).Return(identity, nil).AnyTimes()
}

func (f *handlerFixture) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, f.server.URL+path, &payload)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func adminIdentity() models.Identity {
	return models.Identity{ID: "u-1", Email: "admin@example.com", Role: models.RoleAdministrator}
}

func clientIdentity() models.Identity {
	return models.Identity{ID: "u-2", Email: "viewer@example.com", Role: models.RoleClient}
}

func TestLogin(t *testing.T) {
	f := newHandlerFixture(t)

	token := &models.Token{
		Claims:       &models.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}},
		SignedString: "signed.jwt.token",
	}
	f.auth.EXPECT().Login(gomock.Any(), "admin@example.com", "secret").Return(token, nil)

	resp := f.request(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "secret",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[models.LoginResponse](t, resp)
	assert.Equal(t, "signed.jwt.token", body.AccessToken)
}

func TestLogin_WrongCredentials(t *testing.T) {
	f := newHandlerFixture(t)

	f.auth.EXPECT().Login(gomock.Any(), "admin@example.com", "nope").
		Return(nil, service.ErrWrongCredentials)

	resp := f.request(t, http.MethodPost, "/auth/login", "", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "nope",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.NotEmpty(t, body["message"])
}

func TestLogin_MissingFields(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.request(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMe(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", adminIdentity())

	resp := f.request(t, http.MethodGet, "/auth/me", "tkn", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	identity := decodeBody[models.Identity](t, resp)
	assert.Equal(t, "admin@example.com", identity.Email)
	assert.True(t, identity.IsAdmin())
}

func TestMe_MissingToken(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.request(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMe_InvalidToken(t *testing.T) {
	f := newHandlerFixture(t)
	f.auth.EXPECT().ParseToken("bad").Return(models.Identity{}, service.ErrInvalidToken)

	resp := f.request(t, http.MethodGet, "/auth/me", "bad", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListVMs(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", clientIdentity())

	list := models.VMList{
		Items: []models.VM{{ID: "vm-1", Name: "web-frontend"}},
		Meta:  models.ListMeta{TotalPages: 3},
	}
	f.vm.EXPECT().List(gomock.Any(), 2, "web").Return(list, nil)

	resp := f.request(t, http.MethodGet, "/vms?page=2&search=web", "tkn", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[models.VMList](t, resp)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "vm-1", body.Items[0].ID)
	assert.Equal(t, 3, body.Meta.TotalPages)
}

func TestListVMs_EmptyPageSerializesItems(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", clientIdentity())

	f.vm.EXPECT().List(gomock.Any(), 1, "").Return(models.VMList{}, nil)

	resp := f.request(t, http.MethodGet, "/vms", "tkn", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]json.RawMessage](t, resp)
	assert.JSONEq(t, `[]`, string(body["items"]))
}

func TestListVMs_BadPage(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", clientIdentity())

	resp := f.request(t, http.MethodGet, "/vms?page=abc", "tkn", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateVM(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", adminIdentity())

	fields := models.VMFields{Name: "web-frontend", Cores: 4, RAMGb: 8, DiskGb: 100, OS: "ubuntu-22.04", Status: models.StatusRunning}
	created := models.VM{ID: "vm-1", Name: fields.Name}
	f.vm.EXPECT().Create(gomock.Any(), fields).Return(created, nil)

	resp := f.request(t, http.MethodPost, "/vms", "tkn", fields)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[models.VM](t, resp)
	assert.Equal(t, "vm-1", body.ID)
}

func TestCreateVM_ForbiddenForClient(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", clientIdentity())

	resp := f.request(t, http.MethodPost, "/vms", "tkn", models.VMFields{Name: "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateVM_ValidationError(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", adminIdentity())

	f.vm.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(models.VM{}, service.ErrValidation)

	resp := f.request(t, http.MethodPost, "/vms", "tkn", models.VMFields{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateVM(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", adminIdentity())

	name := "renamed"
	patch := models.VMPatch{Name: &name}
	f.vm.EXPECT().Update(gomock.Any(), "vm-1", patch).Return(models.VM{ID: "vm-1", Name: name}, nil)

	resp := f.request(t, http.MethodPut, "/vms/vm-1", "tkn", patch)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[models.VM](t, resp)
	assert.Equal(t, name, body.Name)
}

func TestDeleteVM_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", adminIdentity())

	f.vm.EXPECT().Delete(gomock.Any(), "missing").Return(models.VM{}, store.ErrVMNotFound)

	resp := f.request(t, http.MethodDelete, "/vms/missing", "tkn", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteVM_ForbiddenForClient(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", clientIdentity())

	resp := f.request(t, http.MethodDelete, "/vms/vm-1", "tkn", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestInternalErrorHidesDetails(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectIdentity("tkn", clientIdentity())

	f.vm.EXPECT().List(gomock.Any(), 1, "").
		Return(models.VMList{}, assert.AnError)

	resp := f.request(t, http.MethodGet, "/vms", "tkn", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "internal server error", body["message"])
}
