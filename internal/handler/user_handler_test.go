package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"quotely/internal/domain"
	"quotely/internal/handler"
	"quotely/internal/service"
	"quotely/mocks"
)

func newUserHandler() (*handler.UserHandler, *mocks.MockUserService) {
	mockSvc := new(mocks.MockUserService)
	return handler.NewUserHandler(mockSvc), mockSvc
}

func TestUserHandler_Create_Success(t *testing.T) {
	h, mockSvc := newUserHandler()

	expected := &domain.User{ID: uuid.New(), Email: "jane@skylub.in", FullName: "Jane Doe", Role: domain.RoleEmployee, IsActive: true}
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateUserInput) bool {
		return input.Email == "jane@skylub.in" && input.Role == domain.RoleEmployee
	})).Return(expected, nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/users", map[string]string{
		"email": "jane@skylub.in", "password": "securepassword", "full_name": "Jane Doe", "role": "employee",
	})
	setAuthContext(c, uuid.New(), "admin")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Create_UnknownRole(t *testing.T) {
	h, mockSvc := newUserHandler()

	c, w := newTestContext(http.MethodPost, "/api/v1/users", map[string]string{
		"email": "jane@skylub.in", "password": "securepassword", "full_name": "Jane Doe", "role": "manager",
	})
	setAuthContext(c, uuid.New(), "admin")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	h, mockSvc := newUserHandler()
	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).Return(nil, domain.ErrDuplicateEmail)

	c, w := newTestContext(http.MethodPost, "/api/v1/users", map[string]string{
		"email": "existing@skylub.in", "password": "password123", "full_name": "Existing", "role": "employee",
	})
	setAuthContext(c, uuid.New(), "admin")
	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_List_Pagination(t *testing.T) {
	h, mockSvc := newUserHandler()
	mockSvc.On("List", mock.Anything, 0, 20).Return([]domain.User{{ID: uuid.New()}}, 1, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/users?offset=-5&limit=500", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_GetByID_SelfAllowed(t *testing.T) {
	h, mockSvc := newUserHandler()
	userID := uuid.New()
	mockSvc.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/users/"+userID.String(), nil)
	withID(c, userID.String())
	setAuthContext(c, userID, "employee")
	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_GetByID_OtherForbiddenForEmployee(t *testing.T) {
	h, mockSvc := newUserHandler()
	other := uuid.New()

	c, w := newTestContext(http.MethodGet, "/api/v1/users/"+other.String(), nil)
	withID(c, other.String())
	setAuthContext(c, uuid.New(), "employee")
	h.GetByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUserHandler_GetByID_InvalidID(t *testing.T) {
	h, _ := newUserHandler()

	c, w := newTestContext(http.MethodGet, "/api/v1/users/nope", nil)
	withID(c, "nope")
	setAuthContext(c, uuid.New(), "admin")
	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}

func TestUserHandler_Update_EmployeeCannotChangeRole(t *testing.T) {
	h, mockSvc := newUserHandler()
	userID := uuid.New()

	c, w := newTestContext(http.MethodPut, "/api/v1/users/"+userID.String(), map[string]string{"role": "admin"})
	withID(c, userID.String())
	setAuthContext(c, userID, "employee")
	h.Update(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_Update_SelfName(t *testing.T) {
	h, mockSvc := newUserHandler()
	userID := uuid.New()
	mockSvc.On("Update", mock.Anything, userID, mock.MatchedBy(func(in service.UpdateUserInput) bool {
		return in.FullName != nil && *in.FullName == "Jane Q. Doe"
	})).Return(&domain.User{ID: userID, FullName: "Jane Q. Doe"}, nil)

	c, w := newTestContext(http.MethodPut, "/api/v1/users/"+userID.String(), map[string]string{"full_name": "Jane Q. Doe"})
	withID(c, userID.String())
	setAuthContext(c, userID, "employee")
	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Delete(t *testing.T) {
	h, mockSvc := newUserHandler()
	target := uuid.New()
	mockSvc.On("Delete", mock.Anything, target).Return(nil)

	c, w := newTestContext(http.MethodDelete, "/api/v1/users/"+target.String(), nil)
	withID(c, target.String())
	setAuthContext(c, uuid.New(), "admin")
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Delete_Self(t *testing.T) {
	h, mockSvc := newUserHandler()
	adminID := uuid.New()

	c, w := newTestContext(http.MethodDelete, "/api/v1/users/"+adminID.String(), nil)
	withID(c, adminID.String())
	setAuthContext(c, adminID, "admin")
	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
