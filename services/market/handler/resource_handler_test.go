package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-marketplace/internal/marketerrors"
	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newCategoryRouter(t *testing.T) (*gin.Engine, *MockCRUDServiceInterface[models.Category]) {
	ctrl := gomock.NewController(t)
	mockService := NewMockCRUDServiceInterface[models.Category](ctrl)
	handler := NewResourceHandler[models.Category](mockService, "category", "categories")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withActor(market.Actor{UserID: 9, Role: models.RoleStaff}))
	router.GET("/categories", handler.List)
	router.GET("/categories/:id", handler.Get)
	router.POST("/categories", handler.Create)
	router.PUT("/categories/:id", handler.Update)
	router.DELETE("/categories/:id", handler.Delete)
	return router, mockService
}

func TestResourceHandler(t *testing.T) {
	staff := market.Actor{UserID: 9, Role: models.RoleStaff}
	electronics := &models.Category{ID: 1, Name: "Electronics"}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		mockSetup      func(m *MockCRUDServiceInterface[models.Category])
		expectedStatus int
		expectedMsg    string
		validate       func(t *testing.T, resp map[string]any)
	}{
		{
			name:   "list_passes_query",
			method: http.MethodGet,
			path:   "/categories?q=elec&sort=name",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().
					List(gomock.Any(), staff, repository.Query{"q": "elec", "sort": "name"}).
					Return([]models.Category{*electronics}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "categories retrieved successfully",
			validate: func(t *testing.T, resp map[string]any) {
				require.Len(t, resp["categories"], 1)
			},
		},
		{
			name:   "list_empty_is_array",
			method: http.MethodGet,
			path:   "/categories",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().List(gomock.Any(), staff, repository.Query{}).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "categories retrieved successfully",
			validate: func(t *testing.T, resp map[string]any) {
				require.Equal(t, []any{}, resp["categories"])
			},
		},
		{
			name:   "list_rejected_filter",
			method: http.MethodGet,
			path:   "/categories?status=bogus",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().List(gomock.Any(), staff, gomock.Any()).Return(nil, marketerrors.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid input",
		},
		{
			name:   "get_found",
			method: http.MethodGet,
			path:   "/categories/1",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Get(gomock.Any(), staff, int64(1)).Return(electronics, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "category retrieved successfully",
			validate: func(t *testing.T, resp map[string]any) {
				require.Equal(t, "Electronics", resp["category"].(map[string]any)["name"])
			},
		},
		{
			name:   "get_missing",
			method: http.MethodGet,
			path:   "/categories/2",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Get(gomock.Any(), staff, int64(2)).Return(nil, marketerrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "resource not found",
		},
		{
			name:           "get_bad_id",
			method:         http.MethodGet,
			path:           "/categories/x",
			mockSetup:      func(m *MockCRUDServiceInterface[models.Category]) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid id",
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/categories",
			body:   `{"name":"Electronics","description":"Gadgets"}`,
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().
					Create(gomock.Any(), staff, map[string]any{"name": "Electronics", "description": "Gadgets"}).
					Return(electronics, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "category created successfully",
		},
		{
			name:   "create_type_error",
			method: http.MethodPost,
			path:   "/categories",
			body:   `{"name":5}`,
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().
					Create(gomock.Any(), staff, map[string]any{"name": 5.0}).
					Return(nil, &marketerrors.FieldTypeError{Entity: "category", Field: "name", Expected: "string", Actual: "float64"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid field type",
		},
		{
			name:           "create_not_an_object",
			method:         http.MethodPost,
			path:           "/categories",
			body:           `["Electronics"]`,
			mockSetup:      func(m *MockCRUDServiceInterface[models.Category]) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:   "create_conflict",
			method: http.MethodPost,
			path:   "/categories",
			body:   `{"name":"Electronics"}`,
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Create(gomock.Any(), staff, gomock.Any()).Return(nil, marketerrors.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "resource already exists or is in use",
		},
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/categories/1",
			body:   `{"description":"Everything with a plug"}`,
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().
					Update(gomock.Any(), staff, int64(1), map[string]any{"description": "Everything with a plug"}).
					Return(electronics, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "category updated successfully",
		},
		{
			name:   "update_missing",
			method: http.MethodPut,
			path:   "/categories/3",
			body:   `{"name":"Toys"}`,
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Update(gomock.Any(), staff, int64(3), gomock.Any()).Return(nil, marketerrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "resource not found",
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/categories/1",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Delete(gomock.Any(), staff, int64(1)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "category deleted successfully",
		},
		{
			name:   "delete_forbidden",
			method: http.MethodDelete,
			path:   "/categories/4",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Delete(gomock.Any(), staff, int64(4)).Return(marketerrors.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "operation not permitted",
		},
		{
			name:   "delete_failure",
			method: http.MethodDelete,
			path:   "/categories/5",
			mockSetup: func(m *MockCRUDServiceInterface[models.Category]) {
				m.EXPECT().Delete(gomock.Any(), staff, int64(5)).Return(errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router, mockService := newCategoryRouter(t)
			tc.mockSetup(mockService)

			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.expectedMsg, resp["message"])

			if tc.validate != nil {
				tc.validate(t, resp)
			}
		})
	}
}

func TestResourceHandler_ListBy(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := NewMockCRUDServiceInterface[models.Review](ctrl)
	handler := NewResourceHandler[models.Review](mockService, "review", "reviews")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/listings/:id/reviews", handler.ListBy("id", "listing_id"))

	mockService.EXPECT().
		List(gomock.Any(), market.Actor{}, repository.Query{"listing_id": "7", "sort": "rating"}).
		Return([]models.Review{{ID: 1, ListingID: 7, Rating: 5}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listings/7/reviews?sort=rating&listing_id=99", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp["reviews"], 1)
}
