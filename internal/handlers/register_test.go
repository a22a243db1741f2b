package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/services"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			inputBody: RegisterRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "password123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "alice", "alice@example.com", "password123").
					Return(&models.UserDB{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid request body",
		},
		{
			name: "short password",
			inputBody: RegisterRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "short",
			},
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "password must be at least 8 characters",
		},
		{
			name: "bad email",
			inputBody: RegisterRequest{
				Username: "alice",
				Email:    "not-an-email",
				Password: "password123",
			},
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid email address",
		},
		{
			name: "empty username",
			inputBody: RegisterRequest{
				Username: "",
				Email:    "alice@example.com",
				Password: "password123",
			},
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "username must be between 1 and 50 characters",
		},
		{
			name: "duplicate username",
			inputBody: RegisterRequest{
				Username: "Alice",
				Email:    "other@example.com",
				Password: "password123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "Alice", "other@example.com", "password123").
					Return(nil, services.ErrUsernameTaken)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Username already exists",
		},
		{
			name: "duplicate email",
			inputBody: RegisterRequest{
				Username: "alice2",
				Email:    "ALICE@EXAMPLE.COM",
				Password: "password123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "alice2", "ALICE@EXAMPLE.COM", "password123").
					Return(nil, services.ErrEmailTaken)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Email already registered",
		},
		{
			name: "internal error",
			inputBody: RegisterRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "password123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "alice", "alice@example.com", "password123").
					Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			var body bytes.Buffer
			switch v := tt.inputBody.(type) {
			case string:
				body.WriteString(v)
			default:
				assert.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/users", &body)
			rr := httptest.NewRecorder()

			NewRegisterHandler(mockSvc, zap.NewNop().Sugar()).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedErr != "" {
				var resp ErrorResponse
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
			} else {
				var resp models.UserPrivate
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, int64(1), resp.ID)
				assert.Equal(t, "alice", resp.Username)
				assert.Equal(t, "alice@example.com", resp.Email)
				assert.Equal(t, models.DefaultProfileImage, resp.ImagePath)
			}
		})
	}
}
