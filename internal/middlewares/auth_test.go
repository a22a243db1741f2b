package middlewares

import (
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

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 42, Username: "alice"}

	tests := []struct {
		name             string
		mockSetup        func(e *MockTokenExtractor, r *MockUserResolver)
		expectedStatus   int
		expectNextCalled bool
		wantChallenge    bool
	}{
		{
			name: "NoToken",
			mockSetup: func(e *MockTokenExtractor, r *MockUserResolver) {
				e.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("authorization header missing"))
			},
			expectedStatus: http.StatusUnauthorized,
			wantChallenge:  true,
		},
		{
			name: "InvalidToken",
			mockSetup: func(e *MockTokenExtractor, r *MockUserResolver) {
				e.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				r.EXPECT().Resolve(gomock.Any(), "sometoken").
					Return(nil, services.ErrUnauthenticated)
			},
			expectedStatus: http.StatusUnauthorized,
			wantChallenge:  true,
		},
		{
			name: "StorageError",
			mockSetup: func(e *MockTokenExtractor, r *MockUserResolver) {
				e.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				r.EXPECT().Resolve(gomock.Any(), "sometoken").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "ValidToken",
			mockSetup: func(e *MockTokenExtractor, r *MockUserResolver) {
				e.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				r.EXPECT().Resolve(gomock.Any(), "validtoken").
					Return(user, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewMockTokenExtractor(ctrl)
			resolver := NewMockUserResolver(ctrl)
			tt.mockSetup(extractor, resolver)

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				// The resolved user must be visible downstream
				assert.Equal(t, user, GetUserFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(extractor, resolver, zap.NewNop().Sugar())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
			if tt.wantChallenge {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestGetUserFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req.Context()))
}
