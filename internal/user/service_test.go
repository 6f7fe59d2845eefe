package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		params    user.RegisterParams
		setupMock func(m *user.MockRepository)
		wantRole  user.Role
		wantErr   error
	}

	created := func(_ context.Context, u *user.User) error {
		u.ID = uuid.New()
		return nil
	}

	tests := []testCase{
		{
			name:   "FirstUserIsAdmin",
			params: user.RegisterParams{Username: " Ama ", Password: "secret123", ShopName: "Ama Provisions"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetByUsername(gomock.Any(), "ama").Return(nil, user.ErrNotFound)
				m.EXPECT().CountUsers(gomock.Any()).Return(0, nil)
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(created)
			},
			wantRole: user.RoleAdmin,
		},
		{
			name:   "LaterUserIsCashier",
			params: user.RegisterParams{Username: "kofi", Password: "secret123"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetByUsername(gomock.Any(), "kofi").Return(nil, user.ErrNotFound)
				m.EXPECT().CountUsers(gomock.Any()).Return(1, nil)
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(created)
			},
			wantRole: user.RoleCashier,
		},
		{
			name:   "UsernameTaken",
			params: user.RegisterParams{Username: "KOFI", Password: "secret123"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().GetByUsername(gomock.Any(), "kofi").Return(&user.User{Username: "kofi"}, nil)
			},
			wantErr: user.ErrUsernameTaken,
		},
		{
			name:    "ShortPassword",
			params:  user.RegisterParams{Username: "kofi", Password: "123"},
			wantErr: user.ErrInvalidInput,
		},
		{
			name:    "MissingUsername",
			params:  user.RegisterParams{Password: "secret123"},
			wantErr: user.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo, user.WithHashCost(bcrypt.MinCost))
			got, err := svc.Register(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
			assert.NotEqual(t, tt.params.Password, got.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte(tt.params.Password)))
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &user.User{ID: uuid.New(), Username: "ama", PasswordHash: string(hash), Role: user.RoleAdmin}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().GetByUsername(gomock.Any(), "ama").Return(stored, nil)

		got, err := user.NewService(repo).Authenticate(context.Background(), "AMA", "secret123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().GetByUsername(gomock.Any(), "ama").Return(stored, nil)

		_, err := user.NewService(repo).Authenticate(context.Background(), "ama", "nope")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, user.ErrNotFound)

		_, err := user.NewService(repo).Authenticate(context.Background(), "ghost", "secret123")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("RepoError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := user.NewMockRepository(ctrl)
		repo.EXPECT().GetByUsername(gomock.Any(), "ama").Return(nil, errors.New("db down"))

		_, err := user.NewService(repo).Authenticate(context.Background(), "ama", "secret123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, user.ErrInvalidCredentials)
	})
}
