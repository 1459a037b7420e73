package profile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bdgram/api/internal/domain"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) ImageByUserID(ctx context.Context, userID string) (*string, error) {
	args := m.Called(ctx, userID)
	if img, _ := args.Get(0).(*string); img != nil {
		return img, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) InfoByUserID(ctx context.Context, userID string) ([]domain.UserInfo, error) {
	args := m.Called(ctx, userID)
	if rows, _ := args.Get(0).([]domain.UserInfo); rows != nil {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockImageStore struct{ mock.Mock }

func (m *mockImageStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	args := m.Called(ctx, key, r)
	return args.String(0), args.Error(1)
}
func (m *mockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(u *domain.User) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestUpdate_WithoutImageOnlyTouchesNameAndBio(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUserID", mock.Anything, "123456").
		Return(&domain.User{UserID: "123456", Name: "Old"}, nil).Once()

	var updates map[string]interface{}
	us.On("UpdateProfile", mock.Anything, "123456", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)
	us.On("GetByUserID", mock.Anything, "123456").
		Return(&domain.User{UserID: "123456", Name: "New"}, nil)

	signer := &mockSigner{}
	signer.On("Sign", mock.Anything).Return("fresh-token", nil)

	svc := NewService(us, &mockImageStore{}, signer)
	token, user, err := svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID: "123456", Name: "New", Bio: "hello",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, "New", user.Name)

	assert.Equal(t, map[string]interface{}{"name": "New", "bio": "hello"}, updates)
}

func TestUpdate_WithImageStoresFileAndDeletesPrevious(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUserID", mock.Anything, "123456").
		Return(&domain.User{UserID: "123456", Image: strPtr("/api/uploads/images/123456_old.png")}, nil)

	var updates map[string]interface{}
	us.On("UpdateProfile", mock.Anything, "123456", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)

	images := &mockImageStore{}
	var savedKey string
	images.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { savedKey = args.String(1) }).
		Return("/api/uploads/images/123456_new.png", nil)
	images.On("Delete", mock.Anything, "123456_old.png").Return(nil)

	signer := &mockSigner{}
	signer.On("Sign", mock.Anything).Return("fresh-token", nil)

	svc := NewService(us, images, signer)
	_, _, err := svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID: "123456", Name: "New", Bio: "hello",
	}, &Upload{Filename: "avatar.PNG", Body: strings.NewReader("png-bytes")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(savedKey, "123456_"))
	assert.True(t, strings.HasSuffix(savedKey, ".png"))
	assert.Equal(t, "/api/uploads/images/123456_new.png", updates["image"])
	images.AssertCalled(t, "Delete", mock.Anything, "123456_old.png")
}

func TestUpdate_PreviousImageDeleteFailureIsNotFatal(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUserID", mock.Anything, "123456").
		Return(&domain.User{UserID: "123456", Image: strPtr("/api/uploads/images/123456_old.png")}, nil)
	us.On("UpdateProfile", mock.Anything, "123456", mock.Anything).Return(nil)

	images := &mockImageStore{}
	images.On("Save", mock.Anything, mock.Anything, mock.Anything).
		Return("/api/uploads/images/123456_new.png", nil)
	images.On("Delete", mock.Anything, "123456_old.png").Return(fmt.Errorf("object gone"))

	signer := &mockSigner{}
	signer.On("Sign", mock.Anything).Return("fresh-token", nil)

	svc := NewService(us, images, signer)
	_, _, err := svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID: "123456", Name: "New", Bio: "hello",
	}, &Upload{Filename: "avatar.png", Body: strings.NewReader("png-bytes")})
	assert.NoError(t, err)
}

func TestUpdate_UnknownUser(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByUserID", mock.Anything, "999999").
		Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))

	svc := NewService(us, &mockImageStore{}, &mockSigner{})
	_, _, err := svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID: "999999", Name: "New", Bio: "hello",
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	us.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestImage_DistinguishesMissingUserFromMissingImage(t *testing.T) {
	us := &mockUserStore{}
	us.On("ImageByUserID", mock.Anything, "999999").
		Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))
	us.On("ImageByUserID", mock.Anything, "123456").Return(nil, nil)
	us.On("ImageByUserID", mock.Anything, "654321").
		Return(strPtr("/api/uploads/images/654321_a.png"), nil)

	svc := NewService(us, &mockImageStore{}, &mockSigner{})

	_, err := svc.Image(context.Background(), "999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")

	_, err = svc.Image(context.Background(), "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No image found for this user")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	url, err := svc.Image(context.Background(), "654321")
	require.NoError(t, err)
	assert.Equal(t, "/api/uploads/images/654321_a.png", url)
}

func TestInfo_MapsNotFoundMessage(t *testing.T) {
	us := &mockUserStore{}
	us.On("InfoByUserID", mock.Anything, "999999").
		Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))
	us.On("InfoByUserID", mock.Anything, "123456").
		Return([]domain.UserInfo{{UserID: "123456", Name: "Alice"}}, nil)

	svc := NewService(us, &mockImageStore{}, &mockSigner{})

	_, err := svc.Info(context.Background(), "999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")

	rows, err := svc.Info(context.Background(), "123456")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Name)
}
