package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/user/domain"
	"github.com/wyfcoding/ecommerce/internal/user/infrastructure/crypto"
	"github.com/wyfcoding/ecommerce/internal/user/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"golang.org/x/crypto/bcrypt"
)

type topicRecorder struct{ topics []string }

func (r *topicRecorder) Publish(_ context.Context, topic, _ string, _ any) error {
	r.topics = append(r.topics, topic)
	return nil
}

func setup(t *testing.T) (*UserService, *topicRecorder) {
	t.Helper()
	d, err := db.Init(db.Config{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(d.DB))
	t.Cleanup(func() { _ = d.Close() })

	rec := &topicRecorder{}
	return NewUserService(mysql.NewUserRepository(d), crypto.NewBcryptHasher(bcrypt.MinCost), rec), rec
}

func register(t *testing.T, svc *UserService, email string) *UserDTO {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterUserCommand{Name: "Ann", Email: email, Password: "secret1"})
	require.NoError(t, err)
	return u
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, rec := setup(t)
	ctx := context.Background()

	u := register(t, svc, "Ann@Example.com")
	assert.Equal(t, "ann@example.com", u.Email)

	_, err := svc.Register(ctx, RegisterUserCommand{Name: "Other", Email: "ann@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Register(ctx, RegisterUserCommand{Name: "Short", Email: "s@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	got, err := svc.Authenticate(ctx, " ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ann@example.com", "wrong-pass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, []string{domain.TopicUserCreated}, rec.topics)
}

func TestUpdateUserChangesPassword(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	u := register(t, svc, "ann@example.com")

	updated, err := svc.UpdateUser(ctx, UpdateUserCommand{ID: u.ID, Name: "Ann B", Address: "Main St", Password: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)

	_, err = svc.Authenticate(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ann@example.com", "new-secret")
	assert.NoError(t, err)

	// 不传密码时保留原密码
	_, err = svc.UpdateUser(ctx, UpdateUserCommand{ID: u.ID, Name: "Ann C"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "ann@example.com", "new-secret")
	assert.NoError(t, err)

	missing, err := svc.UpdateUser(ctx, UpdateUserCommand{ID: "nope", Name: "X"})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBanBlocksAuthentication(t *testing.T) {
	svc, rec := setup(t)
	ctx := context.Background()
	u := register(t, svc, "ann@example.com")

	banned, err := svc.BanUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)

	// 重复封禁不产生事件
	_, err = svc.BanUser(ctx, u.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	unbanned, err := svc.UnbanUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)

	assert.Equal(t, []string{domain.TopicUserCreated, domain.TopicUserStatusChanged, domain.TopicUserStatusChanged}, rec.topics)
}

func TestDeleteAndList(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	a := register(t, svc, "a@example.com")
	register(t, svc, "b@example.com")

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := svc.DeleteUser(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := svc.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = svc.DeleteUser(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
