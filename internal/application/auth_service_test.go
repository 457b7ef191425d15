package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/pkg/apperror"
)

// fakeRepo is an in-memory UserRepository for exercising the use cases.
type fakeRepo struct {
	users  map[int64]*entity.User
	nextID int64
	fail   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.fail {
		return nil, apperror.Internal("storage fault", errors.New("boom"))
	}
	for _, u := range r.users {
		if u.Email.Value() == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	if r.fail {
		return nil, apperror.Internal("storage fault", errors.New("boom"))
	}
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	if r.fail {
		return nil, apperror.Internal("storage fault", errors.New("boom"))
	}
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) Save(_ context.Context, u *entity.User) error {
	if r.fail {
		return apperror.Internal("storage fault", errors.New("boom"))
	}
	if u.Persisted() {
		return apperror.Internal("save called on an already-persisted user", nil)
	}
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, u *entity.User) error {
	if r.fail {
		return apperror.Internal("storage fault", errors.New("boom"))
	}
	if _, ok := r.users[u.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

// fakeHasher produces reversible digests and counts hash calls so tests can
// assert weak passwords never reach it.
type fakeHasher struct {
	hashCalls int
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	h.hashCalls++
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, digest string) bool {
	return digest == "hashed:"+plain
}

type fakeTokens struct {
	lastUser *entity.User
}

func (t *fakeTokens) Generate(u *entity.User) (string, error) {
	if !u.Persisted() {
		return "", apperror.Internal("cannot generate token for unpersisted user", nil)
	}
	t.lastUser = u
	return "token-for-" + strconv.FormatInt(u.ID, 10), nil
}

func (t *fakeTokens) Verify(token string) (int64, error) {
	const prefix = "token-for-"
	if !strings.HasPrefix(token, prefix) {
		return 0, apperror.Unauthorized("invalid or expired token")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(token, prefix), 10, 64)
	if err != nil {
		return 0, apperror.Unauthorized("invalid or expired token")
	}
	return id, nil
}

func (t *fakeTokens) TTL() time.Duration { return 24 * time.Hour }

func newTestService() (*Service, *fakeRepo, *fakeHasher, *fakeTokens) {
	repo := newFakeRepo()
	hasher := &fakeHasher{}
	tokens := &fakeTokens{}
	svc := NewService(repo, hasher, tokens, nil, nil)
	return svc, repo, hasher, tokens
}

func registerAlice(t *testing.T, svc *Service) *UserResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Username: "alice",
		Password: "Str0ng!Pw",
		FullName: "Alice A",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterSuccess(t *testing.T) {
	svc, repo, _, _ := newTestService()

	res := registerAlice(t, svc)

	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, "a@b.com", res.Email)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "Alice A", res.FullName)
	assert.False(t, res.IsVerified)

	saved := repo.users[1]
	require.NotNil(t, saved)
	assert.True(t, saved.IsActive)
	assert.False(t, saved.IsVerified)
	assert.Equal(t, "hashed:Str0ng!Pw", saved.Password.Value())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Username: "bob",
		Password: "Str0ng!Pw",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, "email already registered", apperror.PublicMessage(err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "other@b.com",
		Username: "alice",
		Password: "Str0ng!Pw",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, "username already taken", apperror.PublicMessage(err))
}

func TestRegisterWeakPasswordNeverReachesHasher(t *testing.T) {
	svc, _, hasher, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Username: "alice",
		Password: "weak",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	assert.Zero(t, hasher.hashCalls)
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "not-an-email",
		Username: "alice",
		Password: "Str0ng!Pw",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestRegisterStorageFault(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.fail = true

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Username: "alice",
		Password: "Str0ng!Pw",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestLoginSuccessByUsername(t *testing.T) {
	svc, repo, _, _ := newTestService()
	registerAlice(t, svc)

	res, err := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "Str0ng!Pw"})
	require.NoError(t, err)

	assert.Equal(t, "token-for-1", res.Token.AccessToken)
	assert.Equal(t, "Bearer", res.Token.TokenType)
	assert.Equal(t, int64(24*60*60), res.Token.ExpiresIn)
	assert.Empty(t, res.Token.RefreshToken)
	assert.Equal(t, "alice", res.User.Username)
	require.NotNil(t, repo.users[1].LastLoginAt)
}

func TestLoginSuccessByEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	res, err := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "a@b.com", Password: "Str0ng!Pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.User.ID)
}

func TestLoginEmailTakesPrecedenceOverUsername(t *testing.T) {
	svc, _, _, _ := newTestService()
	// First account owns the email address.
	first := registerAlice(t, svc)
	// Second account's username is literally the first account's email.
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "second@b.com",
		Username: "a@b.com",
		Password: "0ther!Pwd",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "a@b.com", Password: "Str0ng!Pw"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.User.ID)
}

func TestLoginUnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	_, errWrongPw := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "wrong"})
	_, errNoUser := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "nobody", Password: "wrong"})

	require.Error(t, errWrongPw)
	require.Error(t, errNoUser)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(errWrongPw))
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(errNoUser))
	assert.Equal(t, apperror.PublicMessage(errNoUser), apperror.PublicMessage(errWrongPw))
}

func TestLoginInactiveAccountForbidden(t *testing.T) {
	svc, repo, _, _ := newTestService()
	registerAlice(t, svc)
	repo.users[1].Deactivate()

	_, err := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "Str0ng!Pw"})
	require.Error(t, err)
	// correct password, inactive account: forbidden, not unauthorized
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestChangePasswordFlow(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	err := svc.ChangePassword(context.Background(), 1, "Str0ng!Pw", "N3w-Str0ng!")
	require.NoError(t, err)

	// old password no longer works
	_, err = svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "Str0ng!Pw"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	// new password does
	_, err = svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "N3w-Str0ng!"})
	require.NoError(t, err)
}

func TestChangePasswordWrongOld(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	err := svc.ChangePassword(context.Background(), 1, "wrong", "N3w-Str0ng!")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestChangePasswordWeakNew(t *testing.T) {
	svc, _, hasher, _ := newTestService()
	registerAlice(t, svc)
	hashCallsAfterRegister := hasher.hashCalls

	err := svc.ChangePassword(context.Background(), 1, "Str0ng!Pw", "weak")
	require.Error(t, err)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	assert.Equal(t, hashCallsAfterRegister, hasher.hashCalls)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.ChangePassword(context.Background(), 99, "Str0ng!Pw", "N3w-Str0ng!")
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetUserDetail(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	res, err := svc.GetUserDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)

	_, err = svc.GetUserDetail(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService()
	registerAlice(t, svc)

	res, err := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "Str0ng!Pw"})
	require.NoError(t, err)

	id, err := svc.VerifyToken(res.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
}

func TestVerifyTokenInvalid(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.VerifyToken("garbage")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}
