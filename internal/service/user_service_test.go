package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"neon-portal/internal/domain"
	"neon-portal/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	nextID       int

	findErr   error
	createErr error
	updateErr error

	creates int
	updates int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	if m.findErr != nil {
		return domain.User{}, m.findErr
	}
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.creates++
	if m.createErr != nil {
		return domain.User{}, m.createErr
	}
	m.nextID++
	user.ID = "u" + strconv.Itoa(m.nextID)
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return user, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, name string, age int) error {
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	user, ok := m.usersByID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Name = name
	user.Age = age
	m.usersByID[id] = user
	return nil
}

type mockEmailSender struct {
	sent []string
	err  error
}

func (m *mockEmailSender) SendWelcome(_ context.Context, toEmail, _ string) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}

func annSignup() SignupInput {
	return SignupInput{
		Name:            "Ann",
		Age:             30,
		Email:           "ann@x.com",
		Password:        "Secret1",
		ConfirmPassword: "Secret1",
	}
}

func TestUserService_SignupStoresHashedUser(t *testing.T) {
	repo := newMockUserRepo()
	sender := &mockEmailSender{}
	svc := NewUserService(zap.NewNop(), repo, sender)

	user, err := svc.Signup(context.Background(), annSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected store id")
	}
	stored := repo.usersByID[user.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "Secret1" {
		t.Fatalf("expected hashed password, got %q", stored.PasswordHash)
	}
	if !VerifyPassword("Secret1", stored.PasswordHash) {
		t.Fatalf("stored hash does not verify")
	}
	if stored.Name != "Ann" || stored.Age != 30 || stored.Email != "ann@x.com" {
		t.Fatalf("unexpected stored user: %+v", stored)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "ann@x.com" {
		t.Fatalf("expected welcome email, got %v", sender.sent)
	}
}

func TestUserService_SignupValidationOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SignupInput)
		want   error
	}{
		{"bad email wins over mismatch", func(in *SignupInput) {
			in.Email = "ann@x.org"
			in.ConfirmPassword = "Other1"
		}, ErrInvalidEmail},
		{"mismatch wins over weak", func(in *SignupInput) {
			in.Password = "weak"
			in.ConfirmPassword = "weaker"
		}, ErrPasswordMismatch},
		{"weak password", func(in *SignupInput) {
			in.Password = "abc"
			in.ConfirmPassword = "abc"
		}, ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockUserRepo()
			svc := NewUserService(zap.NewNop(), repo, nil)
			in := annSignup()
			tc.mutate(&in)

			_, err := svc.Signup(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if repo.creates != 0 {
				t.Fatalf("expected no store write, got %d", repo.creates)
			}
		})
	}
}

func TestUserService_SignupDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	if _, err := svc.Signup(context.Background(), annSignup()); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err := svc.Signup(context.Background(), annSignup())
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected a single store write, got %d", repo.creates)
	}
	if got := UserMessage(err); got != "User with this email already exists." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUserService_SignupUniqueIndexRace(t *testing.T) {
	repo := newMockUserRepo()
	repo.createErr = repository.ErrDuplicateKey
	svc := NewUserService(zap.NewNop(), repo, nil)

	_, err := svc.Signup(context.Background(), annSignup())
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserService_SignupStoreFailureIsVerbatim(t *testing.T) {
	repo := newMockUserRepo()
	repo.createErr = errors.New("connection refused")
	sender := &mockEmailSender{}
	svc := NewUserService(zap.NewNop(), repo, sender)

	_, err := svc.Signup(context.Background(), annSignup())
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if got := UserMessage(err); got != "Error signing up: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no welcome email expected on failure")
	}
}

func TestUserService_SignupIgnoresEmailFailure(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, &mockEmailSender{err: errors.New("smtp down")})

	if _, err := svc.Signup(context.Background(), annSignup()); err != nil {
		t.Fatalf("signup should not fail on email error: %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	user, err := svc.Signup(context.Background(), annSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	sess, err := svc.Login(context.Background(), "ann@x.com", "Secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.ID != user.ID || sess.Name != "Ann" || sess.Age != 30 || sess.Email != "ann@x.com" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.PasswordHash != repo.usersByID[user.ID].PasswordHash {
		t.Fatalf("session should carry the stored hash")
	}
}

func TestUserService_LoginInvalidCredentialsAreIndistinguishable(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	if _, err := svc.Signup(context.Background(), annSignup()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, wrongPassword := svc.Login(context.Background(), "ann@x.com", "Wrong1")
	_, unknownEmail := svc.Login(context.Background(), "bob@x.com", "Secret1")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", wrongPassword, unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("errors must be identical: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestUserService_LoginRejectsInvalidEmail(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), nil)
	if _, err := svc.Login(context.Background(), "ann@x.org", "Secret1"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestUserService_LoginLookupFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.findErr = errors.New("timeout")
	svc := NewUserService(zap.NewNop(), repo, nil)

	_, err := svc.Login(context.Background(), "ann@x.com", "Secret1")
	if got := UserMessage(err); got != "Error logging in: timeout" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	if _, err := svc.Signup(context.Background(), annSignup()); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sess, err := svc.Login(context.Background(), "ann@x.com", "Secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), sess, ProfileInput{Name: "Annie", Age: "31"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Annie" || updated.Age != 31 {
		t.Fatalf("unexpected updated session: %+v", updated)
	}
	if updated.ID != sess.ID || updated.Email != sess.Email || updated.PasswordHash != sess.PasswordHash {
		t.Fatalf("id, email and hash must be preserved")
	}
	stored := repo.usersByID[sess.ID]
	if stored.Name != "Annie" || stored.Age != 31 {
		t.Fatalf("store not updated: %+v", stored)
	}
}

func TestUserService_UpdateProfileInvalidInput(t *testing.T) {
	cases := []ProfileInput{
		{Name: "", Age: "31"},
		{Name: "Annie", Age: ""},
		{Name: "Annie", Age: "thirty"},
	}
	for _, in := range cases {
		repo := newMockUserRepo()
		svc := NewUserService(zap.NewNop(), repo, nil)
		_, err := svc.UpdateProfile(context.Background(), domain.Session{ID: "u1"}, in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
		if repo.updates != 0 {
			t.Fatalf("%+v: expected no store call", in)
		}
	}
}

func TestUserService_UpdateProfileStoreFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.updateErr = errors.New("write conflict")
	svc := NewUserService(zap.NewNop(), repo, nil)

	_, err := svc.UpdateProfile(context.Background(), domain.Session{ID: "u1", Name: "Ann"}, ProfileInput{Name: "Annie", Age: "31"})
	if got := UserMessage(err); got != "Error updating profile: write conflict" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	cases := map[error]string{
		ErrInvalidEmail:       "Invalid email. It must include '@' and end with '.com'.",
		ErrPasswordMismatch:   "Passwords do not match.",
		ErrWeakPassword:       "Password must include at least one uppercase letter, one lowercase letter, one number, and be at least 6 characters long.",
		ErrInvalidCredentials: "Invalid email or password.",
		ErrInvalidInput:       "Name and age cannot be empty.",
	}
	for err, want := range cases {
		if got := UserMessage(err); got != want {
			t.Errorf("UserMessage(%v) = %q, want %q", err, got, want)
		}
	}
	if UserMessage(nil) != "" {
		t.Errorf("expected empty message for nil")
	}
}
