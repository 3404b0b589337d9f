package usecase

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	usersByEmail map[string]*domain.User
	usersByID    map[string]*domain.User

	updateProfileErr   error
	updateProfileCalls int
	updatedProfile     domain.User

	updatePasswordErr    error
	updatePasswordCalls  int
	updatePasswordID     string
	updatePasswordHash   string
	updatePasswordAt     time.Time
	invitationsResult    []domain.Invitation
	invitationsErr       error
	listInvitationsCalls int
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.usersByID[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) UpdateProfile(_ context.Context, user domain.User) error {
	m.updateProfileCalls++
	m.updatedProfile = user
	return m.updateProfileErr
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	m.updatePasswordCalls++
	m.updatePasswordID = id
	m.updatePasswordHash = passwordHash
	m.updatePasswordAt = changedAt
	return m.updatePasswordErr
}

func (m *mockUserRepository) ListInvitations(_ context.Context, _ string) ([]domain.Invitation, error) {
	m.listInvitationsCalls++
	if m.invitationsErr != nil {
		return nil, m.invitationsErr
	}
	out := make([]domain.Invitation, len(m.invitationsResult))
	copy(out, m.invitationsResult)
	return out, nil
}

type mockLoginFailureStore struct {
	failures     []time.Time
	recordErr    error
	recordCalls  int
	countErr     error
	countCalls   int
	lastUserID   string
	lastRecordAt time.Time
}

func (m *mockLoginFailureStore) RecordFailure(_ context.Context, userID string, at time.Time) error {
	m.recordCalls++
	m.lastUserID = userID
	m.lastRecordAt = at
	if m.recordErr != nil {
		return m.recordErr
	}
	m.failures = append(m.failures, at)
	return nil
}

func (m *mockLoginFailureStore) CountSince(_ context.Context, userID string, since time.Time) (int, error) {
	m.countCalls++
	m.lastUserID = userID
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for _, at := range m.failures {
		if !at.Before(since) {
			count++
		}
	}
	return count, nil
}

type mockTokenRepository struct {
	createErr    error
	createCalls  int
	createdToken domain.OneTimeToken

	tokensByHash map[string]*domain.OneTimeToken

	consumeErr      error
	consumeCalls    int
	consumeLastHash string
	consumeLastAt   time.Time
}

func (m *mockTokenRepository) Create(_ context.Context, token domain.OneTimeToken) error {
	m.createCalls++
	m.createdToken = token
	if m.createErr != nil {
		return m.createErr
	}
	if m.tokensByHash == nil {
		m.tokensByHash = make(map[string]*domain.OneTimeToken)
	}
	stored := token
	m.tokensByHash[token.TokenHash] = &stored
	return nil
}

func (m *mockTokenRepository) GetByHash(_ context.Context, hash string) (*domain.OneTimeToken, error) {
	if token, ok := m.tokensByHash[hash]; ok {
		copy := *token
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockTokenRepository) Consume(_ context.Context, hash string, at time.Time) (*domain.OneTimeToken, error) {
	m.consumeCalls++
	m.consumeLastHash = hash
	m.consumeLastAt = at
	if m.consumeErr != nil {
		return nil, m.consumeErr
	}
	token, ok := m.tokensByHash[hash]
	if !ok || token.UsedAt != nil || !token.ExpiresAt.After(at) {
		return nil, repository.ErrNotFound
	}
	used := at
	token.UsedAt = &used
	copy := *token
	return &copy, nil
}

type mockHomeRepository struct {
	homes map[string]*domain.Home

	createErr         error
	createCalls       int
	createdHome       domain.Home
	createdOwner      domain.Membership
	membersResult     []domain.HomeMember
	membersErr        error
	listResult        []domain.Home
	listErr           error
	updateErr         error
	updateCalls       int
	updatedHome       domain.Home
	deleteErr         error
	deleteCalls       int
	deletedID         string
	memberEmails      map[string]bool
	pendingEmails     map[string]bool
	membershipErr     error
	membershipCalls   int
	createdMembership domain.Membership

	invitationErr       error
	invitationCalls     int
	createdInvitation   domain.Invitation
	invitationDetail    *domain.InvitationDetail
	invitationDetailErr error
	deleteInvErr        error
	deleteInvCalls      int
	deletedInvitationID string
}

func (m *mockHomeRepository) Create(_ context.Context, home domain.Home, ownerMembership domain.Membership) error {
	m.createCalls++
	m.createdHome = home
	m.createdOwner = ownerMembership
	return m.createErr
}

func (m *mockHomeRepository) GetByID(_ context.Context, id string) (*domain.Home, error) {
	if home, ok := m.homes[id]; ok {
		copy := *home
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockHomeRepository) ListMembers(_ context.Context, _ string) ([]domain.HomeMember, error) {
	if m.membersErr != nil {
		return nil, m.membersErr
	}
	out := make([]domain.HomeMember, len(m.membersResult))
	copy(out, m.membersResult)
	return out, nil
}

func (m *mockHomeRepository) ListByUser(_ context.Context, _ string) ([]domain.Home, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Home, len(m.listResult))
	copy(out, m.listResult)
	return out, nil
}

func (m *mockHomeRepository) Update(_ context.Context, home domain.Home) error {
	m.updateCalls++
	m.updatedHome = home
	return m.updateErr
}

func (m *mockHomeRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.deletedID = id
	return m.deleteErr
}

func (m *mockHomeRepository) CreateMembership(_ context.Context, membership domain.Membership) error {
	m.membershipCalls++
	m.createdMembership = membership
	return m.membershipErr
}

func (m *mockHomeRepository) HasMemberEmail(_ context.Context, _, email string) (bool, error) {
	return m.memberEmails[email], nil
}

func (m *mockHomeRepository) CreateInvitation(_ context.Context, invitation domain.Invitation) error {
	m.invitationCalls++
	m.createdInvitation = invitation
	return m.invitationErr
}

func (m *mockHomeRepository) GetInvitation(_ context.Context, _ string) (*domain.InvitationDetail, error) {
	if m.invitationDetailErr != nil {
		return nil, m.invitationDetailErr
	}
	if m.invitationDetail == nil {
		return nil, repository.ErrNotFound
	}
	copy := *m.invitationDetail
	return &copy, nil
}

func (m *mockHomeRepository) DeleteInvitation(_ context.Context, id string) error {
	m.deleteInvCalls++
	m.deletedInvitationID = id
	return m.deleteInvErr
}

func (m *mockHomeRepository) HasPendingInvitation(_ context.Context, _, email string) (bool, error) {
	return m.pendingEmails[email], nil
}

type mockListRepository struct {
	createErr   error
	createCalls int
	createdList domain.List
	listResult  []domain.List
	listErr     error
}

func (m *mockListRepository) Create(_ context.Context, list domain.List) error {
	m.createCalls++
	m.createdList = list
	return m.createErr
}

func (m *mockListRepository) ListByHome(context.Context, string) ([]domain.List, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.List, len(m.listResult))
	copy(out, m.listResult)
	return out, nil
}

type mockItemRepository struct {
	createErr   error
	createCalls int
	createdItem domain.Item
	listResult  []domain.Item
	listErr     error
}

func (m *mockItemRepository) Create(_ context.Context, item domain.Item) error {
	m.createCalls++
	m.createdItem = item
	return m.createErr
}

func (m *mockItemRepository) ListByHome(context.Context, string) ([]domain.Item, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Item, len(m.listResult))
	copy(out, m.listResult)
	return out, nil
}

type mockEventPublisher struct {
	registeredCalls int
	registered      domain.UserRegisteredEvent
	changedCalls    int
	changed         domain.PasswordChangedEvent
	resolvedCalls   int
	resolved        domain.InvitationResolvedEvent
	err             error
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredCalls++
	m.registered = event
	return m.err
}

func (m *mockEventPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.changedCalls++
	m.changed = event
	return m.err
}

func (m *mockEventPublisher) PublishInvitationResolved(_ context.Context, event domain.InvitationResolvedEvent) error {
	m.resolvedCalls++
	m.resolved = event
	return m.err
}

// mockMailer records sends and signals on done so tests can wait out the
// fire-and-forget goroutine.
type mockMailer struct {
	done chan struct{}

	resetCalls int
	resetTo    string
	resetLink  string

	inviteCalls    int
	inviteTo       string
	inviteHomeName string
	inviteLink     string

	err error
}

func newMockMailer() *mockMailer {
	return &mockMailer{done: make(chan struct{}, 2)}
}

func (m *mockMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.resetCalls++
	m.resetTo = to
	m.resetLink = link
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.err
}

func (m *mockMailer) SendHomeInvitation(_ context.Context, to, homeName, link string) error {
	m.inviteCalls++
	m.inviteTo = to
	m.inviteHomeName = homeName
	m.inviteLink = link
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.err
}

func (m *mockMailer) waitForSend(timeout time.Duration) bool {
	select {
	case <-m.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

type mockMediaStore struct {
	uploadResult string
	uploadErr    error
	uploadCalls  int
	uploadedData []byte

	destroyErr   error
	destroyCalls int
	destroyedID  string
}

func (m *mockMediaStore) Upload(_ context.Context, file io.Reader, _ string) (string, error) {
	m.uploadCalls++
	if file != nil {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(file)
		m.uploadedData = buf.Bytes()
	}
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if m.uploadResult == "" {
		return "https://media.example.com/notapp/asset.png", nil
	}
	return m.uploadResult, nil
}

func (m *mockMediaStore) Destroy(_ context.Context, publicID string) error {
	m.destroyCalls++
	m.destroyedID = publicID
	return m.destroyErr
}
