package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories/mock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStudent(store *mock.StudentStore, name, email string, approved bool) models.Student {
	st := models.Student{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Approved:     approved,
		CreatedAt:    time.Now().UTC(),
	}
	store.Put(st)
	return st
}

func newApprovalFixture(renotify bool, mailer Mailer) (*ApprovalService, *mock.StudentStore) {
	repo, store := mock.NewStudentRepositoryWithStore()
	dispatcher := NewNotificationDispatcher(mailer, time.Second)
	svc := NewApprovalService(repo, dispatcher, nil, ApprovalOptions{RenotifyOnReapproval: renotify})
	return svc, store
}

func TestApprove_PendingStudent(t *testing.T) {
	mailer := &recordingMailer{}
	svc, store := newApprovalFixture(true, mailer)
	st := seedStudent(store, "Ada", "ada@example.com", false)
	other := seedStudent(store, "Grace", "grace@example.com", false)

	result, err := svc.Approve(context.Background(), st.ID)
	require.NoError(t, err)

	assert.True(t, result.Student.Approved)
	assert.NotNil(t, result.Student.ApprovedAt)
	assert.False(t, result.AlreadyApproved)
	assert.True(t, result.Notified)
	assert.Len(t, result.Students, 2)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "Admission Approved", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Hello Ada,")
	assert.Contains(t, sent[0].Body, "Your admission has been approved!")

	for _, s := range store.Snapshot() {
		if s.ID == other.ID {
			assert.False(t, s.Approved, "other students must be untouched")
		}
	}
}

func TestApprove_IsIdempotent(t *testing.T) {
	mailer := &recordingMailer{}
	svc, store := newApprovalFixture(false, mailer)
	st := seedStudent(store, "Ada", "ada@example.com", false)
	ctx := context.Background()

	first, err := svc.Approve(ctx, st.ID)
	require.NoError(t, err)
	firstApprovedAt := *first.Student.ApprovedAt

	second, err := svc.Approve(ctx, st.ID)
	require.NoError(t, err)

	assert.True(t, second.Student.Approved)
	assert.True(t, second.AlreadyApproved)
	assert.False(t, second.Notified)
	assert.Equal(t, firstApprovedAt, *second.Student.ApprovedAt)
	assert.Len(t, mailer.Sent(), 1)
}

func TestApprove_RenotifiesWhenEnabled(t *testing.T) {
	mailer := &recordingMailer{}
	svc, store := newApprovalFixture(true, mailer)
	st := seedStudent(store, "Ada", "ada@example.com", true)

	result, err := svc.Approve(context.Background(), st.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyApproved)
	assert.True(t, result.Notified)
	assert.Len(t, mailer.Sent(), 1)
}

func TestApprove_UnknownStudent(t *testing.T) {
	mailer := &recordingMailer{}
	svc, store := newApprovalFixture(true, mailer)
	seedStudent(store, "Ada", "ada@example.com", false)
	before := store.Snapshot()

	result, err := svc.Approve(context.Background(), uuid.New())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.Equal(t, before, store.Snapshot())
	assert.Empty(t, mailer.Sent())
}

func TestApprove_MailerFailureStillApproves(t *testing.T) {
	svc, store := newApprovalFixture(true, &recordingMailer{err: errRelayDown})
	st := seedStudent(store, "Ada", "ada@example.com", false)

	result, err := svc.Approve(context.Background(), st.ID)
	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.True(t, store.Snapshot()[0].Approved)
}

func TestApprove_StoreErrorIsReturned(t *testing.T) {
	boom := errors.New("deadlock detected")
	repo := mock.NewStudentRepository()
	repo.ApproveFunc = func(ctx context.Context, id uuid.UUID, at time.Time) (*models.Student, bool, error) {
		return nil, false, boom
	}
	svc := NewApprovalService(repo, nil, nil, ApprovalOptions{})

	_, err := svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrStudentNotFound))
}

func TestParseStudentID(t *testing.T) {
	id := uuid.New()

	parsed, err := ParseStudentID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, raw := range []string{"", "42", "not-a-uuid", strings.Repeat("z", 36)} {
		_, err := ParseStudentID(raw)
		assert.ErrorIs(t, err, ErrStudentNotFound, "input %q", raw)
	}
}

func TestListStudents_OrderedByCreation(t *testing.T) {
	svc, store := newApprovalFixture(true, &recordingMailer{})
	first := seedStudent(store, "First", "first@example.com", false)
	second := models.Student{ID: uuid.New(), Name: "Second", Email: "second@example.com", CreatedAt: first.CreatedAt.Add(time.Minute)}
	store.Put(second)

	students, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "First", students[0].Name)
	assert.Equal(t, "Second", students[1].Name)
}
