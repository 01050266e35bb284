package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MPanduranga55/Contact-Book/internal/events"
	"github.com/MPanduranga55/Contact-Book/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPublisher 是 events.Publisher 的 mock 实现
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.ContactEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(typ string, id int64) interface{} {
	return mock.MatchedBy(func(ev events.ContactEvent) bool {
		return ev.Type == typ && ev.ContactID == id && !ev.OccurredAt.IsZero()
	})
}

func TestContactService_PublishesLifecycleEvents(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, eventOfType(events.TypeContactCreated, 1)).Return(nil).Once()
	pub.On("Publish", mock.Anything, eventOfType(events.TypeContactDeleted, 1)).Return(errors.New("broker down")).Once()

	svc := NewContactService(repository.NewMemoryContactsRepo(), pub, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, CreateContactRequest{Name: "Ann", Email: "ann@x.com", Phone: "5551234567"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	// 发布失败只记录日志
	require.NoError(t, svc.DeleteContact(ctx, "1"))

	pub.AssertExpectations(t)
}

func TestContactService_NoEventOnFailure(t *testing.T) {
	pub := new(MockPublisher)
	svc := NewContactService(repository.NewMemoryContactsRepo(), pub, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, CreateContactRequest{Name: "", Email: "bad", Phone: "1"})
	assert.Equal(t, KindValidation, KindOf(err))

	assert.Equal(t, KindNotFound, KindOf(svc.DeleteContact(ctx, "42")))

	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
