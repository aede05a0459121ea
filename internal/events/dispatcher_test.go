package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, all []string
	d.Subscribe(EventEmployeeCreated, func(_ context.Context, e Event) error {
		created = append(created, e.EmployeeID)
		return nil
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, string(e.Type))
		return nil
	})

	ctx := context.Background()
	assert.NoError(t, d.Publish(ctx, Event{Type: EventEmployeeCreated, EmployeeID: "a"}))
	assert.NoError(t, d.Publish(ctx, Event{Type: EventEmployeeDeleted, EmployeeID: "b"}))

	assert.Equal(t, []string{"a"}, created)
	assert.Equal(t, []string{"employee_created", "employee_deleted"}, all)
}

func TestDispatcherRunsAllHandlersOnError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventEmployeeUpdated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventEmployeeUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventEmployeeUpdated})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
