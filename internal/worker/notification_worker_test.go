package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/config"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/events"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/service"
)

func TestStartNotificationWorkerSubscribes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)

	StartNotificationWorker(service.NewNotificationService(dispatcher, logger, config.NotificationConfig{}, nil))
	StartNotificationWorker(nil)

	evt := events.New(events.EventShiftRequestSubmitted, domain.Actor{UserID: 5, Role: domain.RoleStaff}, time.Now(),
		events.ShiftRequestSubmittedPayload{RequestID: 1, UserID: 5})
	require.NoError(t, dispatcher.Publish(context.Background(), evt))

	assert.Equal(t, 1, logs.FilterMessage("ShiftRequestSubmitted").Len())
}
