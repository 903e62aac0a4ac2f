package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	rm := newFakeManager()
	svc := NewNotificationService(nil, rm, &fakePush{}, logging.Nop())

	created, err := notify(ctx, rm.notes, []string{"m1", "m1", "m2"}, models.Notification{Title: "hi", Kind: models.KindNewDocument})
	require.NoError(t, err)
	require.Len(t, created, 3)

	page, err := svc.List(ctx, "m1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)

	_, err = svc.MarkRead(ctx, created[2].ID, "m1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	n, err := svc.MarkRead(ctx, created[0].ID, "m1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)
}

func TestNotificationService_RegisterDevice(t *testing.T) {
	ctx := context.Background()
	rm := newFakeManager()
	svc := NewNotificationService(nil, rm, &fakePush{}, logging.Nop())

	var verr *ValidationError
	assert.ErrorAs(t, svc.RegisterDevice(ctx, "m1", models.DeviceToken{Token: "  "}), &verr)

	require.NoError(t, svc.RegisterDevice(ctx, "m1", models.DeviceToken{Token: " tok "}))
	devices, err := rm.notes.Devices(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []models.DeviceToken{{Token: "tok", Platform: "unknown", MemberID: "m1"}}, devices)
}

func TestNotificationService_DeliverTolerantOfFailures(t *testing.T) {
	ctx := context.Background()
	rm := newFakeManager()
	push := &fakePush{err: errBoom}
	svc := NewNotificationService(nil, rm, push, logging.Nop())
	require.NoError(t, rm.notes.UpsertDevice(ctx, &models.DeviceToken{Token: "a", MemberID: "m1"}))
	require.NoError(t, rm.notes.UpsertDevice(ctx, &models.DeviceToken{Token: "b", MemberID: "m1"}))

	svc.Deliver(ctx, []*models.Notification{{MemberID: "m1"}, {MemberID: "m2"}})
	assert.Equal(t, map[string]int{"m1": 2}, push.pushed)

	rm.notes.devErr = errBoom
	svc.Deliver(ctx, []*models.Notification{{MemberID: "m1"}})
	assert.Equal(t, map[string]int{"m1": 2}, push.pushed)
}
