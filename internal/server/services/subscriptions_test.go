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

func newSubscriptionFixture(t *testing.T) (*SubscriptionService, *fakeManager, *fakePush) {
	t.Helper()
	rm := newFakeManager()
	seedCatalog(rm)
	push := &fakePush{}
	ns := NewNotificationService(nil, rm, push, logging.Nop())
	return NewSubscriptionService(nil, rm, ns), rm, push
}

func TestSubscriptionService_Catalog(t *testing.T) {
	ctx := context.Background()
	svc, rm, _ := newSubscriptionFixture(t)
	me := rm.members.add(models.Member{FullName: "Me"})

	fac := models.Target{Type: models.TargetFaculty, ID: facultyCS}
	require.NoError(t, svc.Subscribe(ctx, me, fac))
	require.NoError(t, svc.Subscribe(ctx, me, fac))
	require.NoError(t, svc.Subscribe(ctx, me, models.Target{Type: models.TargetSubject, ID: subjectAlgo}))

	followers, err := rm.subs.Followers(ctx, fac)
	require.NoError(t, err)
	assert.Equal(t, []string{me.ID}, followers)

	require.NoError(t, svc.Unsubscribe(ctx, me, fac))
	require.NoError(t, svc.Unsubscribe(ctx, me, fac))
	followers, err = rm.subs.Followers(ctx, fac)
	require.NoError(t, err)
	assert.Empty(t, followers)

	assert.Empty(t, rm.notes.items)
}

func TestSubscriptionService_FollowMember(t *testing.T) {
	ctx := context.Background()
	svc, rm, push := newSubscriptionFixture(t)
	me := rm.members.add(models.Member{FullName: "Me"})
	star := rm.members.add(models.Member{FullName: "Star"})
	require.NoError(t, rm.notes.UpsertDevice(ctx, &models.DeviceToken{Token: "t", MemberID: star.ID}))

	require.NoError(t, svc.Subscribe(ctx, me, models.Target{Type: models.TargetMember, ID: star.ID}))

	ns := rm.notes.forMember(star.ID)
	require.Len(t, ns, 1)
	assert.Equal(t, models.KindNewFollower, ns[0].Kind)
	assert.Equal(t, me.ID, ns[0].TargetID)
	assert.Equal(t, "Me started following you", ns[0].Body)
	assert.Equal(t, 1, push.pushed[star.ID])
}

func TestSubscriptionService_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, rm, _ := newSubscriptionFixture(t)
	me := rm.members.add(models.Member{FullName: "Me"})

	var verr *ValidationError
	assert.ErrorAs(t, svc.Subscribe(ctx, me, models.Target{Type: models.TargetMember, ID: me.ID}), &verr)
	assert.ErrorAs(t, svc.Subscribe(ctx, me, models.Target{Type: "GROUP", ID: "x"}), &verr)

	for _, tt := range []models.TargetType{models.TargetFaculty, models.TargetSubject, models.TargetMember} {
		err := svc.Subscribe(ctx, me, models.Target{Type: tt, ID: "missing"})
		assert.ErrorIs(t, err, common.ErrorNotFound, string(tt))
	}
}
