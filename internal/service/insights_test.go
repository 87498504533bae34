package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapfolio/backend/internal/models"
)

func TestComputeInsights(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInsightsService(db, newStubSubscriber())
	profileID := uuid.New()

	for _, lt := range []string{models.LinkPhone, models.LinkPhone, models.LinkMaps} {
		require.NoError(t, db.Create(&models.ClickEvent{
			ProfileID: profileID,
			LinkType:  lt,
			LinkValue: "v",
		}).Error)
	}

	insights, err := svc.ComputeInsights(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.Equal(t, Insight{LinkType: "phone", Count: 2}, insights[0])
	assert.Equal(t, Insight{LinkType: "maps", Count: 1}, insights[1])
}

func TestComputeInsightsEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInsightsService(db, newStubSubscriber())

	insights, err := svc.ComputeInsights(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

func TestComputeInsightsTieBreakAlphabetical(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInsightsService(db, newStubSubscriber())
	profileID := uuid.New()

	// maps and phone tie at 2; website leads with 3.
	for _, lt := range []string{
		models.LinkPhone, models.LinkMaps, models.LinkWebsite,
		models.LinkWebsite, models.LinkMaps, models.LinkPhone,
		models.LinkWebsite,
	} {
		require.NoError(t, db.Create(&models.ClickEvent{
			ProfileID: profileID,
			LinkType:  lt,
		}).Error)
	}

	insights, err := svc.ComputeInsights(context.Background(), profileID)
	require.NoError(t, err)
	require.Len(t, insights, 3)
	assert.Equal(t, "website", insights[0].LinkType)
	assert.Equal(t, "maps", insights[1].LinkType)
	assert.Equal(t, "phone", insights[2].LinkType)
}

func TestComputeInsightsCountsSumToTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInsightsService(db, newStubSubscriber())
	profileID := uuid.New()
	otherID := uuid.New()

	linkTypes := []string{
		models.LinkPhone, models.LinkPhone, models.LinkMaps,
		models.LinkWebsite, models.LinkGallery, models.LinkPhone,
	}
	for _, lt := range linkTypes {
		require.NoError(t, db.Create(&models.ClickEvent{ProfileID: profileID, LinkType: lt}).Error)
	}
	// Events for another profile must not leak into the sum.
	require.NoError(t, db.Create(&models.ClickEvent{ProfileID: otherID, LinkType: models.LinkPhone}).Error)

	insights, err := svc.ComputeInsights(context.Background(), profileID)
	require.NoError(t, err)

	sum := 0
	for _, in := range insights {
		sum += in.Count
	}
	assert.Equal(t, len(linkTypes), sum)
}

func TestWatchRecomputesOnClickEvents(t *testing.T) {
	db := setupTestDB(t)
	sub := newStubSubscriber()
	svc := NewInsightsService(db, sub)
	svc.debounce = 10 * time.Millisecond
	profileID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := svc.Watch(ctx, profileID)
	require.NoError(t, err)

	// Initial snapshot is empty.
	first := <-updates
	require.NoError(t, first.Err)
	assert.Empty(t, first.Insights)

	require.NoError(t, db.Create(&models.ClickEvent{ProfileID: profileID, LinkType: models.LinkPhone}).Error)
	sub.ch <- ChangeEvent{Table: models.ClickTable, Action: ActionInsert, ID: profileID}

	select {
	case update := <-updates:
		require.NoError(t, update.Err)
		require.Len(t, update.Insights, 1)
		assert.Equal(t, Insight{LinkType: "phone", Count: 1}, update.Insights[0])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for insights update")
	}
}

func TestWatchCoalescesBursts(t *testing.T) {
	db := setupTestDB(t)
	sub := newStubSubscriber()
	svc := NewInsightsService(db, sub)
	svc.debounce = 50 * time.Millisecond
	profileID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := svc.Watch(ctx, profileID)
	require.NoError(t, err)
	<-updates // initial snapshot

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.ClickEvent{ProfileID: profileID, LinkType: models.LinkMaps}).Error)
		sub.ch <- ChangeEvent{Table: models.ClickTable, Action: ActionInsert, ID: profileID}
	}

	// One coalesced recomputation covers the whole burst.
	select {
	case update := <-updates:
		require.NoError(t, update.Err)
		require.Len(t, update.Insights, 1)
		assert.Equal(t, 5, update.Insights[0].Count)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for coalesced update")
	}
}

func TestWatchIgnoresOtherProfiles(t *testing.T) {
	db := setupTestDB(t)
	sub := newStubSubscriber()
	svc := NewInsightsService(db, sub)
	svc.debounce = 10 * time.Millisecond
	profileID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := svc.Watch(ctx, profileID)
	require.NoError(t, err)
	<-updates // initial snapshot

	sub.ch <- ChangeEvent{Table: models.ClickTable, Action: ActionInsert, ID: uuid.New()}

	select {
	case update := <-updates:
		t.Fatalf("unexpected update for foreign profile: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}
}
