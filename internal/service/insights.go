package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/backend/internal/models"
)

// Insight is the click count for one link type on one profile.
type Insight struct {
	LinkType string `json:"link_type"`
	Count    int    `json:"count"`
}

// InsightsUpdate is one recomputation result delivered by Watch. A fetch
// failure is carried in Err; the watcher stays alive and retries on the next
// change notification.
type InsightsUpdate struct {
	Insights []Insight `json:"insights"`
	Err      error     `json:"-"`
}

const defaultDebounce = 250 * time.Millisecond

// InsightsService aggregates the click event log per profile and keeps the
// summary live via change notifications.
type InsightsService struct {
	db       *gorm.DB
	changes  ChangeSubscriber
	debounce time.Duration
}

// NewInsightsService creates a new InsightsService instance
func NewInsightsService(db *gorm.DB, changes ChangeSubscriber) *InsightsService {
	return &InsightsService{
		db:       db,
		changes:  changes,
		debounce: defaultDebounce,
	}
}

// ComputeInsights groups the profile's click events by link type and returns
// the counts ordered by count descending, link type ascending as the
// deterministic tie-break. A profile with no events yields an empty slice,
// not an error.
func (s *InsightsService) ComputeInsights(ctx context.Context, profileID uuid.UUID) ([]Insight, error) {
	insights := make([]Insight, 0)
	err := s.db.WithContext(ctx).
		Model(&models.ClickEvent{}).
		Select("link_type, count(*) as count").
		Where("social_media_data_id = ?", profileID).
		Group("link_type").
		Order("count DESC, link_type ASC").
		Scan(&insights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate insights: %w", err)
	}
	return insights, nil
}

// Watch emits a fresh aggregation whenever click events land for the
// profile. Bursts are coalesced: notifications reset a debounce timer and
// one recomputation runs per quiet window. The feed closes when ctx ends.
func (s *InsightsService) Watch(ctx context.Context, profileID uuid.UUID) (<-chan InsightsUpdate, error) {
	sub, err := s.changes.Subscribe(ctx, models.ClickTable)
	if err != nil {
		return nil, err
	}

	out := make(chan InsightsUpdate, 1)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		timer := time.NewTimer(s.debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		// Initial snapshot so subscribers don't start blank.
		s.deliver(ctx, profileID, out)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if ev.ID != profileID || ev.Action == ActionDelete {
					continue
				}
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			case <-timer.C:
				s.deliver(ctx, profileID, out)
			}
		}
	}()

	return out, nil
}

func (s *InsightsService) deliver(ctx context.Context, profileID uuid.UUID, out chan<- InsightsUpdate) {
	insights, err := s.ComputeInsights(ctx, profileID)
	update := InsightsUpdate{Insights: insights, Err: err}
	select {
	case out <- update:
	case <-ctx.Done():
	}
}
