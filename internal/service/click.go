package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/backend/internal/models"
)

// ClickRecorder persists click events asynchronously. Visitors never wait on
// the insert: events are queued on a buffered channel and drained by a small
// worker pool. A failed insert is logged and dropped, never surfaced.
type ClickRecorder struct {
	db       *gorm.DB
	notifier ChangePublisher
	events   chan models.ClickEvent
	wg       sync.WaitGroup

	closeOnce sync.Once
}

// NewClickRecorder starts workerCount workers draining a buffer of the given
// size.
func NewClickRecorder(db *gorm.DB, notifier ChangePublisher, bufferSize, workerCount int) *ClickRecorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}

	r := &ClickRecorder{
		db:       db,
		notifier: notifier,
		events:   make(chan models.ClickEvent, bufferSize),
	}
	for i := 0; i < workerCount; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Record enqueues one click event. It never blocks: when the buffer is full
// the event is dropped with a log line, keeping the visitor's navigation
// unaffected.
func (r *ClickRecorder) Record(profileID uuid.UUID, linkType, linkValue string) {
	ev := models.ClickEvent{
		ProfileID: profileID,
		LinkType:  linkType,
		LinkValue: linkValue,
	}
	select {
	case r.events <- ev:
	default:
		log.Printf("[ClickRecorder] Buffer full, dropping click for profile %s (%s)", profileID, linkType)
	}
}

func (r *ClickRecorder) worker() {
	defer r.wg.Done()
	for ev := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
			log.Printf("[ClickRecorder] Failed to save click for profile %s (%s): %v", ev.ProfileID, ev.LinkType, err)
			cancel()
			continue
		}
		if r.notifier != nil {
			// The event ID carries the profile so insight watchers can filter.
			change := ChangeEvent{Table: models.ClickTable, Action: ActionInsert, ID: ev.ProfileID}
			if err := r.notifier.Publish(ctx, change); err != nil {
				log.Printf("[ClickRecorder] Failed to publish click notification: %v", err)
			}
		}
		cancel()
	}
}

// Close stops accepting events and waits for the workers to drain the
// buffer.
func (r *ClickRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.events)
	})
	r.wg.Wait()
}
