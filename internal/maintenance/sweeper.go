package maintenance

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/SwapnilSonker/bookstore-backend/internal/imagestore"
	"github.com/SwapnilSonker/bookstore-backend/internal/store"
)

// Artifact deletes are fire and forget, so a failed delete leaves an
// orphaned file behind. The sweeper periodically removes stored cover
// images no longer referenced by any listing.
//
// Only files older than stagingGrace are considered, so an upload staged
// for an in-flight create/update is never swept out from under it.
const stagingGrace = 10 * time.Minute

// Sweeper runs the orphaned-upload cleanup on a cron schedule.
type Sweeper struct {
	store    *store.Store
	images   *imagestore.Store
	schedule cron.Schedule
	done     chan bool
}

// NewSweeper creates a sweeper from a standard cron expression
// (descriptors like "@hourly" are accepted).
func NewSweeper(st *store.Store, images *imagestore.Store, scheduleExpr string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", scheduleExpr, err)
	}
	return &Sweeper{
		store:    st,
		images:   images,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweeper's loop.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting upload sweeper")
	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping upload sweeper")
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.done <- true
}

func (s *Sweeper) sweep() {
	books, err := s.store.Books.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Sweeper: failed to load books")
		return
	}
	referenced := make(map[string]bool, len(books))
	for _, b := range books {
		if b.CoverImageURL != "" {
			referenced[b.CoverImageURL] = true
		}
	}

	stored, err := s.images.ListOlderThan(stagingGrace)
	if err != nil {
		log.Warn().Err(err).Msg("Sweeper: failed to list stored images")
		return
	}

	removed := 0
	for _, url := range stored {
		if !referenced[url] {
			s.images.Delete(url)
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Sweeper: removed orphaned cover images")
	}
}
