package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newsmakerhq/newsmaker-bot/internal/models"
	"github.com/newsmakerhq/newsmaker-bot/internal/publisher"
)

// DueStore answers which scheduled posts are due as of a given instant.
type DueStore interface {
	GetDuePosts(ctx context.Context, now time.Time) ([]*models.Post, error)
}

// PostPublisher performs one publish attempt including the terminal status
// transition; satisfied by *publisher.Service.
type PostPublisher interface {
	Publish(ctx context.Context, post *models.Post) publisher.Result
}

// Scheduler periodically scans for due scheduled posts and publishes them.
// Explicitly constructed with Start/Stop lifecycle; a single instance is
// assumed, and an in-process guard skips a tick while a scan is running.
type Scheduler struct {
	posts     DueStore
	publisher PostPublisher

	interval time.Duration
	delay    time.Duration

	now   func() time.Time
	sleep func(time.Duration)

	scanning atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New builds a scheduler scanning every interval and pausing delay between
// consecutive publishes inside one scan, to respect downstream rate limits.
func New(posts DueStore, pub PostPublisher, interval, delay time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if delay < 0 {
		delay = 0
	}
	return &Scheduler{
		posts:     posts,
		publisher: pub,
		interval:  interval,
		delay:     delay,
		now:       time.Now,
		sleep:     time.Sleep,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the scan loop in the background. An immediate first scan
// runs before the ticker takes over.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logrus.Infof("✅ Планировщик запущен (интервал %s)", s.interval)

		s.Scan(ctx)
		for {
			select {
			case <-ticker.C:
				s.Scan(ctx)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	logrus.Info("Планировщик остановлен")
}

// Scan publishes every due post once. Posts are processed independently in
// timestamp order: one post's failure never aborts the rest of the scan.
// Overlapping scans are skipped. An error loading due posts abandons the
// scan until the next tick.
func (s *Scheduler) Scan(ctx context.Context) {
	if !s.scanning.CompareAndSwap(false, true) {
		logrus.Warn("предыдущая проверка постов ещё выполняется, пропускаю")
		return
	}
	defer s.scanning.Store(false)

	now := s.now().UTC()

	due, err := s.posts.GetDuePosts(ctx, now)
	if err != nil {
		logrus.Errorf("Ошибка при проверке постов: %v", err)
		return
	}

	for i, post := range due {
		if i > 0 && s.delay > 0 {
			s.sleep(s.delay)
		}

		logrus.Infof("📤 Публикация поста %s на %s", post.ID, post.Platform)

		result := s.publisher.Publish(ctx, post)
		if result.Success {
			logrus.Infof("✅ Пост %s опубликован на %s", post.ID, post.Platform)
		} else {
			logrus.Errorf("❌ Пост %s не опубликован: %s", post.ID, result.Err)
		}
	}
}
