package worker

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// MembershipFacade exposes the subset of application functionality required
// by the rechecker.
type MembershipFacade interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
	ConfirmMembership(ctx context.Context, userID int64) (bool, *model.JoinBonus, error)
	Notify(ctx context.Context, chatID int64, text string) error
}

const (
	leftChannelNotice   = "Looks like you left the channel. Rejoin to keep earning points."
	joinConfirmedNotice = "Membership confirmed. Use /start to open the menu and start earning points."
)

// MembershipRechecker re-verifies channel membership a short while after a
// user's first contact. It confirms joins made without tapping the join
// button and catches join-then-leave abuse.
type MembershipRechecker struct {
	facade  MembershipFacade
	delay   time.Duration
	workers int
	logger  *slog.Logger

	jobs    chan int64
	pending map[int64]struct{}
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	stopped bool
	mu      sync.Mutex
}

// NewMembershipRechecker constructs the rechecker worker pool.
func NewMembershipRechecker(facade MembershipFacade, delay time.Duration, workers int, logger *slog.Logger) *MembershipRechecker {
	if workers <= 0 {
		workers = 1
	}
	return &MembershipRechecker{
		facade:  facade,
		delay:   delay,
		workers: workers,
		logger:  logger,
		jobs:    make(chan int64, 256),
		pending: make(map[int64]struct{}),
	}
}

// Start launches background processing.
func (r *MembershipRechecker) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.stopped = false

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}
}

// Stop cancels outstanding rechecks and waits for workers to finish.
func (r *MembershipRechecker) Stop() {
	r.mu.Lock()
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// Schedule queues a deferred recheck for the user. A user with a recheck
// already in flight is not queued again.
func (r *MembershipRechecker) Schedule(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return false
	}
	if _, ok := r.pending[userID]; ok {
		return false
	}

	select {
	case r.jobs <- userID:
		r.pending[userID] = struct{}{}
		return true
	default:
		r.logger.Warn("membership recheck queue full", slog.Int64("user_id", userID))
		return false
	}
}

func (r *MembershipRechecker) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case userID := <-r.jobs:
			r.recheck(ctx, userID)
		}
	}
}

func (r *MembershipRechecker) recheck(ctx context.Context, userID int64) {
	defer func() {
		r.mu.Lock()
		delete(r.pending, userID)
		r.mu.Unlock()
	}()

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	member, err := r.facade.IsMember(ctx, userID)
	if err != nil {
		r.logger.Error("membership recheck failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	if member {
		r.confirmLateJoin(ctx, userID)
		return
	}

	user, err := r.facade.Profile(ctx, userID)
	if err != nil {
		r.logger.Error("membership recheck failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !user.JoinedChannel {
		// Never joined and still not a member; the join prompt stands.
		return
	}

	r.logger.Info("user left channel after joining", slog.Int64("user_id", userID))
	if err := r.facade.Notify(ctx, userID, leftChannelNotice); err != nil {
		r.logger.Warn("leave notice delivery failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// confirmLateJoin records a join made without tapping the join button:
// the membership flag flips, the referrer is credited and both sides are
// told. A join already confirmed through the button is a no-op.
func (r *MembershipRechecker) confirmLateJoin(ctx context.Context, userID int64) {
	first, bonus, err := r.facade.ConfirmMembership(ctx, userID)
	if err != nil {
		r.logger.Error("late join confirmation failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !first {
		return
	}

	r.logger.Info("membership confirmed on recheck", slog.Int64("user_id", userID))
	if err := r.facade.Notify(ctx, userID, joinConfirmedNotice); err != nil {
		r.logger.Warn("join notice delivery failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	if bonus == nil {
		return
	}
	if err := r.facade.Notify(ctx, bonus.ReferrerID, referrerJoinedText(bonus)); err != nil {
		r.logger.Warn("referrer notice delivery failed",
			slog.Int64("user_id", bonus.ReferrerID),
			slog.String("error", err.Error()),
		)
	}
}

// referrerJoinedText builds the message sent to an inviter whose invitee
// just had their join recorded.
func referrerJoinedText(bonus *model.JoinBonus) string {
	text := "Your invitee joined the channel."
	if bonus.Amount > 0 {
		text += " +" + strconv.FormatInt(bonus.Amount, 10) + " pts"
	}
	return text
}
