package tipping

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Platform string

const (
	PlatformSlack     Platform = "SLACK"
	PlatformFarcaster Platform = "FARCASTER"
)

// Status is the terminal state of one tip's pass through the state machine.
type Status string

const (
	StatusCommitted         Status = "COMMITTED"
	StatusDuplicate         Status = "DUPLICATE"
	StatusSelfTip           Status = "SELF_TIP_REJECTED"
	StatusAllowanceExceeded Status = "ALLOWANCE_EXCEEDED"
	StatusIneligible        Status = "INELIGIBLE"
)

// Party identifies one side of a tip in platform-native terms.
type Party struct {
	Username   string
	PlatformID string
}

// Tip is one inbound tip command after parsing and identity resolution.
type Tip struct {
	EventID     string // slack message ts or farcaster cast hash
	Sender      Party
	Recipient   Party
	Amount      int64
	ChannelID   string
	ChannelName string
	Text        string
}

// Result reports the terminal state and, where meaningful, the sender's
// remaining allowance.
type Result struct {
	Status    Status
	Remaining int64
}

// CommitResult is the outcome of the committed unit of work.
type CommitResult struct {
	Duplicate  bool
	Exceeded   bool
	Ineligible bool
	Remaining  int64
}

// Store is the platform-specific persistence behind the processor. Commit
// performs the whole accepted-tip unit of work in one serializable
// transaction: upsert both users, recheck the weekly sum against cap, insert
// the transaction row, and increment weekly and ranking aggregates. A unique
// violation on the transaction insert is reported as Duplicate, never as an
// error, and leaves no aggregate increments behind.
type Store interface {
	HasProcessed(ctx context.Context, eventID string) (bool, error)
	Commit(ctx context.Context, tip Tip, weekStart time.Time, cap int64) (CommitResult, error)
}

// Notifier posts acknowledgements back to the originating platform. All
// methods are best-effort: failures are logged by the caller and never affect
// the committed tip.
type Notifier interface {
	AckSuccess(ctx context.Context, tip Tip, remaining int64) error
	AckDuplicate(ctx context.Context, tip Tip) error
	AckRejected(ctx context.Context, tip Tip, reason string, remaining int64) error
}

// TaskRunner runs detached side effects after the tip outcome is decided.
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context))
}

// Processor drives one tip through the ingestion state machine.
type Processor struct {
	platform Platform
	store    Store
	notifier Notifier
	tasks    TaskRunner
	week     WeekFunc
	cap      int64
	now      func() time.Time
}

func NewProcessor(platform Platform, store Store, notifier Notifier, tasks TaskRunner, week WeekFunc, cap int64) *Processor {
	if cap <= 0 {
		cap = DefaultWeeklyAllowance
	}
	return &Processor{
		platform: platform,
		store:    store,
		notifier: notifier,
		tasks:    tasks,
		week:     week,
		cap:      cap,
		now:      time.Now,
	}
}

// Process validates and commits one tip. The returned error is non-nil only
// for persistence failures; domain rejections come back as terminal statuses.
func (p *Processor) Process(ctx context.Context, tip Tip) (Result, error) {
	// Fast-path dedupe. The unique constraint inside Commit is what actually
	// guarantees exactly-once; this read just avoids the transaction cost on
	// obvious replays.
	seen, err := p.store.HasProcessed(ctx, tip.EventID)
	if err != nil {
		return Result{}, fmt.Errorf("dedupe check failed: %w", err)
	}
	if seen {
		p.ackDuplicate(tip)
		return Result{Status: StatusDuplicate}, nil
	}

	if p.isSelfTip(tip) {
		p.ackRejected(tip, "Sorry, you cannot tip yourself.", 0)
		return Result{Status: StatusSelfTip}, nil
	}

	weekStart := p.week(p.now())
	commit, err := p.store.Commit(ctx, tip, weekStart, p.cap)
	if err != nil {
		return Result{}, fmt.Errorf("tip commit failed: %w", err)
	}

	switch {
	case commit.Duplicate:
		p.ackDuplicate(tip)
		return Result{Status: StatusDuplicate}, nil
	case commit.Ineligible:
		p.ackRejected(tip, "You are not eligible to tip yet.", 0)
		return Result{Status: StatusIneligible}, nil
	case commit.Exceeded:
		p.ackRejected(tip,
			fmt.Sprintf("You have insufficient allowance. Your remaining allowance: %d", commit.Remaining),
			commit.Remaining)
		return Result{Status: StatusAllowanceExceeded, Remaining: commit.Remaining}, nil
	}

	slog.Info("Tip committed",
		slog.String("platform", string(p.platform)),
		slog.String("event_id", tip.EventID),
		slog.String("from", tip.Sender.Username),
		slog.String("to", tip.Recipient.Username),
		slog.Int64("amount", tip.Amount),
		slog.Int64("remaining", commit.Remaining))

	remaining := commit.Remaining
	p.tasks.Submit("ack-success", func(ctx context.Context) {
		if err := p.notifier.AckSuccess(ctx, tip, remaining); err != nil {
			slog.Error("Failed to post success acknowledgement",
				slog.String("type", "error"),
				slog.String("event_id", tip.EventID),
				slog.Any("error", err))
		}
	})

	return Result{Status: StatusCommitted, Remaining: remaining}, nil
}

func (p *Processor) isSelfTip(tip Tip) bool {
	if tip.Sender.Username != "" && tip.Recipient.Username != "" {
		return tip.Sender.Username == tip.Recipient.Username
	}
	return tip.Sender.PlatformID != "" && tip.Sender.PlatformID == tip.Recipient.PlatformID
}

func (p *Processor) ackDuplicate(tip Tip) {
	p.tasks.Submit("ack-duplicate", func(ctx context.Context) {
		if err := p.notifier.AckDuplicate(ctx, tip); err != nil {
			slog.Error("Failed to post duplicate acknowledgement",
				slog.String("type", "error"),
				slog.String("event_id", tip.EventID),
				slog.Any("error", err))
		}
	})
}

func (p *Processor) ackRejected(tip Tip, reason string, remaining int64) {
	p.tasks.Submit("ack-rejected", func(ctx context.Context) {
		if err := p.notifier.AckRejected(ctx, tip, reason, remaining); err != nil {
			slog.Error("Failed to post rejection acknowledgement",
				slog.String("type", "error"),
				slog.String("event_id", tip.EventID),
				slog.Any("error", err))
		}
	})
}
