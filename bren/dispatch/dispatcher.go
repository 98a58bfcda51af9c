package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/NestcoinCo/bren/bren/database/repositories"
)

// Caster publishes a reply cast and returns its hash.
type Caster interface {
	PostCast(ctx context.Context, parentHash, text, embedURL string) (string, error)
}

// Dispatcher posts bot reply casts with an at-most-one-per-source-cast
// guarantee. The reply slot is claimed in the store before the platform is
// contacted; a failed post releases the claim, so the worst case is a missing
// reply, never a double one.
type Dispatcher struct {
	replies repositories.BotReplyRepository
	caster  Caster
	frames  string
}

func NewDispatcher(replies repositories.BotReplyRepository, caster Caster, framesBaseURL string) *Dispatcher {
	return &Dispatcher{
		replies: replies,
		caster:  caster,
		frames:  framesBaseURL,
	}
}

// ReplySuccess posts the tip-accepted reply with the success frame embed.
func (d *Dispatcher) ReplySuccess(ctx context.Context, userCastHash, text string, fid, tip, allowance int64) error {
	embed := fmt.Sprintf("%s/frames/success?fid=%d&tip=%d&all=%d", d.frames, fid, tip, allowance)
	return d.reply(ctx, userCastHash, text, embed)
}

// ReplyFail posts the rejection reply with the failure frame embed.
func (d *Dispatcher) ReplyFail(ctx context.Context, userCastHash, text, message string, allowance int64) error {
	embed := fmt.Sprintf("%s/frames/fail?message=%s&all=%d", d.frames, url.QueryEscape(message), allowance)
	return d.reply(ctx, userCastHash, text, embed)
}

// ReplyNotEligible posts the not-eligible reply.
func (d *Dispatcher) ReplyNotEligible(ctx context.Context, userCastHash, text, message string) error {
	embed := fmt.Sprintf("%s/frames/not-eligible?message=%s", d.frames, url.QueryEscape(message))
	return d.reply(ctx, userCastHash, text, embed)
}

// ReplyInvite posts the invite-confirmation reply.
func (d *Dispatcher) ReplyInvite(ctx context.Context, userCastHash, text, username string, invitesLeft int) error {
	embed := fmt.Sprintf("%s/frames/invite?user=%s&left=%d", d.frames, url.QueryEscape(username), invitesLeft)
	return d.reply(ctx, userCastHash, text, embed)
}

func (d *Dispatcher) reply(ctx context.Context, userCastHash, text, embedURL string) error {
	if err := d.replies.Claim(ctx, userCastHash); err != nil {
		if errors.Is(err, repositories.ErrReplyExists) {
			slog.Debug("Reply already exists, skipping",
				slog.String("user_cast_hash", userCastHash))
			return repositories.ErrReplyExists
		}
		return fmt.Errorf("failed to claim reply slot: %w", err)
	}

	botCastHash, err := d.caster.PostCast(ctx, userCastHash, text, embedURL)
	if err != nil {
		if releaseErr := d.replies.Release(ctx, userCastHash); releaseErr != nil {
			slog.Error("Failed to release reply claim",
				slog.String("type", "error"),
				slog.String("user_cast_hash", userCastHash),
				slog.Any("error", releaseErr))
		}
		return fmt.Errorf("failed to post reply cast: %w", err)
	}

	if err := d.replies.Confirm(ctx, userCastHash, botCastHash); err != nil {
		return fmt.Errorf("failed to record reply cast: %w", err)
	}
	return nil
}
