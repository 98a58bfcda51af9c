package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/NestcoinCo/bren/bren/database/repositories"
	"github.com/NestcoinCo/bren/bren/tipping"
)

// SlackAPI is the slice of the Slack client the notifier needs.
type SlackAPI interface {
	AddReaction(ctx context.Context, channelID, messageTS string, success bool) error
	SendDM(ctx context.Context, userID, text string) error
}

// SlackNotifier acknowledges Slack tips with emoji reactions and, for
// rejections, a direct message to the sender.
type SlackNotifier struct {
	client SlackAPI
}

func NewSlackNotifier(client SlackAPI) *SlackNotifier {
	return &SlackNotifier{client: client}
}

var _ tipping.Notifier = (*SlackNotifier)(nil)

func (n *SlackNotifier) AckSuccess(ctx context.Context, tip tipping.Tip, _ int64) error {
	return n.client.AddReaction(ctx, tip.ChannelID, tip.EventID, true)
}

func (n *SlackNotifier) AckDuplicate(ctx context.Context, tip tipping.Tip) error {
	return n.client.AddReaction(ctx, tip.ChannelID, tip.EventID, false)
}

func (n *SlackNotifier) AckRejected(ctx context.Context, tip tipping.Tip, reason string, _ int64) error {
	if err := n.client.AddReaction(ctx, tip.ChannelID, tip.EventID, false); err != nil {
		return err
	}
	if tip.Sender.PlatformID == "" {
		return nil
	}
	return n.client.SendDM(ctx, tip.Sender.PlatformID, reason)
}

// FarcasterNotifier acknowledges Farcaster tips with reply casts carrying
// frame embeds.
type FarcasterNotifier struct {
	dispatcher *Dispatcher
}

func NewFarcasterNotifier(dispatcher *Dispatcher) *FarcasterNotifier {
	return &FarcasterNotifier{dispatcher: dispatcher}
}

var _ tipping.Notifier = (*FarcasterNotifier)(nil)

func (n *FarcasterNotifier) AckSuccess(ctx context.Context, tip tipping.Tip, remaining int64) error {
	fid, _ := strconv.ParseInt(tip.Sender.PlatformID, 10, 64)
	text := fmt.Sprintf("@%s tipped %d $bren to @%s", tip.Sender.Username, tip.Amount, tip.Recipient.Username)
	err := n.dispatcher.ReplySuccess(ctx, tip.EventID, text, fid, tip.Amount, remaining)
	if errors.Is(err, repositories.ErrReplyExists) {
		return nil
	}
	return err
}

func (n *FarcasterNotifier) AckDuplicate(ctx context.Context, tip tipping.Tip) error {
	// The BotReply row from the first delivery already blocks a second
	// reply; nothing to post.
	return nil
}

func (n *FarcasterNotifier) AckRejected(ctx context.Context, tip tipping.Tip, reason string, remaining int64) error {
	text := fmt.Sprintf("Sorry @%s, this tip could not be processed.", tip.Sender.Username)
	err := n.dispatcher.ReplyFail(ctx, tip.EventID, text, reason, remaining)
	if errors.Is(err, repositories.ErrReplyExists) {
		return nil
	}
	return err
}
