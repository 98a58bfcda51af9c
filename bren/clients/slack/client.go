package slack

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	lru "github.com/hashicorp/golang-lru"
	"github.com/slack-go/slack"
)

const usernameCacheSize = 1024

// Client wraps the Slack Web API calls the ingestion pipeline needs:
// reactions, direct messages and username resolution. It is constructed and
// injected explicitly so tests can substitute a fake transport.
type Client struct {
	api       *slack.Client
	usernames *lru.Cache
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	baseURL    string
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithAPIURL points the client at a non-default API endpoint (tests).
func WithAPIURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

func New(botToken string, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var slackOpts []slack.Option
	if o.httpClient != nil {
		slackOpts = append(slackOpts, slack.OptionHTTPClient(o.httpClient))
	}
	if o.baseURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(o.baseURL))
	}

	cache, err := lru.New(usernameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create username cache: %w", err)
	}

	return &Client{
		api:       slack.New(botToken, slackOpts...),
		usernames: cache,
	}, nil
}

// AddReaction posts a ✅ or ❌ emoji reaction on the message identified by
// its timestamp.
func (c *Client) AddReaction(ctx context.Context, channelID, messageTS string, success bool) error {
	emoji := "white_check_mark"
	if !success {
		emoji = "x"
	}
	if err := c.api.AddReactionContext(ctx, emoji, slack.NewRefToMessage(channelID, messageTS)); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// SendDM opens a direct-message channel with the user and posts text into it.
func (c *Client) SendDM(ctx context.Context, userID, text string) error {
	channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	if _, _, err := c.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}

	slog.Debug("DM sent", slog.String("user_id", userID))
	return nil
}

// Username resolves a Slack user ID to its username, caching results: the
// parser hits this for every mention in every message.
func (c *Client) Username(ctx context.Context, userID string) (string, error) {
	if cached, ok := c.usernames.Get(userID); ok {
		return cached.(string), nil
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user info for %s: %w", userID, err)
	}

	c.usernames.Add(userID, user.Name)
	return user.Name, nil
}
