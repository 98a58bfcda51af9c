package models

import "encoding/json"

// SlackTipRequest is the body of the direct tip submission endpoint, used by
// the Slack workflow integration.
type SlackTipRequest struct {
	FromUsername string `json:"fromUsername"`
	FromUserID   string `json:"fromUserId"`
	ToUsername   string `json:"toUsername"`
	Amount       int64  `json:"amount"`
	MessageID    string `json:"messageId"`
	ChannelID    string `json:"channelId"`
	ChannelName  string `json:"channelName"`
}

// UserEventRequest is the body of the point-event endpoint.
type UserEventRequest struct {
	WalletAddress  string          `json:"walletAddress"`
	Event          string          `json:"event"`
	Platform       string          `json:"platform"`
	Amount         *int64          `json:"amount,omitempty"`
	AdditionalData json.RawMessage `json:"additionalData,omitempty"`
	Name           string          `json:"name,omitempty"`
	Email          string          `json:"email,omitempty"`
}

// SlackEventPayload is the Slack Events API envelope. Type url_verification
// carries Challenge; type event_callback carries Event.
type SlackEventPayload struct {
	Token     string      `json:"token"`
	Type      string      `json:"type"`
	Challenge string      `json:"challenge"`
	EventID   string      `json:"event_id"`
	Event     *SlackEvent `json:"event"`
}

// SlackEvent is the inner message event of an event_callback envelope.
type SlackEvent struct {
	Type        string `json:"type"`
	User        string `json:"user"`
	Text        string `json:"text"`
	TS          string `json:"ts"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type"`
	BotID       string `json:"bot_id"`
}

// NeynarWebhook is the cast.created webhook envelope from Neynar.
type NeynarWebhook struct {
	Type string     `json:"type"`
	Data NeynarCast `json:"data"`
}

// NeynarCast is the cast payload inside a webhook delivery.
type NeynarCast struct {
	Hash              string          `json:"hash"`
	ParentHash        string          `json:"parent_hash"`
	Text              string          `json:"text"`
	Author            NeynarProfile   `json:"author"`
	MentionedProfiles []NeynarProfile `json:"mentioned_profiles"`
}

// NeynarProfile identifies a Farcaster account in a cast payload.
type NeynarProfile struct {
	FID      int64  `json:"fid"`
	Username string `json:"username"`
}
