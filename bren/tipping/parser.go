package tipping

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	mentionRegex    = regexp.MustCompile(`<@(\w+)>`)
	dollarAmtRegex  = regexp.MustCompile(`\$(\d+)`)
	brenAmtRegex    = regexp.MustCompile(`(?i)(\d+)\s*\$\s*bren\b`)
	inviteRegex     = regexp.MustCompile(`(?i)\binvite\b`)
	tipTokenRegex   = regexp.MustCompile(`(?i)\$bren`)
	castAmtRegex    = regexp.MustCompile(`(?i)\$?\s*(\d+)\s*\$?\s*bren\b`)
)

// TipCommand is the parsed form of a free-text tip message. SenderID and
// RecipientID are platform-native mention identifiers; canonical username
// resolution and the self-tip check happen downstream.
type TipCommand struct {
	SenderID    string
	RecipientID string
	Amount      int64
}

// ParseTipCommand extracts a tip from message text. It requires at least two
// mentions (bot/sender context plus recipient) and a positive integer amount
// in either "$10" or "10 $bren" form.
func ParseTipCommand(text string) (TipCommand, bool) {
	ids := ExtractMentions(text)
	if len(ids) < 2 {
		return TipCommand{}, false
	}

	amount, ok := parseAmount(text)
	if !ok || amount <= 0 {
		return TipCommand{}, false
	}

	return TipCommand{
		SenderID:    ids[0],
		RecipientID: ids[1],
		Amount:      amount,
	}, true
}

// ExtractMentions returns all <@ID> mention identifiers in order.
func ExtractMentions(text string) []string {
	matches := mentionRegex.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// IsBotMentioned reports whether the configured bot user is mentioned.
func IsBotMentioned(text, botUserID string) bool {
	if botUserID == "" {
		return false
	}
	return strings.Contains(text, "<@"+botUserID+">")
}

// IsInviteCast reports whether cast text carries an invite command.
func IsInviteCast(text string) bool {
	return inviteRegex.MatchString(text)
}

// IsTipCast reports whether cast text carries a $bren tip token.
func IsTipCast(text string) bool {
	return tipTokenRegex.MatchString(text)
}

// ParseCastTipAmount extracts the tip amount from Farcaster cast text,
// accepting "5 $bren", "$5 bren" and "5 bren" spellings.
func ParseCastTipAmount(text string) (int64, bool) {
	m := castAmtRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func parseAmount(text string) (int64, bool) {
	if m := brenAmtRegex.FindStringSubmatch(text); m != nil {
		amount, err := strconv.ParseInt(m[1], 10, 64)
		return amount, err == nil
	}
	if m := dollarAmtRegex.FindStringSubmatch(text); m != nil {
		amount, err := strconv.ParseInt(m[1], 10, 64)
		return amount, err == nil
	}
	return 0, false
}
