package tipping

import (
	"reflect"
	"testing"
)

func Test_ParseTipCommand(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   TipCommand
		wantOK bool
	}{
		{
			name:   "dollar amount",
			text:   "<@UBOT> tip <@U123> $10",
			want:   TipCommand{SenderID: "UBOT", RecipientID: "U123", Amount: 10},
			wantOK: true,
		},
		{
			name:   "bren amount",
			text:   "<@UBOT> give <@U123> 25 $bren",
			want:   TipCommand{SenderID: "UBOT", RecipientID: "U123", Amount: 25},
			wantOK: true,
		},
		{
			name:   "single mention rejected",
			text:   "<@U123> $10",
			wantOK: false,
		},
		{
			name:   "no amount rejected",
			text:   "<@UBOT> thanks <@U123>",
			wantOK: false,
		},
		{
			name:   "zero amount rejected",
			text:   "<@UBOT> tip <@U123> $0",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTipCommand(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseTipCommand(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTipCommand(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func Test_ExtractMentions(t *testing.T) {
	got := ExtractMentions("<@UBOT> pays <@U1> and <@U2>")
	want := []string{"UBOT", "U1", "U2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractMentions() = %v, want %v", got, want)
	}
}

func Test_IsBotMentioned(t *testing.T) {
	if !IsBotMentioned("hey <@UBOT> tip <@U1> $5", "UBOT") {
		t.Error("expected bot mention to be detected")
	}
	if IsBotMentioned("hey <@U1> $5", "UBOT") {
		t.Error("did not expect bot mention")
	}
	if IsBotMentioned("hey <@UBOT>", "") {
		t.Error("empty bot ID must never match")
	}
}

func Test_CastClassification(t *testing.T) {
	if !IsInviteCast("@bren please INVITE @alice") {
		t.Error("expected invite cast")
	}
	if IsInviteCast("uninvited guests everywhere") {
		t.Error("invite must match whole word only")
	}
	if !IsTipCast("sending 5 $bren to @bob") {
		t.Error("expected tip cast")
	}
	if IsTipCast("no bren here") {
		t.Error("did not expect tip cast")
	}
}

func Test_ParseCastTipAmount(t *testing.T) {
	tests := []struct {
		text   string
		want   int64
		wantOK bool
	}{
		{"5 $bren for you", 5, true},
		{"$12 bren @bob", 12, true},
		{"100 bren", 100, true},
		{"$bren is great", 0, false},
		{"0 $bren", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCastTipAmount(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseCastTipAmount(%q) = (%d, %v), want (%d, %v)",
				tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}
