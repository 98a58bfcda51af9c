package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NestcoinCo/bren/bren/database/repositories"
)

type fakeReplies struct {
	claimed   map[string]string
	claimErr  error
	released  []string
	confirmed []string
}

func newFakeReplies() *fakeReplies {
	return &fakeReplies{claimed: make(map[string]string)}
}

func (f *fakeReplies) Claim(_ context.Context, userCastHash string) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	if _, ok := f.claimed[userCastHash]; ok {
		return repositories.ErrReplyExists
	}
	f.claimed[userCastHash] = ""
	return nil
}

func (f *fakeReplies) Confirm(_ context.Context, userCastHash, botCastHash string) error {
	f.claimed[userCastHash] = botCastHash
	f.confirmed = append(f.confirmed, userCastHash)
	return nil
}

func (f *fakeReplies) Release(_ context.Context, userCastHash string) error {
	delete(f.claimed, userCastHash)
	f.released = append(f.released, userCastHash)
	return nil
}

type fakeCaster struct {
	posts    int
	err      error
	lastText string
	lastURL  string
	parent   string
}

func (f *fakeCaster) PostCast(_ context.Context, parentHash, text, embedURL string) (string, error) {
	f.posts++
	f.parent = parentHash
	f.lastText = text
	f.lastURL = embedURL
	if f.err != nil {
		return "", f.err
	}
	return "0xbot", nil
}

func Test_Dispatcher_ReplySuccess(t *testing.T) {
	replies := newFakeReplies()
	caster := &fakeCaster{}
	d := NewDispatcher(replies, caster, "https://frames.example")

	err := d.ReplySuccess(context.Background(), "0xcast", "tipped!", 42, 10, 490)
	if err != nil {
		t.Fatalf("ReplySuccess() error = %v", err)
	}
	if caster.parent != "0xcast" {
		t.Errorf("parent hash = %q, want 0xcast", caster.parent)
	}
	if want := "https://frames.example/frames/success?fid=42&tip=10&all=490"; caster.lastURL != want {
		t.Errorf("embed URL = %q, want %q", caster.lastURL, want)
	}
	if replies.claimed["0xcast"] != "0xbot" {
		t.Errorf("confirmed hash = %q, want 0xbot", replies.claimed["0xcast"])
	}
}

func Test_Dispatcher_secondReplySkipped(t *testing.T) {
	replies := newFakeReplies()
	caster := &fakeCaster{}
	d := NewDispatcher(replies, caster, "https://frames.example")

	if err := d.ReplySuccess(context.Background(), "0xcast", "first", 1, 5, 495); err != nil {
		t.Fatalf("first reply error = %v", err)
	}
	err := d.ReplyFail(context.Background(), "0xcast", "second", "late", 495)
	if !errors.Is(err, repositories.ErrReplyExists) {
		t.Fatalf("second reply error = %v, want ErrReplyExists", err)
	}
	if caster.posts != 1 {
		t.Errorf("posts = %d, want 1", caster.posts)
	}
}

func Test_Dispatcher_releaseOnPostFailure(t *testing.T) {
	replies := newFakeReplies()
	caster := &fakeCaster{err: errors.New("neynar 500")}
	d := NewDispatcher(replies, caster, "https://frames.example")

	err := d.ReplyNotEligible(context.Background(), "0xcast", "sorry", "no invites")
	if err == nil {
		t.Fatal("expected post failure to surface")
	}
	if len(replies.released) != 1 || replies.released[0] != "0xcast" {
		t.Errorf("released = %v, want [0xcast]", replies.released)
	}

	// After release the slot is free and a retry can succeed.
	caster.err = nil
	if err := d.ReplyNotEligible(context.Background(), "0xcast", "sorry", "no invites"); err != nil {
		t.Fatalf("retry error = %v", err)
	}
}

func Test_Dispatcher_embedEscaping(t *testing.T) {
	replies := newFakeReplies()
	caster := &fakeCaster{}
	d := NewDispatcher(replies, caster, "https://frames.example")

	if err := d.ReplyFail(context.Background(), "0xcast", "nope", "insufficient allowance: 5 left", 5); err != nil {
		t.Fatalf("ReplyFail() error = %v", err)
	}
	if strings.Contains(caster.lastURL, " ") {
		t.Errorf("embed URL not escaped: %q", caster.lastURL)
	}
}

func Test_Dispatcher_claimErrorSurfaces(t *testing.T) {
	replies := newFakeReplies()
	replies.claimErr = errors.New("db down")
	d := NewDispatcher(replies, &fakeCaster{}, "https://frames.example")

	err := d.ReplyInvite(context.Background(), "0xcast", "invited", "alice", 3)
	if err == nil || errors.Is(err, repositories.ErrReplyExists) {
		t.Fatalf("claim error = %v, want wrapped store error", err)
	}
}
