package tipping

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	processed  bool
	checkErr   error
	commit     CommitResult
	commitErr  error
	gotWeek    time.Time
	gotCap     int64
	commitRuns int
}

func (f *fakeStore) HasProcessed(context.Context, string) (bool, error) {
	return f.processed, f.checkErr
}

func (f *fakeStore) Commit(_ context.Context, _ Tip, weekStart time.Time, cap int64) (CommitResult, error) {
	f.commitRuns++
	f.gotWeek = weekStart
	f.gotCap = cap
	return f.commit, f.commitErr
}

type fakeNotifier struct {
	successes  int
	duplicates int
	rejections []string
}

func (f *fakeNotifier) AckSuccess(context.Context, Tip, int64) error { f.successes++; return nil }
func (f *fakeNotifier) AckDuplicate(context.Context, Tip) error      { f.duplicates++; return nil }
func (f *fakeNotifier) AckRejected(_ context.Context, _ Tip, reason string, _ int64) error {
	f.rejections = append(f.rejections, reason)
	return nil
}

// syncRunner executes submitted tasks inline so tests observe acks
// deterministically.
type syncRunner struct{}

func (syncRunner) Submit(_ string, fn func(ctx context.Context)) { fn(context.Background()) }

func testTip() Tip {
	return Tip{
		EventID:   "1700000000.000100",
		Sender:    Party{Username: "alice", PlatformID: "U1"},
		Recipient: Party{Username: "bob", PlatformID: "U2"},
		Amount:    50,
		ChannelID: "C1",
	}
}

func newTestProcessor(store *fakeStore, notifier *fakeNotifier) *Processor {
	p := NewProcessor(PlatformSlack, store, notifier, syncRunner{}, SundayLocal, 500)
	p.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	return p
}

func Test_Processor_Process(t *testing.T) {
	tests := []struct {
		name          string
		store         fakeStore
		tip           Tip
		want          Result
		wantErr       bool
		wantSuccesses int
		wantDupAcks   int
		wantRejects   int
	}{
		{
			name:          "committed",
			store:         fakeStore{commit: CommitResult{Remaining: 450}},
			tip:           testTip(),
			want:          Result{Status: StatusCommitted, Remaining: 450},
			wantSuccesses: 1,
		},
		{
			name:        "already processed fast path",
			store:       fakeStore{processed: true},
			tip:         testTip(),
			want:        Result{Status: StatusDuplicate},
			wantDupAcks: 1,
		},
		{
			name:        "duplicate caught at commit",
			store:       fakeStore{commit: CommitResult{Duplicate: true}},
			tip:         testTip(),
			want:        Result{Status: StatusDuplicate},
			wantDupAcks: 1,
		},
		{
			name:        "allowance exceeded",
			store:       fakeStore{commit: CommitResult{Exceeded: true, Remaining: 30}},
			tip:         testTip(),
			want:        Result{Status: StatusAllowanceExceeded, Remaining: 30},
			wantRejects: 1,
		},
		{
			name:        "ineligible sender",
			store:       fakeStore{commit: CommitResult{Ineligible: true}},
			tip:         testTip(),
			want:        Result{Status: StatusIneligible},
			wantRejects: 1,
		},
		{
			name:    "dedupe check error",
			store:   fakeStore{checkErr: errors.New("db down")},
			tip:     testTip(),
			wantErr: true,
		},
		{
			name:    "commit error",
			store:   fakeStore{commitErr: errors.New("serialization failure")},
			tip:     testTip(),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			p := newTestProcessor(&tt.store, notifier)

			got, err := p.Process(context.Background(), tt.tip)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Process() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("Process() = %+v, want %+v", got, tt.want)
			}
			if notifier.successes != tt.wantSuccesses {
				t.Errorf("success acks = %d, want %d", notifier.successes, tt.wantSuccesses)
			}
			if notifier.duplicates != tt.wantDupAcks {
				t.Errorf("duplicate acks = %d, want %d", notifier.duplicates, tt.wantDupAcks)
			}
			if len(notifier.rejections) != tt.wantRejects {
				t.Errorf("rejections = %d, want %d", len(notifier.rejections), tt.wantRejects)
			}
		})
	}
}

func Test_Processor_selfTip(t *testing.T) {
	tests := []struct {
		name    string
		tip     Tip
		blocked bool
	}{
		{
			name: "same username",
			tip: Tip{
				EventID:   "ts1",
				Sender:    Party{Username: "alice", PlatformID: "U1"},
				Recipient: Party{Username: "alice", PlatformID: "U9"},
			},
			blocked: true,
		},
		{
			name: "same platform id without usernames",
			tip: Tip{
				EventID:   "ts2",
				Sender:    Party{PlatformID: "U1"},
				Recipient: Party{PlatformID: "U1"},
			},
			blocked: true,
		},
		{
			name: "distinct parties",
			tip: Tip{
				EventID:   "ts3",
				Sender:    Party{Username: "alice", PlatformID: "U1"},
				Recipient: Party{Username: "bob", PlatformID: "U2"},
			},
			blocked: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{commit: CommitResult{Remaining: 500}}
			notifier := &fakeNotifier{}
			p := newTestProcessor(store, notifier)

			got, err := p.Process(context.Background(), tt.tip)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if tt.blocked {
				if got.Status != StatusSelfTip {
					t.Errorf("status = %v, want %v", got.Status, StatusSelfTip)
				}
				if store.commitRuns != 0 {
					t.Error("self-tip must not reach the store")
				}
				if len(notifier.rejections) != 1 || notifier.rejections[0] != "Sorry, you cannot tip yourself." {
					t.Errorf("rejections = %v", notifier.rejections)
				}
			} else if got.Status != StatusCommitted {
				t.Errorf("status = %v, want %v", got.Status, StatusCommitted)
			}
		})
	}
}

func Test_Processor_passesWeekAndCap(t *testing.T) {
	store := &fakeStore{commit: CommitResult{Remaining: 450}}
	p := newTestProcessor(store, &fakeNotifier{})

	if _, err := p.Process(context.Background(), testTip()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	wantWeek := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if !store.gotWeek.Equal(wantWeek) {
		t.Errorf("week start = %v, want %v", store.gotWeek, wantWeek)
	}
	if store.gotCap != 500 {
		t.Errorf("cap = %d, want 500", store.gotCap)
	}
}
