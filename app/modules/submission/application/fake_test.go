package submissionservice

import (
	"context"
	"sync"

	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Submission Repo
// ------------------------

// FakeSubmissionRepo keeps rows in memory. Any Func field overrides the in-memory behaviour
// for that method.
type FakeSubmissionRepo struct {
	mu    sync.Mutex
	trace []string

	Sessions   []*submissiondb.GameSession
	Hashes     map[string]*submissiondb.VerificationHash
	Duplicates []*submissiondb.HashDuplicate
	Entries    []*submissiondb.LeaderboardEntry

	AcquireHashLockFunc         func(ctx context.Context, db bun.IDB, hash string) error
	InsertGameSessionFunc       func(ctx context.Context, db bun.IDB, session *submissiondb.GameSession) error
	GetVerificationHashFunc     func(ctx context.Context, db bun.IDB, hash string) (*submissiondb.VerificationHash, error)
	InsertVerificationHashFunc  func(ctx context.Context, db bun.IDB, record *submissiondb.VerificationHash) error
	InsertHashDuplicateFunc     func(ctx context.Context, db bun.IDB, dup *submissiondb.HashDuplicate) error
	IncrementDuplicateCountFunc func(ctx context.Context, db bun.IDB, hashID uuid.UUID) (int, error)
	InsertLeaderboardEntryFunc  func(ctx context.Context, db bun.IDB, entry *submissiondb.LeaderboardEntry) error
	CountScoresAboveFunc        func(ctx context.Context, db bun.IDB, seed string, score int64) (int, error)
	PingFunc                    func(ctx context.Context) error

	// BeforeGetVerificationHash runs outside the lock on every lookup.
	BeforeGetVerificationHash func()
}

func NewFakeSubmissionRepo() *FakeSubmissionRepo {
	return &FakeSubmissionRepo{
		trace:  []string{},
		Hashes: map[string]*submissiondb.VerificationHash{},
	}
}

func (f *FakeSubmissionRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeSubmissionRepo) AcquireHashLock(ctx context.Context, db bun.IDB, hash string) error {
	f.record("AcquireHashLock")
	if f.AcquireHashLockFunc != nil {
		return f.AcquireHashLockFunc(ctx, db, hash)
	}
	return nil
}

func (f *FakeSubmissionRepo) InsertGameSession(ctx context.Context, db bun.IDB, session *submissiondb.GameSession) error {
	f.record("InsertGameSession")
	if f.InsertGameSessionFunc != nil {
		return f.InsertGameSessionFunc(ctx, db, session)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sessions = append(f.Sessions, session)
	return nil
}

func (f *FakeSubmissionRepo) GetVerificationHash(ctx context.Context, db bun.IDB, hash string) (*submissiondb.VerificationHash, error) {
	f.record("GetVerificationHash")
	if f.BeforeGetVerificationHash != nil {
		f.BeforeGetVerificationHash()
	}
	if f.GetVerificationHashFunc != nil {
		return f.GetVerificationHashFunc(ctx, db, hash)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.Hashes[hash]
	if !ok {
		return nil, submissiondb.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (f *FakeSubmissionRepo) InsertVerificationHash(ctx context.Context, db bun.IDB, record *submissiondb.VerificationHash) error {
	f.record("InsertVerificationHash")
	if f.InsertVerificationHashFunc != nil {
		return f.InsertVerificationHashFunc(ctx, db, record)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.Hashes[record.VerificationHash]; exists {
		return submissiondb.ErrHashConflict
	}
	cp := *record
	f.Hashes[record.VerificationHash] = &cp
	return nil
}

func (f *FakeSubmissionRepo) InsertHashDuplicate(ctx context.Context, db bun.IDB, dup *submissiondb.HashDuplicate) error {
	f.record("InsertHashDuplicate")
	if f.InsertHashDuplicateFunc != nil {
		return f.InsertHashDuplicateFunc(ctx, db, dup)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Duplicates = append(f.Duplicates, dup)
	return nil
}

func (f *FakeSubmissionRepo) IncrementDuplicateCount(ctx context.Context, db bun.IDB, hashID uuid.UUID) (int, error) {
	f.record("IncrementDuplicateCount")
	if f.IncrementDuplicateCountFunc != nil {
		return f.IncrementDuplicateCountFunc(ctx, db, hashID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.Hashes {
		if record.HashID == hashID {
			record.DuplicateCount++
			return record.DuplicateCount, nil
		}
	}
	return 0, submissiondb.ErrNotFound
}

func (f *FakeSubmissionRepo) InsertLeaderboardEntry(ctx context.Context, db bun.IDB, entry *submissiondb.LeaderboardEntry) error {
	f.record("InsertLeaderboardEntry")
	if f.InsertLeaderboardEntryFunc != nil {
		return f.InsertLeaderboardEntryFunc(ctx, db, entry)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, entry)
	return nil
}

func (f *FakeSubmissionRepo) CountScoresAbove(ctx context.Context, db bun.IDB, seed string, score int64) (int, error) {
	f.record("CountScoresAbove")
	if f.CountScoresAboveFunc != nil {
		return f.CountScoresAboveFunc(ctx, db, seed, score)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.Entries {
		if e.Seed == seed && e.Score > score {
			count++
		}
	}
	return count, nil
}

func (f *FakeSubmissionRepo) Ping(ctx context.Context) error {
	f.record("Ping")
	if f.PingFunc != nil {
		return f.PingFunc(ctx)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeSubmissionRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeSubmissionRepo) Hash(hash string) *submissiondb.VerificationHash {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.Hashes[hash]
	if !ok {
		return nil
	}
	cp := *record
	return &cp
}

// Ensure the fake actually satisfies the interface
var _ submissiondb.Repository = (*FakeSubmissionRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
	PublishFn func(topic string, messages ...*message.Message) error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.PublishFn != nil {
		return p.PublishFn(topic, messages...)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published[topic] = append(p.Published[topic], messages...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

var _ message.Publisher = (*FakePublisher)(nil)
