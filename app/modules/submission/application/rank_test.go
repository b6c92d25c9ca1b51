package submissionservice

import (
	"context"
	"errors"
	"testing"

	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestGetRank(t *testing.T) {
	seeded := func(f *FakeSubmissionRepo) {
		for _, e := range []struct {
			seed  string
			score int64
		}{
			{"s1", 900}, {"s1", 700}, {"s1", 700}, {"s1", 500}, {"s2", 10_000},
		} {
			f.Entries = append(f.Entries, &submissiondb.LeaderboardEntry{Seed: e.seed, Score: e.score})
		}
	}

	tests := []struct {
		name      string
		setupRepo func(*FakeSubmissionRepo)
		seed      string
		score     int64
		want      int
		wantErr   bool
	}{
		{name: "empty board", setupRepo: func(*FakeSubmissionRepo) {}, seed: "s1", score: 100, want: 1},
		{name: "top score", setupRepo: seeded, seed: "s1", score: 900, want: 1},
		{name: "new best", setupRepo: seeded, seed: "s1", score: 1_000, want: 1},
		{name: "ties share a rank", setupRepo: seeded, seed: "s1", score: 700, want: 2},
		{name: "after ties", setupRepo: seeded, seed: "s1", score: 500, want: 4},
		{name: "other seeds ignored", setupRepo: seeded, seed: "s2", score: 10_000, want: 1},
		{
			name: "store error",
			setupRepo: func(f *FakeSubmissionRepo) {
				f.CountScoresAboveFunc = func(context.Context, bun.IDB, string, int64) (int, error) {
					return 0, errors.New("timeout")
				}
			},
			seed:    "s1",
			score:   1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeSubmissionRepo()
			tt.setupRepo(repo)
			svc := newTestService(repo, nil, nil)

			rank, err := svc.GetRank(context.Background(), tt.seed, tt.score)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rank)
		})
	}
}

func TestPing(t *testing.T) {
	repo := NewFakeSubmissionRepo()
	svc := newTestService(repo, nil, nil)
	require.NoError(t, svc.Ping(context.Background()))

	repo.PingFunc = func(context.Context) error { return errors.New("down") }
	assert.Error(t, svc.Ping(context.Background()))
}
