package submissionintegrationtests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	submissionservice "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/application"
	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
	submissiondb "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories"
	"github.com/Black-And-White-Club/strategy-ledger/integration_tests/testutils"
)

func TestProcessSubmissionClassifiesHashes(t *testing.T) {
	deps := SetupTestSubmissionService(t)
	generator := testutils.NewTestDataGenerator(42)
	users := generator.GenerateUserIDs(3)
	seed := generator.GenerateSeed()
	sub := generator.GenerateSubmission(seed)

	first, err := deps.Service.ProcessSubmission(deps.Ctx, users[0], sub)
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusSuccess, first.Status)
	assert.Equal(t, submissiondomain.HashStatusOriginal, first.Data.HashStatus)
	require.NotNil(t, first.Data.EntryID)
	require.NotNil(t, first.Data.Rank)
	assert.Equal(t, 1, *first.Data.Rank)

	self, err := deps.Service.ProcessSubmission(deps.Ctx, users[0], sub)
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusAccepted, self.Status)
	assert.Equal(t, submissiondomain.HashStatusSelfDuplicate, self.Data.HashStatus)
	assert.Nil(t, self.Data.EntryID)
	assert.Nil(t, self.Data.Rank)
	require.NotNil(t, self.Data.FirstDiscoveredAt)

	cross, err := deps.Service.ProcessSubmission(deps.Ctx, users[1], sub)
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusSuccess, cross.Status)
	assert.Equal(t, submissiondomain.HashStatusDuplicate, cross.Data.HashStatus)
	require.NotNil(t, cross.Data.DuplicateCount)
	assert.Equal(t, 1, *cross.Data.DuplicateCount)
	require.NotNil(t, cross.Data.FirstDiscoveredBy)
	assert.Equal(t, submissiondomain.AnonymousDiscoverer, *cross.Data.FirstDiscoveredBy)
	assert.True(t, strings.HasPrefix(cross.Data.Message, "Strategy already discovered "))

	third, err := deps.Service.ProcessSubmission(deps.Ctx, users[2], sub)
	require.NoError(t, err)
	require.NotNil(t, third.Data.DuplicateCount)
	assert.Equal(t, 2, *third.Data.DuplicateCount)

	assert.Equal(t, 4, countRows(t, deps, "game_sessions"))
	assert.Equal(t, 1, countRows(t, deps, "verification_hashes"))
	assert.Equal(t, 2, countRows(t, deps, "hash_duplicates"))
	assert.Equal(t, 3, countRows(t, deps, "leaderboard_entries"))

	record, err := deps.Repo.GetVerificationHash(deps.Ctx, nil, sub.VerificationHash)
	require.NoError(t, err)
	assert.Equal(t, users[0], record.FirstSubmittedBy)
	assert.Equal(t, 2, record.DuplicateCount)
	assert.Equal(t, first.Data.SessionID, record.FirstSubmissionID.String())

	var originals, duplicates int
	err = deps.BunDB.NewRaw(
		"SELECT count(*) FILTER (WHERE is_original_hash), count(*) FILTER (WHERE is_duplicate_hash) FROM leaderboard_entries",
	).Scan(deps.Ctx, &originals, &duplicates)
	require.NoError(t, err)
	assert.Equal(t, 1, originals)
	assert.Equal(t, 2, duplicates)
}

func TestProcessSubmissionNormalizesHashCase(t *testing.T) {
	deps := SetupTestSubmissionService(t)
	generator := testutils.NewTestDataGenerator(7)
	users := generator.GenerateUserIDs(2)
	sub := generator.GenerateSubmission(generator.GenerateSeed())

	_, err := deps.Service.ProcessSubmission(deps.Ctx, users[0], sub)
	require.NoError(t, err)

	upper := sub
	upper.VerificationHash = strings.ToUpper(sub.VerificationHash)
	res, err := deps.Service.ProcessSubmission(deps.Ctx, users[1], upper)
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.HashStatusDuplicate, res.Data.HashStatus)
	assert.Equal(t, 1, countRows(t, deps, "verification_hashes"))
}

func TestProcessSubmissionRejectionsWriteNothing(t *testing.T) {
	deps := SetupTestSubmissionService(t)
	generator := testutils.NewTestDataGenerator(11)
	user := generator.GenerateUserIDs(1)[0]

	tampered := generator.GenerateSubmission(generator.GenerateSeed())
	tampered.Score += 10_000

	badHash := generator.GenerateSubmission(generator.GenerateSeed())
	badHash.VerificationHash = "not-a-hash"

	implausible := generator.GenerateSubmission(generator.GenerateSeed())
	implausible.FinalState["doom"] = 120.0
	implausible.Score = submissiondomain.CalculateScore(implausible.FinalState)

	tests := []struct {
		name string
		sub  submissionservice.Submission
		kind submissiondomain.ErrorKind
	}{
		{name: "score mismatch", sub: tampered, kind: submissiondomain.KindScoreMismatch},
		{name: "malformed hash", sub: badHash, kind: submissiondomain.KindMalformedInput},
		{name: "implausible state", sub: implausible, kind: submissiondomain.KindImplausibleState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deps.Service.ProcessSubmission(deps.Ctx, user, tt.sub)
			var verr *submissiondomain.VerificationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
		})
	}

	for _, table := range testutils.SubmissionTables {
		assert.Zero(t, countRows(t, deps, table), table)
	}
}

// failingEntryRepo fails the final write of a submission so the whole transaction must roll back.
type failingEntryRepo struct {
	submissiondb.Repository
}

func (failingEntryRepo) InsertLeaderboardEntry(context.Context, bun.IDB, *submissiondb.LeaderboardEntry) error {
	return errors.New("disk full")
}

func TestProcessSubmissionRollsBackOnFailure(t *testing.T) {
	env := testutils.GetOrCreateTestEnv(t)
	deps := SetupTestSubmissionService(t, withRepo(failingEntryRepo{Repository: submissiondb.NewRepository(env.DB)}))
	generator := testutils.NewTestDataGenerator(13)
	user := generator.GenerateUserIDs(1)[0]

	_, err := deps.Service.ProcessSubmission(deps.Ctx, user, generator.GenerateSubmission(generator.GenerateSeed()))
	require.ErrorIs(t, err, submissionservice.ErrPersistenceFailure)

	for _, table := range testutils.SubmissionTables {
		assert.Zero(t, countRows(t, deps, table), table)
	}
}

func TestProcessSubmissionConcurrentSameHash(t *testing.T) {
	deps := SetupTestSubmissionService(t)
	generator := testutils.NewTestDataGenerator(17)
	const workers = 8
	users := generator.GenerateUserIDs(workers)
	sub := generator.GenerateSubmission(generator.GenerateSeed())

	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		mu      sync.Mutex
		outcome = map[submissiondomain.HashStatus]int{}
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			<-start
			res, err := deps.Service.ProcessSubmission(deps.Ctx, user, sub)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			outcome[res.Data.HashStatus]++
		}(users[i])
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, outcome[submissiondomain.HashStatusOriginal])
	assert.Equal(t, workers-1, outcome[submissiondomain.HashStatusDuplicate])

	record, err := deps.Repo.GetVerificationHash(deps.Ctx, nil, sub.VerificationHash)
	require.NoError(t, err)
	assert.Equal(t, workers-1, record.DuplicateCount)
	assert.Equal(t, workers-1, countRows(t, deps, "hash_duplicates"))
	assert.Equal(t, workers, countRows(t, deps, "leaderboard_entries"))
}

func TestProcessSubmissionIndependentHashesAreOriginal(t *testing.T) {
	deps := SetupTestSubmissionService(t)
	generator := testutils.NewTestDataGenerator(19)
	user := generator.GenerateUserIDs(1)[0]
	seed := generator.GenerateSeed()

	for i := 0; i < 3; i++ {
		res, err := deps.Service.ProcessSubmission(deps.Ctx, user, generator.GenerateSubmission(seed))
		require.NoError(t, err)
		assert.Equal(t, submissiondomain.HashStatusOriginal, res.Data.HashStatus)
		_, err = uuid.Parse(*res.Data.EntryID)
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, countRows(t, deps, "verification_hashes"))
	assert.Zero(t, countRows(t, deps, "hash_duplicates"))
}
