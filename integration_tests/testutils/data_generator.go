package testutils

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	submissionservice "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/application"
	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// GenerateUserIDs returns count distinct player identities.
func (g *TestDataGenerator) GenerateUserIDs(count int) []string {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = "player-" + g.faker.Numerify("##########")
	}
	return ids
}

// GenerateSeed returns a game seed string.
func (g *TestDataGenerator) GenerateSeed() string {
	return "seed-" + g.faker.LetterN(8)
}

// GenerateVerificationHash returns a lower-case 64 character hex digest.
func (g *TestDataGenerator) GenerateVerificationHash() string {
	sum := sha256.Sum256([]byte(g.faker.UUID()))
	return hex.EncodeToString(sum[:])
}

// GenerateFinalState returns a final state inside every plausibility bound.
func (g *TestDataGenerator) GenerateFinalState() submissiondomain.FinalState {
	return submissiondomain.FinalState{
		"doom":        math.Round(g.faker.Float64Range(0, 99)*10) / 10,
		"money":       float64(g.faker.Number(0, 5_000_000)),
		"papers":      float64(g.faker.Number(0, 200)),
		"research":    float64(g.faker.Number(0, 50_000)),
		"compute":     float64(g.faker.Number(0, 100_000)),
		"turn":        float64(g.faker.Number(1, 400)),
		"researchers": float64(g.faker.Number(0, 300)),
	}
}

// GenerateSubmission builds a submission whose score matches its final state exactly.
func (g *TestDataGenerator) GenerateSubmission(seed string) submissionservice.Submission {
	state := g.GenerateFinalState()
	return submissionservice.Submission{
		Seed:             seed,
		Score:            submissiondomain.CalculateScore(state),
		VerificationHash: g.GenerateVerificationHash(),
		FinalState:       state,
		ConfigHash:       "cfg-" + g.faker.LetterN(6),
		GameVersion:      g.faker.AppVersion(),
		DurationSeconds:  g.faker.Float64Range(60, 7200),
	}
}
