package submissiondomain

import "fmt"

// HashStatus tags how a submission's verification hash was classified.
type HashStatus string

const (
	HashStatusOriginal      HashStatus = "original"
	HashStatusSelfDuplicate HashStatus = "self_duplicate"
	HashStatusDuplicate     HashStatus = "duplicate"
)

// ResultStatus is the top-level status of an admitted submission.
type ResultStatus string

const (
	// StatusSuccess means a leaderboard entry was created.
	StatusSuccess ResultStatus = "success"
	// StatusAccepted means the session was stored but the leaderboard was left alone.
	StatusAccepted ResultStatus = "accepted"
)

// AnonymousDiscoverer stands in for the original discoverer's identity, which is never disclosed.
const AnonymousDiscoverer = "Anonymous"

const (
	MessageOriginal      = "First player to achieve this strategy!"
	MessageSelfDuplicate = "You already submitted this strategy"
)

// DuplicateMessage tells a player how long ago someone else found the same strategy.
func DuplicateMessage(elapsedSeconds int64) string {
	return fmt.Sprintf("Strategy already discovered %s ago by another player", FormatTimeDelta(elapsedSeconds))
}

// FormatTimeDelta renders elapsed seconds in the largest whole unit:
// seconds below a minute, then minutes, hours, and days.
func FormatTimeDelta(seconds int64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%d minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours", seconds/3600)
	default:
		return fmt.Sprintf("%d days", seconds/86400)
	}
}
