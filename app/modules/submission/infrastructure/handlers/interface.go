package submissionhandlers

import "net/http"

// Handlers serves the submission HTTP API.
type Handlers interface {
	HandleSubmitScore(w http.ResponseWriter, r *http.Request)
	HandleGetRank(w http.ResponseWriter, r *http.Request)
	HandleHealth(w http.ResponseWriter, r *http.Request)
}
