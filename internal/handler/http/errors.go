package http

import (
	"net/http"

	"github.com/utafrali/DogWalkGo/pkg/httputil"
)

// Messages returned in place of the cause for server errors.
const (
	msgListDogs         = "failed to retrieve dogs"
	msgListMyDogs       = "failed to retrieve your dogs"
	msgListOpenRequests = "failed to retrieve open walk requests"
	msgWalkerSummary    = "failed to retrieve walkers summary"
	msgLogin            = "failed to log in"
	msgRegister         = "failed to register user"
	msgCreateDog        = "failed to create dog"
	msgCreateRequest    = "failed to create walk request"
	msgApply            = "failed to apply to walk request"
	msgRate             = "failed to rate walk"
	msgCurrentUser      = "failed to retrieve current user"
)

// writeAppError maps a service error to an HTTP error response.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	httputil.WriteError(w, r, err, internalMessage)
}
