package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
)

// RespondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Both invalid_state and conflict land on 409: the resource exists but is not
// in a state the request can act on.
func RespondWorkflowError(c *gin.Context, err error) {
	code := workflow.CodeOf(err)
	RespondError(c, statusFor(code), string(code), err)
}

func statusFor(code workflow.Code) int {
	switch code {
	case workflow.CodeValidation:
		return http.StatusBadRequest
	case workflow.CodeUnauthorized:
		return http.StatusUnauthorized
	case workflow.CodeForbidden:
		return http.StatusForbidden
	case workflow.CodeNotFound:
		return http.StatusNotFound
	case workflow.CodeInvalidState, workflow.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
