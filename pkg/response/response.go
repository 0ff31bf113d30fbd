package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/nbx-exchange-api/pkg/errors"
)

// Envelope is the exchange wire contract: a success flag, a human-readable
// note and an optional payload. Clients key off the flag, not the status code.
type Envelope struct {
	Success bool             `json:"success"`
	Note    string           `json:"note,omitempty"`
	Value   interface{}      `json:"value,omitempty"`
	Error   *appErrors.Error `json:"error,omitempty"`
}

// OK sends a success envelope with an optional payload.
func OK(c *gin.Context, note string, value interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, Envelope{Success: true, Note: note, Value: value})
}

// Error sends a failed envelope converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Success: false, Note: appErr.Message, Error: appErr})
}
