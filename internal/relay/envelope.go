package relay

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/predictdash/predict-relay/internal/api"
)

// errorBody is the failure envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`   // upstream message, untranslated
	Message string `json:"message"` // localized for the caller
}

// dataBody is the success envelope of reshaped responses.
type dataBody struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Cursor  string `json:"cursor,omitempty"`
}

func (s *Server) abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorBody{
		Success: false,
		Error:   msg,
		Message: s.translator.TranslateFor(msg, c.GetHeader("Accept-Language")),
	})
}

func respondData(c *gin.Context, data any, cursor string) {
	c.JSON(http.StatusOK, dataBody{Success: true, Data: data, Cursor: cursor})
}

// passthrough writes an upstream answer verbatim.
func passthrough(c *gin.Context, resp *api.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

// upstreamMessage extracts the message of a non-2xx response.
func upstreamMessage(resp *api.Response) string {
	var apiErr *api.APIError
	if errors.As(resp.Err(), &apiErr) {
		return apiErr.Message
	}
	return http.StatusText(resp.StatusCode)
}
