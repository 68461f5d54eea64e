package httpbridge

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wheelkit/wheelhost/application/schema"
	"github.com/wheelkit/wheelhost/hostfuncs"
)

type handlers struct {
	registry    *hostfuncs.HandlerRegistry
	maxBodySize int64
}

func newHandlers(registry *hostfuncs.HandlerRegistry, maxBodySize int64) *handlers {
	return &handlers{registry: registry, maxBodySize: maxBodySize}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// CommandsResponse is the body of GET /commands.
type CommandsResponse struct {
	Commands []string `json:"commands"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *handlers) listCommands(c *gin.Context) {
	c.JSON(http.StatusOK, CommandsResponse{Commands: h.registry.Names()})
}

func (h *handlers) commandSchema(c *gin.Context) {
	name := c.Param("name")
	if !h.registry.Has(name) {
		writeError(c, hostfuncs.NewNotFoundError(name))
		return
	}

	cs, err := schema.ForCommand(h.registry, name)
	if err != nil {
		writeError(c, hostfuncs.NewInternalError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cs)
}

// invoke passes the body to the named command. Success values are written
// as-is with 200; failure envelopes use their code as the status.
func (h *handlers) invoke(c *gin.Context) {
	body := c.Request.Body
	if h.maxBodySize > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBodySize)
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, hostfuncs.NewValidationError("request body too large"))
			return
		}
		writeError(c, hostfuncs.NewValidationError("failed to read request body: "+err.Error()))
		return
	}

	value, errResp := h.registry.Call(c.Request.Context(), c.Param("command"), payload)
	if errResp != nil {
		writeError(c, *errResp)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", value)
}

func writeError(c *gin.Context, resp hostfuncs.ErrorResponse) {
	c.AbortWithStatusJSON(resp.Code, resp)
}
