package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/logger"
)

type callRoutes struct {
	s usecase.Signaling
	l logger.Interface
}

func newCallRoutes(handler *gin.RouterGroup, s usecase.Signaling, l logger.Interface) {
	r := &callRoutes{s, l}

	handler.GET("/me", r.me)

	h := handler.Group("/call")
	{
		h.GET("", r.current)
		h.POST("", r.do)
	}
}

// @Summary     Show identity
// @Description Who the caller is, who the partner is and which couple they share
// @ID          me
// @Tags  	    call
// @Produce     json
// @Param       X-User-ID header string true "authenticated user id"
// @Success     200 {object} entity.Identity
// @Failure     401 {object} response
// @Failure     403 {object} response
// @Failure     500 {object} response
// @Router      /me [get]
func (r *callRoutes) me(c *gin.Context) {
	id, err := r.s.Identity(c.Request.Context(), userID(c))
	if err != nil {
		signalingError(c, r.l, err, "me")

		return
	}

	c.JSON(http.StatusOK, id)
}

type callResponse struct {
	Call *entity.CallRecord `json:"call"`
}

// @Summary     Show current call
// @Description The couple's call record, or null when no call exists
// @ID          current
// @Tags  	    call
// @Produce     json
// @Param       X-User-ID header string true "authenticated user id"
// @Success     200 {object} callResponse
// @Failure     401 {object} response
// @Failure     403 {object} response
// @Failure     500 {object} response
// @Router      /call [get]
func (r *callRoutes) current(c *gin.Context) {
	rec, err := r.s.Current(c.Request.Context(), userID(c))
	if err != nil {
		signalingError(c, r.l, err, "current")

		return
	}

	c.JSON(http.StatusOK, callResponse{Call: rec})
}

type doRequest struct {
	Type      string `json:"type"                binding:"required,oneof=start answer signal end" example:"signal"`
	Kind      string `json:"kind,omitempty"      example:"video"`
	CallID    string `json:"callId,omitempty"    example:"6f1c0a2e-7d1b-4f57-9a55-3f3a1e0b8e21"`
	Role      string `json:"role,omitempty"      example:"caller"`
	Offer     string `json:"offer,omitempty"`
	Answer    string `json:"answer,omitempty"`
	Candidate string `json:"candidate,omitempty" example:"candidate:1 1 udp 2130706431 192.0.2.1 50000 typ host"`
}

type ackResponse struct {
	OK bool `json:"ok" example:"true"`
}

type doResponse struct {
	OK   bool               `json:"ok"   example:"true"`
	Call *entity.CallRecord `json:"call"`
}

// @Summary     Change the call
// @Description Start, answer, signal or end the couple's call. A request is applied whole or not at all.
// @ID          do
// @Tags  	    call
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "authenticated user id"
// @Param       request body doRequest true "operation"
// @Success     200 {object} doResponse
// @Failure     400 {object} response
// @Failure     401 {object} response
// @Failure     403 {object} response
// @Failure     404 {object} response
// @Failure     409 {object} response
// @Failure     500 {object} response
// @Router      /call [post]
func (r *callRoutes) do(c *gin.Context) {
	var request doRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		r.l.Debug(err, "http - v1 - do")
		errorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	c.Set(_opKey, request.Type)

	var (
		ctx  = c.Request.Context()
		user = userID(c)
		err  error
	)

	switch request.Type {
	case "start":
		var rec entity.CallRecord

		rec, err = r.s.Start(ctx, user, entity.CallKind(request.Kind))
		if err != nil {
			signalingError(c, r.l, err, "do start")

			return
		}

		c.JSON(http.StatusOK, doResponse{OK: true, Call: &rec})

		return

	case "answer":
		err = r.s.Answer(ctx, user, request.CallID)

	case "signal":
		err = r.s.Signal(ctx, user, usecase.SignalRequest{
			CallID:    request.CallID,
			Role:      entity.Role(request.Role),
			Offer:     request.Offer,
			Answer:    request.Answer,
			Candidate: entity.Candidate(request.Candidate),
		})

	case "end":
		err = r.s.End(ctx, user)
	}

	if err != nil {
		signalingError(c, r.l, err, "do "+request.Type)

		return
	}

	// The write is applied; a failed re-read only costs the echo of the record.
	rec, err := r.s.Current(ctx, user)
	if err != nil {
		r.l.Warn("http - v1 - do %s - re-read: %v", request.Type, err)
		c.JSON(http.StatusOK, ackResponse{OK: true})

		return
	}

	c.JSON(http.StatusOK, doResponse{OK: true, Call: rec})
}
