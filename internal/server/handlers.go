package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/furkancam7/lifeplan/internal/auth"
	"github.com/furkancam7/lifeplan/internal/chat"
	"github.com/furkancam7/lifeplan/internal/logging"
	"github.com/furkancam7/lifeplan/internal/report"
	"github.com/furkancam7/lifeplan/internal/store"
)

// APIResponse is the uniform JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handlers binds the application services to HTTP.
type Handlers struct {
	auth     *auth.Service
	profiles store.ProfileStore
	chat     *chat.Controller
	reports  *report.Service
	metrics  *Metrics
	logger   logging.Logger
}

// NewHandlers wires the handler set.
func NewHandlers(authSvc *auth.Service, profiles store.ProfileStore, chatCtl *chat.Controller, reports *report.Service, metrics *Metrics, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handlers{
		auth:     authSvc,
		profiles: profiles,
		chat:     chatCtl,
		reports:  reports,
		metrics:  metrics,
		logger:   logger.Named("http"),
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, email and password are required")
		return
	}
	if err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, APIResponse{Success: false, Error: "email already registered"})
			return
		}
		badRequest(c, err.Error())
		return
	}
	h.metrics.Signups.Inc()
	c.JSON(http.StatusCreated, APIResponse{Success: true})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Greeting string `json:"greeting"`
	Asking   string `json:"asking,omitempty"`
	Complete bool   `json:"complete"`
}

func (h *Handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, APIResponse{Success: false, Error: "invalid email or password"})
		return
	}
	h.metrics.Logins.Inc()

	// Opening the conversation at login seeds the slot-filling state and
	// produces the first question.
	opening, err := h.chat.Start(c.Request.Context(), sess)
	if err != nil {
		h.logger.Warn("chat start failed for %s: %v", sess.Email, err)
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: loginResponse{
		Token:    sess.Token,
		Name:     sess.Name,
		Greeting: opening.Message,
		Asking:   opening.Asking,
		Complete: opening.Complete,
	}})
}

func (h *Handlers) logout(c *gin.Context) {
	sess := sessionFrom(c)
	h.chat.Forget(sess.Token)
	h.auth.Logout(c.Request.Context(), sess.Token)
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

func (h *Handlers) getProfile(c *gin.Context) {
	sess := sessionFrom(c)
	p, err := h.profiles.GetUser(c.Request.Context(), sess.Email)
	if err != nil {
		internalError(c, h.logger, err)
		return
	}
	p.PasswordHash = ""
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: p})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handlers) chatTurn(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "message is required")
		return
	}
	sess := sessionFrom(c)
	reply, err := h.chat.Message(c.Request.Context(), sess, req.Message)
	if err != nil {
		internalError(c, h.logger, err)
		return
	}
	h.metrics.ChatTurns.Inc()
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: reply})
}

func (h *Handlers) generateReport(kind report.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		ctx := auth.WithSession(c.Request.Context(), sess)

		var (
			artifact report.Artifact
			err      error
		)
		switch kind {
		case report.KindRetirement:
			artifact, err = h.reports.GenerateRetirement(ctx, sess)
		case report.KindHealthCost:
			artifact, err = h.reports.GenerateHealthCost(ctx, sess)
		case report.KindLongevity:
			artifact, err = h.reports.GenerateLongevity(ctx, sess)
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "profile not found"})
				return
			}
			internalError(c, h.logger, err)
			return
		}
		h.metrics.ReportsGenerated.WithLabelValues(string(kind)).Inc()
		c.JSON(http.StatusCreated, APIResponse{Success: true, Data: artifact})
	}
}

func (h *Handlers) listReports(c *gin.Context) {
	list, err := h.reports.List()
	if err != nil {
		internalError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: list})
}

func (h *Handlers) downloadReport(c *gin.Context) {
	path, err := h.reports.Path(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "report not found"})
		return
	}
	c.FileAttachment(path, c.Param("name"))
}

func (h *Handlers) deleteReport(c *gin.Context) {
	if err := h.reports.Delete(c.Param("name")); err != nil {
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "report not found"})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

func (h *Handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: msg})
}

func internalError(c *gin.Context, logger logging.Logger, err error) {
	logger.Error("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "internal error"})
}
