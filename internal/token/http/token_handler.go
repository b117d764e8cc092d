// Package http provides HTTP handlers for the token lifecycle: issuance,
// validation-and-consumption, revocation, the one-shot redeem flow, and the
// owner's access log view.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caredock/sharetoken/internal/httputil"
	recordsUseCase "github.com/caredock/sharetoken/internal/records/usecase"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
	"github.com/caredock/sharetoken/internal/token/http/dto"
	tokenService "github.com/caredock/sharetoken/internal/token/service"
	tokenUseCase "github.com/caredock/sharetoken/internal/token/usecase"
	customValidation "github.com/caredock/sharetoken/internal/validation"
)

// TokenHandler handles HTTP requests for token lifecycle operations.
type TokenHandler struct {
	tokenUseCase     tokenUseCase.TokenUseCase
	recordsUseCase   recordsUseCase.RecordsUseCase
	qrPayloadService tokenService.QRPayloadService
	logger           *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUC tokenUseCase.TokenUseCase,
	recordsUC recordsUseCase.RecordsUseCase,
	qrPayloadService tokenService.QRPayloadService,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase:     tokenUC,
		recordsUseCase:   recordsUC,
		qrPayloadService: qrPayloadService,
		logger:           logger,
	}
}

// IssueHandler mints a new token for a resource owner.
// POST /v1/tokens
// Returns 201 Created with the token id and sharing payload; both appear in
// this response only.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), &tokenDomain.IssueTokenInput{
		SubjectID: subjectID,
		Scope:     tokenDomain.Scope(req.Scope),
		TTL:       time.Duration(req.TTLSeconds) * time.Second,
		MaxUses:   req.MaxUses,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssueOutputToResponse(output))
}

// ValidateHandler atomically validates a presented token and spends one use.
// POST /v1/tokens/validate
// Returns 200 OK with the grant, or a structured rejection.
func (h *TokenHandler) ValidateHandler(c *gin.Context) {
	var req dto.ValidateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &tokenDomain.ValidateTokenInput{
		TokenID:    req.TokenID,
		ConsumerID: req.ConsumerID,
	}
	if req.ExpectedSubjectID != "" {
		expected, err := uuid.Parse(req.ExpectedSubjectID)
		if err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
		input.ExpectedSubjectID = &expected
	}

	grant, err := h.tokenUseCase.ValidateAndConsume(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGrantToResponse(grant))
}

// RevokeHandler deactivates a token on behalf of its owner.
// POST /v1/tokens/revoke
// Returns 200 OK; revoking an already revoked token is a no-op success.
func (h *TokenHandler) RevokeHandler(c *gin.Context) {
	var req dto.RevokeTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	requestedBy, err := uuid.Parse(req.RequestedBy)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	err = h.tokenUseCase.Revoke(c.Request.Context(), &tokenDomain.RevokeTokenInput{
		TokenID:     req.TokenID,
		RequestedBy: requestedBy,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RevokeTokenResponse{OK: true})
}

// RedeemHandler runs the one-shot scan flow: parse a scanned payload,
// validate and consume the token, and resolve the bounded view in one call.
// POST /v1/tokens/redeem
// Returns 200 OK with the grant and the view its scope authorizes.
func (h *TokenHandler) RedeemHandler(c *gin.Context) {
	var req dto.RedeemTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payload, err := h.qrPayloadService.ParsePayload(req.QRPayload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	input := &tokenDomain.ValidateTokenInput{
		TokenID:    payload.TokenID,
		ConsumerID: req.ConsumerID,
	}
	if req.ExpectedSubjectID != "" {
		expected, err := uuid.Parse(req.ExpectedSubjectID)
		if err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
		input.ExpectedSubjectID = &expected
	}

	grant, err := h.tokenUseCase.ValidateAndConsume(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	view, err := h.recordsUseCase.Resolve(c.Request.Context(), grant)
	if err != nil {
		// The use was consumed; a gateway failure here is reported as-is
		// rather than pretending the redemption never happened.
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBoundedViewToRedeemResponse(grant, view))
}

// AccessLogHandler returns a token's redemption history to its owner.
// GET /v1/tokens/:id/access-log?requested_by=<owner-id>
// Returns 200 OK with the entries, newest first.
func (h *TokenHandler) AccessLogHandler(c *gin.Context) {
	tokenID := c.Param("id")
	if tokenID == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("token id cannot be empty"), h.logger)
		return
	}

	requestedBy, err := uuid.Parse(c.Query("requested_by"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.tokenUseCase.ListAccessLog(c.Request.Context(), &tokenDomain.ListAccessLogInput{
		TokenID:     tokenID,
		RequestedBy: requestedBy,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccessLogToResponse(entries))
}
