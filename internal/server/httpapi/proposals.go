package httpapi

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/evasion"
	"github.com/dmitrijs2005/heartlink/internal/links"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"github.com/gin-gonic/gin"
)

type proposalJSON struct {
	ID            string     `json:"id"`
	SenderID      string     `json:"senderId"`
	SenderName    string     `json:"senderName"`
	RecipientName string     `json:"recipientName"`
	Letter        string     `json:"letter"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

func toProposalJSON(p *models.Proposal) proposalJSON {
	return proposalJSON{
		ID:            p.ID,
		SenderID:      p.SenderID,
		SenderName:    p.SenderName,
		RecipientName: p.RecipientName,
		Letter:        p.Letter,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		RespondedAt:   p.RespondedAt,
	}
}

type sentJSON struct {
	ID            string    `json:"id"`
	RecipientName string    `json:"recipientName"`
	CreatedAt     time.Time `json:"createdAt"`
	ShareURL      string    `json:"shareUrl"`
}

type createProposalRequest struct {
	RecipientName string `json:"recipientName"`
	Letter        string `json:"letter"`
	Keywords      string `json:"keywords"`
}

func (s *Server) createProposal(c *gin.Context) {
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	p, err := s.deps.Proposals.Create(c.Request.Context(), currentUser(c), req.RecipientName, req.Letter, req.Keywords)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"proposal": toProposalJSON(p), "shareUrl": s.deps.Proposals.ShareURL(p.ID)})
}

func (s *Server) listProposals(c *gin.Context) {
	sent, err := s.deps.Proposals.ListSent(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	out := make([]sentJSON, 0, len(sent))
	for _, sp := range sent {
		out = append(out, sentJSON{
			ID:            sp.ID,
			RecipientName: sp.RecipientName,
			CreatedAt:     sp.CreatedAt,
			ShareURL:      s.deps.Proposals.ShareURL(sp.ID),
		})
	}
	c.JSON(http.StatusOK, gin.H{"proposals": out})
}

func (s *Server) getProposal(c *gin.Context) {
	p, err := s.deps.Proposals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProposalJSON(p))
}

func (s *Server) deleteProposal(c *gin.Context) {
	if err := s.deps.Proposals.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type respondRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := s.deps.Proposals.Respond(c.Request.Context(), c.Param("id"), req.Answer)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": toProposalJSON(res.Proposal), "ringModelUrl": res.RingModelURL})
}

func (s *Server) requestRingUpload(c *gin.Context) {
	key, url, err := s.deps.Proposals.RequestRingUpload(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "uploadUrl": url})
}

type letterRequest struct {
	RecipientName string `json:"recipientName"`
	Keywords      string `json:"keywords"`
}

func (s *Server) generateLetter(c *gin.Context) {
	var req letterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	letter, err := s.deps.Letters.Generate(c.Request.Context(), req.RecipientName, req.Keywords)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"letter": letter})
}

type persuadeRequest struct {
	NoButtonClicks int              `json:"noButtonClicks"`
	TimeOnPage     float64          `json:"timeOnPage"`
	PreviousText   string           `json:"previousText"`
	Viewport       evasion.Viewport `json:"viewport"`
}

type persuadeResponse struct {
	NewText                  string           `json:"newText"`
	AnimationSpeedMultiplier float64          `json:"animationSpeedMultiplier"`
	Fallback                 bool             `json:"fallback"`
	YesScale                 float64          `json:"yesScale"`
	NoVisible                bool             `json:"noVisible"`
	Position                 evasion.Position `json:"position"`
}

func (s *Server) persuade(c *gin.Context) {
	var req persuadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	res, err := s.deps.Persuader.Persuade(c.Request.Context(), c.ClientIP(), services.PersuadeInput{
		NoButtonClicks: req.NoButtonClicks,
		TimeOnPage:     req.TimeOnPage,
		PreviousText:   req.PreviousText,
		Viewport:       req.Viewport,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, persuadeResponse{
		NewText:                  res.NewText,
		AnimationSpeedMultiplier: res.AnimationSpeedMultiplier,
		Fallback:                 res.Fallback,
		YesScale:                 res.YesScale,
		NoVisible:                res.NoVisible,
		Position:                 res.Position,
	})
}

type linkRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// personalLink builds a legacy /?from=&to= link. Nothing is stored.
func (s *Server) personalLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)
	if from == "" || to == "" {
		badRequest(c, "both names are required")
		return
	}
	if utf8.RuneCountInString(from) > services.MaxRecipientNameLength || utf8.RuneCountInString(to) > services.MaxRecipientNameLength {
		badRequest(c, "names are too long")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": links.PersonalURL(s.opts.PublicBaseURL, from, to)})
}

// watchProposal streams status changes of one proposal to its sender.
// Browsers cannot set headers on websockets, so the token is in the query.
func (s *Server) watchProposal(c *gin.Context) {
	if s.deps.Live == nil {
		s.abortWithError(c, common.ErrorNotFound)
		return
	}

	userID, err := s.deps.Users.UserIDFromAccessToken(c.Query("token"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := s.deps.Proposals.CanWatch(c.Request.Context(), userID, id); err != nil {
		s.abortWithError(c, err)
		return
	}

	if err := s.deps.Live.Serve(c.Writer, c.Request, id); err != nil {
		// The upgrader has already written the response.
		s.logger.Warn(c.Request.Context(), "websocket upgrade failed", "proposal_id", id, "error", err)
	}
}
