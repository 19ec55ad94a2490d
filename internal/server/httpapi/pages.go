package httpapi

import (
	"embed"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/evasion"
	"github.com/dmitrijs2005/heartlink/internal/links"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// proposalPageData feeds proposal.html. ID is empty for personal links,
// which have nothing to respond to.
type proposalPageData struct {
	ID            string
	SenderName    string
	RecipientName string
	Letter        string
	Status        string
	FallbackTexts []string
	MaxNoClicks   int
	YesScaleStep  float64
}

func newProposalPageData(senderName, recipientName, letter string) proposalPageData {
	return proposalPageData{
		SenderName:    senderName,
		RecipientName: recipientName,
		Letter:        letter,
		Status:        models.StatusPending,
		FallbackTexts: evasion.FallbackTexts(),
		MaxNoClicks:   evasion.MaxNoClicks,
		YesScaleStep:  evasion.YesScaleStep,
	}
}

func (s *Server) homePage(c *gin.Context) {
	if from, to, ok := links.ParsePersonal(c.Request.URL.Query()); ok {
		c.HTML(http.StatusOK, "proposal.html", newProposalPageData(from, to, services.DefaultLetter))
		return
	}
	c.HTML(http.StatusOK, "home.html", gin.H{"PublicBaseURL": s.opts.PublicBaseURL})
}

func (s *Server) proposalPage(c *gin.Context) {
	p, err := s.deps.Proposals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.HTML(http.StatusNotFound, "notfound.html", nil)
			return
		}
		s.logger.Error(c.Request.Context(), "loading proposal page", "error", err)
		c.HTML(http.StatusInternalServerError, "notfound.html", nil)
		return
	}

	data := newProposalPageData(p.SenderName, p.RecipientName, p.Letter)
	data.ID = p.ID
	data.Status = p.Status
	c.HTML(http.StatusOK, "proposal.html", data)
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error":     c.Query("error"),
		"Providers": s.providerNames(),
	})
}

func (s *Server) signupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Providers": s.providerNames()})
}

func (s *Server) providerNames() []string {
	var names []string
	for _, name := range []string{models.ProviderGoogle, models.ProviderApple} {
		if _, ok := s.providers[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
