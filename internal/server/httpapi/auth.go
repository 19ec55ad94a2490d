package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/server/auth"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	stateCookie    = "heartlink_oauth_state"
	stateCookieTTL = 10 * time.Minute
	stateBytes     = 16
)

type userJSON struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.ID, Username: u.Username, Email: u.Email, Provider: u.Provider, CreatedAt: u.CreatedAt}
}

type tokensJSON struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func toTokensJSON(p *services.TokenPair) tokensJSON {
	return tokensJSON{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, pair, err := s.deps.Users.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserJSON(user), "tokens": toTokensJSON(pair)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	pair, err := s.deps.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTokensJSON(pair))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		badRequest(c, "refreshToken is required")
		return
	}

	pair, err := s.deps.Users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTokensJSON(pair))
}

func (s *Server) me(c *gin.Context) {
	user, err := s.deps.Users.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserJSON(user))
}

func (s *Server) provider(c *gin.Context) (auth.Provider, bool) {
	p, ok := s.providers[c.Param("provider")]
	if !ok {
		s.abortWithError(c, common.ErrorNotFound)
	}
	return p, ok
}

func (s *Server) setStateCookie(c *gin.Context, value string, maxAge int) {
	if s.opts.SecureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(stateCookie, value, maxAge, "/api/auth/oauth", "", s.opts.SecureCookies, true)
}

// oauthStart redirects the browser to the provider's consent page.
func (s *Server) oauthStart(c *gin.Context) {
	p, ok := s.provider(c)
	if !ok {
		return
	}

	state, err := common.MakeRandHexString(stateBytes)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	s.setStateCookie(c, state, int(stateCookieTTL.Seconds()))
	c.Redirect(http.StatusFound, p.AuthCodeURL(state))
}

// oauthCallback finishes the redirect flow. Apple posts the form, Google
// uses the query. The tokens reach the login page in the URL fragment.
func (s *Server) oauthCallback(c *gin.Context) {
	p, ok := s.provider(c)
	if !ok {
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		s.failLogin(c, "invalid callback")
		return
	}
	form := c.Request.Form

	expected, err := c.Cookie(stateCookie)
	s.setStateCookie(c, "", -1)
	if err != nil || expected == "" || form.Get("state") != expected {
		s.failLogin(c, "sign-in expired, please try again")
		return
	}
	if e := form.Get("error"); e != "" {
		s.failLogin(c, "sign-in was cancelled")
		return
	}

	identity, err := p.Exchange(c.Request.Context(), form.Get("code"), form)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "oauth exchange failed", "provider", p.Name(), "error", err)
		s.failLogin(c, "sign-in failed, please try again")
		return
	}

	_, pair, err := s.deps.Users.SocialLogin(c.Request.Context(), identity)
	if err != nil {
		if statusOf(err) == http.StatusInternalServerError {
			s.logger.Error(c.Request.Context(), "social login failed", "provider", p.Name(), "error", err)
			s.failLogin(c, common.ErrorInternal.Error())
			return
		}
		s.failLogin(c, err.Error())
		return
	}

	fragment := url.Values{}
	fragment.Set("accessToken", pair.AccessToken)
	fragment.Set("refreshToken", pair.RefreshToken)
	c.Redirect(http.StatusSeeOther, "/login#"+fragment.Encode())
}

func (s *Server) failLogin(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/login?"+url.Values{"error": {msg}}.Encode())
}
