package httpapi

import (
	"net/http"
	"testing"

	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/services"
	"github.com/stretchr/testify/assert"
)

func TestHomePage(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Make a link")
}

func TestHomePage_PersonalLink(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/?from=Romeo&to=%3Cb%3EJuliet%3C%2Fb%3E", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dear &lt;b&gt;Juliet&lt;/b&gt;,")
	assert.Contains(t, body, "With love, Romeo")
	assert.Contains(t, body, services.DefaultLetter)
	assert.NotContains(t, body, "<b>Juliet</b>")
}

func TestProposalPage(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/p/p1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dear Juliet,")
	assert.Contains(t, body, "Be mine")
	assert.Contains(t, body, `"Are you sure?"`)
}

func TestProposalPage_Answered(t *testing.T) {
	e := newTestEnv(t)
	e.proposals.byID["p1"].Status = models.StatusRejected

	rec := e.do(t, http.MethodGet, "/p/p1", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<section id="ask" hidden>`)
}

func TestProposalPage_NotFound(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/p/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or has been removed")
}

func TestLoginPage(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/login?error=oops", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="error">oops</p>`)
	assert.Contains(t, rec.Body.String(), `/api/auth/oauth/google`)
	assert.NotContains(t, rec.Body.String(), `/api/auth/oauth/apple`)

	rec = e.do(t, http.MethodGet, "/signup", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create account")
}
