package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selimozcann/longurl/internal/detect"
	"github.com/selimozcann/longurl/internal/model"
)

// ResolveResponse is the JSON body of a resolve request.
type ResolveResponse struct {
	OriginalURL string          `json:"original_url"`
	FinalURL    string          `json:"final_url,omitempty"`
	FinalDomain string          `json:"final_domain,omitempty"`
	Redirects   int             `json:"redirects"`
	Truncated   bool            `json:"truncated,omitempty"`
	Hops        []model.Hop     `json:"hops"`
	Findings    []model.Finding `json:"findings,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// HealthCheckHandler reports that the API is up.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
	})
}

// ResolveHandler follows the redirect chain of the url query parameter.
// Resolution failures still answer 200, with the partial chain and the
// error in the body.
func (app *App) ResolveHandler(c *gin.Context) {
	urlQuery := c.Query("url")
	if urlQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	chain, err := app.Resolver.Resolve(c.Request.Context(), urlQuery)
	resp := ResolveResponse{
		OriginalURL: urlQuery,
		FinalURL:    chain.FinalURL,
		FinalDomain: chain.FinalDomain,
		Redirects:   chain.Redirects(),
		Truncated:   chain.Truncated,
		Hops:        chain.Hops,
		Findings:    detect.Analyze(chain),
	}
	if resp.Hops == nil {
		resp.Hops = []model.Hop{}
	}
	if err != nil {
		app.log.Warn("resolve failed", "url", urlQuery, "err", err)
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
