package classifier

import (
	"fmt"
	"time"

	"github.com/oukeidos/desksort/internal/httpclient"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/openai"
)

// Endpoint describes the OpenAI-compatible API used for classification.
type Endpoint struct {
	APIKey  string
	BaseURL string
	Model   string
	// Proxy applies to this endpoint's transport only.
	Proxy string
	// InsecureProxyTLS disables certificate checks, and only when Proxy is set.
	InsecureProxyTLS bool
	Timeout          time.Duration
}

// NewForEndpoint builds a Classifier with its own HTTP transport.
func NewForEndpoint(ep Endpoint, opts Options) (*Classifier, error) {
	if ep.BaseURL == "" || ep.Model == "" {
		return nil, fmt.Errorf("base url and model are required")
	}
	if ep.APIKey == "" {
		logger.Warn("no API key configured; classification will fall back to Uncategorized")
	}
	hopts := httpclient.Options{Timeout: ep.Timeout}
	if ep.Proxy != "" {
		logger.Info("using proxy for classification requests", "proxy", ep.Proxy, "insecure_tls", ep.InsecureProxyTLS)
		hopts.ProxyURL = ep.Proxy
		hopts.InsecureSkipVerify = ep.InsecureProxyTLS
	}
	hc, err := httpclient.New(hopts)
	if err != nil {
		return nil, err
	}
	return New(openai.NewClient(ep.APIKey, ep.Model, ep.BaseURL, hc), opts), nil
}
