package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"telechan-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const BaseUrl = "https://t.me"

// Windows 11-style Chrome on desktop (Win11 still uses the Windows NT 10.0 token)
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/130.0.0.0 Safari/537.36"

const requestTimeout = time.Second * 20
const retryAttempts = 3

// Client fetches public channel preview pages. It performs no parsing, the
// raw response body goes to the extractors.
type Client struct {
	baseUrl string
	http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl overrides the t.me origin, used by tests.
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = BaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	// English primary, EU-ish flavour, French as a common secondary
	client.SetHeader("accept-language", "en-GB,en;q=0.9,fr;q=0.8")
	client.SetTimeout(requestTimeout)

	client.SetRetryCount(retryAttempts - 1)
	client.SetRetryWaitTime(time.Millisecond * 500)
	client.SetRetryMaxWaitTime(time.Second * 2)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() >= 500
	})

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Client{
		baseUrl: baseUrl,
		http:    client,
	}
}

// FetchPage requests one preview page of a channel. An empty `before` fetches
// the newest window, otherwise the page of posts older than that id.
func (c *Client) FetchPage(ctx context.Context, username, before string) (string, error) {
	req := c.http.R().SetContext(ctx)
	if before != "" {
		req.SetQueryParam("before", before)
	}

	res, err := req.Get("/s/" + username)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("fetch channel %q: unexpected status %s", username, res.Status())
	}

	return res.String(), nil
}
