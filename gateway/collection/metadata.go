package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"storefront-onchain/model"
)

var cidPattern = regexp.MustCompile("(Qm[1-9A-HJ-NP-Za-km-z]{44}.*$)")

// Metadata はトークンURIが指すJSON
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MetadataFetcher はトークンURIからメタデータを取得する
type MetadataFetcher struct {
	client      *retryablehttp.Client
	ipfsGateway string
}

func NewMetadataFetcher(ipfsGateway string, retries int, timeout time.Duration) *MetadataFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = retryLogger{}

	if !strings.HasSuffix(ipfsGateway, "/") {
		ipfsGateway += "/"
	}
	return &MetadataFetcher{client: client, ipfsGateway: ipfsGateway}
}

// ResolveURI は ipfs:// や CID をゲートウェイのURLに変換する
func (f *MetadataFetcher) ResolveURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if strings.HasPrefix(uri, "ipfs://") {
		return f.ipfsGateway + strings.TrimPrefix(strings.TrimPrefix(uri, "ipfs://"), "ipfs/")
	}

	if u, err := url.Parse(uri); err == nil && u.Scheme != "" && u.Host != "" {
		return uri
	}

	parts := cidPattern.FindStringSubmatch(uri)
	if len(parts) == 2 {
		return f.ipfsGateway + parts[1]
	}
	return uri
}

// Fetch はメタデータを取得し、画像URIもゲートウェイ経由に変換する
func (f *MetadataFetcher) Fetch(ctx context.Context, uri string) (*Metadata, error) {
	if uri == "" {
		return nil, errors.New("empty token uri")
	}
	target := f.ResolveURI(uri)

	req, err := retryablehttp.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata %s: %s", target, resp.Status)
	}

	var md Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, fmt.Errorf("failed to decode metadata %s: %w", target, err)
	}
	if md.Image != "" {
		md.Image = f.ResolveURI(md.Image)
	}
	return &md, nil
}

func (md *Metadata) toAsset(asset *model.Asset) {
	asset.Name = md.Name
	asset.Description = md.Description
	asset.Image = md.Image
}

// retryLogger は retryablehttp のログを zap に流す
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	zap.S().Errorw(msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Infow(msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw(msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	zap.S().Warnw(msg, keysAndValues...)
}
