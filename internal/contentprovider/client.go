// Package contentprovider implements a client for the headless CMS that
// stores the article documents. The CMS exposes a two step read API: the
// repository root resolves the current master ref, and documents/search
// runs predicate queries against that ref.
package contentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ignews-app/ignews-backend/internal/config"
)

// ErrNotFound is returned when a query matches no document.
var ErrNotFound = errors.New("document not found")

// Client is the CMS API client. All requests share one timeout-bounded
// http.Client owned by this struct.
type Client struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a CMS client from the configuration.
func NewClient(cfg config.Prismic) *Client {
	return &Client{
		apiURL:      cfg.APIURL,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.TimeoutCMS},
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// masterRef resolves the current master ref of the repository.
func (c *Client) masterRef(ctx context.Context) (string, error) {
	const op = "contentprovider.masterRef"

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	q := u.Query()
	q.Set("access_token", c.accessToken)
	u.RawQuery = q.Encode()

	var refs refsResponse
	if err := c.getJSON(ctx, u.String(), &refs); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	for _, ref := range refs.Refs {
		if ref.IsMasterRef {
			return ref.Ref, nil
		}
	}
	return "", fmt.Errorf("%s: master ref missing in repository metadata", op)
}

func (c *Client) search(ctx context.Context, predicate string, pageSize int) (*searchResponse, error) {
	const op = "contentprovider.search"

	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.apiURL + "/documents/search")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	q := u.Query()
	q.Set("ref", ref)
	q.Set("access_token", c.accessToken)
	q.Set("q", predicate)
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	u.RawQuery = q.Encode()

	var result searchResponse
	if err := c.getJSON(ctx, u.String(), &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// QueryByType returns all documents of the given type, newest first as
// ordered by the CMS.
func (c *Client) QueryByType(ctx context.Context, docType string) ([]Document, error) {
	predicate := fmt.Sprintf("[[at(document.type,%q)]]", docType)
	resp, err := c.search(ctx, predicate, 100)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetByUID returns the single document of the given type with the given
// uid, or ErrNotFound.
func (c *Client) GetByUID(ctx context.Context, docType, uid string) (*Document, error) {
	predicate := fmt.Sprintf("[[at(my.%s.uid,%q)]]", docType, uid)
	resp, err := c.search(ctx, predicate, 1)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}
	return &resp.Results[0], nil
}

// UpdatedAt returns the document publication date, or the zero time when
// the CMS did not report one.
func (d *Document) UpdatedAt() time.Time {
	return d.LastPublicationDate
}
