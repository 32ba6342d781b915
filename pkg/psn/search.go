package psn

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
	"github.com/trophyline/gametrack-go/internal/transport"
)

// The op endpoint serves persisted GraphQL queries: the client sends an
// operation name and a sha256 hash instead of query text.
const (
	searchOperationName = "metGetContextSearchResults"
	searchQueryHash     = "a2fbc15433b37ca7bfcd7112f741735e13268f5e9ebd5ffce51b85acc126f41d"
)

// SearchDomain selects what a universal search matches against.
type SearchDomain string

const (
	// SearchDomainGames searches the game catalog
	SearchDomainGames SearchDomain = "MobileUniversalSearchGame"

	// SearchDomainUsers searches player profiles
	SearchDomainUsers SearchDomain = "MobileUniversalSearchSocial"
)

type searchEnvelope struct {
	Data struct {
		UniversalContextSearch struct {
			Results []struct {
				Domain  string `json:"domain"`
				Results []SearchResult `json:"searchResults"`
			} `json:"results"`
		} `json:"universalContextSearch"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Search runs the universal search persisted query against the GraphQL op
// endpoint.
func (c *Client) Search(ctx context.Context, term string, domain SearchDomain) ([]SearchResult, error) {
	if term == "" {
		return nil, errors.New("search term cannot be empty")
	}

	variables, err := json.Marshal(map[string]interface{}{
		"searchTerm":       term,
		"searchContext":    string(domain),
		"displayTitleLocale": "en-US",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal variables")
	}

	extensions, err := json.Marshal(map[string]interface{}{
		"persistedQuery": map[string]interface{}{
			"version":    1,
			"sha256Hash": searchQueryHash,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal extensions")
	}

	params := url.Values{
		"operationName": {searchOperationName},
		"variables":     {string(variables)},
		"extensions":    {string(extensions)},
	}

	resp, err := c.transport.Get(ctx, c.graphqlURL, params)
	if err != nil {
		c.capture(ctx, err, "Search")
		return nil, err
	}

	envelope, err := transport.DecodeObject[searchEnvelope](resp)
	if err != nil {
		return nil, err
	}

	if len(envelope.Errors) > 0 {
		return nil, errors.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}

	results := []SearchResult{}
	for _, bucket := range envelope.Data.UniversalContextSearch.Results {
		results = append(results, bucket.Results...)
	}
	return results, nil
}
