// internal/adapter/social/twitter_source.go

package social

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"curator/internal/domain/engagement"
)

// TwitterConfig contains configuration for the Twitter record source
type TwitterConfig struct {
	BearerToken string
	UserID      string
	Host        string
	MaxResults  int
	MaxPages    int
	Timeout     time.Duration
}

// TwitterSource reads a user's timeline and maps each tweet's public metrics
// to an engagement record: likes, retweets+quotes as shares, replies as comments.
type TwitterSource struct {
	client *twitter.Client
	config TwitterConfig
	loc    *time.Location
}

type bearerAuthorizer struct {
	token string
}

// Add sets the bearer token on the request
func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", a.token))
}

// Page size bounds accepted by the user timeline endpoint
const (
	minTimelineResults = 5
	maxTimelineResults = 100
)

// NewTwitterSource creates a new Twitter record source
func NewTwitterSource(config TwitterConfig, loc *time.Location) *TwitterSource {
	if config.Host == "" {
		config.Host = "https://api.twitter.com"
	}
	switch {
	case config.MaxResults <= 0:
		config.MaxResults = maxTimelineResults
	case config.MaxResults < minTimelineResults:
		config.MaxResults = minTimelineResults
	case config.MaxResults > maxTimelineResults:
		config.MaxResults = maxTimelineResults
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if loc == nil {
		loc = time.UTC
	}

	return &TwitterSource{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: config.BearerToken},
			Client:     &http.Client{Timeout: config.Timeout},
			Host:       config.Host,
		},
		config: config,
		loc:    loc,
	}
}

// FetchAll pages through the configured user's timeline
func (s *TwitterSource) FetchAll(ctx context.Context) ([]engagement.Record, error) {
	if s.config.BearerToken == "" || s.config.UserID == "" {
		return nil, fmt.Errorf("%w: twitter bearer token and user id are required", engagement.ErrStoreUnavailable)
	}

	records := []engagement.Record{}
	token := ""

	for page := 0; page < s.config.MaxPages; page++ {
		opts := twitter.UserTweetTimelineOpts{
			TweetFields:     []twitter.TweetField{twitter.TweetFieldCreatedAt, twitter.TweetFieldPublicMetrics},
			MaxResults:      s.config.MaxResults,
			PaginationToken: token,
		}

		timeline, err := s.client.UserTweetTimeline(ctx, s.config.UserID, opts)
		if err != nil {
			var apiErr *twitter.ErrorResponse
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: user %s not found", engagement.ErrSchemaMismatch, s.config.UserID)
			}
			return nil, fmt.Errorf("%w: twitter timeline: %v", engagement.ErrStoreUnavailable, err)
		}

		if timeline.Raw != nil {
			for _, tweet := range timeline.Raw.Tweets {
				r, err := s.toRecord(tweet)
				if err != nil {
					return nil, err
				}
				records = append(records, r)
			}
		}

		if timeline.Meta == nil || timeline.Meta.NextToken == "" {
			break
		}
		token = timeline.Meta.NextToken
	}

	return records, nil
}

func (s *TwitterSource) toRecord(tweet *twitter.TweetObj) (engagement.Record, error) {
	if tweet == nil || tweet.PublicMetrics == nil || tweet.CreatedAt == "" {
		return engagement.Record{}, fmt.Errorf("%w: tweet without created_at or public_metrics", engagement.ErrSchemaMismatch)
	}

	created, err := time.Parse(time.RFC3339, tweet.CreatedAt)
	if err != nil {
		return engagement.Record{}, fmt.Errorf("%w: tweet %s created_at: %v", engagement.ErrSchemaMismatch, tweet.ID, err)
	}

	m := tweet.PublicMetrics
	return engagement.Record{
		Timestamp: created.In(s.loc),
		Likes:     m.Likes,
		Shares:    m.Retweets + m.Quotes,
		Comments:  m.Replies,
	}, nil
}
