package distribution

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

const beehiivAPIBase = "https://api.beehiiv.com/v2"

// createPostRequest mirrors the Beehiiv V2 posts-create payload. The
// audience stays "all"; the paywall controls premium access, not visibility.
type createPostRequest struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	EmailSubjectLine    string   `json:"email_subject_line"`
	PreviewText         string   `json:"preview_text"`
	FreeWebContent      string   `json:"free_web_content"`
	FreeEmailContent    string   `json:"free_email_content"`
	PremiumWebContent   string   `json:"premium_web_content"`
	PremiumEmailContent string   `json:"premium_email_content"`
	Audience            string   `json:"audience"`
	PublishType         string   `json:"publish_type"`
	ContentTags         []string `json:"content_tags"`
	Slug                string   `json:"slug,omitempty"`
}

type createPostResponse struct {
	Data struct {
		ID     string `json:"id"`
		WebURL string `json:"web_url"`
	} `json:"data"`
}

// APIChannel publishes through the Beehiiv V2 API. Single attempt, no
// retry: a plan restriction and a transient error both fall through to the
// browser channel.
type APIChannel struct {
	cfg    *config.Config
	client *resty.Client
}

func NewAPIChannel(cfg *config.Config) *APIChannel {
	client := resty.New()
	client.SetTimeout(cfg.HTTPTimeout)
	client.SetBaseURL(beehiivAPIBase)
	return &APIChannel{cfg: cfg, client: client}
}

func (c *APIChannel) Name() string { return "beehiiv_api" }

func (c *APIChannel) Publish(issue *models.Issue, live bool) (*models.DeliveryResult, error) {
	if !c.cfg.HasAPICredentials() {
		return nil, ErrUnavailable
	}

	publishType := "draft"
	if live {
		publishType = "instant"
	}

	tags := issue.Tags
	if len(tags) == 0 {
		tags = []string{"gold", "africa", "markets"}
	}

	req := createPostRequest{
		Title:               issue.Title,
		Subtitle:            issue.Subtitle,
		EmailSubjectLine:    issue.Title,
		PreviewText:         issue.PreviewText,
		FreeWebContent:      issue.FreeHTML,
		FreeEmailContent:    issue.FreeHTML,
		PremiumWebContent:   issue.PremiumHTML,
		PremiumEmailContent: issue.PremiumHTML,
		Audience:            "all",
		PublishType:         publishType,
		ContentTags:         tags,
		Slug:                issue.Slug,
	}

	var parsed createPostResponse
	resp, err := c.client.R().
		SetAuthToken(c.cfg.BeehiivAPIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&parsed).
		Post(fmt.Sprintf("/publications/%s/posts", c.cfg.BeehiivPubID))
	if err != nil {
		return nil, fmt.Errorf("beehiiv api request: %w", err)
	}

	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		body := resp.String()
		if len(body) > 500 {
			body = body[:500]
		}
		if isPlanRestriction(resp.StatusCode(), body) {
			return nil, fmt.Errorf("beehiiv api requires a higher plan tier: %w", ErrUnavailable)
		}
		return nil, fmt.Errorf("beehiiv api error %d: %s", resp.StatusCode(), body)
	}

	return &models.DeliveryResult{
		PostID:  parsed.Data.ID,
		PostURL: parsed.Data.WebURL,
	}, nil
}

func isPlanRestriction(status int, body string) bool {
	if status != 403 {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "plan") || strings.Contains(lower, "enterprise") || strings.Contains(lower, "upgrade")
}
