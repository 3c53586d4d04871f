package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"file-concierge-be/pkg/store"
)

// Client talks to the Microsoft Graph REST API on behalf of a signed-in
// user. Every call carries the caller's delegated access token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com/v1.0"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type searchRequest struct {
	Requests []searchQuerySpec `json:"requests"`
}

type searchQuerySpec struct {
	EntityTypes []string    `json:"entityTypes"`
	Query       searchQuery `json:"query"`
	From        int         `json:"from"`
	Size        int         `json:"size"`
}

type searchQuery struct {
	QueryString string `json:"queryString"`
}

type searchResponse struct {
	Value []struct {
		HitsContainers []struct {
			Hits []struct {
				Resource driveItemResource `json:"resource"`
			} `json:"hits"`
		} `json:"hitsContainers"`
	} `json:"value"`
}

type driveItemResource struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	WebUrl          string `json:"webUrl"`
	ParentReference struct {
		SiteId string `json:"siteId"`
	} `json:"parentReference"`
}

type permissionsResponse struct {
	Value []struct {
		GrantedToV2 struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
			SiteUser struct {
				Email string `json:"email"`
			} `json:"siteUser"`
		} `json:"grantedToV2"`
		GrantedToIdentitiesV2 []struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"grantedToIdentitiesV2"`
		Link struct {
			Scope string `json:"scope"`
		} `json:"link"`
	} `json:"value"`
}

type sendMailRequest struct {
	Message         mailMessage `json:"message"`
	SaveToSentItems bool        `json:"saveToSentItems"`
}

type mailMessage struct {
	Subject      string      `json:"subject"`
	Body         mailBody    `json:"body"`
	ToRecipients []recipient `json:"toRecipients"`
}

type mailBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

// --- API calls ---

// Search runs a tenant-wide driveItem search and maps hits to candidates.
func (c *Client) Search(ctx context.Context, accessToken, query string) ([]store.FileCandidate, error) {
	reqPayload := searchRequest{
		Requests: []searchQuerySpec{
			{
				EntityTypes: []string{"driveItem"},
				Query:       searchQuery{QueryString: query},
				From:        0,
				Size:        25,
			},
		},
	}

	var searchResp searchResponse
	if err := c.do(ctx, accessToken, "POST", "/search/query", reqPayload, &searchResp); err != nil {
		return nil, fmt.Errorf("file search failed: %w", err)
	}

	var files []store.FileCandidate
	for _, v := range searchResp.Value {
		for _, container := range v.HitsContainers {
			for _, hit := range container.Hits {
				files = append(files, store.FileCandidate{
					ID:           hit.Resource.Id,
					Name:         hit.Resource.Name,
					WebURL:       hit.Resource.WebUrl,
					ParentSiteID: hit.Resource.ParentReference.SiteId,
				})
			}
		}
	}
	return files, nil
}

// CheckAccess reports whether userEmail holds a permission on the file.
// A 403 or 404 from the permissions endpoint means no: the caller cannot
// even see the item, which answers the question.
func (c *Client) CheckAccess(ctx context.Context, accessToken, fileID, userEmail, siteID string) (bool, error) {
	path := fmt.Sprintf("/sites/%s/drive/items/%s/permissions", siteID, fileID)
	if siteID == "" {
		path = fmt.Sprintf("/me/drive/items/%s/permissions", fileID)
	}

	var perms permissionsResponse
	err := c.do(ctx, accessToken, "GET", path, nil, &perms)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && (statusErr.Code == http.StatusForbidden || statusErr.Code == http.StatusNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("permission lookup failed: %w", err)
	}

	for _, p := range perms.Value {
		if strings.EqualFold(p.GrantedToV2.User.Email, userEmail) ||
			strings.EqualFold(p.GrantedToV2.SiteUser.Email, userEmail) {
			return true, nil
		}
		for _, identity := range p.GrantedToIdentitiesV2 {
			if strings.EqualFold(identity.User.Email, userEmail) {
				return true, nil
			}
		}
		// Org-wide sharing links grant everyone in the tenant.
		if p.Link.Scope == "organization" {
			return true, nil
		}
	}
	return false, nil
}

// SendMail delivers an HTML mail as the signed-in user
func (c *Client) SendMail(ctx context.Context, accessToken, to, subject, htmlBody string) error {
	reqPayload := sendMailRequest{
		Message: mailMessage{
			Subject: subject,
			Body: mailBody{
				ContentType: "HTML",
				Content:     htmlBody,
			},
			ToRecipients: []recipient{
				{EmailAddress: emailAddress{Address: to}},
			},
		},
		SaveToSentItems: false,
	}

	if err := c.do(ctx, accessToken, "POST", "/me/sendMail", reqPayload, nil); err != nil {
		return fmt.Errorf("send mail failed: %w", err)
	}
	return nil
}

// --- Plumbing ---

// StatusError is a non-2xx Graph response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph error: status %d, body: %s", e.Code, e.Body)
}

func (c *Client) do(ctx context.Context, accessToken, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: string(bodyBytes)}
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
