package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ContestSubmissionType is the submission type used for challenge uploads.
const ContestSubmissionType = "Contest Submission"

// DefaultPageSize is the page size used when searching submissions.
const DefaultPageSize = 100

type Submission struct {
	ID                 ID        `json:"id"`
	ChallengeID        ID        `json:"challengeId"`
	MemberID           ID        `json:"memberId"`
	Type               string    `json:"type,omitempty"`
	URL                string    `json:"url,omitempty"`
	FileType           string    `json:"fileType,omitempty"`
	LegacySubmissionID ID        `json:"legacySubmissionId,omitempty"`
	Created            time.Time `json:"created"`
	Updated            time.Time `json:"updated"`
}

// SubmissionPayload is the create-submission request.
type SubmissionPayload struct {
	MemberID    int64
	ChallengeID string
	Type        string
	Submission  SubmissionFile
}

// SubmissionFile is the archive uploaded with a submission.
type SubmissionFile struct {
	Name string
	Data []byte
}

type SearchQuery struct {
	ChallengeID        string
	MemberID           int64
	LegacySubmissionID string
	Page               int
	PerPage            int
}

// SubmissionPage is one page of search results. Total is the server-side
// match count from the X-Total header, or 0 when absent.
type SubmissionPage struct {
	Submissions []Submission
	Total       int
}

type ArtifactList struct {
	Artifacts []string `json:"artifacts"`
}

// Download is a streamed file body. The caller closes Body.
type Download struct {
	Body               io.ReadCloser
	ContentDisposition string
	ContentLength      int64
}

type memberResponse struct {
	Result struct {
		Content struct {
			UserID int64 `json:"userId"`
		} `json:"content"`
	} `json:"result"`
}

// LookupMemberID resolves a handle to its numeric member id.
func (c *Client) LookupMemberID(ctx context.Context, username string) (int64, error) {
	endpoint := fmt.Sprintf("%s/%s", c.endpoints.MembersAPI, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to look up member %s: %w", username, err)
	}
	defer func() { _ = res.Body.Close() }()

	var member memberResponse
	if err := json.NewDecoder(res.Body).Decode(&member); err != nil {
		return 0, fmt.Errorf("failed to decode member %s: %w", username, err)
	}
	if member.Result.Content.UserID == 0 {
		return 0, fmt.Errorf("member %s not found", username)
	}
	return member.Result.Content.UserID, nil
}

// CreateSubmission uploads one submission as multipart form data.
func (c *Client) CreateSubmission(ctx context.Context, payload SubmissionPayload) (*Submission, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := [][2]string{
		{"memberId", strconv.FormatInt(payload.MemberID, 10)},
		{"challengeId", payload.ChallengeID},
		{"type", payload.Type},
	}
	for _, f := range fields {
		if err := form.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f[0], err)
		}
	}
	part, err := form.CreateFormFile("submission", payload.Submission.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	if _, err := part.Write(payload.Submission.Data); err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submissionsURL(), bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	res, err := c.send(c.upload, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var created Submission
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created submission: %w", err)
	}
	return &created, nil
}

// SearchSubmissions fetches one page of submissions matching q.
func (c *Client) SearchSubmissions(ctx context.Context, q SearchQuery) (*SubmissionPage, error) {
	values := url.Values{}
	if q.ChallengeID != "" {
		values.Set("challengeId", q.ChallengeID)
	}
	if q.MemberID != 0 {
		values.Set("memberId", strconv.FormatInt(q.MemberID, 10))
	}
	if q.LegacySubmissionID != "" {
		values.Set("legacySubmissionId", q.LegacySubmissionID)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("perPage", strconv.Itoa(q.PerPage))
	}

	endpoint := c.submissionsURL()
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var submissions []Submission
	header, err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &submissions)
	if err != nil {
		return nil, err
	}

	total, _ := strconv.Atoi(header.Get("X-Total"))
	return &SubmissionPage{Submissions: submissions, Total: total}, nil
}

// GetSubmission fetches a single submission.
func (c *Client) GetSubmission(ctx context.Context, submissionID string) (*Submission, error) {
	var submission Submission
	if _, err := c.doJSON(ctx, http.MethodGet, c.submissionURL(submissionID), nil, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// DownloadSubmission streams the submission file.
func (c *Client) DownloadSubmission(ctx context.Context, submissionID string) (*Download, error) {
	return c.download(ctx, c.submissionURL(submissionID)+"/download")
}

// ListArtifacts returns the artifact ids attached to a submission.
func (c *Client) ListArtifacts(ctx context.Context, submissionID string) ([]string, error) {
	var list ArtifactList
	if _, err := c.doJSON(ctx, http.MethodGet, c.submissionURL(submissionID)+"/artifacts", nil, &list); err != nil {
		return nil, err
	}
	return list.Artifacts, nil
}

// DownloadArtifact streams one artifact file.
func (c *Client) DownloadArtifact(ctx context.Context, submissionID, artifactID string) (*Download, error) {
	endpoint := fmt.Sprintf("%s/artifacts/%s/download", c.submissionURL(submissionID), url.PathEscape(artifactID))
	return c.download(ctx, endpoint)
}

func (c *Client) download(ctx context.Context, endpoint string) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &Download{
		Body:               res.Body,
		ContentDisposition: res.Header.Get("Content-Disposition"),
		ContentLength:      res.ContentLength,
	}, nil
}

func (c *Client) submissionsURL() string {
	return c.endpoints.SubmissionAPI + "/submissions"
}

func (c *Client) submissionURL(submissionID string) string {
	return c.submissionsURL() + "/" + url.PathEscape(submissionID)
}
