// Package servicem8 is a thin read-only client for the ServiceM8 field
// service API: job lookup by the human-facing job number plus the company
// record attached to it. Consumed, never reimplemented.
package servicem8

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrJobNotFound = errors.New("job not found")

type Job struct {
	UUID           string `json:"uuid"`
	JobAddress     string `json:"job_address"`
	GeneratedJobID string `json:"generated_job_id"`
	CompanyUUID    string `json:"company_uuid"`
}

type Company struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type JobData struct {
	Job     Job     `json:"job"`
	Company Company `json:"company"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	// ServiceM8 API keys authenticate as basic auth with "x" as the password.
	cred := base64.StdEncoding.EncodeToString([]byte(c.apiKey + ":x"))
	req.Header.Set("Authorization", "Basic "+cred)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("servicem8 status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// JobByNumber finds a job by its generated job id (the number printed on the
// work order).
func (c *Client) JobByNumber(ctx context.Context, jobNumber string) (*Job, error) {
	filter := url.QueryEscape(fmt.Sprintf("generated_job_id eq '%s'", jobNumber))

	var jobs []Job
	if err := c.get(ctx, "/job.json?%24filter="+filter, &jobs); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrJobNotFound
	}
	return &jobs[0], nil
}

func (c *Client) Company(ctx context.Context, companyUUID string) (*Company, error) {
	var companies []Company
	if err := c.get(ctx, "/company/"+companyUUID+".json", &companies); err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("company %s not found", companyUUID)
	}
	return &companies[0], nil
}

// JobData combines the job and its customer record for the quote builder.
func (c *Client) JobData(ctx context.Context, jobNumber string) (*JobData, error) {
	job, err := c.JobByNumber(ctx, jobNumber)
	if err != nil {
		return nil, err
	}
	company, err := c.Company(ctx, job.CompanyUUID)
	if err != nil {
		return nil, err
	}
	return &JobData{Job: *job, Company: *company}, nil
}
