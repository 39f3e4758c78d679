// Package apiclient is a thin HTTP client for the assessment API.
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-governance/internal/dto"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	defaultTimeout = 30 * time.Second
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == fiber.StatusUnauthorized
}

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// New creates a client. token may be empty for unauthenticated calls.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: defaultTimeout,
	}
}

func (c *Client) Login(email, password string) (*dto.TokenResponse, error) {
	var out dto.TokenResponse
	if err := c.doJSON(fiber.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAssessments() ([]dto.AssessmentResponse, error) {
	var out []dto.AssessmentResponse
	if err := c.doJSON(fiber.MethodGet, "/assessments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAssessment(title, description string) (*dto.AssessmentResponse, error) {
	var out dto.AssessmentResponse
	req := dto.CreateAssessmentRequest{Title: title, Description: description}
	if err := c.doJSON(fiber.MethodPost, "/assessments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAssessment(id string) (*dto.AssessmentResponse, error) {
	var out dto.AssessmentResponse
	if err := c.doJSON(fiber.MethodGet, "/assessments/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSummary(id string) (*dto.AssessmentSummaryResponse, error) {
	var out dto.AssessmentSummaryResponse
	if err := c.doJSON(fiber.MethodGet, "/assessments/"+id+"/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export downloads the report of an assessment. format is "csv" or "pdf".
func (c *Client) Export(id, format string) ([]byte, error) {
	switch format {
	case "csv", "pdf":
	default:
		return nil, fmt.Errorf("invalid format %q, use csv or pdf", format)
	}
	return c.do(fiber.MethodGet, "/assessments/"+id+"/export/"+format, nil)
}

func (c *Client) doJSON(method, path string, in, out interface{}) error {
	body, err := c.do(method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(method, path string, in interface{}) ([]byte, error) {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	agent.Timeout(c.timeout)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if in != nil {
		agent.JSON(in)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("build request: %w", err)
	}

	// Bytes releases the agent.
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status >= fiber.StatusBadRequest {
		apiErr := &APIError{Status: status}
		_ = json.Unmarshal(body, apiErr)
		apiErr.Status = status
		return nil, apiErr
	}
	return body, nil
}
