// Package cli implements the aigov command line tool.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"ai-governance/internal/apiclient"
	"ai-governance/internal/domain"
	"ai-governance/internal/dto"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const (
	tokenFileName = ".ai_governance_token"
	apiURLEnv     = "AIGOV_API_URL"
)

var errNotLoggedIn = errors.New("not authenticated, run 'aigov login' first")

// CLI holds the I/O streams and locations used by the commands.
type CLI struct {
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	TokenPath string
	BaseURL   string

	reader *bufio.Reader
}

// New returns a CLI wired to the process streams and environment.
func New() *CLI {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	baseURL := os.Getenv(apiURLEnv)
	if baseURL == "" {
		baseURL = apiclient.DefaultBaseURL
	}
	return &CLI{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		TokenPath: filepath.Join(home, tokenFileName),
		BaseURL:   baseURL,
	}
}

// Run executes args (without the program name) and returns the exit code.
func (c *CLI) Run(args []string) int {
	if len(args) == 0 {
		c.printUsage()
		return 1
	}

	var err error
	switch args[0] {
	case "login":
		err = c.login(args[1:])
	case "logout":
		err = c.logout()
	case "list":
		err = c.list()
	case "create":
		err = c.create(args[1:])
	case "show":
		err = c.show(args[1:])
	case "report":
		err = c.report(args[1:])
	case "export":
		err = c.export(args[1:])
	case "help", "--help", "-h":
		c.printUsage()
		return 0
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n\n", args[0])
		c.printUsage()
		return 1
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		if apiclient.IsUnauthorized(err) && args[0] != "login" {
			err = fmt.Errorf("%w (session expired? run 'aigov login')", err)
		}
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *CLI) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.Err)
	return fs
}

func (c *CLI) prompt(label string) (string, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	fmt.Fprintf(c.Out, "%s: ", label)
	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when In is a terminal. Piped input falls
// back to a plain line read.
func (c *CLI) promptSecret(label string) (string, error) {
	f, ok := c.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.prompt(label)
	}
	fmt.Fprintf(c.Out, "%s: ", label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(c.Out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func (c *CLI) storedToken() (string, error) {
	data, err := os.ReadFile(c.TokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

func (c *CLI) client() (*apiclient.Client, error) {
	token, err := c.storedToken()
	if err != nil {
		return nil, err
	}
	return apiclient.New(c.BaseURL, token), nil
}

func (c *CLI) login(args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = c.prompt("Email"); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = c.promptSecret("Password"); err != nil {
			return err
		}
	}

	token, err := apiclient.New(c.BaseURL, "").Login(*email, *password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := os.WriteFile(c.TokenPath, []byte(token.AccessToken), 0o600); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Fprintln(c.Out, "Successfully logged in!")
	return nil
}

func (c *CLI) logout() error {
	if err := os.Remove(c.TokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Fprintln(c.Out, "Successfully logged out!")
	return nil
}

func (c *CLI) list() error {
	client, err := c.client()
	if err != nil {
		return err
	}
	assessments, err := client.ListAssessments()
	if err != nil {
		return fmt.Errorf("failed to list assessments: %w", err)
	}
	if len(assessments) == 0 {
		fmt.Fprintln(c.Out, "No assessments found.")
		return nil
	}

	w := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tCREATED")
	for _, a := range assessments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.Status, a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (c *CLI) create(args []string) error {
	fs := c.flags("create")
	title := fs.String("title", "", "assessment title")
	description := fs.String("description", "", "assessment description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := c.client()
	if err != nil {
		return err
	}
	if *title == "" {
		if *title, err = c.prompt("Title"); err != nil {
			return err
		}
	}

	a, err := client.CreateAssessment(*title, *description)
	if err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	fmt.Fprintf(c.Out, "Created assessment %s: %s\n", a.ID, a.Title)
	return nil
}

func assessmentID(args []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, errors.New("assessment id is required")
	}
	return args[0], args[1:], nil
}

// show fetches the assessment and its summary concurrently.
func (c *CLI) show(args []string) error {
	id, _, err := assessmentID(args)
	if err != nil {
		return err
	}
	client, err := c.client()
	if err != nil {
		return err
	}

	var (
		a       *dto.AssessmentResponse
		summary *dto.AssessmentSummaryResponse
		g       errgroup.Group
	)
	g.Go(func() error {
		var err error
		a, err = client.GetAssessment(id)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = client.GetSummary(id)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to get assessment: %w", err)
	}

	fmt.Fprintf(c.Out, "Assessment %s\n", a.ID)
	fmt.Fprintf(c.Out, "Title:   %s\n", a.Title)
	fmt.Fprintf(c.Out, "Status:  %s\n", a.Status)
	fmt.Fprintf(c.Out, "Created: %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
	if a.Description != "" {
		fmt.Fprintf(c.Out, "Description: %s\n", a.Description)
	}
	fmt.Fprintf(c.Out, "Results: %d / %d categories completed\n", len(a.Results), domain.CategoryCount)
	if len(a.Results) > 0 {
		fmt.Fprintf(c.Out, "Overall: %d (%s)\n", summary.OverallScore, titleCase(summary.OverallMaturity))
	}
	return nil
}

func (c *CLI) report(args []string) error {
	id, _, err := assessmentID(args)
	if err != nil {
		return err
	}
	client, err := c.client()
	if err != nil {
		return err
	}
	summary, err := client.GetSummary(id)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	fmt.Fprintf(c.Out, "Assessment Report: %s\n\n", summary.Assessment.Title)
	fmt.Fprintf(c.Out, "Overall Score:    %d\n", summary.OverallScore)
	fmt.Fprintf(c.Out, "Overall Maturity: %s\n", titleCase(summary.OverallMaturity))
	if len(summary.CategoryScores) == 0 {
		return nil
	}

	fmt.Fprintln(c.Out)
	w := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSCORE")
	for _, category := range domain.AllCategories() {
		if score, ok := summary.CategoryScores[string(category)]; ok {
			fmt.Fprintf(w, "%s\t%d\n", category.Title(), score)
		}
	}
	return w.Flush()
}

func (c *CLI) export(args []string) error {
	id, rest, err := assessmentID(args)
	if err != nil {
		return err
	}
	fs := c.flags("export")
	format := fs.String("format", "csv", "export format (csv or pdf)")
	output := fs.String("output", "", "output file path")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	*format = strings.ToLower(*format)
	if *format != "csv" && *format != "pdf" {
		return fmt.Errorf("invalid format: %s, use 'csv' or 'pdf'", *format)
	}
	if *output == "" {
		*output = fmt.Sprintf("assessment_%s.%s", id, *format)
	}

	client, err := c.client()
	if err != nil {
		return err
	}
	data, err := client.Export(id, *format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Fprintf(c.Out, "Exported to %s\n", *output)
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c *CLI) printUsage() {
	fmt.Fprint(c.Err, `AI Governance Assessor CLI

Usage:
  aigov login [--email E] [--password P]   Log in and store the access token
  aigov logout                             Remove the stored token
  aigov list                               List your assessments
  aigov create --title T [--description D] Create an assessment
  aigov show <id>                          Show an assessment
  aigov report <id>                        Show the score summary
  aigov export <id> [--format csv|pdf] [--output FILE]

Environment:
  AIGOV_API_URL  API base URL (default http://localhost:8080/api)
`)
}
