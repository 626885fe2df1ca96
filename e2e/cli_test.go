package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projalloc/projalloc/internal/api"
	"github.com/projalloc/projalloc/internal/factory"
	"github.com/projalloc/projalloc/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "projalloc-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/projalloc")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) withTokenFile(t *testing.T) *cliRunner {
	t.Helper()
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	logger := testutil.NopLogger()

	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		IdentityService:      app.IdentityService,
		CatalogController:    app.CatalogController,
		LedgerController:     app.LedgerController,
		AssignmentController: app.AssignmentController,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	User struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user"`
	SessionToken string `json:"session_token"`
}

type projectResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	OwnerID      string `json:"owner_id"`
	Availability string `json:"availability"`
}

type registrationResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	StudentID string `json:"student_id"`
	State     string `json:"state"`
}

type batchReportResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Outcomes []struct {
		ProjectID string `json:"project_id"`
		Accepted  bool   `json:"accepted"`
		Code      string `json:"code"`
	} `json:"outcomes"`
}

type assignmentResponse struct {
	Registration registrationResponse `json:"registration"`
	Project      projectResponse      `json:"project"`
}

type assignedStatusResponse struct {
	StudentID string `json:"student_id"`
	Assigned  bool   `json:"assigned"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func signup(t *testing.T, cli *cliRunner, username, name, role string) authResponse {
	t.Helper()

	output, err := cli.run("user", "signup",
		"--name", name, "--user", username, "--pass", "password123", "--role", role)
	require.NoError(t, err, "output: %s", output)

	var resp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	return resp
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_UserCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Sign up
	auth := signup(t, cli, "alice", "Alice", "student")
	assert.Equal(t, "Alice", auth.User.Name)
	assert.Equal(t, "student", auth.User.Role)
	assert.NotEmpty(t, auth.SessionToken)

	// Get me (token should be saved in token file)
	output, err := cli.run("user", "me")
	require.NoError(t, err, "output: %s", output)

	var user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, auth.User.ID, user.ID)

	// Change password, then login with the new one
	output, err = cli.run("user", "passwd", "--old", "password123", "--new", "newpass456")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("user", "login", "--user", "alice", "--pass", "newpass456")
	require.NoError(t, err, "output: %s", output)

	// Logout clears the session
	output, err = cli.run("user", "logout")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("user", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")
}

func TestCLI_FullAllocationFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	staffCLI := newCLIRunner(t, ts.addr)
	aliceCLI := staffCLI.withTokenFile(t)
	bobCLI := staffCLI.withTokenFile(t)

	staff := signup(t, staffCLI, "smith", "Dr Smith", "staff")
	alice := signup(t, aliceCLI, "alice", "Alice", "student")
	bob := signup(t, bobCLI, "bob", "Bob", "student")

	// Staff creates two projects
	output, err := staffCLI.runWithToken(staff.SessionToken, "project", "create",
		"--title", "Graph Analytics", "--desc", "Analyse large graphs")
	require.NoError(t, err, "output: %s", output)
	var p1 projectResponse
	require.NoError(t, json.Unmarshal([]byte(output), &p1))
	assert.Equal(t, "open", p1.Availability)

	output, err = staffCLI.runWithToken(staff.SessionToken, "project", "create",
		"--title", "Compilers", "--desc", "Build a compiler")
	require.NoError(t, err, "output: %s", output)
	var p2 projectResponse
	require.NoError(t, json.Unmarshal([]byte(output), &p2))

	// Everyone can list the catalogue
	output, err = aliceCLI.runWithToken(alice.SessionToken, "project", "list")
	require.NoError(t, err, "output: %s", output)
	var projects []projectResponse
	require.NoError(t, json.Unmarshal([]byte(output), &projects))
	assert.Len(t, projects, 2)

	// Both students register interest in the first project
	output, err = aliceCLI.runWithToken(alice.SessionToken, "registration", "create", p1.ID)
	require.NoError(t, err, "output: %s", output)
	var aliceReg registrationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &aliceReg))
	assert.Equal(t, "interested", aliceReg.State)

	output, err = bobCLI.runWithToken(bob.SessionToken, "registration", "create", p1.ID)
	require.NoError(t, err, "output: %s", output)
	var bobReg registrationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bobReg))

	// Staff reviews the ledger for their projects
	output, err = staffCLI.runWithToken(staff.SessionToken, "registration", "owned")
	require.NoError(t, err, "output: %s", output)
	var views []registrationResponse
	require.NoError(t, json.Unmarshal([]byte(output), &views))
	assert.Len(t, views, 2)

	// Staff assigns Alice; the project closes
	output, err = staffCLI.runWithToken(staff.SessionToken, "registration", "assign", aliceReg.ID)
	require.NoError(t, err, "output: %s", output)
	var result assignmentResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "assigned", result.Registration.State)
	assert.Equal(t, "closed", result.Project.Availability)

	// Bob's registration can no longer win
	output, err = staffCLI.runWithToken(staff.SessionToken, "registration", "assign", bobReg.ID)
	assert.Error(t, err)
	assert.Contains(t, output, "PROJECT_CLOSED")

	// Alice shows as assigned, Bob does not
	output, err = staffCLI.runWithToken(staff.SessionToken, "registration", "assigned", alice.User.ID)
	require.NoError(t, err, "output: %s", output)
	var status assignedStatusResponse
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.True(t, status.Assigned)

	output, err = staffCLI.runWithToken(staff.SessionToken, "registration", "assigned", bob.User.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &status))
	assert.False(t, status.Assigned)

	// Retiring the closed project conflicts
	output, err = staffCLI.runWithToken(staff.SessionToken, "project", "retire", p1.ID)
	assert.Error(t, err)
	assert.Contains(t, output, "PROJECT_CLOSED")

	// Retiring the untouched second project succeeds
	output, err = staffCLI.runWithToken(staff.SessionToken, "project", "retire", p2.ID)
	require.NoError(t, err, "output: %s", output)
	var retired projectResponse
	require.NoError(t, json.Unmarshal([]byte(output), &retired))
	assert.Equal(t, "closed", retired.Availability)
}

func TestCLI_BatchRegister(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	staffCLI := newCLIRunner(t, ts.addr)
	studentCLI := staffCLI.withTokenFile(t)

	staff := signup(t, staffCLI, "smith", "Dr Smith", "staff")
	student := signup(t, studentCLI, "alice", "Alice", "student")

	var ids []string
	for _, title := range []string{"One", "Two", "Three"} {
		output, err := staffCLI.runWithToken(staff.SessionToken, "project", "create",
			"--title", title, "--desc", "desc")
		require.NoError(t, err, "output: %s", output)
		var p projectResponse
		require.NoError(t, json.Unmarshal([]byte(output), &p))
		ids = append(ids, p.ID)
	}

	// Retire the middle project before the batch goes in
	output, err := staffCLI.runWithToken(staff.SessionToken, "project", "retire", ids[1])
	require.NoError(t, err, "output: %s", output)

	output, err = studentCLI.runWithToken(student.SessionToken, "registration", "batch", ids[0], ids[1], ids[2])
	require.NoError(t, err, "output: %s", output)

	var report batchReportResponse
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, ids[1], report.Outcomes[1].ProjectID)
	assert.Equal(t, "PROJECT_CLOSED", report.Outcomes[1].Code)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get user without auth
	output, err := cli.run("user", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Student cannot create projects
	student := signup(t, cli, "alice", "Alice", "student")
	output, err = cli.runWithToken(student.SessionToken, "project", "create",
		"--title", "Nope", "--desc", "desc")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_STAFF")

	// Unknown project
	output, err = cli.runWithToken(student.SessionToken, "project", "get", "nonexistent")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
