package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readiness-backend/internal/assessment"
)

const sessionJSON = `{
	"subjectId": "crew-0042",
	"responses": [
		{"question": "p1", "category": "physical", "answer": 5},
		{"question": "m1", "category": "mental", "answer": 3},
		{"question": "certified?", "category": "certification", "answer": "yes"},
		{"question": "incidents?", "category": "behavior", "answer": "no"}
	]
}`

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DOTENV", "0")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SCORING_CONFIG_FILE", "")
}

func TestTemplate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-template"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	var req assessment.Request
	if err := json.Unmarshal(stdout.Bytes(), &req); err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if len(req.Responses) != 21 {
		t.Fatalf("expected 21 template records, got %d", len(req.Responses))
	}
}

func TestScoreFromStdinAndWriteFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-subject", "crew/7", "-out-dir", dir}, strings.NewReader(sessionJSON), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "Readiness Report for crew/7") {
		t.Fatalf("unexpected report:\n%s", stdout.String())
	}

	raw, err := os.ReadFile(filepath.Join(dir, "readiness_report_crew_7.txt"))
	if err != nil {
		t.Fatalf("read report file: %v", err)
	}
	if string(raw) != stdout.String() {
		t.Fatalf("file and stdout differ")
	}
}

func TestScoreFromFileAsJSON(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(sessionJSON), 0o644); err != nil {
		t.Fatalf("write session: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-in", path, "-json"}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	var out assessment.Assessment
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("decode assessment: %v", err)
	}
	if out.Categories == nil || out.SubjectID != "crew-0042" {
		t.Fatalf("unexpected assessment %+v", out)
	}
}

func TestInvalidSessionExitCode(t *testing.T) {
	isolateEnv(t)
	bad := strings.Replace(sessionJSON, `"answer": 5`, `"answer": 9`, 1)

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, strings.NewReader(bad), &stdout, &stderr); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if !strings.Contains(stderr.String(), "responses[0].answer") {
		t.Fatalf("expected indexed validation message, got %q", stderr.String())
	}
}
