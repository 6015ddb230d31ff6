package main

// Score a session file and print the report:
//   go run ./cmd/readiness -in session.json
//   go run ./cmd/readiness -template > session.json

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"readiness-backend/internal/assessment"
	"readiness-backend/internal/bootstrap"
	"readiness-backend/internal/questionnaire"
	"readiness-backend/internal/responses"
	"readiness-backend/internal/shared/config"
	"readiness-backend/internal/shared/util"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("readiness", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "-", "session JSON file, - for stdin")
	subject := fs.String("subject", "", "subject identifier, overrides the file")
	persist := fs.Bool("persist", false, "store the report through the configured sink")
	template := fs.Bool("template", false, "print an unanswered session and exit")
	asJSON := fs.Bool("json", false, "print the full assessment as JSON")
	outDir := fs.String("out-dir", "", "also write the report text into this directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *template {
		if err := writeJSON(stdout, assessment.Request{Responses: questionnaire.Template()}); err != nil {
			fmt.Fprintf(stderr, "write template failed: %v\n", err)
			return 1
		}
		return 0
	}

	req, err := readRequest(*inPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read session failed: %v\n", err)
		return 1
	}
	if s := strings.TrimSpace(*subject); s != "" {
		req.SubjectID = s
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config failed: %v\n", err)
		return 1
	}

	svc, closeFn, err := buildService(ctx, cfg, *persist)
	if err != nil {
		fmt.Fprintf(stderr, "setup failed: %v\n", err)
		return 1
	}
	defer closeFn()

	var out assessment.Assessment
	if *persist {
		out, err = svc.Assess(ctx, req)
	} else {
		out, err = svc.Evaluate(ctx, req)
	}
	if err != nil {
		fmt.Fprintf(stderr, "assessment failed: %v\n", err)
		if errors.Is(err, responses.ErrValidation) || errors.Is(err, responses.ErrInsufficientData) {
			return 3
		}
		return 1
	}

	if *outDir != "" {
		path, err := writeReportFile(*outDir, out)
		if err != nil {
			fmt.Fprintf(stderr, "write report failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "wrote %s\n", path)
	}

	if *asJSON {
		if err := writeJSON(stdout, out); err != nil {
			fmt.Fprintf(stderr, "write assessment failed: %v\n", err)
			return 1
		}
	} else {
		fmt.Fprint(stdout, out.Report)
	}
	if out.ReportID != "" {
		fmt.Fprintf(stderr, "stored report %s at %s\n", out.ReportID, out.StorageKey)
	}
	return 0
}

func buildService(ctx context.Context, cfg config.Config, persist bool) (*assessment.Service, func(), error) {
	if persist {
		app, err := bootstrap.Build(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return app.AssessmentService, func() { app.Close(ctx) }, nil
	}

	engines, err := assessment.NewEngines(cfg.Scoring)
	if err != nil {
		return nil, nil, err
	}
	classifier, err := bootstrap.BuildClassifier(cfg)
	if err != nil {
		return nil, nil, err
	}
	return &assessment.Service{Engines: engines, Classifier: classifier}, func() {}, nil
}

func readRequest(path string, stdin io.Reader) (assessment.Request, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return assessment.Request{}, err
		}
		defer f.Close()
		r = f
	}

	var req assessment.Request
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return assessment.Request{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return req, nil
}

func writeReportFile(dir string, out assessment.Assessment) (string, error) {
	subject := out.SubjectID
	if strings.TrimSpace(subject) == "" {
		subject = util.AnonymousSubject
	}
	name, err := util.SanitizeFileName("readiness_report_" + subject + ".txt")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, []byte(out.Report), 0o644)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
