// Package archive stores generated reports as JSON objects in Cloud Storage.
package archive

import (
	"context"
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
	"github.com/secmon-lab/riskatlas/pkg/utils/safe"
)

// ObjectWriter puts one object into a bucket
type ObjectWriter interface {
	WriteObject(ctx context.Context, name string, data []byte) error
}

// Archive writes reports under a fixed object prefix
type Archive struct {
	writer ObjectWriter
	prefix string
}

type Option func(*Archive)

// WithPrefix sets the object name prefix (default "reports")
func WithPrefix(prefix string) Option {
	return func(a *Archive) {
		a.prefix = strings.Trim(prefix, "/")
	}
}

func New(writer ObjectWriter, opts ...Option) *Archive {
	a := &Archive{
		writer: writer,
		prefix: "reports",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

func segment(s, fallback string) string {
	s = unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallback
	}
	return s
}

// ObjectName returns the name a department report is stored under:
// <prefix>/department/<division>/<team>/<yyyymmddThhmmssZ>.json
func (a *Archive) ObjectName(report *usecase.DepartmentReport) string {
	return path.Join(
		a.prefix,
		"department",
		segment(report.Scope.Division, "all"),
		segment(report.Scope.Team, "all"),
		report.GeneratedAt.UTC().Format("20060102T150405Z")+".json",
	)
}

// PutDepartmentReport stores report as JSON and returns the object name
func (a *Archive) PutDepartmentReport(ctx context.Context, report *usecase.DepartmentReport) (string, error) {
	if report == nil {
		return "", goerr.New("report is nil")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal department report")
	}

	name := a.ObjectName(report)
	if err := a.writer.WriteObject(ctx, name, data); err != nil {
		return "", goerr.Wrap(err, "failed to archive department report", goerr.V("object", name))
	}

	logging.From(ctx).Info("Department report archived", "object", name, "bytes", len(data))
	return name, nil
}

// GCSWriter writes objects to a Cloud Storage bucket
type GCSWriter struct {
	client *storage.Client
	bucket string
}

var _ ObjectWriter = &GCSWriter{}

// NewGCSWriter creates a writer for bucket using application default credentials
func NewGCSWriter(ctx context.Context, bucket string) (*GCSWriter, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &GCSWriter{client: client, bucket: bucket}, nil
}

func (w *GCSWriter) WriteObject(ctx context.Context, name string, data []byte) error {
	writer := w.client.Bucket(w.bucket).Object(name).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		safe.Close(ctx, writer)
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", w.bucket), goerr.V("object", name))
	}
	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer", goerr.V("bucket", w.bucket), goerr.V("object", name))
	}
	return nil
}

// Close closes the underlying client
func (w *GCSWriter) Close() error {
	return w.client.Close()
}
