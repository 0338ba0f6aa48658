package archive_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/domain/metrics"
	"github.com/secmon-lab/riskatlas/pkg/service/archive"
	"github.com/secmon-lab/riskatlas/pkg/usecase"
)

type memoryWriter struct {
	objects map[string][]byte
	err     error
}

func (m *memoryWriter) WriteObject(ctx context.Context, name string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.objects[name] = data
	return nil
}

func newReport() *usecase.DepartmentReport {
	return &usecase.DepartmentReport{
		Scope:            usecase.Scope{Division: "B2B", Team: "Zeus Ops"},
		GeneratedAt:      time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC),
		NumberOfProducts: 2,
		HasData:          true,
		Summary:          metrics.Summary{TotalAssessments: 3, WeightedRiskScore: 58},
	}
}

func TestArchive_PutDepartmentReport(t *testing.T) {
	w := &memoryWriter{objects: map[string][]byte{}}
	a := archive.New(w)

	name, err := a.PutDepartmentReport(context.Background(), newReport())
	gt.NoError(t, err).Required()
	gt.Value(t, name).Equal("reports/department/b2b/zeus-ops/20240630T120000Z.json")

	var stored usecase.DepartmentReport
	gt.NoError(t, json.Unmarshal(w.objects[name], &stored)).Required()
	gt.Number(t, stored.Summary.WeightedRiskScore).Equal(58)
	gt.Value(t, stored.Scope).Equal(usecase.Scope{Division: "B2B", Team: "Zeus Ops"})
}

func TestArchive_ObjectName(t *testing.T) {
	a := archive.New(&memoryWriter{}, archive.WithPrefix("/ciso/"))

	report := newReport()
	report.Scope = usecase.Scope{}
	gt.Value(t, a.ObjectName(report)).Equal("ciso/department/all/all/20240630T120000Z.json")
}

func TestArchive_WriteFailure(t *testing.T) {
	a := archive.New(&memoryWriter{err: errors.New("denied")})
	_, err := a.PutDepartmentReport(context.Background(), newReport())
	gt.Error(t, err)

	_, err = a.PutDepartmentReport(context.Background(), nil)
	gt.Error(t, err)
}

func TestGCSWriter(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET is not set")
	}

	ctx := context.Background()
	w, err := archive.NewGCSWriter(ctx, bucket)
	gt.NoError(t, err).Required()
	defer func() { gt.NoError(t, w.Close()) }()

	a := archive.New(w, archive.WithPrefix("test/"+time.Now().UTC().Format("20060102150405")))
	_, err = a.PutDepartmentReport(ctx, newReport())
	gt.NoError(t, err)
}
