package cli_test

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/cli"
)

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig("test")
	gt.Array(t, cfg.Collections).Length(1)

	col := cfg.Collections[0]
	gt.Value(t, col.Name).Equal("test_risk_assessments")
	gt.Array(t, col.Indexes).Length(1)
	gt.Value(t, col.Indexes[0].Fields).Equal([]fireconf.IndexField{
		{Path: "service_id", Order: fireconf.OrderAscending},
		{Path: "created_at", Order: fireconf.OrderAscending},
	})
}
