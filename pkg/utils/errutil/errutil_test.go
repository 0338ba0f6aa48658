package errutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskatlas/pkg/utils/errutil"
	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
)

func loggerContext(t *testing.T) (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, slog.LevelDebug, logging.FormatJSON)
	gt.NoError(t, err).Required()
	return logging.With(context.Background(), logger), &buf
}

func TestHandle(t *testing.T) {
	ctx, buf := loggerContext(t)

	gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))
	gt.Number(t, buf.Len()).Equal(0)

	base := goerr.New("boom", goerr.V("service_id", "svc-1"))
	gt.Error(t, errutil.Handle(ctx, base, "failed")).Is(base)
	gt.String(t, buf.String()).Contains("svc-1")
}

func TestHandleHTTP(t *testing.T) {
	t.Run("client error message is returned", func(t *testing.T) {
		ctx, _ := loggerContext(t)
		rec := httptest.NewRecorder()
		errutil.HandleHTTP(ctx, rec, errors.New("name is required"), http.StatusBadRequest)

		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
		var body map[string]string
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		gt.Value(t, body["error"]).Equal("name is required")
	})

	t.Run("server error message is hidden", func(t *testing.T) {
		ctx, buf := loggerContext(t)
		rec := httptest.NewRecorder()
		errutil.HandleHTTP(ctx, rec, errors.New("database password leaked"), http.StatusInternalServerError)

		gt.Number(t, rec.Code).Equal(http.StatusInternalServerError)
		gt.Bool(t, bytes.Contains(rec.Body.Bytes(), []byte("password"))).False()
		gt.String(t, buf.String()).Contains("database password leaked")
	})
}
