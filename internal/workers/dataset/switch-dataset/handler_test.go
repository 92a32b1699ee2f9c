package switchdataset

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-builder/internal/common/errors"
	"campaign-builder/internal/common/logger"
	"campaign-builder/internal/dataset"
	"campaign-builder/internal/store"
)

type recordingFailer struct {
	errs []error
}

func (r *recordingFailer) HandleJobError(_ context.Context, _ worker.JobClient, _ entities.Job, err error) {
	r.errs = append(r.errs, err)
}

func setup(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	manager := dataset.NewManager(dataset.Bundled(), store.NewMemoryStore(), dataset.DefaultName, log)
	return NewHandler(&Config{Timeout: 5 * time.Second}, manager, errors.NewErrorHandler(log), log)
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		steps      []string
		wantSwitch bool
		wantActive string
		wantCode   errors.ErrorCode
	}{
		{"switch to bundled dataset", []string{"segment-fintech"}, true, "segment-fintech", ""},
		{"unknown dataset keeps the default", []string{"segment-missing"}, false, "segment-saas", errors.ErrCodeDatasetLoadFailed},
		{"failed switch keeps the previous choice", []string{"segment-fintech", "segment-missing"}, false, "segment-fintech", errors.ErrCodeDatasetLoadFailed},
		{"switch back", []string{"segment-fintech", "segment-saas"}, true, "segment-saas", ""},
		{"empty name is rejected", []string{""}, false, "segment-saas", errors.ErrCodeDatasetNotFound},
		{"path traversal is rejected", []string{"../datasets"}, false, "segment-saas", errors.ErrCodeDatasetLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)
			var out *Output
			for _, name := range tt.steps {
				out = h.Execute(context.Background(), &Input{DatasetName: name})
			}
			assert.Equal(t, tt.wantSwitch, out.Switched)
			assert.Equal(t, tt.wantActive, out.ActiveDataset)
			assert.Equal(t, string(tt.wantCode), out.ErrorCode)
			if tt.wantSwitch {
				assert.Empty(t, out.Reason)
			} else {
				assert.NotEmpty(t, out.Reason)
			}
		})
	}
}

func TestHandler_InvalidBundleReportsValidationErrors(t *testing.T) {
	files := fstest.MapFS{
		"broken/config.json":    {Data: []byte(`{"name":"broken"}`)},
		"broken/companies.json": {Data: []byte(`{"companies":[{"id":"c1","name":"Acme"}]}`)},
		"broken/agents.json":    {Data: []byte(`{"categories":[]}`)},
		"broken/personas.json":  {Data: []byte(`{"personaCategories":{},"personas":[]}`)},
		"broken/results.json":   {Data: []byte(`{"results":{}}`)},
	}
	log := logger.NewTestLogger(t)
	manager := dataset.NewManager(dataset.NewFSSource(files), store.NewMemoryStore(), "broken", log)
	h := NewHandler(&Config{Timeout: 5 * time.Second}, manager, errors.NewErrorHandler(log), log)

	out := h.Execute(context.Background(), &Input{DatasetName: "broken"})

	assert.False(t, out.Switched)
	assert.Equal(t, string(errors.ErrCodeDatasetInvalid), out.ErrorCode)
	assert.Contains(t, out.Reason, "version")
}

func TestHandler_HandleFailsOnUnparseableVariables(t *testing.T) {
	log := logger.NewTestLogger(t)
	failer := &recordingFailer{}
	manager := dataset.NewManager(dataset.Bundled(), store.NewMemoryStore(), dataset.DefaultName, log)
	h := NewHandler(LoadConfig(), manager, failer, log)

	err := h.Handle(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7, Variables: `{"datasetName":`}})

	require.Len(t, failer.errs, 1)
	assert.Same(t, failer.errs[0], err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInputParsingFailed))
}
