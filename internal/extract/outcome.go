package extract

import (
	"errors"
	"fmt"
	"strings"
)

// StageStatus is the result of one extraction step.
type StageStatus string

const (
	StatusOK       StageStatus = "ok"
	StatusSkipped  StageStatus = "skipped"
	StatusDegraded StageStatus = "degraded"
	StatusFailed   StageStatus = "failed"
)

func (s StageStatus) rank() int {
	switch s {
	case StatusFailed:
		return 3
	case StatusDegraded:
		return 2
	default:
		return 0
	}
}

// Stage names used in results and log lines.
const (
	StageVisibility  = "visibility"
	StageProbe       = "probe"
	StageTags        = "tags"
	StageFileSize    = "file_size"
	StageAssetUpdate = "asset_update"
	StageLivePhoto   = "live_photo"
	StageLocation    = "location"
	StagePlace       = "place"
	StageRaster      = "raster"
	StageUpsert      = "upsert"
	StageLoad        = "load"
)

// StageOutcome records what happened in one step.
type StageOutcome struct {
	Stage  string
	Status StageStatus
	Detail string
	Err    error
}

// Result is the typed outcome of one extractor run.
type Result struct {
	Operation string
	AssetID   string
	Stages    []StageOutcome
}

func newResult(operation, assetID string) *Result {
	return &Result{Operation: operation, AssetID: assetID}
}

func (r *Result) ok(stage, detail string) {
	r.Stages = append(r.Stages, StageOutcome{Stage: stage, Status: StatusOK, Detail: detail})
}

func (r *Result) skip(stage, detail string) {
	r.Stages = append(r.Stages, StageOutcome{Stage: stage, Status: StatusSkipped, Detail: detail})
}

func (r *Result) degrade(stage string, err error) {
	r.Stages = append(r.Stages, StageOutcome{Stage: stage, Status: StatusDegraded, Err: err})
}

func (r *Result) fail(stage string, err error) {
	r.Stages = append(r.Stages, StageOutcome{Stage: stage, Status: StatusFailed, Err: err})
}

// Status returns failed or degraded when any stage was, skipped when every
// stage was skipped, and ok otherwise.
func (r Result) Status() StageStatus {
	worst := StatusOK
	skipped := 0
	for _, s := range r.Stages {
		if s.Status == StatusSkipped {
			skipped++
			continue
		}
		if s.Status.rank() > worst.rank() {
			worst = s.Status
		}
	}
	if len(r.Stages) > 0 && skipped == len(r.Stages) {
		return StatusSkipped
	}
	return worst
}

// Stage returns the outcome recorded for name.
func (r Result) Stage(name string) (StageOutcome, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageOutcome{}, false
}

// Err joins the errors of failed stages. Degraded stages do not contribute.
func (r Result) Err() error {
	var errs []error
	for _, s := range r.Stages {
		if s.Status == StatusFailed && s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Stage, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Summary renders non-ok stages as "stage=status" pairs for log lines.
func (r Result) Summary() string {
	var parts []string
	for _, s := range r.Stages {
		if s.Status == StatusOK {
			continue
		}
		parts = append(parts, s.Stage+"="+string(s.Status))
	}
	return strings.Join(parts, " ")
}

// degradedErr joins the errors of degraded stages.
func (r Result) degradedErr() error {
	var errs []error
	for _, s := range r.Stages {
		if s.Status == StatusDegraded && s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Stage, s.Err))
		}
	}
	return errors.Join(errs...)
}
