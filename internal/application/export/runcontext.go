package export

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/infrastructure/shopware/model"
)

var (
	ErrLanguageNotConfigured = errors.New("export: channel language not configured remotely")
	ErrRunAborted            = errors.New("export: run aborted")
)

// RunContext carries the per-run state every process receives explicitly:
// the immutable channel configuration, the run being recorded, the
// change-detection watermark, and the remote language table resolved once at
// run start. It is created when a run begins and discarded when it ends.
type RunContext struct {
	Channel *channel.Channel
	Export  *export.Export
	// Watermark is the started_at of the last ended run, nil on the first
	// export of a channel.
	Watermark *time.Time

	languages map[string]model.Language

	mu               sync.Mutex
	customFieldSetID string
}

// NewRunContext resolves the channel's language codes against the remote
// language table. Every configured language must exist remotely; a missing
// one is a configuration fault that aborts the run before any unit starts.
func NewRunContext(ch *channel.Channel, run *export.Export, watermark *time.Time, languages []model.Language) (*RunContext, error) {
	byISO := make(map[string]model.Language, len(languages))
	for _, lang := range languages {
		byISO[lang.ISO] = lang
	}
	for _, code := range ch.AllLanguages() {
		if _, ok := byISO[code]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrLanguageNotConfigured, code)
		}
	}
	return &RunContext{
		Channel:   ch,
		Export:    run,
		Watermark: watermark,
		languages: byISO,
	}, nil
}

// LanguageID returns the remote language id for an ISO code, "" when the
// code is unknown remotely.
func (r *RunContext) LanguageID(code string) string {
	return r.languages[code].ID
}

// DefaultLanguageID is the remote id of the channel's default language.
func (r *RunContext) DefaultLanguageID() string {
	return r.LanguageID(r.Channel.DefaultLanguage)
}

// LanguageIDs returns the remote ids of every exported language, default
// language first.
func (r *RunContext) LanguageIDs() []string {
	codes := r.Channel.AllLanguages()
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, r.LanguageID(code))
	}
	return out
}

// CustomFieldSetID memoizes the remote custom field set id for the run.
// resolve is called at most once; concurrent units share the result.
func (r *RunContext) CustomFieldSetID(resolve func() (string, error)) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.customFieldSetID != "" {
		return r.customFieldSetID, nil
	}
	id, err := resolve()
	if err != nil {
		return "", err
	}
	r.customFieldSetID = id
	return id, nil
}
