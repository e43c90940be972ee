package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/courtsync/courtsync/internal/domain/player"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// SourcedPlayerInfo pairs a source name with the biographical record it
// produced.
type SourcedPlayerInfo struct {
	Source string
	Info   RawPlayerInfo
}

// MergedPlayerInfo is the field-level merge across sources. Sources
// records which source supplied each field.
type MergedPlayerInfo struct {
	FirstName string
	LastName  string
	BirthDate *time.Time
	HeightCM  *int
	Position  string
	Sources   map[string]string
}

// MergePlayerInfo merges biographical records in priority order: per
// field, the first source with a non-null (and for strings non-empty)
// value wins. Zero is a valid number and beats missing.
func MergePlayerInfo(sources []SourcedPlayerInfo) (MergedPlayerInfo, error) {
	if len(sources) == 0 {
		return MergedPlayerInfo{}, fmt.Errorf("%w: merge requires at least one source", ErrInvalidInput)
	}

	merged := MergedPlayerInfo{Sources: make(map[string]string, 5)}
	for _, s := range sources {
		if merged.FirstName == "" && s.Info.FirstName != "" {
			merged.FirstName = s.Info.FirstName
			merged.Sources["first_name"] = s.Source
		}
		if merged.LastName == "" && s.Info.LastName != "" {
			merged.LastName = s.Info.LastName
			merged.Sources["last_name"] = s.Source
		}
		if merged.BirthDate == nil && s.Info.BirthDate != nil {
			merged.BirthDate = s.Info.BirthDate
			merged.Sources["birth_date"] = s.Source
		}
		if merged.HeightCM == nil && s.Info.HeightCM != nil {
			merged.HeightCM = s.Info.HeightCM
			merged.Sources["height_cm"] = s.Source
		}
		if merged.Position == "" && s.Info.Position != "" {
			merged.Position = s.Info.Position
			merged.Sources["position"] = s.Source
		}
	}
	return merged, nil
}

// PlayerInfoService fetches biographical data from every adapter the
// player carries an external id for and merges the results, first adapter
// highest priority.
type PlayerInfoService struct {
	adapters []PlayerInfoAdapter
	logger   *logging.Logger
}

func NewPlayerInfoService(adapters []PlayerInfoAdapter, logger *logging.Logger) *PlayerInfoService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerInfoService{
		adapters: adapters,
		logger:   logger.Named("player_info"),
	}
}

// FetchMerged returns the merged biographical record or nil when every
// adapter produced nothing. Per-adapter failures are tolerated and
// skipped.
func (s *PlayerInfoService) FetchMerged(ctx context.Context, subject player.Player) (*MergedPlayerInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerInfoService.FetchMerged")
	defer span.End()

	collected := make([]SourcedPlayerInfo, 0, len(s.adapters))
	for _, adapter := range s.adapters {
		source := adapter.Source()
		externalID, ok := subject.ExternalID(source)
		if !ok {
			continue
		}

		info, err := adapter.GetPlayerInfo(ctx, externalID)
		if err != nil {
			s.logger.WarnContext(ctx, "player info fetch failed, skipping source",
				"source", source, "player_id", subject.ID, "error", err)
			continue
		}
		if info == nil {
			continue
		}
		collected = append(collected, SourcedPlayerInfo{Source: source, Info: *info})
	}

	if len(collected) == 0 {
		return nil, nil
	}
	merged, err := MergePlayerInfo(collected)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// UpdatePlayerFromSources returns the field delta to apply to the
// canonical row, excluding fields whose merged value is null. An empty
// map means nothing to update.
func (s *PlayerInfoService) UpdatePlayerFromSources(ctx context.Context, subject player.Player) (map[string]any, error) {
	merged, err := s.FetchMerged(ctx, subject)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return map[string]any{}, nil
	}

	delta := make(map[string]any, 5)
	if merged.FirstName != "" && merged.FirstName != subject.FirstName {
		delta["first_name"] = merged.FirstName
	}
	if merged.LastName != "" && merged.LastName != subject.LastName {
		delta["last_name"] = merged.LastName
	}
	if merged.BirthDate != nil && (subject.BirthDate == nil || !subject.BirthDate.Equal(*merged.BirthDate)) {
		delta["birth_date"] = *merged.BirthDate
	}
	if merged.HeightCM != nil && (subject.HeightCM == nil || *subject.HeightCM != *merged.HeightCM) {
		delta["height_cm"] = *merged.HeightCM
	}
	if merged.Position != "" && merged.Position != subject.Position {
		delta["position"] = merged.Position
	}
	return delta, nil
}
