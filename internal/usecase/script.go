package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

// ScriptUseCase manages the call and message scripts used during outreach.
type ScriptUseCase struct {
	Repo ScriptRepository
}

func NewScriptUseCase(repo ScriptRepository) *ScriptUseCase {
	return &ScriptUseCase{Repo: repo}
}

// List filters by business type substring and language, then blanks the half
// of each script that kind does not ask for.
func (uc *ScriptUseCase) List(ctx context.Context, q ScriptQuery) ([]entity.Script, error) {
	kind, ok := entity.ParseScriptKind(q.Kind)
	if !ok {
		return nil, validationFailed([]ValidationError{{Field: "type", Message: "must be one of [both call message]"}})
	}
	language := strings.ToLower(strings.TrimSpace(q.Language))
	if language != "" && !entity.IsOption(entity.ScriptLanguages, language) {
		return nil, validationFailed([]ValidationError{{Field: "language", Message: "is not a known option"}})
	}

	scripts, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, scriptFailure(err, "list scripts")
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]entity.Script, 0, len(scripts))
	for _, s := range scripts {
		if search != "" && !strings.Contains(strings.ToLower(s.BusinessType), search) {
			continue
		}
		if language != "" && s.Language != language {
			continue
		}
		switch kind {
		case entity.ScriptKindCall:
			s.MessageScript = ""
		case entity.ScriptKindMessage:
			s.ColdCallScript = ""
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *ScriptUseCase) Get(ctx context.Context, id string) (*entity.Script, error) {
	s, err := uc.Repo.Get(ctx, id)
	if err != nil {
		return nil, scriptFailure(err, "read script")
	}
	return s, nil
}

func (uc *ScriptUseCase) Create(ctx context.Context, input ScriptInput) (*entity.Script, error) {
	s, err := scriptFrom(input)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.Add(ctx, s)
	if err != nil {
		logger.Log.WithError(err).Error("❌ could not save script")
		return nil, scriptFailure(err, "save script")
	}
	s.ID = id

	logger.Log.WithField("script_id", id).Info("📝 script created")
	return &s, nil
}

func (uc *ScriptUseCase) Update(ctx context.Context, id string, input ScriptInput) error {
	s, err := scriptFrom(input)
	if err != nil {
		return err
	}

	if err := uc.Repo.Update(ctx, id, s); err != nil {
		logger.Log.WithError(err).WithField("script_id", id).Error("❌ could not update script")
		return scriptFailure(err, "update script")
	}
	return nil
}

// Delete is idempotent, like client removal.
func (uc *ScriptUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Repo.Remove(ctx, id); err != nil {
		logger.Log.WithError(err).WithField("script_id", id).Error("❌ could not delete script")
		return scriptFailure(err, "delete script")
	}
	logger.Log.WithField("script_id", id).Info("🗑️ script deleted")
	return nil
}

// scriptFrom trims, validates and applies the language default.
func scriptFrom(in ScriptInput) (entity.Script, error) {
	in.BusinessType = strings.TrimSpace(in.BusinessType)
	in.ColdCallScript = strings.TrimSpace(in.ColdCallScript)
	in.MessageScript = strings.TrimSpace(in.MessageScript)
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))

	if errs := Validate(in); len(errs) > 0 {
		return entity.Script{}, validationFailed(errs)
	}
	if in.Language == "" {
		in.Language = entity.DefaultScriptLanguage
	}

	return entity.Script{
		BusinessType:   in.BusinessType,
		ColdCallScript: in.ColdCallScript,
		MessageScript:  in.MessageScript,
		Language:       in.Language,
	}, nil
}

func scriptFailure(err error, op string) error {
	if errors.Is(err, entity.ErrScriptNotFound) {
		return &DomainError{Code: CodeScriptNotFound, Message: "script not found"}
	}
	if entity.IsStoreWriteError(err) {
		return &TechnicalError{Code: CodeStoreWrite, Message: op + " failed", Err: err}
	}
	return &TechnicalError{Code: CodeStoreRead, Message: op + " failed", Err: err}
}
