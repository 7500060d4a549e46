package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xavierca1/clientbook/internal/entity"
)

const ScriptsCollection = "scripts"

const (
	FieldColdCallScript = "coldCallScript"
	FieldMessageScript  = "messageScript"
	FieldLanguage       = "language"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
)

type ScriptRepository struct {
	store entity.RecordStore
	now   func() time.Time
}

func NewScriptRepository(store entity.RecordStore) *ScriptRepository {
	return &ScriptRepository{store: store, now: time.Now}
}

// List returns every script ordered by business type.
func (r *ScriptRepository) List(ctx context.Context) ([]entity.Script, error) {
	raw, err := r.store.Load(ctx, ScriptsCollection)
	if err != nil {
		return nil, fmt.Errorf("load scripts: %w", err)
	}

	scripts := make([]entity.Script, 0, len(raw))
	for id, fields := range raw {
		if fields == nil {
			continue
		}
		scripts = append(scripts, DecodeScript(id, fields))
	}
	sort.Slice(scripts, func(i, j int) bool {
		a, b := strings.ToLower(scripts[i].BusinessType), strings.ToLower(scripts[j].BusinessType)
		if a != b {
			return a < b
		}
		return scripts[i].ID < scripts[j].ID
	})
	return scripts, nil
}

func (r *ScriptRepository) Get(ctx context.Context, id string) (*entity.Script, error) {
	fields, err := r.store.Get(ctx, ScriptsCollection, id)
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entity.ErrScriptNotFound, id)
		}
		return nil, fmt.Errorf("read script %s: %w", id, err)
	}
	s := DecodeScript(id, fields)
	return &s, nil
}

func (r *ScriptRepository) Add(ctx context.Context, s entity.Script) (string, error) {
	now := r.now()
	s.CreatedAt = &now
	s.UpdatedAt = nil

	id, err := r.store.Push(ctx, ScriptsCollection, EncodeScript(s))
	if err != nil {
		return "", &entity.StoreWriteError{Op: "add-script", Err: err}
	}
	return id, nil
}

// Update replaces the editable fields and stamps updatedAt; createdAt is kept.
func (r *ScriptRepository) Update(ctx context.Context, id string, s entity.Script) error {
	now := r.now()
	s.CreatedAt = nil
	s.UpdatedAt = &now

	err := r.store.Update(ctx, ScriptsCollection, id, EncodeScript(s))
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrRecordNotFound) {
		err = fmt.Errorf("%w: %s", entity.ErrScriptNotFound, id)
	}
	return &entity.StoreWriteError{Op: "update-script", ID: id, Err: err}
}

func (r *ScriptRepository) Remove(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, ScriptsCollection, id); err != nil {
		return &entity.StoreWriteError{Op: "remove-script", ID: id, Err: err}
	}
	return nil
}

// DecodeScript tolerates missing fields; records saved before languages existed read as english.
func DecodeScript(id string, f entity.Fields) entity.Script {
	s := entity.Script{
		ID:             id,
		BusinessType:   asString(f[FieldBusinessType]),
		ColdCallScript: asString(f[FieldColdCallScript]),
		MessageScript:  asString(f[FieldMessageScript]),
		Language:       strings.ToLower(strings.TrimSpace(asString(f[FieldLanguage]))),
	}
	if s.Language == "" {
		s.Language = entity.DefaultScriptLanguage
	}
	if t, ok := ParseTime(f[FieldCreatedAt]); ok {
		s.CreatedAt = &t
	}
	if t, ok := ParseTime(f[FieldUpdatedAt]); ok {
		s.UpdatedAt = &t
	}
	return s
}

func EncodeScript(s entity.Script) entity.Fields {
	f := entity.Fields{
		FieldBusinessType:   s.BusinessType,
		FieldColdCallScript: s.ColdCallScript,
		FieldMessageScript:  s.MessageScript,
		FieldLanguage:       s.Language,
	}
	if s.CreatedAt != nil {
		f[FieldCreatedAt] = FormatTime(*s.CreatedAt)
	}
	if s.UpdatedAt != nil {
		f[FieldUpdatedAt] = FormatTime(*s.UpdatedAt)
	}
	return f
}
