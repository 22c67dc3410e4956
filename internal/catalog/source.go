package catalog

import (
	"context"

	"github.com/shaiso/flowmodeler/internal/domain"
)

// Source — источник содержимого каталога для Reloader.
type Source interface {
	// Name — имя источника для логов и метрик: "file", "postgres", "example".
	Name() string

	// Load загружает каталог целиком.
	Load(ctx context.Context) (*Memory, error)
}

// FileSource читает каталог из YAML/JSON файла.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file" }

func (s FileSource) Load(_ context.Context) (*Memory, error) {
	return LoadFile(s.Path)
}

// FlowLister — хранилище, умеющее вернуть все flows (repo.FlowRepo).
type FlowLister interface {
	List(ctx context.Context) ([]*domain.Flow, error)
}

// RepoSource читает каталог из БД.
type RepoSource struct {
	Repo FlowLister
}

func (s RepoSource) Name() string { return "postgres" }

func (s RepoSource) Load(ctx context.Context) (*Memory, error) {
	flows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Flow, len(flows))
	for _, f := range flows {
		byID[f.ID] = f
	}
	return NewMemory(byID), nil
}

// StaticSource всегда возвращает один и тот же каталог.
type StaticSource struct {
	Catalog *Memory
}

func (s StaticSource) Name() string { return "example" }

func (s StaticSource) Load(_ context.Context) (*Memory, error) {
	return s.Catalog, nil
}
