package storage

import "github.com/AndDavies/rooted-companion/internal"

func NewFileRepositories(profileFile, plansFile string, logger internal.Logger) (ProfileRepository, PlanRepository, error) {
	storage, err := NewFileStorage(profileFile, plansFile, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage, storage, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (ProfileRepository, PlanRepository, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage, storage, nil
}
