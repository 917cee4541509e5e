package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/AndDavies/rooted-companion/internal"
)

type FileStorage struct {
	profiles         map[string]*internal.CircadianProfile        // userID -> profile
	plans            map[string]map[string]*internal.WellnessPlan // userID -> planDate -> plan
	mu               sync.RWMutex
	profileFile      string
	plansFile        string
	saveProfilesChan chan struct{}
	savePlansChan    chan struct{}
	shutdownChan     chan struct{}
	saveDelay        time.Duration
	logger           internal.Logger
}

func NewFileStorage(profileFile, plansFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		profiles:         make(map[string]*internal.CircadianProfile),
		plans:            make(map[string]map[string]*internal.WellnessPlan),
		profileFile:      profileFile,
		plansFile:        plansFile,
		saveProfilesChan: make(chan struct{}, 1),
		savePlansChan:    make(chan struct{}, 1),
		shutdownChan:     make(chan struct{}),
		saveDelay:        500 * time.Millisecond,
		logger:           logger,
	}

	if err := s.loadProfiles(); err != nil {
		logger.Errorf("storage: failed to load circadian profiles: %v", err)
		return nil, err
	}
	if err := s.loadPlans(); err != nil {
		logger.Errorf("storage: failed to load wellness plans: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveProfilesChan, s.saveProfiles, "circadian profiles")
	go s.saveWorker(s.savePlansChan, s.savePlans, "wellness plans")

	return s, nil
}

func (s *FileStorage) loadProfiles() error {
	file, err := os.Open(s.profileFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var profiles []*internal.CircadianProfile
	if err := json.NewDecoder(file).Decode(&profiles); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return nil
}

func (s *FileStorage) loadPlans() error {
	file, err := os.Open(s.plansFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var plans []*internal.WellnessPlan
	if err := json.NewDecoder(file).Decode(&plans); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range plans {
		if s.plans[p.UserID] == nil {
			s.plans[p.UserID] = make(map[string]*internal.WellnessPlan)
		}
		s.plans[p.UserID][p.PlanDate] = p
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveProfiles() error {
	s.mu.RLock()
	profiles := make([]*internal.CircadianProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.profileFile, profiles)
}

func (s *FileStorage) savePlans() error {
	s.mu.RLock()
	plans := make([]*internal.WellnessPlan, 0)
	for _, byDate := range s.plans {
		for _, p := range byDate {
			plans = append(plans, p)
		}
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.plansFile, plans)
}

// saveWorker debounces save signals so bursts of writes collapse into one
// flush per delay window.
func (s *FileStorage) saveWorker(signal <-chan struct{}, save func() error, what string) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) Close() error {
	close(s.shutdownChan)

	// Flush pending data synchronously on shutdown.
	if err := s.saveProfiles(); err != nil {
		return err
	}
	return s.savePlans()
}

// --- ProfileRepository ---

func (s *FileStorage) SaveProfile(ctx context.Context, profile *internal.CircadianProfile) error {
	s.mu.Lock()
	s.profiles[profile.UserID] = profile
	s.mu.Unlock()

	select {
	case s.saveProfilesChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) GetProfile(ctx context.Context, userID string) (*internal.CircadianProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

// --- PlanRepository ---

func (s *FileStorage) UpsertPlan(ctx context.Context, plan *internal.WellnessPlan) error {
	s.mu.Lock()
	if s.plans[plan.UserID] == nil {
		s.plans[plan.UserID] = make(map[string]*internal.WellnessPlan)
	}
	s.plans[plan.UserID][plan.PlanDate] = plan
	s.mu.Unlock()

	select {
	case s.savePlansChan <- struct{}{}:
	default:
	}
	return nil
}

func (s *FileStorage) GetPlan(ctx context.Context, userID, planDate string) (*internal.WellnessPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDate, ok := s.plans[userID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	p, ok := byDate[planDate]
	if !ok {
		return nil, ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

// --- Compile-time assertions ---
var _ ProfileRepository = (*FileStorage)(nil)
var _ PlanRepository = (*FileStorage)(nil)
