package services

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/printvault/printvault_api/dto"
)

// RateLimitService enforces the per-identity download budget: a fixed
// request count over a rolling window, with a smaller ceiling for anonymous
// identities than for authenticated ones. The bucket store is injectable so
// a multi-instance deployment can swap the process-local map for redis
// without touching the decision logic.
type RateLimitService struct {
	context.DefaultService

	store BucketStore

	anonLimit     int
	authLimit     int
	window        time.Duration
	storeKind     string
	sweepInterval time.Duration
	sweepGrace    time.Duration

	closed chan struct{}
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const (
	defaultAnonLimit = 5
	defaultAuthLimit = 20
	defaultWindow    = time.Hour
)

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.anonLimit = envInt("DOWNLOAD_LIMIT_ANON", defaultAnonLimit)
	svc.authLimit = envInt("DOWNLOAD_LIMIT_AUTH", defaultAuthLimit)
	svc.window = envDuration("DOWNLOAD_WINDOW", defaultWindow)
	svc.sweepInterval = envDuration("RATE_LIMIT_SWEEP_INTERVAL", time.Hour)
	// Stale buckets linger for two windows before the janitor drops them.
	svc.sweepGrace = 2 * svc.window

	svc.storeKind = os.Getenv("RATE_LIMIT_STORE")
	if svc.storeKind == "" {
		svc.storeKind = "memory"
	}

	svc.closed = make(chan struct{})

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	if svc.storeKind == "redis" {
		redisSvc := svc.Service(REDIS_SVC).(*RedisService)
		svc.store = NewRedisBucketStore(redisSvc.GetClient())
		log.Info("Download rate limiter using redis bucket store")
		return nil
	}

	memStore := NewMemoryBucketStore()
	svc.store = memStore
	go svc.startSweepJob(memStore)
	return nil
}

func (svc *RateLimitService) Shutdown() {
	close(svc.closed)
}

// LimitFor returns the budget ceiling for an identity class.
func (svc *RateLimitService) LimitFor(authenticated bool) int {
	if authenticated {
		return svc.authLimit
	}
	return svc.anonLimit
}

// Check consumes one slot for the identity and reports the decision. The
// check-and-increment is atomic inside the store; callers never observe a
// torn count.
func (svc *RateLimitService) Check(identity string, authenticated bool) (dto.RateLimitInfo, error) {
	return svc.store.Consume(identity, svc.LimitFor(authenticated), svc.window)
}

func (svc *RateLimitService) Reset(identity string) error {
	return svc.store.Remove(identity)
}

func (svc *RateLimitService) Stats() dto.DownloadsStatsResponse {
	return dto.DownloadsStatsResponse{
		AnonymousLimit:     svc.anonLimit,
		AuthenticatedLimit: svc.authLimit,
		Window:             svc.window.String(),
		Store:              svc.storeKind,
		TrackedIdentities:  svc.store.Len(),
	}
}

func (svc *RateLimitService) startSweepJob(store *MemoryBucketStore) {
	ticker := time.NewTicker(svc.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := store.Sweep(svc.sweepGrace)
			if removed > 0 {
				log.Printf("Rate limit sweep removed %d stale buckets", removed)
			}
		case <-svc.closed:
			return
		}
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid value for %s: %s", key, v)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("Invalid duration for %s: %s", key, v)
	}
	return fallback
}

// ==================== BUCKET STORES ====================

// BucketStore is the atomic check-and-increment behind the limiter. Consume
// admits or denies one attempt and returns the remaining budget and window
// reset time. Len reports tracked identities, or -1 when the store cannot
// count them cheaply.
type BucketStore interface {
	Consume(identity string, limit int, window time.Duration) (dto.RateLimitInfo, error)
	Remove(identity string) error
	Len() int
}

type memoryBucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// MemoryBucketStore is the default process-local store. The outer lock only
// guards map access; each bucket serializes its own check-and-increment, so
// requests from different identities never contend.
type MemoryBucketStore struct {
	mu      sync.RWMutex
	buckets map[string]*memoryBucket

	now func() time.Time
}

func NewMemoryBucketStore() *MemoryBucketStore {
	return &MemoryBucketStore{
		buckets: make(map[string]*memoryBucket),
		now:     time.Now,
	}
}

func (s *MemoryBucketStore) bucket(identity string) *memoryBucket {
	s.mu.RLock()
	b, ok := s.buckets[identity]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buckets[identity]; ok {
		return b
	}
	b = &memoryBucket{}
	s.buckets[identity] = b
	return b
}

func (s *MemoryBucketStore) Consume(identity string, limit int, window time.Duration) (dto.RateLimitInfo, error) {
	b := s.bucket(identity)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := s.now()

	// Fresh identity, or the window has passed (a backward wall-clock jump
	// also lands here and simply opens a new window early).
	if b.resetAt.IsZero() || now.After(b.resetAt) {
		b.count = 1
		b.resetAt = now.Add(window)
		return dto.RateLimitInfo{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetTime: b.resetAt,
		}, nil
	}

	if b.count >= limit {
		return dto.RateLimitInfo{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetTime: b.resetAt,
		}, nil
	}

	b.count++
	return dto.RateLimitInfo{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - b.count,
		ResetTime: b.resetAt,
	}, nil
}

func (s *MemoryBucketStore) Remove(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, identity)
	return nil
}

func (s *MemoryBucketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

// Sweep drops buckets whose window ended more than grace ago. Anonymous
// identities are unbounded in cardinality, so without this the map grows
// for the life of the process.
func (s *MemoryBucketStore) Sweep(grace time.Duration) int {
	cutoff := s.now().Add(-grace)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for identity, b := range s.buckets {
		b.mu.Lock()
		stale := !b.resetAt.IsZero() && b.resetAt.Before(cutoff)
		b.mu.Unlock()

		if stale {
			delete(s.buckets, identity)
			removed++
		}
	}
	return removed
}
