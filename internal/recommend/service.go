package recommend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/emotion"
	"github.com/seojin-dev/moodshift-backend/internal/platform/apierr"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
)

// Fallback emotion pair used when the user text cannot be embedded: assume
// an anxious current state and steer toward calm.
const (
	FallbackCurrentEmotion = "fear"
	FallbackTargetEmotion  = "calm"
)

// Result is one completed recommendation.
type Result struct {
	CurrentEmotion string           `json:"current_emotion"`
	TargetEmotion  string           `json:"target_emotion"`
	Category       catalog.Category `json:"category"`
	Items          []RankedItem     `json:"items"`
	Degraded       bool             `json:"degraded"`
}

// Service produces emotion-flipping content recommendations.
type Service interface {
	Recommend(ctx context.Context, userText, category string, topK int) (Result, error)
}

type service struct {
	log             *logger.Logger
	emb             Embedder
	index           *emotion.Index
	catalog         catalog.Catalog
	fallbackCurrent string
	fallbackTarget  string
}

// NewService wires the recommender with the default fallback pair. index may
// be nil when the artifacts failed to load at startup; requests then fail
// with 503 until a rebuilt artifact set is deployed.
func NewService(log *logger.Logger, emb Embedder, index *emotion.Index, cat catalog.Catalog) Service {
	svc, _ := NewServiceWithFallback(log, emb, index, cat, FallbackCurrentEmotion, FallbackTargetEmotion)
	return svc
}

// NewServiceWithFallback overrides the emotion pair assumed when the user
// text cannot be embedded. The two labels must differ, otherwise the flip
// would recommend content for the state the user is already in.
func NewServiceWithFallback(log *logger.Logger, emb Embedder, index *emotion.Index, cat catalog.Catalog, fallbackCurrent, fallbackTarget string) (Service, error) {
	if fallbackCurrent == "" || fallbackTarget == "" || fallbackCurrent == fallbackTarget {
		return nil, fmt.Errorf("fallback emotions must be two distinct labels, got %q and %q",
			fallbackCurrent, fallbackTarget)
	}
	return &service{
		log:             log.With("service", "RecommendService"),
		emb:             emb,
		index:           index,
		catalog:         cat,
		fallbackCurrent: fallbackCurrent,
		fallbackTarget:  fallbackTarget,
	}, nil
}

func (s *service) Recommend(ctx context.Context, userText, category string, topK int) (Result, error) {
	// Validate the cheap inputs before spending any oracle calls.
	cat, err := catalog.ParseCategory(category)
	if err != nil {
		return Result{}, apierr.New(http.StatusBadRequest, "invalid_category", err)
	}
	if s.index == nil {
		return Result{}, apierr.New(http.StatusServiceUnavailable, "index_unavailable",
			fmt.Errorf("emotion index not loaded"))
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	res := Result{Category: cat}

	userVec, ok := s.emb.Embed(ctx, userText)
	if !ok {
		res.CurrentEmotion = s.fallbackCurrent
		res.TargetEmotion = s.fallbackTarget
		res.Degraded = true
		s.log.Warn("User text embedding unavailable; using fallback emotion pair",
			"current", res.CurrentEmotion,
			"target", res.TargetEmotion,
		)
	} else {
		near, err := s.index.Nearest(userVec)
		if err != nil {
			// Dimension drift between the artifact and the live embedding
			// model. Treat like an embedding failure.
			s.log.Error("Emotion index query failed; using fallback emotion pair",
				"error", err.Error(),
			)
			res.CurrentEmotion = s.fallbackCurrent
			res.TargetEmotion = s.fallbackTarget
			res.Degraded = true
			userVec = nil
		} else {
			far, _ := s.index.Farthest(userVec)
			res.CurrentEmotion = near.Label
			res.TargetEmotion = far.Label
		}
	}

	pool := s.catalog.Items(res.TargetEmotion, cat)
	if len(pool) == 0 {
		s.log.Warn("No catalog candidates for target emotion",
			"target", res.TargetEmotion,
			"category", string(cat),
		)
		res.Items = []RankedItem{}
		return res, nil
	}

	res.Items = Rank(ctx, s.log, s.emb, userVec, cat, pool, topK)
	if len(userVec) == 0 {
		res.Degraded = true
	}

	s.log.Info("Recommendation produced",
		"current", res.CurrentEmotion,
		"target", res.TargetEmotion,
		"category", string(cat),
		"items", len(res.Items),
		"degraded", res.Degraded,
	)
	return res, nil
}
