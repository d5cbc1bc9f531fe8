package service

import (
	"context"

	"filmorate/internal/models"
	"filmorate/internal/observability"
	"filmorate/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// RecommendationService recommends films liked by a user's most similar users.
type RecommendationService struct {
	store RelationStore
}

// NewRecommendationService returns a new RecommendationService.
func NewRecommendationService(store RelationStore) *RecommendationService {
	return &RecommendationService{store: store}
}

// Recommend returns the films liked by any of the user's most similar users that
// the user has not liked, ordered by film id. Callers must not rely on the order.
func (s *RecommendationService) Recommend(ctx context.Context, userID uint) (_ []models.Film, err error) {
	span, ctx := observability.NewSpan(ctx, "RecommendationService.Recommend", observability.UserAttr(userID))
	defer func() { span.SetError(err); span.End() }()
	defer observability.TrackOperation("recommend")()

	var films []models.Film
	err = s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		similar, own, err := mostSimilar(ctx, r, userID)
		if err != nil {
			return err
		}

		candidates := newIDSet()
		for _, other := range similar {
			liked, err := r.Likes.FilmsLikedBy(ctx, other)
			if err != nil {
				return err
			}
			for _, filmID := range liked {
				if !own.has(filmID) {
					candidates[filmID] = struct{}{}
				}
			}
		}

		films, err = withLikeCounts(ctx, r, candidates.sorted())
		return err
	})
	if err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int("recommendations.count", len(films)))
	return films, nil
}
