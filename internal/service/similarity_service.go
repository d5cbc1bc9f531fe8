package service

import (
	"context"

	"filmorate/internal/observability"
	"filmorate/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// SimilarityService finds the users whose likes overlap most with a given user's.
type SimilarityService struct {
	store RelationStore
}

// NewSimilarityService returns a new SimilarityService.
func NewSimilarityService(store RelationStore) *SimilarityService {
	return &SimilarityService{store: store}
}

// MostSimilarUsers returns every other user sharing the maximal number of liked
// films with userID, ascending by id. Ties are all kept; users sharing nothing
// never qualify. A user without likes has no similar users.
func (s *SimilarityService) MostSimilarUsers(ctx context.Context, userID uint) (_ []uint, err error) {
	span, ctx := observability.NewSpan(ctx, "SimilarityService.MostSimilarUsers", observability.UserAttr(userID))
	defer func() { span.SetError(err); span.End() }()
	defer observability.TrackOperation("most_similar_users")()

	var similar []uint
	err = s.store.ReadLikes(ctx, func(r repository.Repositories) error {
		if err := requireUser(ctx, r, userID); err != nil {
			return err
		}
		var err error
		similar, _, err = mostSimilar(ctx, r, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int("similar.count", len(similar)))
	return similar, nil
}

// mostSimilar computes the similar set and also returns the target's own likes.
// The caller holds the like relation.
func mostSimilar(ctx context.Context, r repository.Repositories, userID uint) ([]uint, idSet, error) {
	liked, err := r.Likes.FilmsLikedBy(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	own := newIDSet(liked...)
	if len(liked) == 0 {
		return []uint{}, own, nil
	}

	overlaps, err := r.Likes.OverlapCounts(ctx, userID, liked)
	if err != nil {
		return nil, nil, err
	}

	best := 0
	top := newIDSet()
	for id, overlap := range overlaps {
		switch {
		case overlap <= 0:
			continue
		case overlap > best:
			best = overlap
			top = newIDSet(id)
		case overlap == best:
			top[id] = struct{}{}
		}
	}
	return top.sorted(), own, nil
}
