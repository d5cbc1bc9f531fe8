package cache

import (
	"fmt"
	"strconv"
	"time"
)

const (
	PopularGenerationKey = "popular:generation"
	PopularKeyPrefix     = "popular:v%d:genre:%s:year:%s:limit:%s"
)

// PopularTTL is used when no TTL is configured.
const PopularTTL = time.Minute

func optional[T int | uint](v *T) string {
	if v == nil {
		return "all"
	}
	return strconv.FormatInt(int64(*v), 10)
}

// PopularKey returns the key of one popular-list query within a cache generation.
func PopularKey(generation int64, genreID *uint, year *int, limit *int) string {
	return fmt.Sprintf(PopularKeyPrefix, generation, optional(genreID), optional(year), optional(limit))
}
