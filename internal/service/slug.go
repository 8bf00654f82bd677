package service

import (
	"context"
	"fmt"

	"github.com/elanurleylek/robosphere-sub000/internal/lib/utils"
	"github.com/google/uuid"
)

const maxSlugAttempts = 100

type slugChecker func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)

// uniqueSlug returns the first free slug for title: "title", then
// "title-2", "title-3" and so on. exclude is the record being renamed.
func uniqueSlug(ctx context.Context, title string, exclude uuid.UUID, exists slugChecker) (string, error) {
	base := utils.Slugify(title)

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := utils.SlugCandidate(base, n)
		taken, err := exists(ctx, candidate, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}
