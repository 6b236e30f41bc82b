package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yigit/schedulepro/internal/app/models"
	"github.com/yigit/schedulepro/internal/pkg/apperrors"
)

// buildIndex maps each required course key to its offerings in the snapshot.
// A required course with zero offerings in the catalog is a hard error,
// distinct from zero offerings after filtering, which is a normal empty
// outcome handled at search time.
func buildIndex(snapshot *models.CatalogSnapshot, required []string) (map[string][]*models.Offering, error) {
	if snapshot.Empty() {
		return nil, apperrors.ErrCatalogEmpty
	}

	index := make(map[string][]*models.Offering, len(required))
	var missing []string
	for _, key := range required {
		offerings, ok := snapshot.ByCourse[key]
		if !ok || len(offerings) == 0 {
			missing = append(missing, key)
			continue
		}
		index[key] = offerings
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrUnknownCourse,
			Message: fmt.Sprintf("required courses not found in catalog: %s", strings.Join(missing, ", ")),
		}
	}
	return index, nil
}
