package memory

import (
	"cmp"
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// ApplicationRepository is the in-memory repositories.ApplicationRepository
type ApplicationRepository struct {
	s *Store
}

func copyApplication(a *models.Application) *models.Application {
	cp := *a
	cp.Attachments = slices.Clone(a.Attachments)
	return &cp
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.applications {
		if existing.TrackingNumber == app.TrackingNumber {
			return duplicate("tracking_number", app.TrackingNumber)
		}
	}
	if app.ID == "" {
		app.ID = models.NewID()
	}
	r.s.stamp(&app.CreatedAt, &app.UpdatedAt)
	r.s.applications[app.ID] = copyApplication(app)
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.applications[id]
	if !ok {
		return nil, notFound("application", id)
	}
	return copyApplication(app), nil
}

func (r *ApplicationRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Application, 0, len(ids))
	for _, id := range ids {
		if app, ok := r.s.applications[id]; ok {
			out = append(out, copyApplication(app))
		}
	}
	return out, nil
}

func (r *ApplicationRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, app := range r.s.applications {
		if app.TrackingNumber == trackingNumber {
			return copyApplication(app), nil
		}
	}
	return nil, notFound("application", trackingNumber)
}

func (r *ApplicationRepository) ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error) {
	_, err := r.GetByTrackingNumber(ctx, trackingNumber)
	return err == nil, nil
}

func (r *ApplicationRepository) ListByNationalID(ctx context.Context, nationalID string, limit int) ([]*models.Application, error) {
	apps := r.filter(func(a *models.Application) bool { return a.NationalID == nationalID })
	sortApplications(apps, repositories.DefaultApplicationSort, true)
	return offsetLimit(apps, 0, limit), nil
}

func (r *ApplicationRepository) CountByNationalID(ctx context.Context, nationalID string) (int64, error) {
	apps := r.filter(func(a *models.Application) bool { return a.NationalID == nationalID })
	return int64(len(apps)), nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context, nationalID string) ([]models.GroupCount, error) {
	return r.groupCount(nationalID, func(a *models.Application) string { return string(a.Status) }), nil
}

func (r *ApplicationRepository) CountByTypeName(ctx context.Context, nationalID string) ([]models.GroupCount, error) {
	return r.groupCount(nationalID, func(a *models.Application) string { return a.ApplicationTypeName }), nil
}

func (r *ApplicationRepository) groupCount(nationalID string, key func(*models.Application) string) []models.GroupCount {
	apps := r.filter(func(a *models.Application) bool { return nationalID == "" || a.NationalID == nationalID })

	counts := make(map[string]int64)
	for _, a := range apps {
		counts[key(a)]++
	}
	out := make([]models.GroupCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.GroupCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func (r *ApplicationRepository) List(ctx context.Context, filter repositories.ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	apps := r.filter(func(a *models.Application) bool { return matchesFilter(a, filter) })

	sortBy := filter.SortBy
	if _, ok := repositories.ApplicationSortFields[sortBy]; !ok {
		sortBy = repositories.DefaultApplicationSort
	}
	sortApplications(apps, sortBy, filter.SortDesc)
	return offsetLimit(apps, offset, limit), int64(len(apps)), nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return notFound("application", id)
	}
	app.Status = status
	app.UpdatedAt = r.s.now()
	return nil
}

func (r *ApplicationRepository) filter(match func(*models.Application) bool) []*models.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Application, 0)
	for _, a := range r.s.applications {
		if match(a) {
			out = append(out, copyApplication(a))
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matchesFilter(a *models.Application, f repositories.ApplicationFilter) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.ApplicationType != "" && !containsFold(a.ApplicationTypeName, f.ApplicationType) {
		return false
	}
	if f.Officer != "" && !containsFold(a.OfficerName, f.Officer) {
		return false
	}
	if f.NationalID != "" {
		if f.NationalIDExact && a.NationalID != f.NationalID {
			return false
		}
		if !f.NationalIDExact && !containsFold(a.NationalID, f.NationalID) {
			return false
		}
	}
	if f.From != nil && a.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && a.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func compareApplications(a, b *models.Application, sortBy string) int {
	switch repositories.ApplicationSortFields[sortBy] {
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "submitted_at":
		return a.SubmittedAt.Compare(b.SubmittedAt)
	case "tracking_number":
		return cmp.Compare(a.TrackingNumber, b.TrackingNumber)
	case "name":
		return cmp.Compare(a.Name, b.Name)
	case "national_id":
		return cmp.Compare(a.NationalID, b.NationalID)
	case "status":
		return cmp.Compare(a.Status, b.Status)
	case "application_type_name":
		return cmp.Compare(a.ApplicationTypeName, b.ApplicationTypeName)
	case "officer_name":
		return cmp.Compare(a.OfficerName, b.OfficerName)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func sortApplications(apps []*models.Application, sortBy string, desc bool) {
	slices.SortStableFunc(apps, func(a, b *models.Application) int {
		c := compareApplications(a, b, sortBy)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}
