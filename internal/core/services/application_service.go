package services

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/pagination"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/trackingno"
)

const (
	// maxTrackingAttempts bounds regeneration of colliding server side numbers
	maxTrackingAttempts = 5

	recentApplicationsLimit = 5

	comprehensiveDefaultLimit = 50
	comprehensiveMaxLimit     = 200
)

// ApplicationService owns the application lifecycle
type ApplicationService struct {
	apps        repositories.ApplicationRepository
	users       repositories.UserRepository
	files       repositories.FileRepository
	refs        ReferenceCatalog
	identity    IdentityResolver
	attachments AttachmentValidator
	policy      AccessPolicy
	metrics     *metrics.Metrics
	log         logging.Logger

	now            func() time.Time
	generateNumber func() string
}

// NewApplicationService creates a new application service
func NewApplicationService(
	repos *repositories.Set,
	refs ReferenceCatalog,
	identity IdentityResolver,
	attachments AttachmentValidator,
	m *metrics.Metrics,
	log logging.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:           repos.Applications,
		users:          repos.Users,
		files:          repos.Files,
		refs:           refs,
		identity:       identity,
		attachments:    attachments,
		metrics:        m,
		log:            log,
		now:            time.Now,
		generateNumber: trackingno.Generate,
	}
}

// SubmitInput represents an application submission
type SubmitInput struct {
	TrackingNumber string `json:"trackingNumber"`
	Name           string `json:"name"`
	CNIC           string `json:"cnic"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	// ApplicationType and Officer accept either an id or a display name
	ApplicationType string   `json:"applicationType"`
	Officer         string   `json:"officer"`
	Description     string   `json:"description"`
	Attachments     []string `json:"attachments"`
}

func (in *SubmitInput) normalize() {
	in.TrackingNumber = strings.TrimSpace(in.TrackingNumber)
	in.Name = strings.TrimSpace(in.Name)
	in.CNIC = strings.TrimSpace(in.CNIC)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.ApplicationType = strings.TrimSpace(in.ApplicationType)
	in.Officer = strings.TrimSpace(in.Officer)
}

// Submit validates and stores a new application. Checks run in order and
// the first failure aborts before anything is written.
func (s *ApplicationService) Submit(ctx context.Context, in SubmitInput) (*models.Application, error) {
	in.normalize()

	if in.Name == "" || in.CNIC == "" || in.Phone == "" || in.ApplicationType == "" {
		return nil, domain.Validation("Missing required fields: name, cnic, phone, applicationType")
	}

	trackingNumber, err := s.trackingNumber(ctx, in.TrackingNumber)
	if err != nil {
		return nil, err
	}

	for _, a := range in.Attachments {
		if err := s.attachments.Validate(a); err != nil {
			return nil, err
		}
	}

	appType, err := s.refs.ResolveApplicationType(ctx, domain.ParseRef(in.ApplicationType))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validation("Invalid application type")
		}
		return nil, err
	}

	officer, err := s.refs.ResolveOfficer(ctx, domain.ParseRef(in.Officer))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validation("Invalid officer")
		}
		return nil, err
	}

	if _, err := s.identity.ResolveOrCreate(ctx, in.CNIC, Profile{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
	}); err != nil {
		return nil, err
	}

	attachments := make([]string, len(in.Attachments))
	copy(attachments, in.Attachments)

	app := &models.Application{
		TrackingNumber:      trackingNumber,
		Name:                in.Name,
		NationalID:          in.CNIC,
		Phone:               in.Phone,
		Email:               in.Email,
		Address:             in.Address,
		ApplicationTypeID:   appType.ID,
		ApplicationTypeName: appType.Name,
		Description:         in.Description,
		Attachments:         attachments,
		Status:              domain.StatusSubmitted,
		Acknowledgement:     domain.AcknowledgementReceived,
		SubmittedAt:         s.now(),
	}
	if officer != nil {
		officerID := officer.ID
		app.OfficerID = &officerID
		app.OfficerName = officer.Name
		app.OfficerDesignation = officer.Designation
	}

	if err := s.apps.Create(ctx, app); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, domain.Conflict("Tracking number already exists")
		}
		return nil, domain.Persistence("Failed to submit application", err)
	}

	s.metrics.IncApplicationsSubmitted()
	s.log.Info(ctx, "application submitted",
		"trackingNumber", app.TrackingNumber,
		"applicationType", app.ApplicationTypeName,
	)
	return app, nil
}

// trackingNumber returns the client number after a uniqueness check, or a
// freshly generated unused one
func (s *ApplicationService) trackingNumber(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		exists, err := s.apps.ExistsByTrackingNumber(ctx, requested)
		if err != nil {
			return "", domain.Persistence("Failed to check tracking number", err)
		}
		if exists {
			return "", domain.Conflict("Tracking number already exists")
		}
		return requested, nil
	}

	for range maxTrackingAttempts {
		candidate := s.generateNumber()
		exists, err := s.apps.ExistsByTrackingNumber(ctx, candidate)
		if err != nil {
			return "", domain.Persistence("Failed to check tracking number", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.Conflict("Could not allocate a unique tracking number")
}

// GetByTrackingNumber is the public status check
func (s *ApplicationService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Application, error) {
	app, err := s.apps.GetByTrackingNumber(ctx, strings.TrimSpace(trackingNumber))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Application not found")
		}
		return nil, domain.Persistence("Failed to fetch application", err)
	}
	return app, nil
}

// UserApplications is every application of one applicant with the
// reference lists needed to label them
type UserApplications struct {
	User             *models.UserResponse       `json:"user"`
	Applications     []models.ApplicationDetail `json:"applications"`
	ApplicationTypes []models.TypeRef           `json:"applicationTypes"`
	Officers         []models.OfficerRef        `json:"officers"`
}

// ListForUser returns all applications filed under nationalID
func (s *ApplicationService) ListForUser(ctx context.Context, nationalID string, actor *domain.Actor) (*UserApplications, error) {
	if err := s.policy.CanListForNationalID(actor, nationalID); err != nil {
		return nil, err
	}

	user, err := s.userByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	apps, err := s.apps.ListByNationalID(ctx, nationalID, 0)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch applications", err)
	}

	types, typesByID, err := s.refs.AllApplicationTypes(ctx)
	if err != nil {
		return nil, err
	}
	officers, officersByID, err := s.refs.AllOfficers(ctx)
	if err != nil {
		return nil, err
	}

	out := &UserApplications{
		User:             user.ToResponse(),
		Applications:     make([]models.ApplicationDetail, 0, len(apps)),
		ApplicationTypes: make([]models.TypeRef, 0, len(types)),
		Officers:         make([]models.OfficerRef, 0, len(officers)),
	}
	for _, a := range apps {
		out.Applications = append(out.Applications, a.ToDetail(typesByID, officersByID))
	}
	for _, t := range types {
		out.ApplicationTypes = append(out.ApplicationTypes, models.TypeRef{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	for _, o := range officers {
		out.Officers = append(out.Officers, models.OfficerRef{ID: o.ID, Name: o.Name, Designation: o.Designation, Department: o.Department})
	}
	return out, nil
}

// ApplicationSummary aggregates one applicant's applications
type ApplicationSummary struct {
	TotalApplications           int64                      `json:"totalApplications"`
	StatusBreakdown             []models.GroupCount        `json:"statusBreakdown"`
	ApplicationTypeDistribution []models.GroupCount        `json:"applicationTypeDistribution"`
	RecentApplications          []*models.ApplicationBrief `json:"recentApplications"`
}

// UserSummary is the dashboard card of one applicant
type UserSummary struct {
	User    *models.UserResponse `json:"user"`
	Summary ApplicationSummary   `json:"summary"`
}

// SummaryForUser returns status and type counts plus the latest five
// applications of nationalID
func (s *ApplicationService) SummaryForUser(ctx context.Context, nationalID string, actor *domain.Actor) (*UserSummary, error) {
	if err := s.policy.CanListForNationalID(actor, nationalID); err != nil {
		return nil, err
	}

	user, err := s.userByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.apps.CountByStatus(ctx, nationalID)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch application summary", err)
	}
	byType, err := s.apps.CountByTypeName(ctx, nationalID)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch application summary", err)
	}
	recent, err := s.apps.ListByNationalID(ctx, nationalID, recentApplicationsLimit)
	if err != nil {
		return nil, domain.Persistence("Failed to fetch application summary", err)
	}

	summary := ApplicationSummary{
		StatusBreakdown:             nonNilCounts(byStatus),
		ApplicationTypeDistribution: nonNilCounts(byType),
		RecentApplications:          make([]*models.ApplicationBrief, 0, len(recent)),
	}
	for _, c := range byStatus {
		summary.TotalApplications += c.Count
	}
	for _, a := range recent {
		summary.RecentApplications = append(summary.RecentApplications, a.ToBrief())
	}

	return &UserSummary{User: user.ToResponse(), Summary: summary}, nil
}

// UserDetails is the profile card shown to staff when a known applicant
// files again
type UserDetails struct {
	FullName          string      `json:"Full Name"`
	ExistingUser      string      `json:"Existing User"`
	CNIC              string      `json:"CNIC Number"`
	MobileNumber      string      `json:"Mobile Number"`
	EmailAddress      string      `json:"Email Address"`
	CompleteAddress   string      `json:"Complete Address"`
	TotalApplications int64       `json:"Total Applications"`
	UserID            string      `json:"User ID"`
	Role              domain.Role `json:"Role"`
	CreatedAt         time.Time   `json:"Created At"`
	LastUpdated       time.Time   `json:"Last Updated"`
}

// UserDetails returns the profile card of nationalID
func (s *ApplicationService) UserDetails(ctx context.Context, nationalID string, actor *domain.Actor) (*UserDetails, error) {
	if err := s.policy.CanListForNationalID(actor, nationalID); err != nil {
		return nil, err
	}

	user, err := s.userByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	count, err := s.apps.CountByNationalID(ctx, nationalID)
	if err != nil {
		return nil, domain.Persistence("Failed to count applications", err)
	}

	return &UserDetails{
		FullName:          orNA(user.Name),
		ExistingUser:      "Yes",
		CNIC:              orNA(user.NationalID),
		MobileNumber:      orNA(user.Phone),
		EmailAddress:      orNA(user.Email),
		CompleteAddress:   orNA(user.Address),
		TotalApplications: count,
		UserID:            user.ID,
		Role:              user.Role,
		CreatedAt:         user.CreatedAt,
		LastUpdated:       user.UpdatedAt,
	}, nil
}

// ListQuery holds the listing filters accepted from staff
type ListQuery struct {
	Page            int
	Limit           int
	Status          string
	ApplicationType string
	Officer         string
	CNIC            string
	StartDate       *time.Time
	EndDate         *time.Time
	SortBy          string
	SortOrder       string
}

func (q ListQuery) filter() (repositories.ApplicationFilter, error) {
	f := repositories.ApplicationFilter{
		ApplicationType: strings.TrimSpace(q.ApplicationType),
		Officer:         strings.TrimSpace(q.Officer),
		NationalID:      strings.TrimSpace(q.CNIC),
		From:            q.StartDate,
		To:              q.EndDate,
		SortBy:          q.SortBy,
		SortDesc:        !strings.EqualFold(q.SortOrder, "asc"),
	}
	if q.Status != "" {
		status := domain.ApplicationStatus(q.Status)
		if !status.Valid() {
			return f, domain.Validationf("Invalid status: %s", q.Status)
		}
		f.Status = status
	}
	if _, ok := repositories.ApplicationSortFields[f.SortBy]; !ok {
		f.SortBy = repositories.DefaultApplicationSort
	}
	return f, nil
}

// Statistics are the breakdowns returned with staff listings
type Statistics struct {
	StatusBreakdown          []models.GroupCount `json:"statusBreakdown"`
	ApplicationTypeBreakdown []models.GroupCount `json:"applicationTypeBreakdown"`
}

// ApplicationList is one page of a staff listing
type ApplicationList struct {
	Applications []models.ApplicationDetail `json:"applications"`
	Pagination   pagination.Meta            `json:"pagination"`
	Statistics   Statistics                 `json:"statistics"`
}

// ListAll lists applications for staff with filters, sorting and paging
func (s *ApplicationService) ListAll(ctx context.Context, q ListQuery, actor *domain.Actor) (*ApplicationList, error) {
	if err := s.policy.CanListAll(actor); err != nil {
		return nil, err
	}

	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	params := pagination.New(q.Page, q.Limit, pagination.DefaultLimit, pagination.MaxLimit)

	apps, total, typesByID, officersByID, err := s.page(ctx, f, params)
	if err != nil {
		return nil, err
	}
	stats, err := s.statistics(ctx, "")
	if err != nil {
		return nil, err
	}

	out := &ApplicationList{
		Applications: make([]models.ApplicationDetail, 0, len(apps)),
		Pagination:   pagination.GetMeta(params, total),
		Statistics:   stats,
	}
	for _, a := range apps {
		out.Applications = append(out.Applications, a.ToDetail(typesByID, officersByID))
	}
	return out, nil
}

// ComprehensiveApplication is an application with its applicant account
// and attachment metadata
type ComprehensiveApplication struct {
	models.ApplicationDetail
	User  *models.UserResponse `json:"user"`
	Files []models.FileInfo    `json:"files"`
}

// ComprehensiveList is one page of a comprehensive listing
type ComprehensiveList struct {
	Applications []ComprehensiveApplication `json:"applications"`
	Pagination   pagination.Meta            `json:"pagination"`
	Statistics   Statistics                 `json:"statistics"`
}

// ListComprehensive is ListAll joined with users and files, for staff
func (s *ApplicationService) ListComprehensive(ctx context.Context, q ListQuery, actor *domain.Actor) (*ComprehensiveList, error) {
	if err := s.policy.CanListAll(actor); err != nil {
		return nil, err
	}
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	return s.comprehensive(ctx, f, q, "")
}

// ListAdminComprehensive is the comprehensive listing for admins. Any
// national id may be filtered on.
func (s *ApplicationService) ListAdminComprehensive(ctx context.Context, q ListQuery, actor *domain.Actor) (*ComprehensiveList, error) {
	if err := s.policy.CanAdminList(actor); err != nil {
		return nil, err
	}
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	return s.comprehensive(ctx, f, q, "")
}

// ListSelfComprehensive lists the caller's own applications. The national
// id filter is always the actor's, whatever the query says.
func (s *ApplicationService) ListSelfComprehensive(ctx context.Context, q ListQuery, actor *domain.Actor) (*ComprehensiveList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.NationalID == "" {
		return nil, domain.Forbidden("Access denied. No national ID is linked to this account.")
	}

	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	f.NationalID = actor.NationalID
	f.NationalIDExact = true

	return s.comprehensive(ctx, f, q, actor.NationalID)
}

func (s *ApplicationService) comprehensive(ctx context.Context, f repositories.ApplicationFilter, q ListQuery, statsScope string) (*ComprehensiveList, error) {
	params := pagination.New(q.Page, q.Limit, comprehensiveDefaultLimit, comprehensiveMaxLimit)

	apps, total, typesByID, officersByID, err := s.page(ctx, f, params)
	if err != nil {
		return nil, err
	}
	stats, err := s.statistics(ctx, statsScope)
	if err != nil {
		return nil, err
	}

	users := s.usersFor(ctx, apps)
	files := s.filesFor(ctx, apps)

	out := &ComprehensiveList{
		Applications: make([]ComprehensiveApplication, 0, len(apps)),
		Pagination:   pagination.GetMeta(params, total),
		Statistics:   stats,
	}
	for _, a := range apps {
		item := ComprehensiveApplication{
			ApplicationDetail: a.ToDetail(typesByID, officersByID),
			Files:             make([]models.FileInfo, 0, len(a.Attachments)),
		}
		if u, ok := users[a.NationalID]; ok {
			item.User = u.ToResponse()
		}
		for _, raw := range a.Attachments {
			item.Files = append(item.Files, fileInfo(raw, files[s.attachments.KeyFromURL(raw)]))
		}
		out.Applications = append(out.Applications, item)
	}
	return out, nil
}

func (s *ApplicationService) page(ctx context.Context, f repositories.ApplicationFilter, params pagination.Params) (
	[]*models.Application, int64, map[string]*models.ApplicationType, map[string]*models.Officer, error,
) {
	apps, total, err := s.apps.List(ctx, f, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, nil, nil, domain.Persistence("Failed to fetch applications", err)
	}
	_, typesByID, err := s.refs.AllApplicationTypes(ctx)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	_, officersByID, err := s.refs.AllOfficers(ctx)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	return apps, total, typesByID, officersByID, nil
}

// statistics counts by status and type, globally when nationalID is empty
func (s *ApplicationService) statistics(ctx context.Context, nationalID string) (Statistics, error) {
	byStatus, err := s.apps.CountByStatus(ctx, nationalID)
	if err != nil {
		return Statistics{}, domain.Persistence("Failed to fetch statistics", err)
	}
	byType, err := s.apps.CountByTypeName(ctx, nationalID)
	if err != nil {
		return Statistics{}, domain.Persistence("Failed to fetch statistics", err)
	}
	return Statistics{
		StatusBreakdown:          nonNilCounts(byStatus),
		ApplicationTypeBreakdown: nonNilCounts(byType),
	}, nil
}

// usersFor loads the accounts of the applicants on a page. Lookup failures
// leave the user out of the view.
func (s *ApplicationService) usersFor(ctx context.Context, apps []*models.Application) map[string]*models.User {
	users := make(map[string]*models.User)
	seen := make(map[string]bool)
	for _, a := range apps {
		if seen[a.NationalID] {
			continue
		}
		seen[a.NationalID] = true

		u, err := s.users.GetByNationalID(ctx, a.NationalID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.log.Warn(ctx, "applicant lookup failed", "error", err)
			}
			continue
		}
		users[a.NationalID] = u
	}
	return users
}

// filesFor loads attachment metadata keyed by object key
func (s *ApplicationService) filesFor(ctx context.Context, apps []*models.Application) map[string]*models.File {
	var keys []string
	for _, a := range apps {
		for _, raw := range a.Attachments {
			if k := s.attachments.KeyFromURL(raw); k != "" {
				keys = append(keys, k)
			}
		}
	}

	byKey := make(map[string]*models.File)
	if len(keys) == 0 {
		return byKey
	}

	files, err := s.files.GetByKeys(ctx, keys)
	if err != nil {
		s.log.Warn(ctx, "file metadata lookup failed, returning bare urls", "error", err)
		return byKey
	}
	for _, f := range files {
		byKey[f.S3Key] = f
	}
	return byKey
}

// fileInfo describes raw, falling back to the url and its last path
// segment when f is nil
func fileInfo(raw string, f *models.File) models.FileInfo {
	if f == nil {
		return models.FileInfo{URL: raw, FileName: lastSegment(raw)}
	}
	uploaded := f.UploadDate
	return models.FileInfo{
		URL:          raw,
		FileName:     f.FileName,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadDate:   &uploaded,
	}
}

func lastSegment(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}

// UpdateStatus moves an application to status. Officers may only update
// applications that are unassigned or assigned to them.
func (s *ApplicationService) UpdateStatus(ctx context.Context, trackingNumber, status string, actor *domain.Actor) (*models.Application, error) {
	if err := s.policy.CanListAll(actor); err != nil {
		return nil, err
	}

	next := domain.ApplicationStatus(status)
	if !next.Valid() {
		return nil, domain.Validationf("Invalid status: %s", status)
	}

	app, err := s.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && !assignedTo(app, actor) {
		return nil, domain.Forbidden("Access denied. You can only update applications assigned to you.")
	}
	if app.Status == next {
		return app, nil
	}

	if err := s.apps.UpdateStatus(ctx, app.ID, next); err != nil {
		return nil, domain.Persistence("Failed to update application status", err)
	}
	app.Status = next

	s.log.Info(ctx, "application status updated",
		"trackingNumber", app.TrackingNumber,
		"status", string(next),
		"by", actor.Identity,
	)
	return app, nil
}

func (s *ApplicationService) userByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	user, err := s.users.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Persistence("Failed to fetch user", err)
	}
	return user, nil
}

func nonNilCounts(c []models.GroupCount) []models.GroupCount {
	if c == nil {
		return []models.GroupCount{}
	}
	return c
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
