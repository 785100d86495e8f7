package services

import (
	"testing"
	"time"

	"github.com/crimepatrol/backend/db"
	errs "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReportRepo keeps everything in memory and lets individual writes be
// forced to fail.
type fakeReportRepo struct {
	reports   map[uuid.UUID]*models.Report
	locations map[uuid.UUID]*models.ReportLocation
	reporters map[uuid.UUID]*models.ReportReporterInfo
	victims   map[uuid.UUID][]models.ReportVictim
	suspects  map[uuid.UUID][]models.ReportSuspect
	witnesses map[uuid.UUID][]models.ReportWitness
	media     map[uuid.UUID][]models.ReportMedia

	failSection string
	listed      []models.ReportFilters
	todayCount  int64
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports:   map[uuid.UUID]*models.Report{},
		locations: map[uuid.UUID]*models.ReportLocation{},
		reporters: map[uuid.UUID]*models.ReportReporterInfo{},
		victims:   map[uuid.UUID][]models.ReportVictim{},
		suspects:  map[uuid.UUID][]models.ReportSuspect{},
		witnesses: map[uuid.UUID][]models.ReportWitness{},
		media:     map[uuid.UUID][]models.ReportMedia{},
	}
}

var errForced = errors.New("forced failure")

func (f *fakeReportRepo) SaveReport(report *models.Report) (*models.Report, error) {
	if f.failSection == "report" {
		return nil, errForced
	}
	f.reports[report.ID] = report
	return report, nil
}

func (f *fakeReportRepo) SaveLocation(l *models.ReportLocation) error {
	if f.failSection == "location" {
		return errForced
	}
	f.locations[l.ReportID] = l
	return nil
}

func (f *fakeReportRepo) SaveReporterInfo(i *models.ReportReporterInfo) error {
	if f.failSection == "reporter_info" {
		return errForced
	}
	f.reporters[i.ReportID] = i
	return nil
}

func (f *fakeReportRepo) SaveVictim(v *models.ReportVictim) error {
	if f.failSection == "victims" {
		return errForced
	}
	f.victims[v.ReportID] = append(f.victims[v.ReportID], *v)
	return nil
}

func (f *fakeReportRepo) SaveSuspect(sp *models.ReportSuspect) error {
	if f.failSection == "suspects" {
		return errForced
	}
	f.suspects[sp.ReportID] = append(f.suspects[sp.ReportID], *sp)
	return nil
}

func (f *fakeReportRepo) SaveWitness(w *models.ReportWitness) error {
	if f.failSection == "witnesses" {
		return errForced
	}
	f.witnesses[w.ReportID] = append(f.witnesses[w.ReportID], *w)
	return nil
}

func (f *fakeReportRepo) SaveMedia(m *models.ReportMedia) error {
	if f.failSection == "media" {
		return errForced
	}
	f.media[m.ReportID] = append(f.media[m.ReportID], *m)
	return nil
}

func (f *fakeReportRepo) GetReportByID(id uuid.UUID) (*models.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, db.ErrReportNotFound
	}
	return r, nil
}

func (f *fakeReportRepo) GetLocationByReportID(id uuid.UUID) (*models.ReportLocation, error) {
	return f.locations[id], nil
}

func (f *fakeReportRepo) GetReporterInfoByReportID(id uuid.UUID) (*models.ReportReporterInfo, error) {
	return f.reporters[id], nil
}

func (f *fakeReportRepo) GetVictimsByReportID(id uuid.UUID) ([]models.ReportVictim, error) {
	return f.victims[id], nil
}

func (f *fakeReportRepo) GetSuspectsByReportID(id uuid.UUID) ([]models.ReportSuspect, error) {
	return f.suspects[id], nil
}

func (f *fakeReportRepo) GetWitnessesByReportID(id uuid.UUID) ([]models.ReportWitness, error) {
	return f.witnesses[id], nil
}

func (f *fakeReportRepo) GetMediaByReportID(id uuid.UUID) ([]models.ReportMedia, error) {
	return f.media[id], nil
}

func (f *fakeReportRepo) UpdateReportStatus(id uuid.UUID, status string) (*models.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, db.ErrReportNotFound
	}
	r.Status = status
	return r, nil
}

func (f *fakeReportRepo) ListReports(filters models.ReportFilters) ([]models.Report, error) {
	f.listed = append(f.listed, filters)
	out := []models.Report{}
	for _, r := range f.reports {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReportRepo) DeleteReport(id uuid.UUID) error {
	if _, ok := f.reports[id]; !ok {
		return db.ErrReportNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) GetReportMarkers() ([]models.ReportMarker, error) {
	return []models.ReportMarker{}, nil
}

func (f *fakeReportRepo) GetTotalReportCount() (int64, error) {
	return int64(len(f.reports)), nil
}

func (f *fakeReportRepo) GetReportsPostedTodayCount() (int64, error) {
	return f.todayCount, nil
}

func validRequest() *models.CreateReportRequest {
	lat, lng := 10.676, 122.956
	return &models.CreateReportRequest{
		IncidentType: "theft",
		IncidentDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ReportedBy:   "user-42",
		Description:  "stolen motorbike",
		Location: &models.LocationSection{
			Address:   "Lacson St",
			Latitude:  &lat,
			Longitude: &lng,
		},
		ReporterInfo: &models.ReporterInfoSection{Name: "Juan", Phone: "09171234567"},
		Victims:      []models.VictimSection{{Name: "Juan"}},
		Suspects:     []models.SuspectSection{{Description: "tall, red shirt"}},
		Witnesses:    []models.WitnessSection{{Info: "saw the suspect flee north"}},
		Media:        []models.MediaSection{{FileID: "file-1", MediaType: "photo", DisplayOrder: 2}},
	}
}

func TestCreateCompleteReport(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	complete, err := svc.CreateCompleteReport(validRequest())
	require.NoError(t, err)
	require.NotNil(t, complete.Report)

	assert.Equal(t, models.StatusPending, complete.Report.Status)
	assert.NotEqual(t, uuid.Nil, complete.Report.ID)

	// every child row is stamped with the parent ID
	assert.Equal(t, complete.Report.ID, complete.Location.ReportID)
	assert.Equal(t, complete.Report.ID, complete.ReporterInfo.ReportID)
	require.Len(t, complete.Victims, 1)
	assert.Equal(t, complete.Report.ID, complete.Victims[0].ReportID)
	require.Len(t, complete.Media, 1)
	assert.Equal(t, 2, complete.Media[0].DisplayOrder)
}

func TestCreateCompleteReportKeepsDisplayOrder(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	req := validRequest()
	req.Media = []models.MediaSection{
		{FileID: "file-b", MediaType: "photo", DisplayOrder: 1},
		{FileID: "file-a", MediaType: "photo", DisplayOrder: 0},
		{FileID: "file-c", MediaType: "video"},
	}

	complete, err := svc.CreateCompleteReport(req)
	require.NoError(t, err)
	require.Len(t, complete.Media, 3)

	// display_order comes from the payload, not submission position
	assert.Equal(t, 1, complete.Media[0].DisplayOrder)
	assert.Equal(t, 0, complete.Media[1].DisplayOrder)
	// absent order defaults to zero
	assert.Equal(t, 0, complete.Media[2].DisplayOrder)
}

func TestCreateCompleteReportValidation(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	req := validRequest()
	req.IncidentType = ""
	req.ReportedBy = "  "

	_, err := svc.CreateCompleteReport(req)
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.KindValidation, apiErr.Kind)

	// nothing was written
	assert.Empty(t, repo.reports)
	assert.Empty(t, repo.locations)
}

func TestCreateCompleteReportMismatchedCoordinates(t *testing.T) {
	svc := NewReportService(newFakeReportRepo(), nil)

	req := validRequest()
	req.Location.Longitude = nil

	_, err := svc.CreateCompleteReport(req)
	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.KindValidation, apiErr.Kind)
}

func TestCreateCompleteReportPartialWrite(t *testing.T) {
	repo := newFakeReportRepo()
	repo.failSection = "victims"
	svc := NewReportService(repo, nil)

	complete, err := svc.CreateCompleteReport(validRequest())
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.KindPartialWrite, apiErr.Kind)

	// the parent survives and the error names it
	require.NotNil(t, complete.Report)
	assert.Equal(t, complete.Report.ID.String(), apiErr.ReportID)
	assert.Contains(t, repo.reports, complete.Report.ID)
	// sections written before the failure stay written
	assert.Contains(t, repo.locations, complete.Report.ID)
}

func TestGetCompleteReport(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	created, err := svc.CreateCompleteReport(validRequest())
	require.NoError(t, err)

	got, err := svc.GetCompleteReport(created.Report.ID)
	require.NoError(t, err)

	assert.Equal(t, created.Report.ID, got.Report.ID)
	assert.NotNil(t, got.Location)
	assert.Len(t, got.Victims, 1)
	assert.Len(t, got.Media, 1)
}

func TestGetCompleteReportSparse(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	req := &models.CreateReportRequest{
		IncidentType: "vandalism",
		IncidentDate: time.Now(),
		ReportedBy:   "user-7",
	}
	created, err := svc.CreateCompleteReport(req)
	require.NoError(t, err)

	got, err := svc.GetCompleteReport(created.Report.ID)
	require.NoError(t, err)

	// absent 1:1 sections are nil, absent lists are empty, never nil
	assert.Nil(t, got.Location)
	assert.Nil(t, got.ReporterInfo)
	assert.NotNil(t, got.Victims)
	assert.Empty(t, got.Victims)
	assert.NotNil(t, got.Media)
	assert.Empty(t, got.Media)
}

func TestGetCompleteReportNotFound(t *testing.T) {
	svc := NewReportService(newFakeReportRepo(), nil)

	_, err := svc.GetCompleteReport(uuid.New())
	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.KindNotFound, apiErr.Kind)
}

func TestUpdateReportStatus(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	created, err := svc.CreateCompleteReport(validRequest())
	require.NoError(t, err)

	for _, status := range models.ValidStatuses {
		updated, err := svc.UpdateReportStatus(created.Report.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// setting the same status again is fine, there is no transition graph
	updated, err := svc.UpdateReportStatus(created.Report.ID, models.StatusSolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSolved, updated.Status)
}

func TestUpdateReportStatusInvalid(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	created, err := svc.CreateCompleteReport(validRequest())
	require.NoError(t, err)

	_, uerr := svc.UpdateReportStatus(created.Report.ID, "archived")
	var apiErr *errs.Error
	require.ErrorAs(t, uerr, &apiErr)
	assert.Equal(t, errs.KindInvalidStatus, apiErr.Kind)

	// invalid status never reaches the store
	assert.Equal(t, models.StatusPending, repo.reports[created.Report.ID].Status)
}

func TestUpdateReportStatusNotFound(t *testing.T) {
	svc := NewReportService(newFakeReportRepo(), nil)

	_, err := svc.UpdateReportStatus(uuid.New(), models.StatusApproved)
	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.KindNotFound, apiErr.Kind)
}

func TestListReportsRejectsBadStatusFilter(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	_, err := svc.ListReports(models.ReportFilters{Status: "bogus"})
	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.KindValidation, apiErr.Kind)
	assert.Empty(t, repo.listed)
}

func TestGetReportStats(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateCompleteReport(validRequest())
		require.NoError(t, err)
	}
	repo.todayCount = 1

	stats, err := svc.GetReportStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReports)
	assert.Equal(t, int64(1), stats.ReportsToday)
}

func TestDeleteReport(t *testing.T) {
	repo := newFakeReportRepo()
	svc := NewReportService(repo, nil)

	created, err := svc.CreateCompleteReport(validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReport(created.Report.ID))

	var apiErr *errs.Error
	require.ErrorAs(t, svc.DeleteReport(created.Report.ID), &apiErr)
	assert.Equal(t, errs.KindNotFound, apiErr.Kind)
}
