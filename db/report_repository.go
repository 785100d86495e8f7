package db

import (
	"fmt"
	"time"

	"github.com/crimepatrol/backend/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	DefaultPage     = 1
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	SaveReport(report *models.Report) (*models.Report, error)
	SaveLocation(location *models.ReportLocation) error
	SaveReporterInfo(info *models.ReportReporterInfo) error
	SaveVictim(victim *models.ReportVictim) error
	SaveSuspect(suspect *models.ReportSuspect) error
	SaveWitness(witness *models.ReportWitness) error
	SaveMedia(media *models.ReportMedia) error
	GetReportByID(reportID uuid.UUID) (*models.Report, error)
	GetLocationByReportID(reportID uuid.UUID) (*models.ReportLocation, error)
	GetReporterInfoByReportID(reportID uuid.UUID) (*models.ReportReporterInfo, error)
	GetVictimsByReportID(reportID uuid.UUID) ([]models.ReportVictim, error)
	GetSuspectsByReportID(reportID uuid.UUID) ([]models.ReportSuspect, error)
	GetWitnessesByReportID(reportID uuid.UUID) ([]models.ReportWitness, error)
	GetMediaByReportID(reportID uuid.UUID) ([]models.ReportMedia, error)
	UpdateReportStatus(reportID uuid.UUID, status string) (*models.Report, error)
	ListReports(filters models.ReportFilters) ([]models.Report, error)
	DeleteReport(reportID uuid.UUID) error
	GetReportMarkers() ([]models.ReportMarker, error)
	GetTotalReportCount() (int64, error)
	GetReportsPostedTodayCount() (int64, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

func (r *reportRepo) SaveReport(report *models.Report) (*models.Report, error) {
	if err := r.DB.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to save report: %v", err)
	}
	return report, nil
}

func (r *reportRepo) SaveLocation(location *models.ReportLocation) error {
	return r.DB.Create(location).Error
}

func (r *reportRepo) SaveReporterInfo(info *models.ReportReporterInfo) error {
	return r.DB.Create(info).Error
}

func (r *reportRepo) SaveVictim(victim *models.ReportVictim) error {
	return r.DB.Create(victim).Error
}

func (r *reportRepo) SaveSuspect(suspect *models.ReportSuspect) error {
	return r.DB.Create(suspect).Error
}

func (r *reportRepo) SaveWitness(witness *models.ReportWitness) error {
	return r.DB.Create(witness).Error
}

func (r *reportRepo) SaveMedia(media *models.ReportMedia) error {
	return r.DB.Create(media).Error
}

func (r *reportRepo) GetReportByID(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.DB.Where("id = ?", reportID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// GetLocationByReportID returns nil, nil when the report has no location
// row: absence of an optional section is not an error.
func (r *reportRepo) GetLocationByReportID(reportID uuid.UUID) (*models.ReportLocation, error) {
	var location models.ReportLocation
	err := r.DB.Where("report_id = ?", reportID).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *reportRepo) GetReporterInfoByReportID(reportID uuid.UUID) (*models.ReportReporterInfo, error) {
	var info models.ReportReporterInfo
	err := r.DB.Where("report_id = ?", reportID).First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *reportRepo) GetVictimsByReportID(reportID uuid.UUID) ([]models.ReportVictim, error) {
	victims := []models.ReportVictim{}
	err := r.DB.Where("report_id = ?", reportID).Find(&victims).Error
	return victims, err
}

func (r *reportRepo) GetSuspectsByReportID(reportID uuid.UUID) ([]models.ReportSuspect, error) {
	suspects := []models.ReportSuspect{}
	err := r.DB.Where("report_id = ?", reportID).Find(&suspects).Error
	return suspects, err
}

func (r *reportRepo) GetWitnessesByReportID(reportID uuid.UUID) ([]models.ReportWitness, error) {
	witnesses := []models.ReportWitness{}
	err := r.DB.Where("report_id = ?", reportID).Find(&witnesses).Error
	return witnesses, err
}

func (r *reportRepo) GetMediaByReportID(reportID uuid.UUID) ([]models.ReportMedia, error) {
	media := []models.ReportMedia{}
	err := r.DB.Where("report_id = ?", reportID).Order("display_order asc").Find(&media).Error
	return media, err
}

func (r *reportRepo) UpdateReportStatus(reportID uuid.UUID, status string) (*models.Report, error) {
	report, err := r.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}

	if err := r.DB.Model(report).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update report status: %v", err)
	}
	report.Status = status
	return report, nil
}

func (r *reportRepo) ListReports(filters models.ReportFilters) ([]models.Report, error) {
	page := filters.Page
	if page < DefaultPage {
		page = DefaultPage
	}
	offset := (page - 1) * DefaultPageSize

	query := r.DB.Model(&models.Report{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ReportedBy != "" {
		query = query.Where("reported_by = ?", filters.ReportedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	reports := []models.Report{}
	err := query.Order("created_at DESC").Offset(offset).Limit(DefaultPageSize).Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %v", err)
	}
	return reports, nil
}

// DeleteReport removes the parent and every child row. Children go first
// so a failure never leaves orphans pointing at a deleted parent.
func (r *reportRepo) DeleteReport(reportID uuid.UUID) error {
	if _, err := r.GetReportByID(reportID); err != nil {
		return err
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.ReportLocation{},
			&models.ReportReporterInfo{},
			&models.ReportVictim{},
			&models.ReportSuspect{},
			&models.ReportWitness{},
			&models.ReportMedia{},
		} {
			if err := tx.Where("report_id = ?", reportID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", reportID).Delete(&models.Report{}).Error
	})
}

func (r *reportRepo) GetReportMarkers() ([]models.ReportMarker, error) {
	markers := []models.ReportMarker{}
	err := r.DB.Table("report_locations").
		Select("report_id AS id, latitude, longitude").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Scan(&markers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markers: %v", err)
	}
	return markers, nil
}

func (r *reportRepo) GetTotalReportCount() (int64, error) {
	var count int64
	err := r.DB.Model(&models.Report{}).Count(&count).Error
	return count, err
}

func (r *reportRepo) GetReportsPostedTodayCount() (int64, error) {
	var count int64
	startOfDay := time.Now().Truncate(24 * time.Hour)
	err := r.DB.Model(&models.Report{}).Where("created_at >= ?", startOfDay).Count(&count).Error
	return count, err
}
