package db

import (
	"fmt"

	"github.com/crimepatrol/backend/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrStationNotFound = errors.New("police station not found")

type StationRepository interface {
	ListStations() ([]models.PoliceStation, error)
	GetStationByID(id string) (*models.PoliceStation, error)
}

type stationRepo struct {
	DB *gorm.DB
}

func NewStationRepo(db *GormDB) StationRepository {
	return &stationRepo{db.DB}
}

func (s *stationRepo) ListStations() ([]models.PoliceStation, error) {
	stations := []models.PoliceStation{}
	err := s.DB.Order("name asc").Find(&stations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list police stations: %v", err)
	}
	return stations, nil
}

func (s *stationRepo) GetStationByID(id string) (*models.PoliceStation, error) {
	var station models.PoliceStation
	err := s.DB.Where("id = ?", id).First(&station).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &station, nil
}
