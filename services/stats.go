package services

import (
	"math"

	"feedback-board-server/models"

	"gorm.io/gorm"
)

// StatsService computes the admin dashboard aggregates.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryUsage struct {
	CategoryID   uint   `json:"categoryID"`
	CategoryName string `json:"categoryName"`
	Count        int64  `json:"count"`
}

type DashboardStats struct {
	TotalUsers    int64           `json:"totalUsers"`
	TotalFeedback int64           `json:"totalFeedback"`
	AvgRating     float64         `json:"avgRating"`
	CategoryCount int64           `json:"categoryCount"`
	StatusCounts  []StatusCount   `json:"statusCounts"`
	CategoryUsage []CategoryUsage `json:"categoryUsage"`
}

// DashboardStats returns totals, the mean rating rounded to one decimal
// place (0 when no feedback exists), feedback counts per status, and
// feedback counts per category joined with the category name, sorted
// by count descending.
func (s *StatsService) DashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		StatusCounts:  []StatusCount{},
		CategoryUsage: []CategoryUsage{},
	}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Feedback{}).Count(&stats.TotalFeedback).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Category{}).Count(&stats.CategoryCount).Error; err != nil {
		return nil, err
	}

	if stats.TotalFeedback > 0 {
		var avg float64
		if err := s.db.Model(&models.Feedback{}).
			Select("AVG(rating)").Scan(&avg).Error; err != nil {
			return nil, err
		}
		stats.AvgRating = math.Round(avg*10) / 10
	}

	if err := s.db.Model(&models.Feedback{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&stats.StatusCounts).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Feedback{}).
		Select("feedbacks.category_id AS category_id, categories.name AS category_name, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = feedbacks.category_id").
		Group("feedbacks.category_id, categories.name").
		Order("count DESC").
		Scan(&stats.CategoryUsage).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
