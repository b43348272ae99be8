package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Dosada05/tournament-analyser/storage"
)

// ExportService выгружает отчёты в CSV через FileUploader, чтобы
// оболочка могла скормить их внешним инструментам.
type ExportService interface {
	ExportStandings(ctx context.Context, tournamentID int) (*storage.UploadResult, error)
	ExportTopScorers(ctx context.Context, tournamentID int) (*storage.UploadResult, error)
}

type exportService struct {
	statsService StatsService
	uploader     storage.FileUploader
}

func NewExportService(statsService StatsService, uploader storage.FileUploader) ExportService {
	return &exportService{statsService: statsService, uploader: uploader}
}

func writeCSV(records [][]string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return &buf, nil
}

func (s *exportService) ExportStandings(ctx context.Context, tournamentID int) (*storage.UploadResult, error) {
	report, err := s.statsService.Standings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	records := [][]string{{"team", "points", "goals_for", "goals_against"}}
	for _, row := range report.Rows {
		records = append(records, []string{
			row.TeamName,
			strconv.Itoa(row.Points),
			strconv.Itoa(row.GoalsFor),
			strconv.Itoa(row.GoalsAgainst),
		})
	}

	buf, err := writeCSV(records)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournament_%d/standings.csv", tournamentID)
	result, err := s.uploader.Upload(ctx, key, "text/csv", buf)
	if err != nil {
		return nil, fmt.Errorf("failed to export standings for tournament %d: %w", tournamentID, err)
	}
	return result, nil
}

func (s *exportService) ExportTopScorers(ctx context.Context, tournamentID int) (*storage.UploadResult, error) {
	report, err := s.statsService.TopScorers(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	records := [][]string{{"player", "goals"}}
	for _, row := range report.Rows {
		records = append(records, []string{row.PlayerName, strconv.Itoa(row.Goals)})
	}

	buf, err := writeCSV(records)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("tournament_%d/topscorers.csv", tournamentID)
	result, err := s.uploader.Upload(ctx, key, "text/csv", buf)
	if err != nil {
		return nil, fmt.Errorf("failed to export top scorers for tournament %d: %w", tournamentID, err)
	}
	return result, nil
}
