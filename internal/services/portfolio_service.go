package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/models"
)

type PortfolioService struct {
	config *config.Config
}

func NewPortfolioService(cfg *config.Config) *PortfolioService {
	return &PortfolioService{config: cfg}
}

// GeneratePortfolioPDF renders a participant's profile and achievement
// history as a PDF and returns the file path. Skills and Achievements must
// be loaded on the user.
func (s *PortfolioService) GeneratePortfolioPDF(user *models.User) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 10, user.FullName, "", 1, "C", false, 0, "")
	if user.Username != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(190, 6, "@"+user.Username, "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "PROFILE")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if user.MainRole != nil {
		pdf.Cell(190, 5, "Main role: "+string(*user.MainRole))
		pdf.Ln(5)
	}
	availability := "not currently looking"
	if user.ReadyToWork {
		availability = "open to work"
	}
	pdf.Cell(190, 5, "Availability: "+availability)
	pdf.Ln(5)
	if user.Bio != "" {
		pdf.MultiCell(190, 5, user.Bio, "", "", false)
	}
	pdf.Ln(4)

	if len(user.Skills) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(190, 8, "SKILLS")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		line := ""
		for i, skill := range user.Skills {
			if i > 0 {
				line += ", "
			}
			line += skill.Name
		}
		pdf.MultiCell(190, 5, line, "", "", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "HACKATHON HISTORY")
	pdf.Ln(8)

	if len(user.Achievements) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(190, 5, "No recorded results yet.")
		pdf.Ln(5)
	}
	for _, a := range user.Achievements {
		pdf.SetFont("Arial", "B", 10)
		title := fmt.Sprintf("%s (%d)", a.HackathonName, a.Year)
		if a.Place != nil {
			title += fmt.Sprintf(" - place %d", *a.Place)
		}
		pdf.Cell(190, 5, title)
		pdf.Ln(5)

		pdf.SetFont("Arial", "", 10)
		pdf.Cell(190, 5, "Team: "+a.TeamName)
		pdf.Ln(5)
		if a.ProjectLink != "" {
			pdf.Cell(190, 5, "Project: "+a.ProjectLink)
			pdf.Ln(5)
		}
		if a.Description != "" {
			pdf.MultiCell(190, 5, a.Description, "", "", false)
		}
		pdf.Ln(3)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(190, 4, "Generated by "+s.config.AppName+" on "+time.Now().Format("January 2, 2006")+".", "", "", false)

	dir := filepath.Join(s.config.ExportDir, "portfolios")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("portfolio_%s_%s.pdf", user.ID.String()[:8], time.Now().Format("20060102"))
	filePath := filepath.Join(dir, filename)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	return filePath, nil
}
