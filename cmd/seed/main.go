package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/directorio-backend/config"
	"github.com/ikkim/directorio-backend/internal/app/model"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/db"
	"github.com/ikkim/directorio-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Column layout of the import sheet. The first row is a header.
const (
	colName = iota
	colCategory
	colCity
	colRegion
	colPhone
	colEmail
	colWebsite
	colAddress
	colShortDescription
	colInstagram
	colFacebook
	colWhatsApp
	minColumns = colShortDescription + 1
)

var linkColumns = []struct {
	index    int
	platform string
	title    string
}{
	{colInstagram, "instagram", "Instagram"},
	{colFacebook, "facebook", "Facebook"},
	{colWhatsApp, "whatsapp", "WhatsApp"},
}

type seedRow struct {
	company model.Company
	links   []model.SocialLink
}

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <owner_id>")
	}

	filePath := os.Args[1]
	ownerID, err := strconv.ParseUint(os.Args[2], 10, 64)
	if err != nil || ownerID == 0 {
		log.Fatal("owner_id must be a positive integer")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCompaniesFromXLSX(filePath, uint(ownerID))
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total companies to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()
	imported, skipped := 0, 0
	for i := range rows {
		if err := importRow(ctx, db.GetDB(), &rows[i]); err != nil {
			fmt.Printf("  skipped %q: %v\n", rows[i].company.Name, err)
			skipped++
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total companies imported: %d (skipped %d)\n", imported, skipped)
}

// importRow writes one company with its stats and links, or nothing.
func importRow(ctx context.Context, database *gorm.DB, row *seedRow) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		companyRepo := repository.NewCompanyRepository(tx)
		available, err := companyRepo.IsSlugAvailable(ctx, row.company.Slug, 0)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("slug %q already taken", row.company.Slug)
		}
		if err := companyRepo.Create(ctx, &row.company); err != nil {
			return err
		}
		if err := repository.NewStatsRepository(tx).Create(ctx, row.company.ID); err != nil {
			return err
		}
		if len(row.links) == 0 {
			return nil
		}
		for i := range row.links {
			row.links[i].CompanyID = row.company.ID
		}
		return repository.NewSocialLinkRepository(tx).CreateBatch(ctx, row.links)
	})
}

func readCompaniesFromXLSX(filePath string, ownerID uint) ([]seedRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var out []seedRow
	slugCounter := make(map[string]int)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < minColumns {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[colName])
		category := model.CompanyCategory(strings.ToLower(strings.TrimSpace(row[colCategory])))
		if len([]rune(name)) < model.MinCompanyNameLength || !category.Valid() {
			skippedCount++
			continue
		}

		baseSlug := util.DeriveSlug(name)
		if util.CheckSlugFormat(baseSlug) != "" {
			skippedCount++
			continue
		}
		slug := baseSlug
		if count, exists := slugCounter[baseSlug]; exists {
			slugCounter[baseSlug] = count + 1
			slug = fmt.Sprintf("%s-%d", baseSlug, count+1)
		} else {
			slugCounter[baseSlug] = 1
		}

		seed := seedRow{
			company: model.Company{
				OwnerID:          ownerID,
				Name:             name,
				Slug:             slug,
				Category:         category,
				City:             cell(row, colCity),
				Region:           cell(row, colRegion),
				Phone:            cell(row, colPhone),
				Email:            cell(row, colEmail),
				Website:          cell(row, colWebsite),
				Address:          cell(row, colAddress),
				ShortDescription: cell(row, colShortDescription),
			},
		}

		for _, lc := range linkColumns {
			url := model.NormalizeSocialURL(lc.platform, cell(row, lc.index))
			if url == "" {
				continue
			}
			platform := lc.platform
			seed.links = append(seed.links, model.SocialLink{
				Title:    lc.title,
				URL:      url,
				Platform: &platform,
				Position: len(seed.links),
				IsActive: true,
			})
		}

		out = append(out, seed)

		if len(out)%100 == 0 {
			fmt.Printf("Processed %d companies...\n", len(out))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid companies: %d\n", len(out))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return out, nil
}

// cell tolerates short rows; excelize trims trailing empty cells.
func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
