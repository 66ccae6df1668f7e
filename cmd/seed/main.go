package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tteokbok/tteokbok-backend/config"
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/db"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// seedProject xlsx 한 행에서 뽑은 프로젝트 입력
type seedProject struct {
	Title               string
	Creater             string
	CreaterEmail        string
	CreaterIntroduction string
	Summary             string
	Category            string
	TitleImageURL       string
	TargetFund          int64
	LaunchDate          time.Time
	EndDate             time.Time
	Options             []seedOption
}

type seedOption struct {
	Amount      int64
	Title       string
	Description string
	Remains     *int64
}

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	projects, err := readProjectsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total projects to import: %d\n", len(projects))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for _, seed := range projects {
		created, err := importProject(db.GetDB(), seed)
		if err != nil {
			log.Fatal("Failed to import project:", err)
		}
		if created {
			imported++
		}
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total projects imported: %d (skipped %d duplicates)\n", imported, len(projects)-imported)
}

func readProjectsFromXLSX(filePath string) ([]seedProject, error) {
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
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	// 첫 행은 헤더. 이름으로 컬럼 위치를 찾는다.
	col := make(map[string]int)
	for i, header := range rows[0] {
		col[strings.TrimSpace(header)] = i
	}
	fmt.Printf("Headers: %v\n", rows[0])

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var projects []seedProject
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}

		title := cell(row, "title")
		category := cell(row, "category")
		if title == "" || category == "" {
			skippedCount++
			continue
		}

		targetFund, err := parseAmount(cell(row, "target_fund"))
		if err != nil || targetFund <= 0 {
			skippedCount++
			continue
		}
		launchDate, err := parseDate(cell(row, "launch_date"))
		if err != nil {
			skippedCount++
			continue
		}
		endDate, err := parseDate(cell(row, "end_date"))
		if err != nil {
			skippedCount++
			continue
		}

		seed := seedProject{
			Title:               title,
			Creater:             cell(row, "creater"),
			CreaterEmail:        cell(row, "creater_email"),
			CreaterIntroduction: cell(row, "creater_introduction"),
			Summary:             cell(row, "summary"),
			Category:            category,
			TitleImageURL:       cell(row, "title_image_url"),
			TargetFund:          targetFund,
			LaunchDate:          launchDate,
			EndDate:             endDate,
		}

		// 선물 옵션은 접미사 _1, _2로 들어온다
		for _, suffix := range []string{"_1", "_2"} {
			optionTitle := cell(row, "funding_option_title"+suffix)
			if optionTitle == "" {
				continue
			}
			amount, err := parseAmount(cell(row, "funding_option_amount"+suffix))
			if err != nil {
				continue
			}
			option := seedOption{
				Amount:      amount,
				Title:       optionTitle,
				Description: cell(row, "funding_option_description"+suffix),
			}
			if raw := cell(row, "funding_option_remains"+suffix); raw != "" {
				if remains, err := strconv.ParseInt(raw, 10, 64); err == nil {
					option.Remains = &remains
				}
			}
			seed.Options = append(seed.Options, option)
		}

		projects = append(projects, seed)
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d malformed rows\n", skippedCount)
	}
	return projects, nil
}

// importProject 같은 제목의 프로젝트가 이미 있으면 건너뛴다
func importProject(gdb *gorm.DB, seed seedProject) (bool, error) {
	var count int64
	if err := gdb.Model(&model.Project{}).Where("title = ?", seed.Title).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	var category model.Category
	if err := gdb.Where("name = ?", seed.Category).First(&category).Error; err != nil {
		return false, fmt.Errorf("unknown category %q for project %q: %w", seed.Category, seed.Title, err)
	}

	var creater model.User
	err := gdb.Where("email = ?", seed.CreaterEmail).First(&creater).Error
	if err == gorm.ErrRecordNotFound {
		creater = model.User{
			Username:     seed.Creater,
			Email:        seed.CreaterEmail,
			Introduction: seed.CreaterIntroduction,
			PasswordHash: "", // 시드 계정은 로그인 불가
		}
		if err := gdb.Create(&creater).Error; err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	}

	return true, gdb.Transaction(func(tx *gorm.DB) error {
		project := model.Project{
			Title:         seed.Title,
			CreaterID:     creater.ID,
			Summary:       seed.Summary,
			CategoryID:    category.ID,
			TitleImageURL: seed.TitleImageURL,
			TargetFund:    seed.TargetFund,
			LaunchDate:    seed.LaunchDate,
			EndDate:       seed.EndDate,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		options := []model.FundingOption{
			{
				ProjectID:   project.ID,
				Amount:      model.DefaultOptionAmount,
				Title:       model.DefaultOptionTitle,
				Description: model.DefaultOptionDescription,
			},
		}
		for _, option := range seed.Options {
			options = append(options, model.FundingOption{
				ProjectID:   project.ID,
				Amount:      option.Amount,
				Title:       option.Title,
				Description: option.Description,
				Remains:     option.Remains,
			})
		}
		return tx.Create(&options).Error
	})
}

func parseAmount(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	// 소수점이 붙어 들어오는 데이터도 원 단위로 받는다
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	return int64(value), nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", raw)
}
