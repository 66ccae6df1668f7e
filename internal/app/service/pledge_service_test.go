package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/db"
	"gorm.io/gorm"
)

func setupPledgeServiceTest(t *testing.T) (PledgeService, *gorm.DB, *model.User, *model.Project) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	donationRepo := repository.NewDonationRepository(testDB)
	projectRepo := repository.NewProjectRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	pledgeService := NewPledgeService(donationRepo, projectRepo, userRepo, nil, testDB)

	user := &model.User{Username: "이순대", Email: "sponsor@tteokbok.com", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	creater := &model.User{Username: "김떡볶", Email: "creater@tteokbok.com", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(creater).Error)

	category := &model.Category{Name: "tteokbok"}
	require.NoError(t, testDB.Create(category).Error)

	project := &model.Project{
		Title:      "떡볶이 밀키트",
		CreaterID:  creater.ID,
		CategoryID: category.ID,
		TargetFund: 100000,
		LaunchDate: time.Now().Add(-24 * time.Hour),
		EndDate:    time.Now().Add(72 * time.Hour),
	}
	require.NoError(t, testDB.Create(project).Error)

	return pledgeService, testDB, user, project
}

func createOption(t *testing.T, testDB *gorm.DB, projectID uint, amount int64, remains *int64) *model.FundingOption {
	option := &model.FundingOption{
		ProjectID: projectID,
		Amount:    amount,
		Title:     "선물",
		Remains:   remains,
	}
	require.NoError(t, testDB.Create(option).Error)
	return option
}

func TestPledge_Success(t *testing.T) {
	pledgeService, testDB, user, project := setupPledgeServiceTest(t)
	remains := int64(3)
	option := createOption(t, testDB, project.ID, 5000, &remains)

	donation, err := pledgeService.Pledge(user.ID, option.ID)
	require.NoError(t, err)
	assert.NotZero(t, donation.ID)
	assert.Equal(t, user.ID, donation.UserID)
	// 프로젝트는 옵션에서 파생된다
	assert.Equal(t, project.ID, donation.ProjectID)

	var updated model.FundingOption
	require.NoError(t, testDB.First(&updated, option.ID).Error)
	require.NotNil(t, updated.Remains)
	assert.Equal(t, int64(2), *updated.Remains)
}

func TestPledge_StockRunsOut(t *testing.T) {
	pledgeService, testDB, user, project := setupPledgeServiceTest(t)
	remains := int64(2)
	option := createOption(t, testDB, project.ID, 5000, &remains)

	_, err := pledgeService.Pledge(user.ID, option.ID)
	require.NoError(t, err)
	_, err = pledgeService.Pledge(user.ID, option.ID)
	require.NoError(t, err)

	// 재고 소진 후에는 후원 기록 없이 거부된다
	_, err = pledgeService.Pledge(user.ID, option.ID)
	assert.ErrorIs(t, err, ErrNoStock)

	var donationCount int64
	testDB.Model(&model.Donation{}).Where("funding_option_id = ?", option.ID).Count(&donationCount)
	assert.Equal(t, int64(2), donationCount)

	var updated model.FundingOption
	require.NoError(t, testDB.First(&updated, option.ID).Error)
	require.NotNil(t, updated.Remains)
	assert.Equal(t, int64(0), *updated.Remains)
}

func TestPledge_UnlimitedOption(t *testing.T) {
	pledgeService, testDB, user, project := setupPledgeServiceTest(t)
	option := createOption(t, testDB, project.ID, 1000, nil)

	for i := 0; i < 5; i++ {
		_, err := pledgeService.Pledge(user.ID, option.ID)
		require.NoError(t, err)
	}

	var updated model.FundingOption
	require.NoError(t, testDB.First(&updated, option.ID).Error)
	assert.Nil(t, updated.Remains)

	var donationCount int64
	testDB.Model(&model.Donation{}).Where("funding_option_id = ?", option.ID).Count(&donationCount)
	assert.Equal(t, int64(5), donationCount)
}

func TestPledge_OptionNotFound(t *testing.T) {
	pledgeService, _, user, _ := setupPledgeServiceTest(t)

	_, err := pledgeService.Pledge(user.ID, 99999)
	assert.ErrorIs(t, err, ErrFundingOptionNotFound)
}

func TestExportDonations(t *testing.T) {
	pledgeService, testDB, user, project := setupPledgeServiceTest(t)
	remains := int64(10)
	option := createOption(t, testDB, project.ID, 5000, &remains)

	_, err := pledgeService.Pledge(user.ID, option.ID)
	require.NoError(t, err)

	f, err := pledgeService.ExportDonations(project.CreaterID, project.ID)
	require.NoError(t, err)

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2) // 헤더 + 후원 1건
	assert.Equal(t, "이순대", rows[1][0])
	assert.Equal(t, "sponsor@tteokbok.com", rows[1][1])
}

func TestExportDonations_NotOwner(t *testing.T) {
	pledgeService, _, user, project := setupPledgeServiceTest(t)

	_, err := pledgeService.ExportDonations(user.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotProjectOwner)
}
