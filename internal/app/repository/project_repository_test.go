package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/db"
	"gorm.io/gorm"
)

type projectFixture struct {
	creater *model.User
	viewer  *model.User

	active    *model.Project // 후원 5000원 1건, 진행 중
	done      *model.Project // 후원 1500원 2건, 종료
	scheduled *model.Project // 후원 없음, 공개 예정

	activeOption *model.FundingOption
}

func setupProjectRepositoryTest(t *testing.T) (ProjectRepository, *gorm.DB, *projectFixture) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewProjectRepository(testDB)

	creater := &model.User{Username: "김떡볶", Email: "creater@tteokbok.com", PasswordHash: "hash"}
	viewer := &model.User{Username: "이순대", Email: "viewer@tteokbok.com", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(creater).Error)
	require.NoError(t, testDB.Create(viewer).Error)

	tteokbok := &model.Category{Name: "tteokbok"}
	rameon := &model.Category{Name: "rameon"}
	require.NoError(t, testDB.Create(tteokbok).Error)
	require.NoError(t, testDB.Create(rameon).Error)

	now := time.Now()

	active := &model.Project{
		Title:      "떡볶이 밀키트",
		CreaterID:  creater.ID,
		Summary:    "매콤한 떡볶이",
		CategoryID: tteokbok.ID,
		TargetFund: 10000,
		LaunchDate: now.Add(-48 * time.Hour),
		EndDate:    now.Add(72 * time.Hour),
		CreatedAt:  now.Add(-3 * time.Hour),
	}
	done := &model.Project{
		Title:      "라면 구독",
		CreaterID:  creater.ID,
		Summary:    "매달 새로운 라면",
		CategoryID: rameon.ID,
		TargetFund: 10000,
		LaunchDate: now.Add(-240 * time.Hour),
		EndDate:    now.Add(-24 * time.Hour),
		CreatedAt:  now.Add(-2 * time.Hour),
	}
	scheduled := &model.Project{
		Title:      "김밥 공장",
		CreaterID:  creater.ID,
		Summary:    "김밥 대량 생산",
		CategoryID: tteokbok.ID,
		TargetFund: 10000,
		LaunchDate: now.Add(24 * time.Hour),
		EndDate:    now.Add(240 * time.Hour),
		CreatedAt:  now.Add(-1 * time.Hour),
	}
	require.NoError(t, testDB.Create(active).Error)
	require.NoError(t, testDB.Create(done).Error)
	require.NoError(t, testDB.Create(scheduled).Error)

	remains := int64(10)
	activeOption := &model.FundingOption{ProjectID: active.ID, Amount: 5000, Title: "밀키트 1박스", Remains: &remains}
	doneOption := &model.FundingOption{ProjectID: done.ID, Amount: 1500, Title: "라면 1봉"}
	scheduledOption := &model.FundingOption{ProjectID: scheduled.ID, Amount: 2000, Title: "김밥 1줄"}
	require.NoError(t, testDB.Create(activeOption).Error)
	require.NoError(t, testDB.Create(doneOption).Error)
	require.NoError(t, testDB.Create(scheduledOption).Error)

	donations := []model.Donation{
		{UserID: viewer.ID, ProjectID: active.ID, FundingOptionID: activeOption.ID},
		{UserID: viewer.ID, ProjectID: done.ID, FundingOptionID: doneOption.ID},
		{UserID: creater.ID, ProjectID: done.ID, FundingOptionID: doneOption.ID},
	}
	require.NoError(t, testDB.Create(&donations).Error)

	require.NoError(t, testDB.Create(&model.Like{UserID: viewer.ID, ProjectID: done.ID}).Error)

	return repo, testDB, &projectFixture{
		creater:      creater,
		viewer:       viewer,
		active:       active,
		done:         done,
		scheduled:    scheduled,
		activeOption: activeOption,
	}
}

func statsByID(projects []model.ProjectStats) map[uint]model.ProjectStats {
	result := make(map[uint]model.ProjectStats, len(projects))
	for _, p := range projects {
		result[p.ID] = p
	}
	return result
}

func TestFindWithFilter_Aggregation(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, projects, 3)

	byID := statsByID(projects)

	assert.Equal(t, int64(5000), byID[fx.active.ID].FundingAmount)
	assert.Equal(t, int64(1), byID[fx.active.ID].FundingCount)
	assert.InDelta(t, 50.0, byID[fx.active.ID].Progress, 0.01)
	assert.Equal(t, model.StatusActive, byID[fx.active.ID].Status)

	assert.Equal(t, int64(3000), byID[fx.done.ID].FundingAmount)
	assert.Equal(t, int64(2), byID[fx.done.ID].FundingCount)
	assert.Equal(t, model.StatusDone, byID[fx.done.ID].Status)

	// 후원이 없는 프로젝트도 0으로 집계되어 목록에 나와야 한다
	assert.Equal(t, int64(0), byID[fx.scheduled.ID].FundingAmount)
	assert.Equal(t, int64(0), byID[fx.scheduled.ID].FundingCount)
	assert.InDelta(t, 0.0, byID[fx.scheduled.ID].Progress, 0.01)
	assert.Equal(t, model.StatusScheduled, byID[fx.scheduled.ID].Status)

	// 창작자/카테고리 이름이 채워져 있어야 한다
	assert.Equal(t, "김떡볶", byID[fx.active.ID].Creater.Username)
	assert.Equal(t, "tteokbok", byID[fx.active.ID].Category.Name)
}

func TestFindWithFilter_SortByAmount(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{SortBy: ProjectSortAmount})
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, fx.active.ID, projects[0].ID)
	assert.Equal(t, fx.done.ID, projects[1].ID)
	assert.Equal(t, fx.scheduled.ID, projects[2].ID)
	assert.Equal(t, []int64{5000, 3000, 0}, []int64{
		projects[0].FundingAmount, projects[1].FundingAmount, projects[2].FundingAmount,
	})
}

func TestFindWithFilter_SortByPeople(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{SortBy: ProjectSortPeople})
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, fx.done.ID, projects[0].ID)
}

func TestFindWithFilter_SortByLatestAndOld(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	latest, err := repo.FindWithFilter(ProjectFilter{SortBy: ProjectSortLatest})
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, fx.scheduled.ID, latest[0].ID)

	old, err := repo.FindWithFilter(ProjectFilter{SortBy: ProjectSortOld})
	require.NoError(t, err)
	require.Len(t, old, 3)
	assert.Equal(t, fx.done.ID, old[0].ID)
}

func TestFindWithFilter_StatusFilter(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{Status: model.StatusDone})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.done.ID, projects[0].ID)

	projects, err = repo.FindWithFilter(ProjectFilter{Status: model.StatusScheduled})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.scheduled.ID, projects[0].ID)
}

func TestFindWithFilter_CategoryAndRanges(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{Category: "rameon"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.done.ID, projects[0].ID)

	progressMin := 40.0
	projects, err = repo.FindWithFilter(ProjectFilter{ProgressMin: &progressMin})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.active.ID, projects[0].ID)

	amountMax := int64(3000)
	projects, err = repo.FindWithFilter(ProjectFilter{AmountMax: &amountMax})
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestFindWithFilter_Search(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{Search: "라면"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.done.ID, projects[0].ID)

	// 소개글에도 매칭된다
	projects, err = repo.FindWithFilter(ProjectFilter{Search: "대량"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.scheduled.ID, projects[0].ID)

	projects, err = repo.FindWithFilter(ProjectFilter{Search: "없는검색어"})
	require.NoError(t, err)
	assert.Len(t, projects, 0)
}

func TestFindWithFilter_ViewerFlagsAndPartition(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{ViewerID: &fx.viewer.ID})
	require.NoError(t, err)
	require.Len(t, projects, 3)

	// 좋아요한 프로젝트가 정렬 키와 무관하게 앞 구획에 온다
	assert.Equal(t, fx.done.ID, projects[0].ID)
	assert.True(t, projects[0].Liked)

	byID := statsByID(projects)
	assert.True(t, byID[fx.active.ID].Donated)
	assert.True(t, byID[fx.done.ID].Donated)
	assert.False(t, byID[fx.scheduled.ID].Donated)
	assert.False(t, byID[fx.active.ID].Liked)
}

func TestFindWithFilter_LikedAndDonatedOnly(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	projects, err := repo.FindWithFilter(ProjectFilter{ViewerID: &fx.viewer.ID, LikedOnly: true})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, fx.done.ID, projects[0].ID)

	projects, err = repo.FindWithFilter(ProjectFilter{ViewerID: &fx.viewer.ID, DonatedOnly: true})
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestFindDetailByID(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	detail, err := repo.FindDetailByID(fx.done.ID, &fx.viewer.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3000), detail.FundingAmount)
	assert.Equal(t, int64(2), detail.TotalSponsor)
	assert.True(t, detail.Liked)
	assert.Equal(t, "김떡볶", detail.Project.Creater.Username)
	require.Len(t, detail.Project.FundingOptions, 1)
	assert.Equal(t, int64(2), detail.OptionCounts[detail.Project.FundingOptions[0].ID])
}

func TestFindDetailByID_NoDonations(t *testing.T) {
	repo, _, fx := setupProjectRepositoryTest(t)

	detail, err := repo.FindDetailByID(fx.scheduled.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), detail.FundingAmount)
	assert.Equal(t, int64(0), detail.TotalSponsor)
	assert.False(t, detail.Liked)
	require.Len(t, detail.Project.FundingOptions, 1)
	assert.Equal(t, int64(0), detail.OptionCounts[detail.Project.FundingOptions[0].ID])
}

func TestFindDetailByID_NotFound(t *testing.T) {
	repo, _, _ := setupProjectRepositoryTest(t)

	_, err := repo.FindDetailByID(99999, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteCascade(t *testing.T) {
	repo, testDB, fx := setupProjectRepositoryTest(t)

	require.NoError(t, repo.DeleteCascade(fx.done.ID))

	var projectCount, donationCount, optionCount, likeCount int64
	testDB.Model(&model.Project{}).Where("id = ?", fx.done.ID).Count(&projectCount)
	testDB.Model(&model.Donation{}).Where("project_id = ?", fx.done.ID).Count(&donationCount)
	testDB.Model(&model.FundingOption{}).Where("project_id = ?", fx.done.ID).Count(&optionCount)
	testDB.Model(&model.Like{}).Where("project_id = ?", fx.done.ID).Count(&likeCount)

	assert.Zero(t, projectCount)
	assert.Zero(t, donationCount)
	assert.Zero(t, optionCount)
	assert.Zero(t, likeCount)

	// 다른 프로젝트는 영향을 받지 않는다
	var remaining int64
	testDB.Model(&model.Project{}).Count(&remaining)
	assert.Equal(t, int64(2), remaining)
}

func TestCountTransitions(t *testing.T) {
	repo, _, _ := setupProjectRepositoryTest(t)

	now := time.Now()
	ended, err := repo.CountEndingBetween(now.Add(-48*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ended)

	launching, err := repo.CountLaunchingBetween(now, now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), launching)
}
