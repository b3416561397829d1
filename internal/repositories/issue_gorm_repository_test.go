package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"issuetracker/internal/models"
	"issuetracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a uniquely-named shared in-memory SQLite database so tests
// do not see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Issue{}))
	return db
}

func seedIssue(t *testing.T, repo *repositories.GORMIssueRepository, owner, title, description, status, priority string) *models.Issue {
	t.Helper()
	issue := &models.Issue{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		CreatedBy:   owner,
	}
	require.NoError(t, repo.Create(issue))
	time.Sleep(2 * time.Millisecond) // distinct created_at for ordering
	return issue
}

func TestGORMIssueRepository_GetByID_OwnerScoped(t *testing.T) {
	repo := repositories.NewGORMIssueRepository(newTestDB(t))

	issue := seedIssue(t, repo, "owner-1", "Bug A", "", models.StatusOpen, models.PriorityMedium)

	found, err := repo.GetByID("owner-1", issue.ID)
	assert.NoError(t, err)
	assert.Equal(t, issue.ID, found.ID)

	// Another owner's lookup and a nonexistent ID both yield ErrNotFound.
	_, err = repo.GetByID("owner-2", issue.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetByID("owner-1", "no-such-id")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMIssueRepository_List(t *testing.T) {
	repo := repositories.NewGORMIssueRepository(newTestDB(t))

	seedIssue(t, repo, "owner-1", "Login crash", "", models.StatusDone, models.PriorityHigh)
	seedIssue(t, repo, "owner-1", "Login slow", "", models.StatusDone, models.PriorityLow)
	seedIssue(t, repo, "owner-1", "Typo", "broken LOGIN link", models.StatusOpen, models.PriorityHigh)
	seedIssue(t, repo, "owner-1", "Unrelated", "", models.StatusOpen, models.PriorityMedium)
	seedIssue(t, repo, "owner-2", "Login theirs", "", models.StatusDone, models.PriorityHigh)

	// Unfiltered listing is owner-scoped and newest-first.
	issues, total, err := repo.List("owner-1", repositories.IssueFilter{}, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, issues, 4)
	assert.Equal(t, "Unrelated", issues[0].Title)
	for i := 1; i < len(issues); i++ {
		assert.False(t, issues[i].CreatedAt.After(issues[i-1].CreatedAt))
	}

	// Case-insensitive search across title and description.
	issues, total, err = repo.List("owner-1", repositories.IssueFilter{Search: "login"}, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, issues, 3)

	// Status + priority + search intersect.
	issues, total, err = repo.List("owner-1", repositories.IssueFilter{
		Status:   models.StatusDone,
		Priority: models.PriorityHigh,
		Search:   "LOGIN",
	}, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, issues, 1)
	assert.Equal(t, "Login crash", issues[0].Title)

	// Count ignores offset/limit: a page past the end is empty, total intact.
	issues, total, err = repo.List("owner-1", repositories.IssueFilter{}, 100, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, issues)
}

func TestGORMIssueRepository_Update_CannotCrossOwners(t *testing.T) {
	repo := repositories.NewGORMIssueRepository(newTestDB(t))

	issue := seedIssue(t, repo, "owner-1", "Bug A", "", models.StatusOpen, models.PriorityMedium)

	// A write claiming a different owner affects nothing.
	hijack := *issue
	hijack.CreatedBy = "owner-2"
	hijack.Title = "Hijacked"
	assert.ErrorIs(t, repo.Update(&hijack), repositories.ErrNotFound)

	kept, err := repo.GetByID("owner-1", issue.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Bug A", kept.Title)

	// The owner's own update lands and refreshes updated_at, both in the
	// store and on the struct handed in.
	issue.Status = models.StatusInProgress
	assert.NoError(t, repo.Update(issue))
	updated, err := repo.GetByID("owner-1", issue.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.True(t, updated.UpdatedAt.After(kept.CreatedAt))
	assert.True(t, issue.UpdatedAt.Equal(updated.UpdatedAt))
}

func TestGORMIssueRepository_Delete(t *testing.T) {
	repo := repositories.NewGORMIssueRepository(newTestDB(t))

	issue := seedIssue(t, repo, "owner-1", "Bug A", "", models.StatusOpen, models.PriorityMedium)

	assert.ErrorIs(t, repo.Delete("owner-2", issue.ID), repositories.ErrNotFound)
	assert.NoError(t, repo.Delete("owner-1", issue.ID))
	assert.ErrorIs(t, repo.Delete("owner-1", issue.ID), repositories.ErrNotFound)

	_, err := repo.GetByID("owner-1", issue.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMIssueRepository_CountByStatus(t *testing.T) {
	repo := repositories.NewGORMIssueRepository(newTestDB(t))

	counts, err := repo.CountByStatus("owner-1")
	assert.NoError(t, err)
	assert.Empty(t, counts)

	seedIssue(t, repo, "owner-1", "A", "", models.StatusOpen, models.PriorityMedium)
	seedIssue(t, repo, "owner-1", "B", "", models.StatusOpen, models.PriorityMedium)
	seedIssue(t, repo, "owner-1", "C", "", models.StatusDone, models.PriorityMedium)
	seedIssue(t, repo, "owner-2", "D", "", models.StatusInProgress, models.PriorityMedium)

	counts, err = repo.CountByStatus("owner-1")
	assert.NoError(t, err)
	assert.Equal(t, map[string]int64{
		models.StatusOpen: 2,
		models.StatusDone: 1,
	}, counts)
}

func TestGORMUserRepository_EmailLookup(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))

	user := &models.User{Email: "test@example.com", Password: "digest"}
	assert.NoError(t, repo.Create(user))
	assert.NotEmpty(t, user.ID)

	found, err := repo.GetByEmail("test@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	byID, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", byID.Email)

	// Email uniqueness is enforced at write time.
	dup := &models.User{Email: "test@example.com", Password: "digest"}
	assert.Error(t, repo.Create(dup))
}
