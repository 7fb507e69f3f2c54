package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cloudtask/task-service/internal/assignees"
	"github.com/cloudtask/task-service/internal/database"
	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/repository"
)

// ProjectServiceTestSuite defines the test suite for ProjectService
type ProjectServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProjectService

	owner *models.User
	bob   *models.User
}

// SetupTest runs before each test
func (suite *ProjectServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	projectRepo := repository.NewProjectRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	membership := NewMembershipService(
		projectRepo,
		repository.NewMemberRepository(suite.db),
		userRepo,
	)
	suite.service = NewProjectService(projectRepo, userRepo, membership)

	suite.owner = suite.createUser("owner-uid", "owner@example.com")
	suite.bob = suite.createUser("bob-uid", "bob@example.com")
}

// TearDownTest runs after each test
func (suite *ProjectServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectServiceTestSuite) createUser(uid, email string) *models.User {
	user := &models.User{FirebaseUID: uid, Name: uid, Email: email}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProjectServiceTestSuite) TestCreateProject() {
	project, err := suite.service.CreateProject("Launch", "ship it", suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(suite.owner.FirebaseUID, project.OwnerUID)
	suite.NotZero(project.ID)
}

func (suite *ProjectServiceTestSuite) TestCreateProjectRequiresName() {
	_, err := suite.service.CreateProject("  ", "", suite.owner.FirebaseUID)
	suite.ErrorIs(err, ErrInvalidRequest)
}

func (suite *ProjectServiceTestSuite) TestCreateProjectUnknownOwner() {
	_, err := suite.service.CreateProject("Launch", "", "ghost-uid")
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ProjectServiceTestSuite) TestUpdateProjectOwnerOnly() {
	project, err := suite.service.CreateProject("Launch", "", suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserUID:   suite.bob.FirebaseUID,
		Role:      permissions.RoleAdmin,
	}).Error)

	_, err = suite.service.UpdateProject(project.ID, "Renamed", "", suite.bob.FirebaseUID)
	suite.ErrorIs(err, ErrPermissionDenied)

	updated, err := suite.service.UpdateProject(project.ID, "Renamed", "new desc", suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)
}

func (suite *ProjectServiceTestSuite) TestUserProjects() {
	owned, err := suite.service.CreateProject("Owned", "", suite.owner.FirebaseUID)
	suite.Require().NoError(err)

	other, err := suite.service.CreateProject("Joined", "", suite.bob.FirebaseUID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Create(&models.ProjectMember{
		ProjectID: other.ID,
		UserUID:   suite.owner.FirebaseUID,
		Role:      permissions.RoleMember,
	}).Error)

	// A project the owner has nothing to do with.
	_, err = suite.service.CreateProject("Unrelated", "", suite.bob.FirebaseUID)
	suite.Require().NoError(err)

	projects, err := suite.service.UserProjects(suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Len(projects, 2)
	ids := []uint64{projects[0].ID, projects[1].ID}
	suite.Contains(ids, owned.ID)
	suite.Contains(ids, other.ID)
}

func (suite *ProjectServiceTestSuite) TestDeleteProjectCascades() {
	project, err := suite.service.CreateProject("Launch", "", suite.owner.FirebaseUID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserUID:   suite.bob.FirebaseUID,
		Role:      permissions.RoleMember,
	}).Error)
	suite.Require().NoError(suite.db.Create(&models.Task{
		Title:        "Doomed",
		Status:       models.TaskStatusTodo,
		ProjectID:    project.ID,
		CreatedBy:    suite.owner.FirebaseUID,
		AssigneesRaw: assignees.EmptyList,
	}).Error)

	err = suite.service.DeleteProject(project.ID, suite.bob.FirebaseUID)
	suite.ErrorIs(err, ErrPermissionDenied)

	suite.Require().NoError(suite.service.DeleteProject(project.ID, suite.owner.FirebaseUID))

	_, err = suite.service.GetProject(project.ID)
	suite.ErrorIs(err, ErrProjectNotFound)

	var members int64
	suite.Require().NoError(suite.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&members).Error)
	suite.Zero(members)

	var tasks int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).
		Where("project_id = ?", project.ID).Count(&tasks).Error)
	suite.Zero(tasks)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
