package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cloudtask/task-service/internal/database"
	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/repository"
)

// MembershipServiceTestSuite defines the test suite for MembershipService
type MembershipServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *MembershipService

	project *models.Project
	owner   *models.User
	admin   *models.User
	bob     *models.User
	carol   *models.User
}

// SetupTest runs before each test
func (suite *MembershipServiceTestSuite) SetupTest() {
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

	suite.service = NewMembershipService(
		repository.NewProjectRepository(suite.db),
		repository.NewMemberRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)

	suite.owner = suite.createUser("owner-uid", "owner@example.com")
	suite.admin = suite.createUser("admin-uid", "admin@example.com")
	suite.bob = suite.createUser("bob-uid", "bob@example.com")
	suite.carol = suite.createUser("carol-uid", "carol@example.com")

	suite.project = &models.Project{Name: "Launch", OwnerUID: suite.owner.FirebaseUID}
	suite.Require().NoError(suite.db.Create(suite.project).Error)

	suite.addMember(suite.admin.FirebaseUID, permissions.RoleAdmin)
	suite.addMember(suite.bob.FirebaseUID, permissions.RoleMember)
}

// TearDownTest runs after each test
func (suite *MembershipServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MembershipServiceTestSuite) createUser(uid, email string) *models.User {
	user := &models.User{FirebaseUID: uid, Name: uid, Email: email}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *MembershipServiceTestSuite) addMember(uid string, role permissions.Role) {
	member := &models.ProjectMember{ProjectID: suite.project.ID, UserUID: uid, Role: role}
	suite.Require().NoError(suite.db.Create(member).Error)
}

func (suite *MembershipServiceTestSuite) TestResolveRole() {
	role, err := suite.service.ResolveRole(suite.project.ID, suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleOwner, role)

	role, err = suite.service.ResolveRole(suite.project.ID, suite.admin.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleAdmin, role)

	role, err = suite.service.ResolveRole(suite.project.ID, suite.bob.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleMember, role)

	role, err = suite.service.ResolveRole(suite.project.ID, suite.carol.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleNone, role)
}

func (suite *MembershipServiceTestSuite) TestResolveRoleMissingProject() {
	_, err := suite.service.ResolveRole(99999, suite.owner.FirebaseUID)
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *MembershipServiceTestSuite) TestOwnershipWinsOverMembershipRow() {
	// A stray MEMBER row for the owner must not demote them.
	suite.addMember(suite.owner.FirebaseUID, permissions.RoleMember)

	role, err := suite.service.ResolveRole(suite.project.ID, suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleOwner, role)
}

func (suite *MembershipServiceTestSuite) TestMemberUIDsIncludesOwner() {
	uids, err := suite.service.MemberUIDs(suite.project.ID)
	suite.Require().NoError(err)

	suite.Contains(uids, suite.owner.FirebaseUID)
	suite.Contains(uids, suite.admin.FirebaseUID)
	suite.Contains(uids, suite.bob.FirebaseUID)
	suite.NotContains(uids, suite.carol.FirebaseUID)
}

func (suite *MembershipServiceTestSuite) TestHasAccess() {
	ok, err := suite.service.HasAccess(suite.project.ID, suite.bob.FirebaseUID)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = suite.service.HasAccess(suite.project.ID, suite.carol.FirebaseUID)
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *MembershipServiceTestSuite) TestAddMember() {
	member, err := suite.service.AddMember(suite.project.ID, suite.carol.Email, permissions.RoleMember, suite.owner.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(suite.carol.FirebaseUID, member.UserUID)

	role, err := suite.service.ResolveRole(suite.project.ID, suite.carol.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleMember, role)
}

func (suite *MembershipServiceTestSuite) TestAdminCanAddMember() {
	_, err := suite.service.AddMember(suite.project.ID, suite.carol.Email, permissions.RoleMember, suite.admin.FirebaseUID)
	suite.NoError(err)
}

func (suite *MembershipServiceTestSuite) TestMemberCannotAddMember() {
	_, err := suite.service.AddMember(suite.project.ID, suite.carol.Email, permissions.RoleMember, suite.bob.FirebaseUID)
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *MembershipServiceTestSuite) TestAddMemberUnknownEmail() {
	_, err := suite.service.AddMember(suite.project.ID, "nobody@example.com", permissions.RoleMember, suite.owner.FirebaseUID)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *MembershipServiceTestSuite) TestAddMemberTwice() {
	_, err := suite.service.AddMember(suite.project.ID, suite.bob.Email, permissions.RoleMember, suite.owner.FirebaseUID)
	suite.ErrorIs(err, ErrAlreadyMember)
}

func (suite *MembershipServiceTestSuite) TestAddMemberInvalidRole() {
	_, err := suite.service.AddMember(suite.project.ID, suite.carol.Email, permissions.Role("SUPERUSER"), suite.owner.FirebaseUID)
	suite.ErrorIs(err, ErrInvalidRequest)
}

func (suite *MembershipServiceTestSuite) TestRemoveMember() {
	err := suite.service.RemoveMember(suite.project.ID, suite.bob.FirebaseUID, suite.owner.FirebaseUID)
	suite.Require().NoError(err)

	role, err := suite.service.ResolveRole(suite.project.ID, suite.bob.FirebaseUID)
	suite.Require().NoError(err)
	suite.Equal(permissions.RoleNone, role)
}

func (suite *MembershipServiceTestSuite) TestMemberCannotRemoveMember() {
	err := suite.service.RemoveMember(suite.project.ID, suite.admin.FirebaseUID, suite.bob.FirebaseUID)
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *MembershipServiceTestSuite) TestCannotRemoveOwner() {
	err := suite.service.RemoveMember(suite.project.ID, suite.owner.FirebaseUID, suite.admin.FirebaseUID)
	suite.ErrorIs(err, ErrCannotRemoveOwner)
}

func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
