package services

import (
	"context"
	"testing"

	"invoicecraft/internal/models"
	"invoicecraft/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockMaster  *MockMasterRegistry
	mockFactory *MockTenantRegistryFactory
	service     AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockMaster = &MockMasterRegistry{}
	suite.mockMaster.Test(suite.T())
	suite.mockFactory = &MockTenantRegistryFactory{Registry: &MockTenantRegistry{}}
	suite.mockFactory.Test(suite.T())
	suite.mockFactory.Registry.Test(suite.T())
	suite.service = NewAuthService(suite.mockMaster, suite.mockFactory, zap.NewNop())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockMaster.AssertExpectations(suite.T())
	suite.mockFactory.Registry.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func hashOf(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func activeTenant() *models.Tenant {
	return &models.Tenant{
		ID:        uuid.New(),
		Subdomain: "acme",
		SheetID:   "sheet-acme",
		Status:    models.StatusActive,
	}
}

func (suite *AuthServiceTestSuite) TestTenantLogin_Success() {
	ctx := context.Background()
	suite.mockMaster.On("GetTenantBySubdomain", ctx, "acme").Return(activeTenant(), nil)
	suite.mockFactory.On("ForStore", "sheet-acme").Return()
	suite.mockFactory.Registry.On("GetUserByUsername", ctx, "alice").
		Return(&models.StoreUser{Username: "alice", PasswordHash: hashOf("s3cret"), Role: "admin"}, nil)

	data, err := suite.service.TenantLogin(ctx, "acme", "alice", "s3cret")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), session.RoleTenantAdmin, data.Role)
	assert.Equal(suite.T(), "acme", *data.Tenant)
	assert.Equal(suite.T(), "sheet-acme", *data.SheetID)
	assert.Equal(suite.T(), "alice", data.Subject)
}

func (suite *AuthServiceTestSuite) TestTenantLogin_NonAdminRoleMapsToTenantUser() {
	ctx := context.Background()
	suite.mockMaster.On("GetTenantBySubdomain", ctx, "acme").Return(activeTenant(), nil)
	suite.mockFactory.On("ForStore", "sheet-acme").Return()
	suite.mockFactory.Registry.On("GetUserByUsername", ctx, "bob").
		Return(&models.StoreUser{Username: "bob", PasswordHash: hashOf("pw"), Role: "member"}, nil)

	data, err := suite.service.TenantLogin(ctx, "acme", "bob", "pw")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), session.RoleTenantUser, data.Role)
}

func (suite *AuthServiceTestSuite) TestTenantLogin_UnknownTenant() {
	ctx := context.Background()
	suite.mockMaster.On("GetTenantBySubdomain", ctx, "ghost").Return(nil, nil)

	data, err := suite.service.TenantLogin(ctx, "ghost", "alice", "s3cret")
	assert.Nil(suite.T(), data)
	assert.ErrorIs(suite.T(), err, ErrTenantNotFound)
}

func (suite *AuthServiceTestSuite) TestTenantLogin_SuspendedTenant() {
	ctx := context.Background()
	tenant := activeTenant()
	tenant.Status = models.StatusSuspended
	suite.mockMaster.On("GetTenantBySubdomain", ctx, "acme").Return(tenant, nil)

	data, err := suite.service.TenantLogin(ctx, "acme", "alice", "s3cret")
	assert.Nil(suite.T(), data)
	var inactive *TenantInactiveError
	assert.ErrorAs(suite.T(), err, &inactive)
	assert.Equal(suite.T(), models.StatusSuspended, inactive.Status)
}

func (suite *AuthServiceTestSuite) TestTenantLogin_WrongPassword() {
	ctx := context.Background()
	suite.mockMaster.On("GetTenantBySubdomain", ctx, "acme").Return(activeTenant(), nil)
	suite.mockFactory.On("ForStore", "sheet-acme").Return()
	suite.mockFactory.Registry.On("GetUserByUsername", ctx, "alice").
		Return(&models.StoreUser{Username: "alice", PasswordHash: hashOf("s3cret"), Role: "admin"}, nil)

	data, err := suite.service.TenantLogin(ctx, "acme", "alice", "wrong")
	assert.Nil(suite.T(), data)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestTenantLogin_UnknownUserIndistinguishableFromWrongPassword() {
	ctx := context.Background()
	suite.mockMaster.On("GetTenantBySubdomain", ctx, "acme").Return(activeTenant(), nil)
	suite.mockFactory.On("ForStore", "sheet-acme").Return()
	suite.mockFactory.Registry.On("GetUserByUsername", ctx, "ghost").Return(nil, nil)

	data, err := suite.service.TenantLogin(ctx, "acme", "ghost", "pw")
	assert.Nil(suite.T(), data)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestPlatformLogin_Success() {
	ctx := context.Background()
	suite.mockMaster.On("GetPlatformAdminByEmail", ctx, "root@invoicecraft.com").
		Return(&models.PlatformAdmin{Email: "root@invoicecraft.com", PasswordHash: hashOf("s3cret")}, nil)

	data, err := suite.service.PlatformLogin(ctx, "root@invoicecraft.com", "s3cret")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), session.RolePlatformAdmin, data.Role)
	assert.Nil(suite.T(), data.Tenant)
	assert.Nil(suite.T(), data.SheetID)
}

func (suite *AuthServiceTestSuite) TestPlatformLogin_UnknownEmail() {
	ctx := context.Background()
	suite.mockMaster.On("GetPlatformAdminByEmail", ctx, "ghost@invoicecraft.com").Return(nil, nil)

	data, err := suite.service.PlatformLogin(ctx, "ghost@invoicecraft.com", "pw")
	assert.Nil(suite.T(), data)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}
