package gateway

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"portal-service/app/domain"
	mock_port "portal-service/app/mocks"
	"portal-service/app/utils/logger"
)

func newTestGateway(t *testing.T) (*AccountGateway, *mock_port.MockIdentityProvider, *mock_port.MockRoleRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	identities := mock_port.NewMockIdentityProvider(ctrl)
	roles := mock_port.NewMockRoleRepository(ctrl)

	return NewAccountGateway(identities, roles, logger.Discard()), identities, roles
}

func TestAccountGateway_CreateAccount(t *testing.T) {
	account := domain.NewAccount{Email: "block@demo.portal.gov.in", Password: domain.DemoDefaultPassword, Confirmed: true}

	t.Run("delegates to identity provider", func(t *testing.T) {
		gw, identities, _ := newTestGateway(t)
		identities.EXPECT().
			CreateIdentity(gomock.Any(), account).
			Return(&domain.Account{ID: "id-1", Email: account.Email}, nil)

		created, err := gw.CreateAccount(context.Background(), account)
		require.NoError(t, err)
		assert.Equal(t, "id-1", created.ID)
	})

	t.Run("keeps the domain error reachable", func(t *testing.T) {
		gw, identities, _ := newTestGateway(t)
		identities.EXPECT().
			CreateIdentity(gomock.Any(), account).
			Return(nil, fmt.Errorf("%w: duplicate", domain.ErrAccountExists))

		_, err := gw.CreateAccount(context.Background(), account)
		assert.ErrorIs(t, err, domain.ErrAccountExists)
		assert.ErrorContains(t, err, "block@demo.portal.gov.in")
	})
}

func TestAccountGateway_ListAccounts(t *testing.T) {
	gw, identities, _ := newTestGateway(t)
	identities.EXPECT().ListIdentities(gomock.Any()).Return(nil, domain.ErrUnauthorized)

	_, err := gw.ListAccounts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAccountGateway_InsertRole(t *testing.T) {
	accountID := uuid.NewString()

	t.Run("builds an assignment for the repository", func(t *testing.T) {
		gw, _, roles := newTestGateway(t)
		roles.EXPECT().
			InsertRole(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *domain.RoleAssignment) error {
				assert.Equal(t, accountID, a.AccountID.String())
				assert.Equal(t, domain.RoleSupervisor, a.Role)
				assert.NotEqual(t, uuid.Nil, a.ID)
				return nil
			})

		assert.NoError(t, gw.InsertRole(context.Background(), accountID, domain.RoleSupervisor))
	})

	t.Run("duplicate stays recognisable", func(t *testing.T) {
		gw, _, roles := newTestGateway(t)
		roles.EXPECT().InsertRole(gomock.Any(), gomock.Any()).Return(domain.ErrRoleAlreadyAssigned)

		err := gw.InsertRole(context.Background(), accountID, domain.RoleSupervisor)
		assert.ErrorIs(t, err, domain.ErrRoleAlreadyAssigned)
	})

	t.Run("invalid account id never reaches the repository", func(t *testing.T) {
		gw, _, _ := newTestGateway(t)

		err := gw.InsertRole(context.Background(), "not-a-uuid", domain.RoleSupervisor)
		assert.ErrorIs(t, err, domain.ErrInvalidAccountID)
	})

	t.Run("invalid role never reaches the repository", func(t *testing.T) {
		gw, _, _ := newTestGateway(t)

		err := gw.InsertRole(context.Background(), accountID, domain.Role("root"))
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}
