package kratos

import (
	"context"
	"fmt"
	"log/slog"

	kratosclient "github.com/ory/kratos-client-go"

	"portal-service/app/domain"
	"portal-service/app/port"
)

const (
	opCreateIdentity = "create_identity"
	opListIdentities = "list_identities"
	opLogin          = "login"
	opRegister       = "registration"
	opLogout         = "logout"
	opWhoAmI         = "whoami"

	listPageSize = 250
	// upper bound on pages fetched in one listing
	maxListPages = 400
)

// IdentityAdapter implements port.IdentityProvider on top of kratos-client-go
type IdentityAdapter struct {
	client   *Client
	schemaID string
	logger   *slog.Logger
}

// NewIdentityAdapter creates a new adapter
func NewIdentityAdapter(client *Client, schemaID string, logger *slog.Logger) port.IdentityProvider {
	return &IdentityAdapter{
		client:   client,
		schemaID: schemaID,
		logger:   logger.With("component", "kratos"),
	}
}

// CreateIdentity creates an identity through the admin API
func (a *IdentityAdapter) CreateIdentity(ctx context.Context, account domain.NewAccount) (*domain.Account, error) {
	admin := a.client.AdminAPI()
	if admin == nil {
		return nil, domain.ErrSeedNotConfigured
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	identity, httpResp, err := admin.IdentityAPI.
		CreateIdentity(ctx).
		CreateIdentityBody(buildCreateIdentityBody(a.schemaID, account)).
		Execute()
	if err != nil {
		return nil, a.mapError(err, httpResp, opCreateIdentity)
	}

	created := transformIdentity(identity)
	a.logger.Info("identity created", "identity_id", created.ID, "email", account.Email)
	return &created, nil
}

// ListIdentities pages through every identity using the Link header cursor
func (a *IdentityAdapter) ListIdentities(ctx context.Context) ([]domain.Account, error) {
	admin := a.client.AdminAPI()
	if admin == nil {
		return nil, domain.ErrSeedNotConfigured
	}

	var accounts []domain.Account
	pageToken := ""

	for page := 0; page < maxListPages; page++ {
		req := admin.IdentityAPI.ListIdentities(ctx).PageSize(listPageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		identities, httpResp, err := req.Execute()
		if err != nil {
			return nil, a.mapError(err, httpResp, opListIdentities)
		}

		for i := range identities {
			accounts = append(accounts, transformIdentity(&identities[i]))
		}

		next := nextPageToken(httpResp)
		if next == "" || next == pageToken || len(identities) == 0 {
			a.logger.Debug("identities listed", "count", len(accounts), "pages", page+1)
			return accounts, nil
		}
		pageToken = next
	}

	return nil, fmt.Errorf("%w: identity listing exceeded %d pages", domain.ErrIdentityProvider, maxListPages)
}

// Login runs a native (API) login flow with the password method
func (a *IdentityAdapter) Login(ctx context.Context, creds domain.Credentials) (*domain.IdentitySession, error) {
	public := a.client.PublicAPI().FrontendAPI

	flow, httpResp, err := public.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, a.mapError(err, httpResp, opLogin)
	}

	method := kratosclient.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: creds.Email,
		Password:   creds.Password,
	}

	result, httpResp, err := public.
		UpdateLoginFlow(ctx).
		Flow(flow.GetId()).
		UpdateLoginFlowBody(kratosclient.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&method)).
		Execute()
	if err != nil {
		return nil, a.mapError(err, httpResp, opLogin)
	}

	token, err := sessionToken(result.SessionToken)
	if err != nil {
		return nil, err
	}

	session := result.GetSession()
	return transformSession(&session, token), nil
}

// Register runs a native registration flow and returns the session issued for the new identity
func (a *IdentityAdapter) Register(ctx context.Context, account domain.NewAccount) (*domain.IdentitySession, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	public := a.client.PublicAPI().FrontendAPI

	flow, httpResp, err := public.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		return nil, a.mapError(err, httpResp, opRegister)
	}

	method := kratosclient.UpdateRegistrationFlowWithPasswordMethod{
		Method:   "password",
		Password: account.Password,
		Traits:   buildTraits(account.Email, account.Metadata),
	}

	result, httpResp, err := public.
		UpdateRegistrationFlow(ctx).
		Flow(flow.GetId()).
		UpdateRegistrationFlowBody(kratosclient.UpdateRegistrationFlowWithPasswordMethodAsUpdateRegistrationFlowBody(&method)).
		Execute()
	if err != nil {
		return nil, a.mapError(err, httpResp, opRegister)
	}

	token, err := sessionToken(result.SessionToken)
	if err != nil {
		return nil, err
	}

	identity := result.GetIdentity()
	session := &domain.IdentitySession{
		Token:   token,
		Active:  true,
		Account: transformIdentity(&identity),
	}
	if s, ok := result.GetSessionOk(); ok {
		session = transformSession(s, token)
		session.Account = transformIdentity(&identity)
	}

	a.logger.Info("identity registered", "identity_id", session.Account.ID)
	return session, nil
}

// Logout revokes a session token
func (a *IdentityAdapter) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return domain.ErrMissingToken
	}

	httpResp, err := a.client.PublicAPI().FrontendAPI.
		PerformNativeLogout(ctx).
		PerformNativeLogoutBody(*kratosclient.NewPerformNativeLogoutBody(sessionToken)).
		Execute()
	if err != nil {
		return a.mapError(err, httpResp, opLogout)
	}
	return nil
}

// WhoAmI resolves a session token into its session
func (a *IdentityAdapter) WhoAmI(ctx context.Context, sessionToken string) (*domain.IdentitySession, error) {
	if sessionToken == "" {
		return nil, domain.ErrMissingToken
	}

	session, httpResp, err := a.client.PublicAPI().FrontendAPI.
		ToSession(ctx).
		XSessionToken(sessionToken).
		Execute()
	if err != nil {
		return nil, a.mapError(err, httpResp, opWhoAmI)
	}

	return transformSession(session, sessionToken), nil
}
