package kratos

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	kratosclient "github.com/ory/kratos-client-go"

	"portal-service/app/domain"
)

// Trait keys of the portal identity schema
const (
	traitEmail       = "email"
	traitName        = "name"
	traitDesignation = "designation"
	traitDepartment  = "department"
)

// buildTraits maps account metadata onto identity traits. Empty optional fields are omitted.
func buildTraits(email string, meta domain.AccountMetadata) map[string]any {
	traits := map[string]any{
		traitEmail: strings.TrimSpace(email),
	}
	if meta.Name != "" {
		traits[traitName] = meta.Name
	}
	if meta.Designation != "" {
		traits[traitDesignation] = meta.Designation
	}
	if meta.Department != "" {
		traits[traitDepartment] = meta.Department
	}
	return traits
}

// buildCreateIdentityBody builds an admin create request carrying a password credential.
// Confirmed accounts get a verified email address so they can sign in immediately.
func buildCreateIdentityBody(schemaID string, account domain.NewAccount) kratosclient.CreateIdentityBody {
	password := account.Password
	body := kratosclient.CreateIdentityBody{
		SchemaId: schemaID,
		Traits:   buildTraits(account.Email, account.Metadata),
		Credentials: &kratosclient.IdentityWithCredentials{
			Password: &kratosclient.IdentityWithCredentialsPassword{
				Config: &kratosclient.IdentityWithCredentialsPasswordConfig{
					Password: &password,
				},
			},
		},
	}

	if account.Confirmed {
		body.VerifiableAddresses = []kratosclient.VerifiableIdentityAddress{
			*kratosclient.NewVerifiableIdentityAddress("completed", strings.TrimSpace(account.Email), true, "email"),
		}
	}

	return body
}

// transformIdentity converts a Kratos identity into a domain account
func transformIdentity(identity *kratosclient.Identity) domain.Account {
	if identity == nil {
		return domain.Account{}
	}

	account := domain.Account{
		ID:        identity.GetId(),
		CreatedAt: identity.GetCreatedAt(),
	}

	if traits, ok := identity.GetTraits().(map[string]any); ok {
		account.Email = stringTrait(traits, traitEmail)
		account.Name = stringTrait(traits, traitName)
		account.Designation = stringTrait(traits, traitDesignation)
		account.Department = stringTrait(traits, traitDepartment)
	}

	return account
}

func stringTrait(traits map[string]any, key string) string {
	if v, ok := traits[key].(string); ok {
		return v
	}
	return ""
}

// transformSession converts a Kratos session into a domain identity session
func transformSession(session *kratosclient.Session, token string) *domain.IdentitySession {
	if session == nil {
		return nil
	}

	out := &domain.IdentitySession{
		ID:        session.GetId(),
		Token:     token,
		Active:    session.GetActive(),
		ExpiresAt: session.GetExpiresAt(),
	}
	if identity, ok := session.GetIdentityOk(); ok {
		out.Account = transformIdentity(identity)
	}
	return out
}

// nextPageToken extracts page_token from the rel="next" entry of a Link header.
// An empty result means the listing is complete.
func nextPageToken(resp *http.Response) string {
	if resp == nil {
		return ""
	}

	for _, header := range resp.Header.Values("Link") {
		for _, link := range strings.Split(header, ",") {
			segments := strings.Split(link, ";")
			if len(segments) < 2 {
				continue
			}

			isNext := false
			for _, param := range segments[1:] {
				if strings.EqualFold(strings.ReplaceAll(strings.TrimSpace(param), " ", ""), `rel="next"`) {
					isNext = true
					break
				}
			}
			if !isNext {
				continue
			}

			target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
			u, err := url.Parse(target)
			if err != nil {
				continue
			}
			return u.Query().Get("page_token")
		}
	}

	return ""
}

func sessionToken(token *string) (string, error) {
	if token == nil || *token == "" {
		return "", fmt.Errorf("%w: no session token in response", domain.ErrIdentityProvider)
	}
	return *token, nil
}
