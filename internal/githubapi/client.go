package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

const (
	defaultAPIBaseURLConstant                = "https://api.github.com"
	defaultRequestTimeoutConstant            = 30 * time.Second
	authorizationHeaderNameConstant          = "Authorization"
	authorizationHeaderTemplateConstant      = "token %s"
	acceptHeaderNameConstant                 = "Accept"
	acceptHeaderValueConstant                = "application/vnd.github.v3+json"
	rateLimitRemainingHeaderNameConstant     = "X-RateLimit-Remaining"
	rateLimitExhaustedHeaderValueConstant    = "0"
	repositoryEndpointTemplateConstant       = "/repos/%s/%s"
	userRepositoriesEndpointConstant         = "/user/repos"
	organizationRepositoriesTemplateConstant = "/orgs/%s/repos"
	authenticatedUserEndpointConstant        = "/user"
	userOrganizationsEndpointConstant        = "/user/orgs"
	tokenRequiredMessageConstant             = "github token must be provided"
	ownerNameRequiredMessageConstant         = "owner name must be provided"
	repositoryNameRequiredMessageConstant    = "repository name must be provided"
	responseDecodeErrorTemplateConstant      = "unable to decode github response: %w"
)

// ClientConfiguration describes the inputs required to construct a Client.
type ClientConfiguration struct {
	Token          string
	APIBaseURL     string
	RequestTimeout time.Duration
}

// RepositoryHandle describes a repository resolved or created at the destination.
type RepositoryHandle struct {
	FullName string
	CloneURL string
}

// CreateRepositoryRequest describes the repository to create.
type CreateRepositoryRequest struct {
	Name        string
	Description string
	Private     bool
}

// InvalidInputError surfaces validation issues for client inputs.
type InvalidInputError struct {
	Message string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return inputError.Message
}

// Client issues GitHub REST v3 requests on behalf of the import pipeline.
// The configured token is attached to every request and never logged.
type Client struct {
	httpClient *req.Client
}

// NewClient constructs a Client from the provided configuration.
func NewClient(configuration ClientConfiguration) (*Client, error) {
	trimmedToken := strings.TrimSpace(configuration.Token)
	if len(trimmedToken) == 0 {
		return nil, InvalidInputError{Message: tokenRequiredMessageConstant}
	}

	apiBaseURL := strings.TrimRight(strings.TrimSpace(configuration.APIBaseURL), "/")
	if len(apiBaseURL) == 0 {
		apiBaseURL = defaultAPIBaseURLConstant
	}

	requestTimeout := configuration.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeoutConstant
	}

	httpClient := req.C().
		SetBaseURL(apiBaseURL).
		SetTimeout(requestTimeout).
		SetCommonHeader(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, trimmedToken)).
		SetCommonHeader(acceptHeaderNameConstant, acceptHeaderValueConstant)

	return &Client{httpClient: httpClient}, nil
}

// RepositoryExists reports whether the repository is already present under the target namespace.
func (client *Client) RepositoryExists(executionContext context.Context, target ImportTarget, repositoryName string) (bool, error) {
	trimmedOwnerName := strings.TrimSpace(target.OwnerName)
	if len(trimmedOwnerName) == 0 {
		return false, InvalidInputError{Message: ownerNameRequiredMessageConstant}
	}
	trimmedRepositoryName := strings.TrimSpace(repositoryName)
	if len(trimmedRepositoryName) == 0 {
		return false, InvalidInputError{Message: repositoryNameRequiredMessageConstant}
	}

	endpoint := fmt.Sprintf(repositoryEndpointTemplateConstant, trimmedOwnerName, trimmedRepositoryName)
	response, requestError := client.httpClient.R().SetContext(executionContext).Get(endpoint)
	if requestError != nil {
		return false, NetworkError{Cause: requestError}
	}

	switch response.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, client.classifyFailure(response)
	}
}

// CreateRepository creates an empty repository under the target namespace.
func (client *Client) CreateRepository(executionContext context.Context, target ImportTarget, request CreateRepositoryRequest) (RepositoryHandle, error) {
	trimmedRepositoryName := strings.TrimSpace(request.Name)
	if len(trimmedRepositoryName) == 0 {
		return RepositoryHandle{}, InvalidInputError{Message: repositoryNameRequiredMessageConstant}
	}

	endpoint := userRepositoriesEndpointConstant
	if target.Kind == OrganizationOwnerKind {
		trimmedOwnerName := strings.TrimSpace(target.OwnerName)
		if len(trimmedOwnerName) == 0 {
			return RepositoryHandle{}, InvalidInputError{Message: ownerNameRequiredMessageConstant}
		}
		endpoint = fmt.Sprintf(organizationRepositoriesTemplateConstant, trimmedOwnerName)
	}

	payload := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Private     bool   `json:"private"`
		AutoInit    bool   `json:"auto_init"`
	}{
		Name:        trimmedRepositoryName,
		Description: request.Description,
		Private:     request.Private,
		AutoInit:    false,
	}

	response, requestError := client.httpClient.R().SetContext(executionContext).SetBody(&payload).Post(endpoint)
	if requestError != nil {
		return RepositoryHandle{}, NetworkError{Cause: requestError}
	}

	switch response.StatusCode {
	case http.StatusCreated:
		var created struct {
			FullName string `json:"full_name"`
			CloneURL string `json:"clone_url"`
		}
		if decodeError := response.UnmarshalJson(&created); decodeError != nil {
			return RepositoryHandle{}, fmt.Errorf(responseDecodeErrorTemplateConstant, decodeError)
		}
		return RepositoryHandle{FullName: created.FullName, CloneURL: created.CloneURL}, nil
	case http.StatusUnprocessableEntity:
		return RepositoryHandle{}, ConflictError{RepositoryName: trimmedRepositoryName}
	default:
		return RepositoryHandle{}, client.classifyFailure(response)
	}
}

// AuthenticatedLogin resolves the login of the account owning the configured token.
func (client *Client) AuthenticatedLogin(executionContext context.Context) (string, error) {
	response, requestError := client.httpClient.R().SetContext(executionContext).Get(authenticatedUserEndpointConstant)
	if requestError != nil {
		return "", NetworkError{Cause: requestError}
	}

	if response.StatusCode != http.StatusOK {
		return "", client.classifyFailure(response)
	}

	var account struct {
		Login string `json:"login"`
	}
	if decodeError := response.UnmarshalJson(&account); decodeError != nil {
		return "", fmt.Errorf(responseDecodeErrorTemplateConstant, decodeError)
	}

	return account.Login, nil
}

// ListOrganizationLogins enumerates organizations visible to the configured token.
func (client *Client) ListOrganizationLogins(executionContext context.Context) ([]string, error) {
	response, requestError := client.httpClient.R().SetContext(executionContext).Get(userOrganizationsEndpointConstant)
	if requestError != nil {
		return nil, NetworkError{Cause: requestError}
	}

	if response.StatusCode != http.StatusOK {
		return nil, client.classifyFailure(response)
	}

	var organizations []struct {
		Login string `json:"login"`
	}
	if decodeError := response.UnmarshalJson(&organizations); decodeError != nil {
		return nil, fmt.Errorf(responseDecodeErrorTemplateConstant, decodeError)
	}

	organizationLogins := make([]string, 0, len(organizations))
	for _, organization := range organizations {
		organizationLogins = append(organizationLogins, organization.Login)
	}

	return organizationLogins, nil
}

func (client *Client) classifyFailure(response *req.Response) error {
	switch response.StatusCode {
	case http.StatusUnauthorized:
		return AuthenticationError{StatusCode: response.StatusCode}
	case http.StatusTooManyRequests:
		return RateLimitError{StatusCode: response.StatusCode}
	case http.StatusForbidden:
		if response.Header.Get(rateLimitRemainingHeaderNameConstant) == rateLimitExhaustedHeaderValueConstant {
			return RateLimitError{StatusCode: response.StatusCode}
		}
		return AuthenticationError{StatusCode: response.StatusCode}
	default:
		return UnexpectedStatusError{StatusCode: response.StatusCode, ResponseBody: response.String()}
	}
}
