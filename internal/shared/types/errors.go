package types

import "errors"

var (
	ErrAuthentication      = errors.New("platform authentication failed")
	ErrMissingToken        = errors.New("no API token configured. Set FINOPS_API_TOKEN")
	ErrMissingOrganization = errors.New("no organization configured. Use --org or FINOPS_ORG")
	ErrInvalidWorkers      = errors.New("workers must be at least 1")
	ErrInvalidScope        = errors.New("scope must be 'unique' or 'total'")
)
