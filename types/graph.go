package types

import "fmt"

type ResourceGraphQueryScope string

const (
	ResourceGraphQueryScopeSubscription    ResourceGraphQueryScope = "Subscription"
	ResourceGraphQueryScopeManagementGroup ResourceGraphQueryScope = "ManagementGroup"
)

func (scope ResourceGraphQueryScope) IsValidResourceGraphQueryScope() bool {
	switch scope {
	case ResourceGraphQueryScopeSubscription,
		ResourceGraphQueryScopeManagementGroup:
		return true
	default:
		return false
	}
}

// ResourceGraphQuery is a named KQL query run against every subscription or management group in scope.
// The query must project at least id, name, type and location.
type ResourceGraphQuery struct {
	Name  string                  `mapstructure:"name"`
	Scope ResourceGraphQueryScope `mapstructure:"scope"`
	Query string                  `mapstructure:"query"`
}

func (query ResourceGraphQuery) Validate() error {
	if query.Query == "" {
		return fmt.Errorf("resource graph query %q has no query text", query.Name)
	}
	if !query.Scope.IsValidResourceGraphQueryScope() {
		return fmt.Errorf("resource graph query %q has invalid scope %q", query.Name, query.Scope)
	}
	return nil
}
