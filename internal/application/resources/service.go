package resources

import (
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	domain "github.com/bryanwahyu/debtguard/internal/domain/resources"
)

// Service implements the legal-resources screen. Pure client-side logic
// in the original: filter, group, add. No AI call.
type Service struct {
	Sessions *appsessions.Service
}

// List filters the session's catalog by the query and groups the matches
// by category. A zero-match query yields an empty group list.
func (s *Service) List(sid, query string) ([]domain.Group, int, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return nil, 0, err
	}
	matched := sess.FilterResources(query)
	return domain.GroupByCategory(matched), len(matched), nil
}

// Add appends a resource to the session's catalog.
func (s *Service) Add(sid string, r domain.Resource) error {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return err
	}
	return sess.AddResource(r)
}
