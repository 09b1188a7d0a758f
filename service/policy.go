package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"nyaalaya-backend/models"
)

// DefaultPolicyTopK is the number of policy documents retrieved per query
const DefaultPolicyTopK = 3

// PolicyService retrieves the policy documents most relevant to a planning
// query. Retrieval is strictly best-effort: any embedding or search failure
// degrades to an empty context and never blocks a planning run.
type PolicyService struct {
	embedder Embedder
	store    PolicySearcher
	topK     int
}

// PolicyServiceOption is a functional option for PolicyService
type PolicyServiceOption func(*PolicyService)

// PolicyWithTopK overrides the number of documents retrieved
func PolicyWithTopK(k int) PolicyServiceOption {
	return func(s *PolicyService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewPolicyService creates a policy retrieval service. Either collaborator
// may be nil, in which case retrieval always returns an empty context.
func NewPolicyService(embedder Embedder, store PolicySearcher, opts ...PolicyServiceOption) *PolicyService {
	s := &PolicyService{embedder: embedder, store: store, topK: DefaultPolicyTopK}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve embeds the query and returns the top-K nearest policies. Failures
// are logged and reported as no documents.
func (s *PolicyService) Retrieve(ctx context.Context, query string) []*models.Policy {
	if s.embedder == nil || s.store == nil {
		return nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("policy query embedding failed: %v. Proceeding without policy context.", err)
		return nil
	}

	policies, err := s.store.Search(ctx, embedding, s.topK)
	if err != nil {
		log.Printf("policy search failed: %v. Proceeding without policy context.", err)
		return nil
	}

	return policies
}

// FormatPolicies renders retrieved policies as a prompt section
func FormatPolicies(policies []*models.Policy) string {
	if len(policies) == 0 {
		return "No scheduling policies available."
	}

	var b strings.Builder
	for i, p := range policies {
		fmt.Fprintf(&b, "[Policy %d] %s\n%s\n", i+1, p.Title, strings.TrimSpace(p.Content))
	}
	return strings.TrimSpace(b.String())
}
